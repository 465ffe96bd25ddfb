package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"awardstats/internal/core"
)

var titleCaser = cases.Title(language.AmericanEnglish)

// quotedFields are the export columns that sometimes arrive wrapped in an
// extra pair of double quotes: contractor, place of performance, the two
// indicator fields, both money columns, the solicitation POC and the
// description.
var quotedFields = []int{0, 3, 6, 7, 8, 9, 13, 14}

// SanitizeRow applies the export row fixes in place:
//
//   - swap the award-type and contractor-type indicator columns, which the
//     export emits in the reverse of the documented order;
//   - strip surrounding quotes from the fields that carry them;
//   - title-case the contractor name;
//   - sentence-case and renormalize the description.
func SanitizeRow(fields []string, n *Normalizer) {
	if len(fields) > core.FieldIndicators {
		fields[core.FieldAwardType], fields[core.FieldIndicators] =
			fields[core.FieldIndicators], fields[core.FieldAwardType]
	}

	for _, i := range quotedFields {
		if i < len(fields) {
			fields[i] = strings.Trim(fields[i], `"`)
		}
	}

	if len(fields) > core.FieldRecipient {
		fields[core.FieldRecipient] = titleCaser.String(fields[core.FieldRecipient])
	}

	if n != nil && len(fields) > core.FieldDescription {
		fields[core.FieldDescription] = n.Normalize(fields[core.FieldDescription])
	}
}
