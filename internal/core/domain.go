package core

import (
	"errors"
	"fmt"
)

// Recipient categories. A record may carry several at once; AllRecipients is
// the pseudo-category every record is counted under.
const (
	AllRecipients   Category = "all_recipients"
	SmallBusiness   Category = "small_business"
	WomanOwned      Category = "woman_owned"
	MinorityOwned   Category = "minority_owned"
	Educational     Category = "educational"
	StateUniversity Category = "state_university"
	HBCU            Category = "hbcu"
	NonProfit       Category = "non_profit"
	Grant           Category = "grant"
)

type (
	Category string

	// CategorySet holds the category memberships of one classified record.
	CategorySet map[Category]struct{}

	// RawRecord is one tab-separated line of an export, positionally
	// addressed. Field layout follows the NPDV "Export to Excel" format.
	RawRecord struct {
		Fields []string
	}

	// ClassifiedRecord is the parsed and classified form of a RawRecord.
	// Immutable once produced.
	ClassifiedRecord struct {
		Recipient  string
		District   string
		Obligation int64
		Categories CategorySet
	}
)

// Positions of the export fields this system reads.
const (
	FieldRecipient   = 0
	FieldAwardNumber = 1
	FieldPlace       = 3
	FieldAwardType   = 6
	FieldIndicators  = 7
	FieldObligation  = 8
	FieldDescription = 14
)

var (
	ErrInvalidAmount = errors.New("invalid obligation amount")
	ErrShortRecord   = errors.New("record has too few fields")
)

// ParseError marks a line of a state/fiscal-year batch that could not be
// parsed. It aborts the batch: a malformed amount must never be coerced to
// zero and folded silently.
type ParseError struct {
	State      string
	FiscalYear int
	Line       int
	Err        error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s FY%d line %d: %v", e.State, e.FiscalYear, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func NewCategorySet(cats ...Category) CategorySet {
	s := make(CategorySet, len(cats))
	for _, c := range cats {
		s[c] = struct{}{}
	}
	return s
}

func (s CategorySet) Add(c Category) { s[c] = struct{}{} }

func (s CategorySet) Has(c Category) bool {
	_, ok := s[c]
	return ok
}

// Recipient returns the contractor name field, or "" on a short record.
func (r RawRecord) Recipient() string { return r.field(FieldRecipient) }

// Place returns the place-of-performance field, or "" on a short record.
func (r RawRecord) Place() string { return r.field(FieldPlace) }

// IndicatorBlob concatenates the award-type and contractor-type indicator
// fields into the single text the classifier matches against.
func (r RawRecord) IndicatorBlob() string {
	return r.field(FieldAwardType) + " " + r.field(FieldIndicators)
}

// ObligationToken returns the raw obligation amount field.
// Returns ErrShortRecord when the line has no such column.
func (r RawRecord) ObligationToken() (string, error) {
	if len(r.Fields) <= FieldObligation {
		return "", ErrShortRecord
	}
	return r.Fields[FieldObligation], nil
}

func (r RawRecord) field(i int) string {
	if i < len(r.Fields) {
		return r.Fields[i]
	}
	return ""
}
