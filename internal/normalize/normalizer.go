// Package normalize cleans up export rows before they are written: column
// fixes, quote stripping, recipient title-casing and description
// sentence-casing with acronym renormalization.
package normalize

import (
	"encoding/csv"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"
)

// Normalizer re-capitalizes known acronyms and program names inside
// free-text descriptions, after sentence-casing the text. The reference
// mapping comes from an optional CSV file with "Acronym" and "Definition"
// columns; without one the normalizer only sentence-cases.
type Normalizer struct {
	mapping map[string]string
	pattern *regexp.Regexp
}

// NewNormalizer loads the reference CSV at path. An empty path yields a
// sentence-case-only normalizer.
func NewNormalizer(path string) (*Normalizer, error) {
	n := &Normalizer{mapping: make(map[string]string)}
	if path == "" {
		return n, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open acronym reference: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read acronym reference: %w", err)
	}
	if len(records) == 0 {
		return n, nil
	}

	acronymCol, definitionCol := -1, -1
	for i, h := range records[0] {
		switch strings.TrimSpace(h) {
		case "Acronym":
			acronymCol = i
		case "Definition":
			definitionCol = i
		}
	}

	for _, rec := range records[1:] {
		if acronymCol >= 0 && acronymCol < len(rec) {
			if a := strings.TrimSpace(rec[acronymCol]); a != "" {
				n.mapping[strings.ToLower(a)] = strings.ToUpper(a)
			}
		}
		if definitionCol >= 0 && definitionCol < len(rec) {
			if d := strings.TrimSpace(rec[definitionCol]); d != "" {
				n.mapping[strings.ToLower(d)] = d
			}
		}
	}

	n.pattern = compilePattern(n.mapping)
	return n, nil
}

// compilePattern builds one alternation over every known phrase, longest
// first so multi-word definitions win over acronyms embedded in them.
func compilePattern(mapping map[string]string) *regexp.Regexp {
	if len(mapping) == 0 {
		return nil
	}
	keys := make([]string, 0, len(mapping))
	for k := range mapping {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return len(keys[i]) > len(keys[j]) })

	quoted := make([]string, len(keys))
	for i, k := range keys {
		quoted[i] = regexp.QuoteMeta(k)
	}
	return regexp.MustCompile(`(?i)\b(` + strings.Join(quoted, "|") + `)\b`)
}

// Normalize sentence-cases text and restores the proper capitalization of
// any recognized acronym or program name.
func (n *Normalizer) Normalize(text string) string {
	text = sentenceCase(text)
	if n.pattern == nil {
		return text
	}
	return n.pattern.ReplaceAllStringFunc(text, func(m string) string {
		if fixed, ok := n.mapping[strings.ToLower(m)]; ok {
			return fixed
		}
		return m
	})
}

// abbreviationFixes restores casing the blanket lowercasing of
// sentenceCase destroys.
var abbreviationFixes = func() map[string]string {
	fixes := map[string]string{
		"u.s.": "U.S.",
		"ii":   "II",
		"iii":  "III",
	}
	for fy := 2005; fy <= time.Now().Year(); fy++ {
		short := fmt.Sprintf("%02d", fy%100)
		fixes["fy"+short] = "FY" + short
	}
	return fixes
}()

// "u.s." carries no trailing word boundary: the final dot is followed by a
// space in running text.
var abbreviationPattern = regexp.MustCompile(`(?i)\b(u\.s\.|iii\b|ii\b|fy\d{2}\b)`)

func sentenceCase(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return text
	}
	lower := strings.ToLower(text)
	cased := strings.ToUpper(lower[:1]) + lower[1:]
	return abbreviationPattern.ReplaceAllStringFunc(cased, func(m string) string {
		if fixed, ok := abbreviationFixes[strings.ToLower(m)]; ok {
			return fixed
		}
		return m
	})
}
