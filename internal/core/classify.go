package core

import (
	"strings"
	"sync"

	"github.com/cloudflare/ahocorasick"
)

// Indicator phrases the classifier looks for. Matching is case-sensitive:
// the export renders these with consistent casing upstream. The matcher is
// built once over the whole list; rule logic consults the hit set so the
// exclusion rules stay explicit.
const (
	patSmallBusiness = iota
	patSmallDisadvantaged
	patOtherThanSmall
	patWomanOwned
	patWomenOwned
	patMinorityOwned
	patEducational
	patState
	patHistoricallyBlack
	patNonprofitOrg
	patUniversity
	patGrantForResearch
	patCount
)

var indicatorPatterns = [patCount]string{
	patSmallBusiness:      "Small Business",
	patSmallDisadvantaged: "Small Disadvantaged Business",
	patOtherThanSmall:     "Other Than Small Business",
	patWomanOwned:         "Woman Owned",
	patWomenOwned:         "Women Owned",
	patMinorityOwned:      "Minority Owned",
	patEducational:        "Educational",
	patState:              "State",
	patHistoricallyBlack:  "Historically Black",
	patNonprofitOrg:       "Nonprofit Organization",
	patUniversity:         "University",
	patGrantForResearch:   "Grant For Research",
}

// Classifier derives category memberships from the indicator text of a
// record. Safe for concurrent use: the matcher mutates internal node state
// during Match, so matching is serialized behind a mutex.
type Classifier struct {
	mu      sync.Mutex
	matcher *ahocorasick.Matcher
}

func NewClassifier() *Classifier {
	return &Classifier{
		matcher: ahocorasick.NewStringMatcher(indicatorPatterns[:]),
	}
}

// Classify returns the set of categories a record belongs to.
//
// blob is the concatenated award-type and indicator fields; recipient and
// stateName feed the public-university name heuristics, which compare
// case-insensitively against the state's full name. All rules are
// independent substring tests except where one vetoes another:
//
//   - SmallBusiness loses to "Other Than Small Business".
//   - StateUniversity and HBCU require Educational.
//   - NonProfit is vetoed by "University" or "State" in the blob.
func (c *Classifier) Classify(blob, recipient, stateName string) CategorySet {
	c.mu.Lock()
	matched := c.matcher.Match([]byte(blob))
	c.mu.Unlock()

	var hits [patCount]bool
	for _, i := range matched {
		hits[i] = true
	}

	set := make(CategorySet)

	if (hits[patSmallBusiness] || hits[patSmallDisadvantaged]) && !hits[patOtherThanSmall] {
		set.Add(SmallBusiness)
	}
	if hits[patWomanOwned] || hits[patWomenOwned] {
		set.Add(WomanOwned)
	}
	if hits[patMinorityOwned] {
		set.Add(MinorityOwned)
	}
	if hits[patEducational] {
		set.Add(Educational)
		if hits[patState] || isStateSchoolName(recipient, stateName) {
			set.Add(StateUniversity)
		}
		if hits[patHistoricallyBlack] {
			set.Add(HBCU)
		}
	}
	if hits[patNonprofitOrg] && !hits[patUniversity] && !hits[patState] {
		set.Add(NonProfit)
	}
	if hits[patGrantForResearch] {
		set.Add(Grant)
	}

	return set
}

// isStateSchoolName reports whether the recipient name looks like a public
// university of the given state ("UNIVERSITY OF MONTANA", "MONTANA STATE",
// "UNIV MONTANA"). Conservative on purpose: a name that merely contains
// "UNIV" does not qualify without the state name alongside it.
func isStateSchoolName(recipient, stateName string) bool {
	if stateName == "" {
		return false
	}
	name := strings.ToUpper(recipient)
	state := strings.ToUpper(stateName)
	return strings.Contains(name, "UNIVERSITY OF "+state) ||
		strings.Contains(name, state+" STATE") ||
		strings.Contains(name, "UNIV "+state)
}
