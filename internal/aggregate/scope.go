// Package aggregate folds classified procurement records into running,
// deduplicated totals. A Scope is one accumulation window (a state-year
// batch or the whole multi-year run); every fold may touch several scopes,
// passed explicitly by the caller.
package aggregate

import (
	"awardstats/internal/core"
)

// Scope accumulates, per category, the set of distinct recipient names seen
// and the running sum of obligations. A recipient is counted at most once
// per scope per category no matter how many lines it appears on; its
// obligations accumulate on every line. Scopes do not share dedup state.
//
// Not safe for concurrent mutation; folds must be serialized by the caller.
type Scope struct {
	label string
	names map[core.Category]map[string]struct{}
	sums  map[core.Category]int64
}

// Totals is a pure snapshot of a scope. Emitting the same scope twice
// yields identical Totals.
type Totals struct {
	Label       string
	Recipients  map[core.Category]int
	Obligations map[core.Category]int64
}

func NewScope(label string) *Scope {
	return &Scope{
		label: label,
		names: make(map[core.Category]map[string]struct{}),
		sums:  make(map[core.Category]int64),
	}
}

func (s *Scope) Label() string { return s.label }

// Fold adds one classified record to every given scope: the unconditional
// AllRecipients tally first, then each category the record belongs to.
func Fold(rec core.ClassifiedRecord, scopes ...*Scope) {
	for _, sc := range scopes {
		sc.credit(core.AllRecipients, rec.Recipient, rec.Obligation)
		for cat := range rec.Categories {
			sc.credit(cat, rec.Recipient, rec.Obligation)
		}
	}
}

func (s *Scope) credit(cat core.Category, name string, amount int64) {
	set, ok := s.names[cat]
	if !ok {
		set = make(map[string]struct{})
		s.names[cat] = set
	}
	set[name] = struct{}{}
	s.sums[cat] += amount
}

// Merge folds another scope's accumulated state into s: name sets union,
// sums add. Used to combine per-worker accumulators after parallel fetches.
func (s *Scope) Merge(other *Scope) {
	for cat, names := range other.names {
		set, ok := s.names[cat]
		if !ok {
			set = make(map[string]struct{}, len(names))
			s.names[cat] = set
		}
		for name := range names {
			set[name] = struct{}{}
		}
	}
	for cat, sum := range other.sums {
		s.sums[cat] += sum
	}
}

// Totals closes out the scope into an immutable snapshot. The scope itself
// is left untouched and may keep accumulating.
func (s *Scope) Totals() Totals {
	t := Totals{
		Label:       s.label,
		Recipients:  make(map[core.Category]int, len(s.names)),
		Obligations: make(map[core.Category]int64, len(s.sums)),
	}
	for cat, names := range s.names {
		t.Recipients[cat] = len(names)
	}
	for cat, sum := range s.sums {
		t.Obligations[cat] = sum
	}
	return t
}
