// Package search filters talent and project collections by independent
// facets. Facets combine with AND; a facet with an empty selection does not
// constrain the result. Filtering keeps the source order and never ranks.
package search

import "collabhub/internal/common"

type Mode int

const (
	// MatchAny passes a record when one of its values is among the selected ones.
	MatchAny Mode = iota
	// MatchAll passes a record only when every selected value is among its values.
	MatchAll
)

type Facet[T any] struct {
	Name     string
	Selected []string
	Values   func(T) []string
	Mode     Mode
	// Key normalises both sides before comparison. Defaults to common.FoldKey.
	Key func(string) string
}

func (f Facet[T]) active() bool {
	for _, value := range f.Selected {
		if f.key(value) != "" {
			return true
		}
	}
	return false
}

func (f Facet[T]) key(value string) string {
	if f.Key != nil {
		return f.Key(value)
	}
	return common.FoldKey(value)
}

// Match reports whether record satisfies the facet.
func (f Facet[T]) Match(record T) bool {
	if !f.active() {
		return true
	}
	have := make(map[string]struct{})
	for _, value := range f.Values(record) {
		if k := f.key(value); k != "" {
			have[k] = struct{}{}
		}
	}
	switch f.Mode {
	case MatchAll:
		for _, selected := range f.Selected {
			k := f.key(selected)
			if k == "" {
				continue
			}
			if _, ok := have[k]; !ok {
				return false
			}
		}
		return true
	default:
		for _, selected := range f.Selected {
			if _, ok := have[f.key(selected)]; ok {
				return true
			}
		}
		return false
	}
}

// Filter returns the records that satisfy every facet, in source order.
func Filter[T any](records []T, facets ...Facet[T]) []T {
	active := make([]Facet[T], 0, len(facets))
	for _, facet := range facets {
		if facet.active() {
			active = append(active, facet)
		}
	}
	out := make([]T, 0, len(records))
	for _, record := range records {
		if matchesAll(record, active) {
			out = append(out, record)
		}
	}
	return out
}

func matchesAll[T any](record T, facets []Facet[T]) bool {
	for _, facet := range facets {
		if !facet.Match(record) {
			return false
		}
	}
	return true
}
