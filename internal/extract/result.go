// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"github.com/pdiddy/craftgraph/pkg/types"
)

// ResultSet collects the transformations of one extraction run and drops
// candidates whose signature was already emitted. A ResultSet belongs to a
// single run and is not safe for concurrent use.
type ResultSet struct {
	seen       map[string]struct{}
	out        []types.Transformation
	duplicates int
}

// NewResultSet returns an empty set.
func NewResultSet() *ResultSet {
	return &ResultSet{seen: make(map[string]struct{})}
}

// Emit appends t unless an equal transformation is already present. It
// reports whether t was added.
func (s *ResultSet) Emit(t types.Transformation) bool {
	sig := t.Signature()
	if _, dup := s.seen[sig]; dup {
		s.duplicates++
		return false
	}
	s.seen[sig] = struct{}{}
	s.out = append(s.out, t)
	return true
}

// EmitAll emits each transformation in order and returns how many were added.
func (s *ResultSet) EmitAll(ts []types.Transformation) int {
	added := 0
	for _, t := range ts {
		if s.Emit(t) {
			added++
		}
	}
	return added
}

// Transformations returns the emitted transformations in emission order.
func (s *ResultSet) Transformations() []types.Transformation {
	return s.out
}

// Len returns the number of emitted transformations.
func (s *ResultSet) Len() int { return len(s.out) }

// Duplicates returns the number of suppressed candidates.
func (s *ResultSet) Duplicates() int { return s.duplicates }
