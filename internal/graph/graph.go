// Package graph builds the candidate relationship graph of a picker session:
// for every candidate, the ids of the directly related candidates of every
// other kind. The resulting Table is built once per session and never
// modified afterwards.
package graph

import (
	"github.com/papapumpkin/pickgraph/internal/candidate"
	"github.com/papapumpkin/pickgraph/internal/catalog"
)

// Relations holds the ids of the candidates directly related to one
// candidate, grouped by kind. Slices are deduplicated and keep candidate-set
// order; every id resolves against the session's candidate set.
type Relations struct {
	Topics          []string
	Pipelines       []string
	Spaces          []string
	ConnectedSpaces []string
	Subjects        []string
	Indicators      []string
}

// Of returns the related ids of kind.
func (r *Relations) Of(kind catalog.Kind) []string {
	if r == nil {
		return nil
	}
	switch kind {
	case catalog.KindTopic:
		return r.Topics
	case catalog.KindPipeline:
		return r.Pipelines
	case catalog.KindSpace:
		return r.Spaces
	case catalog.KindConnectedSpace:
		return r.ConnectedSpaces
	case catalog.KindSubject:
		return r.Subjects
	case catalog.KindIndicator:
		return r.Indicators
	default:
		return nil
	}
}

// Refs returns the related ids of kind as refs.
func (r *Relations) Refs(kind catalog.Kind) []candidate.Ref {
	ids := r.Of(kind)
	out := make([]candidate.Ref, len(ids))
	for i, id := range ids {
		out[i] = candidate.Ref{Kind: kind, ID: id}
	}
	return out
}

// Len returns the total number of related ids across kinds.
func (r *Relations) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Topics) + len(r.Pipelines) + len(r.Spaces) +
		len(r.ConnectedSpaces) + len(r.Subjects) + len(r.Indicators)
}

// Table is the relations table: per kind, candidate id → Relations.
type Table struct {
	rows [catalog.NumKinds]map[string]*Relations
}

var empty = &Relations{}

// Of returns the relations of ref. Unknown refs get an empty, non-nil
// Relations that must not be modified.
func (t *Table) Of(ref candidate.Ref) *Relations {
	if t == nil || !ref.Kind.Valid() {
		return empty
	}
	if r, ok := t.rows[ref.Kind][ref.ID]; ok {
		return r
	}
	return empty
}

// Has reports whether ref has a row in the table, i.e. whether it is a
// candidate of the session the table was built for.
func (t *Table) Has(ref candidate.Ref) bool {
	if t == nil || !ref.Kind.Valid() {
		return false
	}
	_, ok := t.rows[ref.Kind][ref.ID]
	return ok
}

// Related returns the ids of kind directly related to ref.
func (t *Table) Related(ref candidate.Ref, kind catalog.Kind) []string {
	return t.Of(ref).Of(kind)
}

// Stats summarises the size of a table.
type Stats struct {
	Nodes int
	Edges int
}

// Stats counts rows and relation entries. Each relation entry counts as one
// directed edge.
func (t *Table) Stats() Stats {
	var s Stats
	for _, rows := range t.rows {
		s.Nodes += len(rows)
		for _, r := range rows {
			s.Edges += r.Len()
		}
	}
	return s
}

// ids is an insertion-ordered id set.
type ids struct {
	order []string
	seen  map[string]bool
}

func (s *ids) add(id ...string) {
	for _, v := range id {
		if s.seen == nil {
			s.seen = make(map[string]bool)
		}
		if v == "" || s.seen[v] {
			continue
		}
		s.seen[v] = true
		s.order = append(s.order, v)
	}
}

func (s *ids) list() []string {
	return s.order
}
