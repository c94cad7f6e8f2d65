// Package candidate models the entities offered by a picker session. Each
// entity is addressed by a Ref (kind + id); whether it is picked lives in a
// separate State value rather than on the entity itself.
package candidate

import (
	"fmt"

	"github.com/papapumpkin/pickgraph/internal/catalog"
)

// Ref addresses one candidate.
type Ref struct {
	Kind catalog.Kind
	ID   string
}

// String renders the ref as "kind:id".
func (r Ref) String() string {
	return fmt.Sprintf("%s:%s", r.Kind, r.ID)
}

// Topic, Pipeline, Space, ConnectedSpace, Subject and Indicator build refs
// of the corresponding kind.
func Topic(id string) Ref          { return Ref{Kind: catalog.KindTopic, ID: id} }
func Pipeline(id string) Ref       { return Ref{Kind: catalog.KindPipeline, ID: id} }
func Space(id string) Ref          { return Ref{Kind: catalog.KindSpace, ID: id} }
func ConnectedSpace(id string) Ref { return Ref{Kind: catalog.KindConnectedSpace, ID: id} }
func Subject(id string) Ref        { return Ref{Kind: catalog.KindSubject, ID: id} }
func Indicator(id string) Ref      { return Ref{Kind: catalog.KindIndicator, ID: id} }

// Set holds every candidate of one session: the raw entities per kind in
// input order plus an id index. Subjects are lifted out of their connected
// spaces, one candidate per subject id. A Set is immutable once built.
type Set struct {
	Topics          []catalog.Topic
	Pipelines       []catalog.Pipeline
	Spaces          []catalog.Space
	ConnectedSpaces []catalog.ConnectedSpace
	Subjects        []catalog.Subject
	Indicators      []catalog.Indicator

	index [catalog.NumKinds]map[string]int
}

// NewSet wraps every entity of c in a candidate. Duplicate ids within a kind
// keep the first occurrence.
func NewSet(c *catalog.Catalog) *Set {
	s := &Set{}
	for i := range s.index {
		s.index[i] = make(map[string]int)
	}
	if c == nil {
		return s
	}
	for _, t := range c.Topics {
		if s.add(catalog.KindTopic, t.ID, len(s.Topics)) {
			s.Topics = append(s.Topics, t)
		}
	}
	for _, p := range c.Pipelines {
		if s.add(catalog.KindPipeline, p.ID, len(s.Pipelines)) {
			s.Pipelines = append(s.Pipelines, p)
		}
	}
	for _, sp := range c.Spaces {
		if s.add(catalog.KindSpace, sp.ID, len(s.Spaces)) {
			s.Spaces = append(s.Spaces, sp)
		}
	}
	for _, cs := range c.ConnectedSpaces {
		if s.add(catalog.KindConnectedSpace, cs.ID, len(s.ConnectedSpaces)) {
			s.ConnectedSpaces = append(s.ConnectedSpaces, cs)
		}
	}
	for _, cs := range s.ConnectedSpaces {
		for _, sub := range cs.Subjects {
			if s.add(catalog.KindSubject, sub.ID, len(s.Subjects)) {
				s.Subjects = append(s.Subjects, sub)
			}
		}
	}
	for _, ind := range c.Indicators {
		if s.add(catalog.KindIndicator, ind.ID, len(s.Indicators)) {
			s.Indicators = append(s.Indicators, ind)
		}
	}
	return s
}

// NewTopicSet builds a set holding only the topics and pipelines of c, the
// scope used by topic/pipeline pickers.
func NewTopicSet(c *catalog.Catalog) *Set {
	if c == nil {
		return NewSet(nil)
	}
	return NewSet(&catalog.Catalog{Topics: c.Topics, Pipelines: c.Pipelines})
}

func (s *Set) add(kind catalog.Kind, id string, pos int) bool {
	if id == "" {
		return false
	}
	if _, dup := s.index[kind][id]; dup {
		return false
	}
	s.index[kind][id] = pos
	return true
}

// Has reports whether ref is a candidate of this set.
func (s *Set) Has(ref Ref) bool {
	if !ref.Kind.Valid() {
		return false
	}
	_, ok := s.index[ref.Kind][ref.ID]
	return ok
}

// Position returns the input position of ref within its kind.
func (s *Set) Position(ref Ref) (int, bool) {
	if !ref.Kind.Valid() {
		return 0, false
	}
	pos, ok := s.index[ref.Kind][ref.ID]
	return pos, ok
}

// Len returns the number of candidates of kind.
func (s *Set) Len(kind catalog.Kind) int {
	if !kind.Valid() {
		return 0
	}
	return len(s.index[kind])
}

// Total returns the number of candidates across all kinds.
func (s *Set) Total() int {
	n := 0
	for _, k := range catalog.AllKinds() {
		n += s.Len(k)
	}
	return n
}

// Refs returns every ref of kind in input order.
func (s *Set) Refs(kind catalog.Kind) []Ref {
	out := make([]Ref, 0, s.Len(kind))
	switch kind {
	case catalog.KindTopic:
		for _, t := range s.Topics {
			out = append(out, Topic(t.ID))
		}
	case catalog.KindPipeline:
		for _, p := range s.Pipelines {
			out = append(out, Pipeline(p.ID))
		}
	case catalog.KindSpace:
		for _, sp := range s.Spaces {
			out = append(out, Space(sp.ID))
		}
	case catalog.KindConnectedSpace:
		for _, cs := range s.ConnectedSpaces {
			out = append(out, ConnectedSpace(cs.ID))
		}
	case catalog.KindSubject:
		for _, sub := range s.Subjects {
			out = append(out, Subject(sub.ID))
		}
	case catalog.KindIndicator:
		for _, ind := range s.Indicators {
			out = append(out, Indicator(ind.ID))
		}
	}
	return out
}

// All returns every ref, kinds in AllKinds order.
func (s *Set) All() []Ref {
	out := make([]Ref, 0, s.Total())
	for _, k := range catalog.AllKinds() {
		out = append(out, s.Refs(k)...)
	}
	return out
}

// Name returns the display name of ref, falling back to its id when the
// entity has no name. Unknown refs return their id.
func (s *Set) Name(ref Ref) string {
	pos, ok := s.Position(ref)
	if !ok {
		return ref.ID
	}
	var name string
	switch ref.Kind {
	case catalog.KindTopic:
		name = s.Topics[pos].Name
	case catalog.KindPipeline:
		name = s.Pipelines[pos].Name
	case catalog.KindSpace:
		name = s.Spaces[pos].Name
	case catalog.KindConnectedSpace:
		name = s.ConnectedSpaces[pos].Name
	case catalog.KindSubject:
		name = s.Subjects[pos].Name
	case catalog.KindIndicator:
		name = s.Indicators[pos].Name
	}
	if name == "" {
		return ref.ID
	}
	return name
}

// Pipeline returns the pipeline entity for id.
func (s *Set) Pipeline(id string) (catalog.Pipeline, bool) {
	pos, ok := s.Position(Pipeline(id))
	if !ok {
		return catalog.Pipeline{}, false
	}
	return s.Pipelines[pos], true
}

// Space returns the space entity for id.
func (s *Set) Space(id string) (catalog.Space, bool) {
	pos, ok := s.Position(Space(id))
	if !ok {
		return catalog.Space{}, false
	}
	return s.Spaces[pos], true
}

// ConnectedSpace returns the connected space entity for id.
func (s *Set) ConnectedSpace(id string) (catalog.ConnectedSpace, bool) {
	pos, ok := s.Position(ConnectedSpace(id))
	if !ok {
		return catalog.ConnectedSpace{}, false
	}
	return s.ConnectedSpaces[pos], true
}

// Indicator returns the indicator entity for id.
func (s *Set) Indicator(id string) (catalog.Indicator, bool) {
	pos, ok := s.Position(Indicator(id))
	if !ok {
		return catalog.Indicator{}, false
	}
	return s.Indicators[pos], true
}
