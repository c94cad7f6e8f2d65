package graph

import (
	"sort"

	"github.com/papapumpkin/pickgraph/internal/candidate"
	"github.com/papapumpkin/pickgraph/internal/catalog"
	"github.com/papapumpkin/pickgraph/internal/relation"
)

// builder holds the reverse indexes used while deriving relations.
type builder struct {
	set *candidate.Set
	rel *relation.Index

	spacesByTopic       map[string][]string
	csBySpace           map[string][]string
	csBySubject         map[string][]string
	indicatorsByTopic   map[string][]string
	indicatorsBySubject map[string][]string
}

// Build derives the relations table for every candidate in set. rel supplies
// the topic/pipeline read and write relations; a nil rel is built from set.
// References to ids that are not candidates are dropped, so dangling
// references simply produce empty relations.
func Build(set *candidate.Set, rel *relation.Index) *Table {
	if rel == nil {
		rel = relation.Build(set.Topics, set.Pipelines)
	}
	b := &builder{
		set:                 set,
		rel:                 rel,
		spacesByTopic:       make(map[string][]string),
		csBySpace:           make(map[string][]string),
		csBySubject:         make(map[string][]string),
		indicatorsByTopic:   make(map[string][]string),
		indicatorsBySubject: make(map[string][]string),
	}
	b.index()

	t := &Table{}
	for i := range t.rows {
		t.rows[i] = make(map[string]*Relations, set.Len(catalog.Kind(i)))
	}
	for _, topic := range set.Topics {
		t.rows[catalog.KindTopic][topic.ID] = b.topic(topic.ID)
	}
	for _, p := range set.Pipelines {
		t.rows[catalog.KindPipeline][p.ID] = b.pipeline(p.ID)
	}
	for _, s := range set.Spaces {
		t.rows[catalog.KindSpace][s.ID] = b.space(s)
	}
	for _, cs := range set.ConnectedSpaces {
		t.rows[catalog.KindConnectedSpace][cs.ID] = b.connectedSpace(cs)
	}
	for _, sub := range set.Subjects {
		t.rows[catalog.KindSubject][sub.ID] = b.subject(sub.ID)
	}
	for _, ind := range set.Indicators {
		t.rows[catalog.KindIndicator][ind.ID] = b.indicator(ind)
	}
	return t
}

func (b *builder) index() {
	for _, s := range b.set.Spaces {
		for _, tid := range s.TopicIDs {
			b.spacesByTopic[tid] = append(b.spacesByTopic[tid], s.ID)
		}
	}
	for _, cs := range b.set.ConnectedSpaces {
		b.csBySpace[cs.SpaceID] = append(b.csBySpace[cs.SpaceID], cs.ID)
		for _, sub := range cs.Subjects {
			b.csBySubject[sub.ID] = append(b.csBySubject[sub.ID], cs.ID)
		}
	}
	for _, ind := range b.set.Indicators {
		switch ind.BaseOn {
		case catalog.BaseOnTopic:
			b.indicatorsByTopic[ind.TopicOrSubjectID] = append(b.indicatorsByTopic[ind.TopicOrSubjectID], ind.ID)
		case catalog.BaseOnSubject:
			b.indicatorsBySubject[ind.TopicOrSubjectID] = append(b.indicatorsBySubject[ind.TopicOrSubjectID], ind.ID)
		}
	}
}

// Topic → pipelines reading, writing or triggered by it; spaces exposing it;
// their connected spaces and those spaces' subjects; topic indicators.
func (b *builder) topic(id string) *Relations {
	var pipelines, spaces, css, subjects, indicators ids

	pipelines.add(b.rel.Topic(id).Pipelines()...)
	for _, p := range b.set.Pipelines {
		if p.TopicID == id {
			pipelines.add(p.ID)
		}
	}
	spaces.add(b.spacesByTopic[id]...)
	for _, sid := range spaces.list() {
		css.add(b.csBySpace[sid]...)
	}
	subjects.add(b.subjectsOf(css.list())...)
	indicators.add(b.indicatorsByTopic[id]...)

	return b.relations(relationIDs{
		catalog.KindPipeline:       &pipelines,
		catalog.KindSpace:          &spaces,
		catalog.KindConnectedSpace: &css,
		catalog.KindSubject:        &subjects,
		catalog.KindIndicator:      &indicators,
	})
}

// Pipeline → topics it triggers from, reads or writes; indicators on them.
func (b *builder) pipeline(id string) *Relations {
	var topics, indicators ids

	topics.add(b.rel.Usage(id).Topics()...)
	for _, tid := range topics.list() {
		indicators.add(b.indicatorsByTopic[tid]...)
	}

	return b.relations(relationIDs{
		catalog.KindTopic:     &topics,
		catalog.KindIndicator: &indicators,
	})
}

// Space → its topics; connected spaces on it; their subjects; subject
// indicators on those subjects.
func (b *builder) space(s catalog.Space) *Relations {
	var topics, css, subjects, indicators ids

	topics.add(s.TopicIDs...)
	css.add(b.csBySpace[s.ID]...)
	subjects.add(b.subjectsOf(css.list())...)
	for _, sub := range subjects.list() {
		indicators.add(b.indicatorsBySubject[sub]...)
	}

	return b.relations(relationIDs{
		catalog.KindTopic:          &topics,
		catalog.KindConnectedSpace: &css,
		catalog.KindSubject:        &subjects,
		catalog.KindIndicator:      &indicators,
	})
}

// ConnectedSpace → its space; that space's topics; its subjects; indicators
// on those subjects.
func (b *builder) connectedSpace(cs catalog.ConnectedSpace) *Relations {
	var topics, spaces, subjects, indicators ids

	spaces.add(cs.SpaceID)
	topics.add(b.topicsOf(spaces.list())...)
	for _, sub := range cs.Subjects {
		subjects.add(sub.ID)
	}
	for _, sub := range subjects.list() {
		indicators.add(b.indicatorsBySubject[sub]...)
	}

	return b.relations(relationIDs{
		catalog.KindTopic:     &topics,
		catalog.KindSpace:     &spaces,
		catalog.KindSubject:   &subjects,
		catalog.KindIndicator: &indicators,
	})
}

// Subject → connected spaces embedding it; their spaces; those spaces'
// topics; indicators on the subject.
func (b *builder) subject(id string) *Relations {
	var topics, spaces, css, indicators ids

	css.add(b.csBySubject[id]...)
	spaces.add(b.spacesOf(css.list())...)
	topics.add(b.topicsOf(spaces.list())...)
	indicators.add(b.indicatorsBySubject[id]...)

	return b.relations(relationIDs{
		catalog.KindTopic:          &topics,
		catalog.KindSpace:          &spaces,
		catalog.KindConnectedSpace: &css,
		catalog.KindIndicator:      &indicators,
	})
}

// Indicator → its topic, or its subject plus the connected spaces, spaces
// and topics that subject hangs off.
func (b *builder) indicator(ind catalog.Indicator) *Relations {
	var topics, spaces, css, subjects ids

	switch ind.BaseOn {
	case catalog.BaseOnTopic:
		topics.add(ind.TopicOrSubjectID)
	case catalog.BaseOnSubject:
		subjects.add(ind.TopicOrSubjectID)
		if b.set.Has(candidate.Subject(ind.TopicOrSubjectID)) {
			css.add(b.csBySubject[ind.TopicOrSubjectID]...)
			spaces.add(b.spacesOf(css.list())...)
			topics.add(b.topicsOf(spaces.list())...)
		}
	}

	return b.relations(relationIDs{
		catalog.KindTopic:          &topics,
		catalog.KindSpace:          &spaces,
		catalog.KindConnectedSpace: &css,
		catalog.KindSubject:        &subjects,
	})
}

func (b *builder) subjectsOf(csIDs []string) []string {
	var out []string
	for _, id := range csIDs {
		if cs, ok := b.set.ConnectedSpace(id); ok {
			for _, sub := range cs.Subjects {
				out = append(out, sub.ID)
			}
		}
	}
	return out
}

func (b *builder) spacesOf(csIDs []string) []string {
	var out []string
	for _, id := range csIDs {
		if cs, ok := b.set.ConnectedSpace(id); ok {
			out = append(out, cs.SpaceID)
		}
	}
	return out
}

func (b *builder) topicsOf(spaceIDs []string) []string {
	var out []string
	for _, id := range spaceIDs {
		if s, ok := b.set.Space(id); ok {
			out = append(out, s.TopicIDs...)
		}
	}
	return out
}

type relationIDs map[catalog.Kind]*ids

// relations drops ids that are not candidates and orders the rest by their
// position in the candidate set.
func (b *builder) relations(byKind relationIDs) *Relations {
	r := &Relations{}
	for kind, set := range byKind {
		resolved := b.resolve(kind, set.list())
		switch kind {
		case catalog.KindTopic:
			r.Topics = resolved
		case catalog.KindPipeline:
			r.Pipelines = resolved
		case catalog.KindSpace:
			r.Spaces = resolved
		case catalog.KindConnectedSpace:
			r.ConnectedSpaces = resolved
		case catalog.KindSubject:
			r.Subjects = resolved
		case catalog.KindIndicator:
			r.Indicators = resolved
		}
	}
	return r
}

func (b *builder) resolve(kind catalog.Kind, list []string) []string {
	type entry struct {
		id  string
		pos int
	}
	entries := make([]entry, 0, len(list))
	for _, id := range list {
		if pos, ok := b.set.Position(candidate.Ref{Kind: kind, ID: id}); ok {
			entries = append(entries, entry{id: id, pos: pos})
		}
	}
	if len(entries) == 0 {
		return nil
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].pos < entries[j].pos })
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.id
	}
	return out
}
