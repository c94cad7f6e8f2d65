package filter

import (
	"github.com/papapumpkin/pickgraph/internal/candidate"
	"github.com/papapumpkin/pickgraph/internal/catalog"
)

// Row is one line of the flattened picker list. Depth is the indentation
// level under the row's parent (0 for top-level rows).
type Row struct {
	Ref   candidate.Ref
	Depth int
}

// Order flattens set into the picker's fixed display order:
//
//	topic
//	  topic indicators
//	pipeline
//	space
//	  connected space
//	    subject
//	      subject indicators
//
// followed by any candidate not yet placed (connected spaces on unknown
// spaces, indicators on unknown topics or subjects) in kind order. Every
// candidate appears exactly once.
func Order(set *candidate.Set) []Row {
	placed := make(map[candidate.Ref]bool, set.Total())
	rows := make([]Row, 0, set.Total())
	place := func(ref candidate.Ref, depth int) bool {
		if placed[ref] || !set.Has(ref) {
			return false
		}
		placed[ref] = true
		rows = append(rows, Row{Ref: ref, Depth: depth})
		return true
	}

	topicIndicators := make(map[string][]string)
	subjectIndicators := make(map[string][]string)
	for _, ind := range set.Indicators {
		switch ind.BaseOn {
		case catalog.BaseOnTopic:
			topicIndicators[ind.TopicOrSubjectID] = append(topicIndicators[ind.TopicOrSubjectID], ind.ID)
		case catalog.BaseOnSubject:
			subjectIndicators[ind.TopicOrSubjectID] = append(subjectIndicators[ind.TopicOrSubjectID], ind.ID)
		}
	}
	csBySpace := make(map[string][]catalog.ConnectedSpace)
	for _, cs := range set.ConnectedSpaces {
		csBySpace[cs.SpaceID] = append(csBySpace[cs.SpaceID], cs)
	}

	for _, t := range set.Topics {
		place(candidate.Topic(t.ID), 0)
		for _, id := range topicIndicators[t.ID] {
			place(candidate.Indicator(id), 1)
		}
	}
	for _, p := range set.Pipelines {
		place(candidate.Pipeline(p.ID), 0)
	}

	placeConnected := func(cs catalog.ConnectedSpace, depth int) {
		place(candidate.ConnectedSpace(cs.ID), depth)
		for _, sub := range cs.Subjects {
			if !place(candidate.Subject(sub.ID), depth+1) {
				continue
			}
			for _, id := range subjectIndicators[sub.ID] {
				place(candidate.Indicator(id), depth+2)
			}
		}
	}
	for _, s := range set.Spaces {
		place(candidate.Space(s.ID), 0)
		for _, cs := range csBySpace[s.ID] {
			placeConnected(cs, 1)
		}
	}
	for _, cs := range set.ConnectedSpaces {
		if !placed[candidate.ConnectedSpace(cs.ID)] {
			placeConnected(cs, 0)
		}
	}

	for _, ref := range set.All() {
		place(ref, 0)
	}
	return rows
}

// Refs extracts the refs of rows.
func Refs(rows []Row) []candidate.Ref {
	out := make([]candidate.Ref, len(rows))
	for i, r := range rows {
		out[i] = r.Ref
	}
	return out
}
