package cascade

import (
	"fmt"

	"github.com/papapumpkin/pickgraph/internal/candidate"
	"github.com/papapumpkin/pickgraph/internal/catalog"
	"github.com/papapumpkin/pickgraph/internal/graph"
)

// Violation reports a picked candidate whose direct foundation is not picked.
type Violation struct {
	Ref     candidate.Ref
	Missing []candidate.Ref
	// AnyOf is set when picking any single ref of Missing would satisfy the
	// foundation (a subject needs one of its connected spaces, not all).
	AnyOf bool
}

func (v Violation) String() string {
	if v.AnyOf {
		return fmt.Sprintf("%s is picked but none of %v is", v.Ref, v.Missing)
	}
	return fmt.Sprintf("%s is picked but %v is not", v.Ref, v.Missing)
}

// Foundation returns the direct foundation of ref: the candidates that must
// be picked for ref to be importable. The second result reports whether one
// of them is enough.
//
//   - pipeline: every topic it triggers from, reads or writes
//   - space: every topic it exposes
//   - connected space: its space
//   - subject: one of the connected spaces embedding it
//   - indicator: its subject when subject based, otherwise its topic
//
// Deeper requirements follow by applying Foundation to each of these.
func Foundation(ref candidate.Ref, table *graph.Table) ([]candidate.Ref, bool) {
	rel := table.Of(ref)
	switch ref.Kind {
	case catalog.KindTopic:
		return nil, false
	case catalog.KindPipeline:
		return rel.Refs(catalog.KindTopic), false
	case catalog.KindSpace:
		return rel.Refs(catalog.KindTopic), false
	case catalog.KindConnectedSpace:
		return rel.Refs(catalog.KindSpace), false
	case catalog.KindSubject:
		return rel.Refs(catalog.KindConnectedSpace), true
	case catalog.KindIndicator:
		if len(rel.Subjects) > 0 {
			return rel.Refs(catalog.KindSubject), false
		}
		return rel.Refs(catalog.KindTopic), false
	default:
		panic(fmt.Sprintf("cascade: no foundation for %v", ref.Kind))
	}
}

// Check walks every picked candidate of set and reports those whose direct
// foundation is incomplete. An empty result means the picked set can be
// imported without dangling references.
func Check(state candidate.State, set *candidate.Set, table *graph.Table) []Violation {
	var out []Violation
	for _, ref := range state.PickedRefs(set) {
		needed, anyOf := Foundation(ref, table)
		if len(needed) == 0 {
			continue
		}
		var missing []candidate.Ref
		for _, n := range needed {
			if !state.Picked(n) {
				missing = append(missing, n)
			}
		}
		if len(missing) == 0 || (anyOf && len(missing) < len(needed)) {
			continue
		}
		out = append(out, Violation{Ref: ref, Missing: missing, AnyOf: anyOf})
	}
	return out
}
