// Package cascade applies pick and unpick toggles to a picker state and
// propagates them one hop through the relations table.
//
// Picking an artifact force-picks what it needs to be importable; unpicking a
// foundational artifact (topic, space) retracts what depends on it. Unpicking
// a derived artifact (pipeline, indicator) never retracts its foundations,
// since other picked artifacts may still need them. Propagated changes are
// not cascaded again.
package cascade

import (
	"fmt"

	"github.com/papapumpkin/pickgraph/internal/candidate"
	"github.com/papapumpkin/pickgraph/internal/catalog"
	"github.com/papapumpkin/pickgraph/internal/graph"
)

// Transition records one picked flag that changed.
type Transition struct {
	Ref  candidate.Ref
	From bool
	To   bool
}

func (t Transition) String() string {
	verb := "unpick"
	if t.To {
		verb = "pick"
	}
	return fmt.Sprintf("%s %s", verb, t.Ref)
}

// Effect lists the relation kinds a toggle propagates to.
type Effect struct {
	Kinds []catalog.Kind
}

// Rule returns the kinds that picking (picked=true) or unpicking a candidate
// of kind propagates to, with the same value. It panics on a kind outside
// catalog.AllKinds so that a new kind cannot be added without a rule.
func Rule(kind catalog.Kind, picked bool) Effect {
	switch kind {
	case catalog.KindTopic:
		if picked {
			return Effect{}
		}
		return Effect{Kinds: []catalog.Kind{
			catalog.KindPipeline, catalog.KindSpace, catalog.KindConnectedSpace,
			catalog.KindSubject, catalog.KindIndicator,
		}}
	case catalog.KindPipeline:
		if picked {
			return Effect{Kinds: []catalog.Kind{catalog.KindTopic, catalog.KindIndicator}}
		}
		return Effect{}
	case catalog.KindSpace:
		if picked {
			return Effect{Kinds: []catalog.Kind{catalog.KindTopic}}
		}
		return Effect{Kinds: []catalog.Kind{
			catalog.KindConnectedSpace, catalog.KindSubject, catalog.KindIndicator,
		}}
	case catalog.KindConnectedSpace:
		if picked {
			return Effect{Kinds: []catalog.Kind{catalog.KindTopic, catalog.KindSpace, catalog.KindSubject}}
		}
		return Effect{Kinds: []catalog.Kind{catalog.KindSubject, catalog.KindIndicator}}
	case catalog.KindSubject:
		if picked {
			return Effect{Kinds: []catalog.Kind{catalog.KindTopic, catalog.KindSpace, catalog.KindConnectedSpace}}
		}
		return Effect{Kinds: []catalog.Kind{catalog.KindIndicator}}
	case catalog.KindIndicator:
		if picked {
			// The relations of a topic indicator hold only its topic; those of
			// a subject indicator hold the subject and the connected spaces,
			// spaces and topics above it. One step covers both.
			return Effect{Kinds: []catalog.Kind{
				catalog.KindTopic, catalog.KindSubject, catalog.KindConnectedSpace, catalog.KindSpace,
			}}
		}
		return Effect{}
	default:
		panic(fmt.Sprintf("cascade: no rule for %v", kind))
	}
}

// Apply sets ref to picked and propagates the change one hop according to
// Rule. It returns the new state and every flag that changed, ref first.
// The input state is never modified. Toggling a ref to the value it already
// holds, or toggling a ref that has no row in table, returns state unchanged
// and no transitions.
func Apply(state candidate.State, ref candidate.Ref, picked bool, table *graph.Table) (candidate.State, []Transition) {
	if !ref.Kind.Valid() || state.Picked(ref) == picked {
		return state, nil
	}
	if !table.Has(ref) {
		return state, nil
	}

	b := candidate.NewBuilder(state)
	b.Set(ref, picked)
	changes := []Transition{{Ref: ref, From: !picked, To: picked}}

	rel := table.Of(ref)
	for _, kind := range Rule(ref.Kind, picked).Kinds {
		for _, related := range rel.Refs(kind) {
			if b.Set(related, picked) {
				changes = append(changes, Transition{Ref: related, From: !picked, To: picked})
			}
		}
	}
	return b.State(), changes
}

// ApplyAll applies the same toggle to every ref in order, as "select all"
// does for the visible rows. Each ref is applied against the state left by
// the previous one.
func ApplyAll(state candidate.State, refs []candidate.Ref, picked bool, table *graph.Table) (candidate.State, []Transition) {
	var all []Transition
	for _, ref := range refs {
		var changes []Transition
		state, changes = Apply(state, ref, picked, table)
		all = append(all, changes...)
	}
	return state, all
}
