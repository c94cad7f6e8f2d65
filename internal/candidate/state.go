package candidate

import (
	"github.com/papapumpkin/pickgraph/internal/catalog"
)

// State records which candidates are picked, one id map per kind. The zero
// value is an empty state with nothing picked. States are values: With and
// the cascade engine return modified copies and never touch the receiver.
type State struct {
	picked [catalog.NumKinds]map[string]bool
}

// NewState returns a state with every ref in refs picked.
func NewState(refs ...Ref) State {
	var s State
	for _, r := range refs {
		if !r.Kind.Valid() {
			continue
		}
		if s.picked[r.Kind] == nil {
			s.picked[r.Kind] = make(map[string]bool)
		}
		s.picked[r.Kind][r.ID] = true
	}
	return s
}

// Picked reports whether ref is picked.
func (s State) Picked(ref Ref) bool {
	if !ref.Kind.Valid() {
		return false
	}
	return s.picked[ref.Kind][ref.ID]
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	var out State
	for k, m := range s.picked {
		if len(m) == 0 {
			continue
		}
		cp := make(map[string]bool, len(m))
		for id, v := range m {
			if v {
				cp[id] = true
			}
		}
		out.picked[k] = cp
	}
	return out
}

// With returns a copy of s with ref set to picked.
func (s State) With(ref Ref, picked bool) State {
	out := s.Clone()
	out.set(ref, picked)
	return out
}

// Builder accumulates changes on a private copy of a state. The cascade
// engine uses it so one toggle costs one copy regardless of fan-out.
type Builder struct {
	state State
}

// NewBuilder starts from a copy of s.
func NewBuilder(s State) *Builder {
	return &Builder{state: s.Clone()}
}

// Set records ref as picked or unpicked and reports whether that changed it.
func (b *Builder) Set(ref Ref, picked bool) bool {
	if b.state.Picked(ref) == picked {
		return false
	}
	b.state.set(ref, picked)
	return true
}

// Picked reports the in-progress value for ref.
func (b *Builder) Picked(ref Ref) bool {
	return b.state.Picked(ref)
}

// State returns the accumulated state. The builder must not be used after.
func (b *Builder) State() State {
	return b.state
}

func (s *State) set(ref Ref, picked bool) {
	if !ref.Kind.Valid() {
		return
	}
	if picked {
		if s.picked[ref.Kind] == nil {
			s.picked[ref.Kind] = make(map[string]bool)
		}
		s.picked[ref.Kind][ref.ID] = true
		return
	}
	delete(s.picked[ref.Kind], ref.ID)
}

// Count returns the number of picked candidates of kind.
func (s State) Count(kind catalog.Kind) int {
	if !kind.Valid() {
		return 0
	}
	return len(s.picked[kind])
}

// Total returns the number of picked candidates across kinds.
func (s State) Total() int {
	n := 0
	for _, m := range s.picked {
		n += len(m)
	}
	return n
}

// Equal reports whether s and other pick exactly the same refs.
func (s State) Equal(other State) bool {
	for k := range s.picked {
		if len(s.picked[k]) != len(other.picked[k]) {
			return false
		}
		for id := range s.picked[k] {
			if !other.picked[k][id] {
				return false
			}
		}
	}
	return true
}

// PickedRefs returns the picked refs of set in set order, so the result is
// deterministic. Picked ids that are not in set are omitted.
func (s State) PickedRefs(set *Set) []Ref {
	var out []Ref
	for _, ref := range set.All() {
		if s.Picked(ref) {
			out = append(out, ref)
		}
	}
	return out
}
