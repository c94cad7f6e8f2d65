// Package selection is the hand-off format of a picker session: the picked
// entities partitioned by kind, in candidate order, ready for whatever
// performs the import.
package selection

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/papapumpkin/pickgraph/internal/candidate"
	"github.com/papapumpkin/pickgraph/internal/catalog"
)

// Selection lists the picked entities of one session. Connected spaces only
// carry the subjects that were picked alongside them.
type Selection struct {
	Session         string                   `toml:"session,omitempty" yaml:"session,omitempty" json:"session,omitempty"`
	Topics          []catalog.Topic          `toml:"topics,omitempty" yaml:"topics,omitempty" json:"topics,omitempty"`
	Pipelines       []catalog.Pipeline       `toml:"pipelines,omitempty" yaml:"pipelines,omitempty" json:"pipelines,omitempty"`
	Spaces          []catalog.Space          `toml:"spaces,omitempty" yaml:"spaces,omitempty" json:"spaces,omitempty"`
	ConnectedSpaces []catalog.ConnectedSpace `toml:"connected_spaces,omitempty" yaml:"connected_spaces,omitempty" json:"connectedSpaces,omitempty"`
	Subjects        []catalog.Subject        `toml:"subjects,omitempty" yaml:"subjects,omitempty" json:"subjects,omitempty"`
	Indicators      []catalog.Indicator      `toml:"indicators,omitempty" yaml:"indicators,omitempty" json:"indicators,omitempty"`
}

// Build collects the entities of set that are picked in state.
func Build(set *candidate.Set, state candidate.State) Selection {
	var sel Selection
	for _, t := range set.Topics {
		if state.Picked(candidate.Topic(t.ID)) {
			sel.Topics = append(sel.Topics, t)
		}
	}
	for _, p := range set.Pipelines {
		if state.Picked(candidate.Pipeline(p.ID)) {
			sel.Pipelines = append(sel.Pipelines, p)
		}
	}
	for _, s := range set.Spaces {
		if state.Picked(candidate.Space(s.ID)) {
			sel.Spaces = append(sel.Spaces, s)
		}
	}
	for _, cs := range set.ConnectedSpaces {
		if !state.Picked(candidate.ConnectedSpace(cs.ID)) {
			continue
		}
		var subjects []catalog.Subject
		for _, sub := range cs.Subjects {
			if state.Picked(candidate.Subject(sub.ID)) {
				subjects = append(subjects, sub)
			}
		}
		cs.Subjects = subjects
		sel.ConnectedSpaces = append(sel.ConnectedSpaces, cs)
	}
	for _, sub := range set.Subjects {
		if state.Picked(candidate.Subject(sub.ID)) {
			sel.Subjects = append(sel.Subjects, sub)
		}
	}
	for _, ind := range set.Indicators {
		if state.Picked(candidate.Indicator(ind.ID)) {
			sel.Indicators = append(sel.Indicators, ind)
		}
	}
	return sel
}

// Refs returns the ref of every selected entity, kinds in catalog.AllKinds
// order.
func (s Selection) Refs() []candidate.Ref {
	out := make([]candidate.Ref, 0, s.Len())
	for _, t := range s.Topics {
		out = append(out, candidate.Topic(t.ID))
	}
	for _, p := range s.Pipelines {
		out = append(out, candidate.Pipeline(p.ID))
	}
	for _, sp := range s.Spaces {
		out = append(out, candidate.Space(sp.ID))
	}
	for _, cs := range s.ConnectedSpaces {
		out = append(out, candidate.ConnectedSpace(cs.ID))
	}
	for _, sub := range s.Subjects {
		out = append(out, candidate.Subject(sub.ID))
	}
	for _, ind := range s.Indicators {
		out = append(out, candidate.Indicator(ind.ID))
	}
	return out
}

// State rebuilds the picked-set the selection was made from.
func (s Selection) State() candidate.State {
	return candidate.NewState(s.Refs()...)
}

// Len is the number of selected entities.
func (s Selection) Len() int {
	return len(s.Topics) + len(s.Pipelines) + len(s.Spaces) +
		len(s.ConnectedSpaces) + len(s.Subjects) + len(s.Indicators)
}

// Count returns the number of selected entities of kind.
func (s Selection) Count(kind catalog.Kind) int {
	switch kind {
	case catalog.KindTopic:
		return len(s.Topics)
	case catalog.KindPipeline:
		return len(s.Pipelines)
	case catalog.KindSpace:
		return len(s.Spaces)
	case catalog.KindConnectedSpace:
		return len(s.ConnectedSpaces)
	case catalog.KindSubject:
		return len(s.Subjects)
	case catalog.KindIndicator:
		return len(s.Indicators)
	}
	return 0
}

// Save writes sel to path in the format named by its extension, creating
// parent directories as needed.
func Save(path string, sel Selection) error {
	format, err := catalog.FormatFor(path)
	if err != nil {
		return err
	}
	data, err := catalog.Marshal(format, sel)
	if err != nil {
		return fmt.Errorf("encoding selection: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating selection directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing selection: %w", err)
	}
	return nil
}

// Load reads a selection written by Save.
func Load(path string) (Selection, error) {
	format, err := catalog.FormatFor(path)
	if err != nil {
		return Selection{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Selection{}, fmt.Errorf("reading selection: %w", err)
	}
	var sel Selection
	if err := catalog.Unmarshal(format, data, &sel); err != nil {
		return Selection{}, fmt.Errorf("parsing %s selection: %w", format, err)
	}
	return sel, nil
}
