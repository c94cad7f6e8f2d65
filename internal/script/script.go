// Package script replays a recorded sequence of picker actions against a
// session without the interactive UI. Scripts are TOML:
//
//	[[step]]
//	action = "filter"
//	text = "revenue"
//
//	[[step]]
//	action = "select-all"
//
//	[[step]]
//	action = "toggle"
//	kind = "pipeline"
//	id = "p-aggregate"
//	picked = false
package script

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/papapumpkin/pickgraph/internal/candidate"
	"github.com/papapumpkin/pickgraph/internal/catalog"
	"github.com/papapumpkin/pickgraph/internal/session"
)

// ErrUnknownAction is returned for a step whose action is not one of the
// Action constants.
var ErrUnknownAction = errors.New("unknown script action")

// Action names a picker action.
type Action string

const (
	ActionToggle    Action = "toggle"
	ActionSelectAll Action = "select-all"
	ActionFilter    Action = "filter"
	ActionUndo      Action = "undo"
)

// Step is one recorded action. Picked defaults to true for toggle and
// select-all.
type Step struct {
	Action Action       `toml:"action" validate:"required"`
	Kind   catalog.Kind `toml:"kind"`
	ID     string       `toml:"id" validate:"required_if=Action toggle"`
	Picked *bool        `toml:"picked"`
	Text   string       `toml:"text"`
}

func (s Step) picked() bool {
	return s.Picked == nil || *s.Picked
}

// Script is an ordered list of steps.
type Script struct {
	Steps []Step `toml:"step"`
}

// Report summarizes a replay.
type Report struct {
	Steps   int // Steps executed
	Changed int // Flags changed by toggles and select-all
	Noops   int // Toggles and select-alls that changed nothing
	Undone  int // Undo steps that restored a state
}

var validate = validator.New()

// Parse decodes and validates a TOML script.
func Parse(data []byte) (Script, error) {
	var sc Script
	if err := toml.Unmarshal(data, &sc); err != nil {
		return Script{}, fmt.Errorf("parsing script: %w", err)
	}
	for i, st := range sc.Steps {
		switch st.Action {
		case ActionToggle, ActionSelectAll, ActionFilter, ActionUndo:
		default:
			return Script{}, fmt.Errorf("step %d: %w: %q", i+1, ErrUnknownAction, st.Action)
		}
		if err := validate.Struct(st); err != nil {
			return Script{}, fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return sc, nil
}

// Load reads and parses the script at path.
func Load(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, fmt.Errorf("reading script: %w", err)
	}
	return Parse(data)
}

// Run applies every step of sc to sess in order and stops at the first
// failing step.
func Run(sess *session.Session, sc Script) (Report, error) {
	var rep Report
	for i, st := range sc.Steps {
		switch st.Action {
		case ActionToggle:
			changes, err := sess.Toggle(candidate.Ref{Kind: st.Kind, ID: st.ID}, st.picked())
			if err != nil {
				return rep, fmt.Errorf("step %d: %w", i+1, err)
			}
			rep.count(len(changes))
		case ActionSelectAll:
			rep.count(len(sess.SelectAllVisible(st.picked())))
		case ActionFilter:
			sess.SetFilter(st.Text)
		case ActionUndo:
			if sess.Undo() {
				rep.Undone++
			}
		default:
			return rep, fmt.Errorf("step %d: %w: %q", i+1, ErrUnknownAction, st.Action)
		}
		rep.Steps++
	}
	return rep, nil
}

func (r *Report) count(changed int) {
	if changed == 0 {
		r.Noops++
		return
	}
	r.Changed += changed
}
