// Package session runs one picker session: it builds the candidate set and
// relations table once from a source catalog, then applies toggles, filter
// changes and "select all" through the cascade engine, keeping an undo
// history of picked-states.
package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/papapumpkin/pickgraph/internal/candidate"
	"github.com/papapumpkin/pickgraph/internal/cascade"
	"github.com/papapumpkin/pickgraph/internal/catalog"
	"github.com/papapumpkin/pickgraph/internal/existence"
	"github.com/papapumpkin/pickgraph/internal/filter"
	"github.com/papapumpkin/pickgraph/internal/graph"
	"github.com/papapumpkin/pickgraph/internal/logger"
	"github.com/papapumpkin/pickgraph/internal/relation"
	"github.com/papapumpkin/pickgraph/internal/selection"
	"github.com/papapumpkin/pickgraph/internal/telemetry"
)

// ErrUnknownCandidate is returned when a toggle names an entity that is not
// part of the session's candidate set.
var ErrUnknownCandidate = errors.New("unknown candidate")

// historyLimit bounds the undo stack.
const historyLimit = 256

// Scope selects which entities a session offers.
type Scope string

const (
	// ScopeFull offers every entity kind.
	ScopeFull Scope = "full"
	// ScopeTopics offers only topics and pipelines.
	ScopeTopics Scope = "topics"
)

// ParseScope validates a scope name. An empty name means ScopeFull.
func ParseScope(s string) (Scope, error) {
	switch sc := Scope(strings.ToLower(s)); sc {
	case ScopeFull, "":
		return ScopeFull, nil
	case ScopeTopics:
		return sc, nil
	default:
		return "", fmt.Errorf("unknown scope %q", s)
	}
}

// Row is one visible line of the picker.
type Row struct {
	Ref    candidate.Ref
	Name   string
	Depth  int
	Picked bool
	Exists bool
}

// Session is single-goroutine: callers serialize every method call.
type Session struct {
	id       string
	scope    Scope
	log      *logger.Logger
	matcher  filter.Matcher
	dest     *catalog.Catalog
	set      *candidate.Set
	rel      *relation.Index
	table    *graph.Table
	existing *existence.Index
	journal  *telemetry.Emitter
	order    []filter.Row

	state   candidate.State
	history []candidate.State
	text    string
	visible []filter.Row
}

// Option configures a Session.
type Option func(*Session)

// WithDestination sets the catalog used to flag entities that already exist
// in the import target.
func WithDestination(dest *catalog.Catalog) Option {
	return func(s *Session) { s.dest = dest }
}

// WithMatcher replaces the default substring matcher.
func WithMatcher(m filter.Matcher) Option {
	return func(s *Session) {
		if m != nil {
			s.matcher = m
		}
	}
}

// WithLogger sets the session logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithJournal records every effective change to em. Journal write
// failures are logged and never interrupt the session.
func WithJournal(em *telemetry.Emitter) Option {
	return func(s *Session) { s.journal = em }
}

// WithScope restricts the candidate set.
func WithScope(scope Scope) Option {
	return func(s *Session) { s.scope = scope }
}

// New builds a session over source. Nothing is picked initially.
func New(source *catalog.Catalog, opts ...Option) *Session {
	s := &Session{
		id:      uuid.NewString(),
		scope:   ScopeFull,
		log:     logger.Nop(),
		matcher: filter.Substring{},
	}
	for _, o := range opts {
		o(s)
	}

	if s.scope == ScopeTopics {
		s.set = candidate.NewTopicSet(source)
	} else {
		s.set = candidate.NewSet(source)
	}
	s.rel = relation.Build(s.set.Topics, s.set.Pipelines)
	s.table = graph.Build(s.set, s.rel)
	s.existing = existence.New(s.dest)
	s.order = filter.Order(s.set)
	s.visible = s.order
	s.state = candidate.NewState()

	stats := s.table.Stats()
	s.log = s.log.With("session", s.id)
	s.log.Debug("session built",
		"scope", string(s.scope),
		"candidates", s.set.Total(),
		"nodes", stats.Nodes,
		"edges", stats.Edges)
	s.record(telemetry.Event{Kind: telemetry.KindSessionStart, Data: map[string]any{
		"scope":      string(s.scope),
		"candidates": s.set.Total(),
		"edges":      stats.Edges,
	}})
	return s
}

func (s *Session) record(evt telemetry.Event) {
	if s.journal == nil {
		return
	}
	evt.SessionID = s.id
	if err := s.journal.Emit(evt); err != nil {
		s.log.Warn("journal write failed", "kind", evt.Kind, "error", err)
	}
}

func journalChanges(changes []cascade.Transition) []telemetry.Change {
	out := make([]telemetry.Change, len(changes))
	for i, c := range changes {
		out[i] = telemetry.Change{Ref: c.Ref.String(), Picked: c.To}
	}
	return out
}

// ID identifies the session in logs and saved selections.
func (s *Session) ID() string { return s.id }

// Scope returns the session scope.
func (s *Session) Scope() Scope { return s.scope }

// Set returns the candidate set.
func (s *Session) Set() *candidate.Set { return s.set }

// Table returns the relations table.
func (s *Session) Table() *graph.Table { return s.table }

// Relations returns the topic/pipeline read-write index.
func (s *Session) Relations() *relation.Index { return s.rel }

// State returns the current picked-state.
func (s *Session) State() candidate.State { return s.state }

// Picked reports whether ref is picked.
func (s *Session) Picked(ref candidate.Ref) bool { return s.state.Picked(ref) }

// Existing reports whether ref already exists in the destination.
func (s *Session) Existing(ref candidate.Ref) bool { return s.existing.IsExisting(ref) }

// Name returns the display name of ref.
func (s *Session) Name(ref candidate.Ref) string { return s.set.Name(ref) }

// Toggle sets ref to picked and cascades the change. It returns every flag
// that changed; an empty result means the toggle was a no-op.
func (s *Session) Toggle(ref candidate.Ref, picked bool) ([]cascade.Transition, error) {
	if !s.set.Has(ref) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCandidate, ref)
	}
	next, changes := cascade.Apply(s.state, ref, picked, s.table)
	if len(changes) > 0 {
		s.commit(next)
		s.record(telemetry.Event{Kind: telemetry.KindToggle, Ref: ref.String(), Data: journalChanges(changes)})
	}
	s.log.Debug("toggle", "ref", ref.String(), "picked", picked, "changed", len(changes))
	return changes, nil
}

// Flip toggles ref to the opposite of its current value.
func (s *Session) Flip(ref candidate.Ref) ([]cascade.Transition, error) {
	return s.Toggle(ref, !s.state.Picked(ref))
}

// SelectAllVisible applies the same toggle to every visible row, in display
// order. The whole action is one undo step.
func (s *Session) SelectAllVisible(picked bool) []cascade.Transition {
	next, changes := cascade.ApplyAll(s.state, filter.Refs(s.visible), picked, s.table)
	if len(changes) > 0 {
		s.commit(next)
		s.record(telemetry.Event{Kind: telemetry.KindSelectAll, Data: journalChanges(changes)})
	}
	s.log.Debug("select all visible",
		"picked", picked, "visible", len(s.visible), "changed", len(changes))
	return changes
}

func (s *Session) commit(next candidate.State) {
	s.history = append(s.history, s.state)
	if len(s.history) > historyLimit {
		s.history = s.history[len(s.history)-historyLimit:]
	}
	s.state = next
}

// Undo restores the state before the last effective toggle. It returns
// false when there is nothing to undo.
func (s *Session) Undo() bool {
	if len(s.history) == 0 {
		return false
	}
	last := len(s.history) - 1
	s.state = s.history[last]
	s.history = s.history[:last]
	s.record(telemetry.Event{Kind: telemetry.KindUndo})
	s.log.Debug("undo", "remaining", len(s.history))
	return true
}

// CanUndo reports whether Undo would change anything.
func (s *Session) CanUndo() bool { return len(s.history) > 0 }

// SetFilter replaces the filter text and recomputes the visible rows.
// It never changes what is picked.
func (s *Session) SetFilter(text string) {
	if text != s.text {
		s.record(telemetry.Event{Kind: telemetry.KindFilter, Data: text})
	}
	s.text = text
	s.visible = filter.Apply(s.order, func(r filter.Row) string {
		return s.set.Name(r.Ref)
	}, s.matcher, text)
}

// Filter returns the current filter text.
func (s *Session) Filter() string { return s.text }

// Visible returns the rows matching the current filter in display order.
func (s *Session) Visible() []Row {
	out := make([]Row, len(s.visible))
	for i, r := range s.visible {
		out[i] = Row{
			Ref:    r.Ref,
			Name:   s.set.Name(r.Ref),
			Depth:  r.Depth,
			Picked: s.state.Picked(r.Ref),
			Exists: s.existing.IsExisting(r.Ref),
		}
	}
	return out
}

// Violations reports picked entities whose foundation is not picked.
func (s *Session) Violations() []cascade.Violation {
	return cascade.Check(s.state, s.set, s.table)
}

// Selection returns the picked entities for hand-off.
func (s *Session) Selection() selection.Selection {
	sel := selection.Build(s.set, s.state)
	sel.Session = s.id
	return sel
}

// Restore replaces the picked-state with the refs of sel that are
// candidates of this session, without cascading. It returns the refs that
// were dropped because the session does not know them.
func (s *Session) Restore(sel selection.Selection) []candidate.Ref {
	var keep, dropped []candidate.Ref
	for _, ref := range sel.Refs() {
		if s.set.Has(ref) {
			keep = append(keep, ref)
		} else {
			dropped = append(dropped, ref)
		}
	}
	if next := candidate.NewState(keep...); !next.Equal(s.state) {
		s.commit(next)
		s.record(telemetry.Event{Kind: telemetry.KindRestore, Data: map[string]any{
			"picked":  len(keep),
			"dropped": len(dropped),
		}})
	}
	return dropped
}
