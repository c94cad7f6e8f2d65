package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/papapumpkin/pickgraph/internal/candidate"
	"github.com/papapumpkin/pickgraph/internal/catalog"
	"github.com/papapumpkin/pickgraph/internal/filter"
	"github.com/papapumpkin/pickgraph/internal/session"
)

func testSession() *session.Session {
	return session.New(&catalog.Catalog{
		Topics:    []catalog.Topic{{ID: "t1", Name: "Orders"}, {ID: "t2", Name: "Payments"}},
		Pipelines: []catalog.Pipeline{{ID: "p1", Name: "Settle payments", TopicID: "t2"}},
		Spaces:    []catalog.Space{{ID: "s1", Name: "Sales", TopicIDs: []string{"t1"}}},
		ConnectedSpaces: []catalog.ConnectedSpace{{
			ID: "c1", Name: "Board", SpaceID: "s1",
			Subjects: []catalog.Subject{{ID: "sub1", Name: "Revenue"}},
		}},
		Indicators: []catalog.Indicator{
			{ID: "i1", Name: "Revenue total", BaseOn: catalog.BaseOnSubject, TopicOrSubjectID: "sub1"},
		},
	}, session.WithDestination(&catalog.Catalog{Topics: []catalog.Topic{{ID: "t1"}}}))
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	var model tea.Model = m
	for _, msg := range msgs {
		model, _ = model.Update(msg)
	}
	out, ok := model.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", model)
	}
	return out
}

func rowIndex(m Model, ref candidate.Ref) int {
	for i, r := range m.Rows {
		if r.Ref == ref {
			return i
		}
	}
	return -1
}

func TestModel_ToggleCascades(t *testing.T) {
	t.Parallel()
	m := NewModel(testSession(), nil)

	idx := rowIndex(m, candidate.Indicator("i1"))
	if idx < 0 {
		t.Fatal("indicator row missing")
	}
	down := tea.KeyMsg{Type: tea.KeyDown}
	for i := 0; i < idx; i++ {
		m = press(t, m, down)
	}
	if m.Cursor != idx {
		t.Fatalf("Cursor = %d, want %d", m.Cursor, idx)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	for _, ref := range []candidate.Ref{
		candidate.Topic("t1"), candidate.Space("s1"), candidate.ConnectedSpace("c1"), candidate.Subject("sub1"),
	} {
		if !m.Rows[rowIndex(m, ref)].Picked {
			t.Errorf("%v not picked after toggling the indicator", ref)
		}
	}
	if !strings.Contains(m.Message, "picked Revenue total") {
		t.Errorf("Message = %q", m.Message)
	}

	m = press(t, m, runes("u"))
	if m.Session.State().Total() != 0 {
		t.Errorf("undo left %d picked", m.Session.State().Total())
	}
	m = press(t, m, runes("u"))
	if m.Message != "nothing to undo" {
		t.Errorf("Message = %q, want nothing to undo", m.Message)
	}
}

func TestModel_FilterAppliesImmediatelyWithoutSender(t *testing.T) {
	t.Parallel()
	m := NewModel(testSession(), nil)

	m = press(t, m, runes("/"))
	if !m.Filtering {
		t.Fatal("expected filtering mode after /")
	}
	m = press(t, m, runes("p"), runes("a"), runes("y"))
	if len(m.Rows) != 2 {
		t.Fatalf("visible rows = %d, want 2", len(m.Rows))
	}

	// Keys that are bindings outside filter mode are text here.
	if m.Session.State().Total() != 0 {
		t.Fatal("typing picked something")
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Filtering || m.Confirmed {
		t.Fatal("enter in filter mode should only leave filter mode")
	}

	m = press(t, m, runes("a"))
	if got := m.Session.State().PickedRefs(m.Session.Set()); len(got) != 2 {
		t.Errorf("select all picked %v, want the 2 visible rows", got)
	}

	m = press(t, m, runes("/"), tea.KeyMsg{Type: tea.KeyEsc})
	if m.Filtering || m.Session.Filter() != "" {
		t.Error("esc should clear the filter and leave filter mode")
	}
	if len(m.Rows) != m.Session.Set().Total() {
		t.Errorf("cleared filter shows %d rows", len(m.Rows))
	}
	if m.Session.State().Total() != 2 {
		t.Error("filtering changed the picked state")
	}
}

func TestModel_FilterIsDebounced(t *testing.T) {
	t.Parallel()
	m := NewModel(testSession(), filter.NewDebouncer(20*time.Millisecond))
	sent := make(chan tea.Msg, 8)
	m.Send = func(msg tea.Msg) { sent <- msg }

	m = press(t, m, runes("/"), runes("r"), runes("e"), runes("v"))
	if len(m.Rows) != m.Session.Set().Total() {
		t.Fatal("filter applied before the debounce elapsed")
	}
	if !m.Pending {
		t.Error("expected a pending filter while the debounce runs")
	}

	var msg tea.Msg
	select {
	case msg = <-sent:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced filter message never arrived")
	}
	settled, ok := msg.(MsgFilterSettled)
	if !ok || settled.Text != "rev" {
		t.Fatalf("got %#v, want MsgFilterSettled{rev}", msg)
	}
	select {
	case extra := <-sent:
		t.Fatalf("superseded keystroke still delivered %#v", extra)
	case <-time.After(60 * time.Millisecond):
	}

	m = press(t, m, settled)
	if len(m.Rows) != 2 {
		t.Errorf("visible rows = %d, want 2", len(m.Rows))
	}
	if m.Pending {
		t.Error("filter still pending after it settled")
	}

	// A stale settle for text that is no longer in the box is ignored.
	m = press(t, m, MsgFilterSettled{Text: "zzz"})
	if len(m.Rows) != 2 {
		t.Error("stale filter message was applied")
	}
}

func TestModel_ZeroDebounceFiltersSynchronously(t *testing.T) {
	t.Parallel()
	m := NewModel(testSession(), filter.NewDebouncer(0))
	m.Send = func(msg tea.Msg) { t.Errorf("unexpected message %#v", msg) }

	m = press(t, m, runes("/"), runes("p"), runes("a"), runes("y"))
	if len(m.Rows) != 2 || m.Pending {
		t.Errorf("rows = %d pending = %v, want 2 rows and nothing pending", len(m.Rows), m.Pending)
	}
}

func TestModel_ConfirmAndQuit(t *testing.T) {
	t.Parallel()

	var model tea.Model = NewModel(testSession(), nil)
	model, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !model.(Model).Confirmed || cmd == nil {
		t.Error("enter should confirm and quit")
	}
	if model.View() != "" {
		t.Error("view should be empty after confirming")
	}

	model = NewModel(testSession(), nil)
	model, cmd = model.Update(runes("q"))
	if !model.(Model).Quitting || model.(Model).Confirmed || cmd == nil {
		t.Error("q should quit without confirming")
	}
}

func TestModel_View(t *testing.T) {
	t.Parallel()
	m := NewModel(testSession(), nil)
	m = press(t, m, tea.WindowSizeMsg{Width: 100, Height: 30}, runes("i"))

	view := m.View()
	for _, want := range []string{"pickgraph", "picked 0/7", "Orders", "Revenue total", iconExists, "relations"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	small := press(t, m, tea.WindowSizeMsg{Width: 20, Height: 5})
	if !strings.Contains(small.View(), "Terminal too small") {
		t.Error("expected the too-small message")
	}
}

func TestModel_CursorStaysInBounds(t *testing.T) {
	t.Parallel()
	m := NewModel(testSession(), nil)
	m = press(t, m, tea.WindowSizeMsg{Width: 80, Height: 8})

	for i := 0; i < 20; i++ {
		m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	}
	if m.Cursor != len(m.Rows)-1 {
		t.Errorf("Cursor = %d, want last row %d", m.Cursor, len(m.Rows)-1)
	}
	if m.Cursor < m.Offset || m.Cursor >= m.Offset+m.listHeight() {
		t.Errorf("cursor %d outside window [%d,%d)", m.Cursor, m.Offset, m.Offset+m.listHeight())
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyPgUp})
	if m.Cursor < 0 {
		t.Errorf("Cursor = %d after page up", m.Cursor)
	}
}
