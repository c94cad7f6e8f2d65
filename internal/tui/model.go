package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/papapumpkin/pickgraph/internal/cascade"
	"github.com/papapumpkin/pickgraph/internal/filter"
	"github.com/papapumpkin/pickgraph/internal/session"
)

// Model is the interactive picker. It drives a session from key presses and
// renders the visible rows.
type Model struct {
	Session   *session.Session
	Keys      KeyMap
	Input     textinput.Model
	Detail    DetailPanel
	Footer    Footer
	Debouncer *filter.Debouncer
	Spinner   spinner.Model

	// Send posts a message into the running program. When nil, filter text
	// is applied on every keystroke instead of after the debounce.
	Send func(tea.Msg)

	Rows       []session.Row
	Cursor     int
	Offset     int
	Filtering  bool
	Pending    bool // filter text waiting on the debounce
	ShowDetail bool
	Message    string
	Width      int
	Height     int
	Confirmed  bool
	Quitting   bool
}

// NewModel creates a picker over sess.
func NewModel(sess *session.Session, debouncer *filter.Debouncer) Model {
	in := textinput.New()
	in.Prompt = "/ "
	in.Placeholder = "filter by name"
	in.SetValue(sess.Filter())

	if debouncer == nil {
		debouncer = filter.NewDebouncer(filter.DefaultDebounce)
	}
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	s.Style = styleSpinner

	m := Model{
		Session:   sess,
		Keys:      DefaultKeyMap(),
		Input:     in,
		Detail:    NewDetailPanel(80, detailHeight-3),
		Debouncer: debouncer,
		Spinner:   s,
		Width:     80,
		Height:    24,
	}
	m.Footer = Footer{Width: m.Width, Bindings: PickerFooterBindings(m.Keys)}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return m.Spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Footer.Width = msg.Width
		m.Detail.SetSize(msg.Width-4, detailHeight-3)
		m.clamp()
		return m, nil

	case MsgFilterSettled:
		// A stale message can arrive after Esc already cleared the input.
		if msg.Text == m.Input.Value() {
			m.Pending = false
			m.applyFilter(msg.Text)
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.Filtering {
			return m.handleFilterKey(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Quit):
		m.Quitting = true
		m.Debouncer.Cancel()
		return m, tea.Quit
	case key.Matches(msg, m.Keys.Confirm):
		m.Confirmed = true
		m.Debouncer.Cancel()
		return m, tea.Quit
	case key.Matches(msg, m.Keys.Up):
		m.move(-1)
	case key.Matches(msg, m.Keys.Down):
		m.move(1)
	case key.Matches(msg, m.Keys.PageUp):
		m.move(-m.listHeight())
	case key.Matches(msg, m.Keys.PageDown):
		m.move(m.listHeight())
	case key.Matches(msg, m.Keys.Toggle):
		m.toggle()
	case key.Matches(msg, m.Keys.SelectAll):
		m.report("pick visible", m.Session.SelectAllVisible(true))
		m.refresh()
	case key.Matches(msg, m.Keys.UnselectAll):
		m.report("unpick visible", m.Session.SelectAllVisible(false))
		m.refresh()
	case key.Matches(msg, m.Keys.Undo):
		if m.Session.Undo() {
			m.Message = "undone"
		} else {
			m.Message = "nothing to undo"
		}
		m.refresh()
	case key.Matches(msg, m.Keys.Info):
		m.ShowDetail = !m.ShowDetail
		m.updateDetail()
		m.clamp()
	case key.Matches(msg, m.Keys.Filter):
		m.Filtering = true
		m.Keys = FilterKeyMap()
		m.Footer.Bindings = FilterFooterBindings(m.Keys)
		cmd := m.Input.Focus()
		return m, cmd
	}
	return m, nil
}

func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Quit):
		m.Quitting = true
		m.Debouncer.Cancel()
		return m, tea.Quit
	case key.Matches(msg, m.Keys.Confirm):
		m.stopFiltering()
		return m, nil
	case key.Matches(msg, m.Keys.Back):
		m.Input.SetValue("")
		m.Debouncer.Cancel()
		m.Pending = false
		m.applyFilter("")
		m.stopFiltering()
		return m, nil
	case key.Matches(msg, m.Keys.Up):
		m.move(-1)
		return m, nil
	case key.Matches(msg, m.Keys.Down):
		m.move(1)
		return m, nil
	}

	before := m.Input.Value()
	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	if text := m.Input.Value(); text != before {
		m.scheduleFilter(text)
	}
	return m, cmd
}

func (m *Model) stopFiltering() {
	m.Filtering = false
	m.Input.Blur()
	m.Keys = DefaultKeyMap()
	m.Footer.Bindings = PickerFooterBindings(m.Keys)
}

// scheduleFilter defers applying text until typing pauses. The debounced
// callback runs on a timer goroutine, so it only posts a message; the
// session is touched on the UI goroutine in Update.
func (m *Model) scheduleFilter(text string) {
	if m.Send == nil || m.Debouncer.Duration() <= 0 {
		m.applyFilter(text)
		return
	}
	send := m.Send
	m.Pending = true
	m.Debouncer.Trigger(func() { send(MsgFilterSettled{Text: text}) })
}

func (m *Model) applyFilter(text string) {
	m.Session.SetFilter(text)
	m.Cursor = 0
	m.Offset = 0
	m.refresh()
}

func (m *Model) toggle() {
	row, ok := m.current()
	if !ok {
		return
	}
	changes, err := m.Session.Flip(row.Ref)
	if err != nil {
		m.Message = err.Error()
		return
	}
	verb := "picked"
	if row.Picked {
		verb = "unpicked"
	}
	m.report(fmt.Sprintf("%s %s", verb, row.Name), changes)
	m.refresh()
}

// report summarizes a toggle on the message line.
func (m *Model) report(action string, changes []cascade.Transition) {
	var gained, lost int
	for _, c := range changes {
		if c.To {
			gained++
		} else {
			lost++
		}
	}
	switch {
	case len(changes) == 0:
		m.Message = action + ": no change"
	default:
		m.Message = fmt.Sprintf("%s: %s %s", action,
			styleMessageGain.Render(fmt.Sprintf("+%d", gained)),
			styleMessageLoss.Render(fmt.Sprintf("-%d", lost)))
	}
}

func (m *Model) refresh() {
	m.Rows = m.Session.Visible()
	m.clamp()
	m.updateDetail()
}

func (m *Model) updateDetail() {
	if !m.ShowDetail {
		return
	}
	row, ok := m.current()
	if !ok {
		m.Detail.SetContent("", styleDetailDim.Render("no row selected"))
		return
	}
	rel := m.Session.Table().Of(row.Ref)
	m.Detail.SetContent(fmt.Sprintf("%s %s", row.Ref.Kind, row.Name),
		FormatRelations(rel, m.Session.Name, m.Session.Picked))
}

func (m Model) current() (session.Row, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.Rows) {
		return session.Row{}, false
	}
	return m.Rows[m.Cursor], true
}

func (m *Model) move(delta int) {
	m.Cursor += delta
	m.clamp()
	m.updateDetail()
}

// clamp keeps the cursor on a row and inside the scroll window.
func (m *Model) clamp() {
	if m.Cursor >= len(m.Rows) {
		m.Cursor = len(m.Rows) - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
	h := m.listHeight()
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+h {
		m.Offset = m.Cursor - h + 1
	}
	if m.Offset < 0 {
		m.Offset = 0
	}
}

func (m Model) listHeight() int {
	h := m.Height - chromeHeight
	if m.ShowDetail {
		h -= detailHeight
	}
	if h < 1 {
		h = 1
	}
	return h
}
