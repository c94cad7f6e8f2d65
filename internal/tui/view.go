package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/papapumpkin/pickgraph/internal/session"
)

func (m Model) View() string {
	if m.Quitting || m.Confirmed {
		return ""
	}
	if m.Width < MinWidth || m.Height < MinHeight {
		return fmt.Sprintf("Terminal too small (%dx%d). Need at least %dx%d.", m.Width, m.Height, MinWidth, MinHeight)
	}

	var b strings.Builder
	b.WriteString(m.renderStatusBar())
	b.WriteString("\n")
	b.WriteString(m.renderFilterLine())
	b.WriteString("\n")
	b.WriteString(m.renderList())
	if m.ShowDetail {
		b.WriteString("\n")
		b.WriteString(m.Detail.View())
	}
	b.WriteString("\n")
	b.WriteString(styleMessage.Render(m.Message))
	b.WriteString("\n")
	b.WriteString(m.Footer.View())
	return b.String()
}

func (m Model) renderStatusBar() string {
	state := m.Session.State()
	set := m.Session.Set()
	parts := []string{
		styleStatusLabel.Render("pickgraph"),
		styleStatusValue.Render(fmt.Sprintf("picked %d/%d", state.Total(), set.Total())),
		styleStatusValue.Render(fmt.Sprintf("visible %d", len(m.Rows))),
	}
	return styleStatusBar.Width(m.Width).Render(strings.Join(parts, "  "))
}

func (m Model) renderFilterLine() string {
	if m.Filtering {
		if m.Pending {
			return m.Input.View() + " " + m.Spinner.View()
		}
		return m.Input.View()
	}
	if text := m.Session.Filter(); text != "" {
		return styleDetailDim.Render("filter: ") + text
	}
	return styleDetailDim.Render("press / to filter")
}

func (m Model) renderList() string {
	h := m.listHeight()
	if len(m.Rows) == 0 {
		return styleDetailDim.Render("  no matching candidates") + strings.Repeat("\n", h-1)
	}
	end := m.Offset + h
	if end > len(m.Rows) {
		end = len(m.Rows)
	}
	lines := make([]string, 0, h)
	for i := m.Offset; i < end; i++ {
		lines = append(lines, m.renderRow(m.Rows[i], i == m.Cursor))
	}
	for len(lines) < h {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderRow(row session.Row, selected bool) string {
	indicator := " "
	if selected {
		indicator = styleSelectionIndicator.Render(selectionIndicator)
	}
	box := iconUnpicked
	if row.Picked {
		box = styleRowPicked.Render(iconPicked)
	}
	tag := kindStyle(row.Ref.Kind).Render(fmt.Sprintf("%-15s", row.Ref.Kind))
	indent := strings.Repeat("  ", row.Depth)

	nameWidth := m.Width - lipgloss.Width(indicator+box+tag) - len(indent) - 6
	name := TruncateWithEllipsis(row.Name, nameWidth)
	if selected {
		name = styleRowSelected.Render(name)
	} else {
		name = styleRowNormal.Render(name)
	}
	line := fmt.Sprintf("%s %s %s %s%s", indicator, box, tag, indent, name)
	if row.Exists {
		line += " " + styleRowExists.Render(iconExists)
	}
	return line
}
