package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"

	"github.com/papapumpkin/pickgraph/internal/candidate"
	"github.com/papapumpkin/pickgraph/internal/catalog"
	"github.com/papapumpkin/pickgraph/internal/graph"
)

// DetailPanel wraps a viewport showing the relations of the cursor row.
type DetailPanel struct {
	viewport   viewport.Model
	title      string
	totalLines int
}

// NewDetailPanel creates a detail panel with the given dimensions.
func NewDetailPanel(width, height int) DetailPanel {
	vp := viewport.New(width, height)
	vp.SetContent("")
	return DetailPanel{viewport: vp}
}

// SetSize updates the viewport dimensions.
func (d *DetailPanel) SetSize(width, height int) {
	d.viewport.Width = width
	d.viewport.Height = height
}

// SetContent updates the displayed text and title.
func (d *DetailPanel) SetContent(title, content string) {
	d.title = title
	d.totalLines = strings.Count(content, "\n") + 1
	d.viewport.SetContent(content)
	d.viewport.GotoTop()
}

// View renders the detail panel with a rounded border and a scroll hint.
func (d DetailPanel) View() string {
	var b strings.Builder
	if d.title != "" {
		b.WriteString(styleDetailTitle.Render(d.title))
		b.WriteString("\n")
	}
	b.WriteString(d.viewport.View())
	if below := d.totalLines - d.viewport.YOffset - d.viewport.Height; below > 0 {
		b.WriteString("\n")
		b.WriteString(styleDetailDim.Render(fmt.Sprintf("↓ %d more", below)))
	}
	return styleDetailBorder.Render(b.String())
}

// FormatRelations renders one line per related kind, picked entries marked.
func FormatRelations(rel *graph.Relations, name func(candidate.Ref) string, picked func(candidate.Ref) bool) string {
	if rel.Len() == 0 {
		return styleDetailDim.Render("no related candidates")
	}
	var lines []string
	for _, k := range catalog.AllKinds() {
		refs := rel.Refs(k)
		if len(refs) == 0 {
			continue
		}
		names := make([]string, len(refs))
		for i, r := range refs {
			n := name(r)
			if picked(r) {
				n = styleRowPicked.Render(n)
			}
			names[i] = n
		}
		lines = append(lines, kindStyle(k).Render(fmt.Sprintf("%-15s", k))+" "+strings.Join(names, ", "))
	}
	return strings.Join(lines, "\n")
}
