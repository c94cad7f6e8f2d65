package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// CompactWidth drops binding descriptions from the footer.
const CompactWidth = 60

// Footer renders context-sensitive keybinding hints.
type Footer struct {
	Width    int
	Bindings []key.Binding
}

// View renders the footer as a single line of keybinding hints.
// In compact mode (narrow terminals), shows only key hints without descriptions.
func (f Footer) View() string {
	compact := f.Width < CompactWidth

	var parts []string
	for _, b := range f.Bindings {
		if !b.Enabled() {
			continue
		}
		help := b.Help()
		var part string
		if compact {
			part = styleFooterKey.Render(help.Key)
		} else {
			part = styleFooterKey.Render(help.Key) + styleFooterSep.Render(":") + styleFooterDesc.Render(help.Desc)
		}
		parts = append(parts, part)
	}
	sep := styleFooterSep.Render("  ")
	if compact {
		sep = styleFooterSep.Render(" ")
	}
	line := strings.Join(parts, sep)
	return styleFooter.Width(f.Width).Render(line)
}

// PickerFooterBindings returns footer bindings while browsing the list.
func PickerFooterBindings(km KeyMap) []key.Binding {
	return []key.Binding{km.Up, km.Down, km.Toggle, km.Filter, km.SelectAll, km.UnselectAll, km.Undo, km.Info, km.Confirm, km.Quit}
}

// FilterFooterBindings returns footer bindings while typing a filter.
func FilterFooterBindings(km KeyMap) []key.Binding {
	return []key.Binding{km.Up, km.Down, km.Confirm, km.Back, km.Quit}
}
