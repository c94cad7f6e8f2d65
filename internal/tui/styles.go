package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/papapumpkin/pickgraph/internal/catalog"
)

// Semantic color palette.
var (
	colorPrimary     = lipgloss.Color("#00BFFF") // Cyan — primary accent
	colorAccent      = lipgloss.Color("#FFD700") // Gold — attention
	colorSuccess     = lipgloss.Color("#00E676") // Green — picked
	colorDanger      = lipgloss.Color("#FF5252") // Red — unpicked by cascade
	colorMuted       = lipgloss.Color("#636363") // Gray — de-emphasized
	colorMutedLight  = lipgloss.Color("#8C8C8C") // Lighter gray — normal text
	colorWhite       = lipgloss.Color("#EEEEEE") // Off-white — primary text
	colorBrightWhite = lipgloss.Color("#FFFFFF") // Pure white — emphatic text
	colorSurface     = lipgloss.Color("#1E1E2E") // Dark surface — status bar bg
	colorSurfaceDim  = lipgloss.Color("#181825") // Darkest surface — footer bg
	colorBlue        = lipgloss.Color("#5B8DEF") // Blue — pipelines
	colorMagenta     = lipgloss.Color("#C678DD") // Magenta — spaces
)

// Selection indicator prepended to the cursor row.
const selectionIndicator = "▎"

// Checkbox glyphs.
const (
	iconPicked   = "[x]"
	iconUnpicked = "[ ]"
	iconExists   = "●"
)

// Status bar styles — visually dominant with solid background.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(colorSurface).
			Foreground(colorWhite).
			Bold(true).
			Padding(0, 1)

	styleStatusLabel = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	styleStatusValue = lipgloss.NewStyle().
				Foreground(colorWhite)
)

// Row styles.
var (
	styleRowSelected = lipgloss.NewStyle().
				Foreground(colorBrightWhite).
				Bold(true)

	styleRowNormal = lipgloss.NewStyle().
			Foreground(colorMutedLight)

	styleRowPicked = lipgloss.NewStyle().
			Foreground(colorSuccess)

	styleRowExists = lipgloss.NewStyle().
			Foreground(colorAccent)

	styleSelectionIndicator = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)
)

// Message line styles.
var (
	styleMessage = lipgloss.NewStyle().
			Foreground(colorMutedLight)

	styleMessageGain = lipgloss.NewStyle().
				Foreground(colorSuccess)

	styleMessageLoss = lipgloss.NewStyle().
				Foreground(colorDanger)

	styleSpinner = lipgloss.NewStyle().
			Foreground(colorAccent)
)

// Detail panel styles — rounded border, styled title.
var (
	styleDetailBorder = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorMuted).
				Padding(0, 1)

	styleDetailTitle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	styleDetailDim = lipgloss.NewStyle().
			Foreground(colorMuted)
)

// Footer styles — top border, clear key/desc contrast.
var (
	styleFooter = lipgloss.NewStyle().
			Foreground(colorMuted).
			Background(colorSurfaceDim).
			Border(lipgloss.NormalBorder(), true, false, false, false).
			BorderForeground(colorMuted)

	styleFooterKey = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	styleFooterSep = lipgloss.NewStyle().
			Foreground(colorMuted)

	styleFooterDesc = lipgloss.NewStyle().
			Foreground(colorMutedLight)
)

// kindStyles colors the kind tag of each row.
var kindStyles = [catalog.NumKinds]lipgloss.Style{
	catalog.KindTopic:          lipgloss.NewStyle().Foreground(colorPrimary),
	catalog.KindPipeline:       lipgloss.NewStyle().Foreground(colorBlue),
	catalog.KindSpace:          lipgloss.NewStyle().Foreground(colorMagenta),
	catalog.KindConnectedSpace: lipgloss.NewStyle().Foreground(colorAccent),
	catalog.KindSubject:        lipgloss.NewStyle().Foreground(colorSuccess),
	catalog.KindIndicator:      lipgloss.NewStyle().Foreground(colorDanger),
}

func kindStyle(k catalog.Kind) lipgloss.Style {
	if !k.Valid() {
		return styleRowNormal
	}
	return kindStyles[k]
}
