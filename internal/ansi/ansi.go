// Package ansi provides ANSI escape code constants for the plain stderr
// printer. The interactive picker styles through lipgloss instead.
package ansi

// ANSI SGR (Select Graphic Rendition) codes.
const (
	Reset   = "\033[0m"
	Bold    = "\033[1m"
	Dim     = "\033[2m"
	Blue    = "\033[34m"
	Yellow  = "\033[33m"
	Green   = "\033[32m"
	Red     = "\033[31m"
	Cyan    = "\033[36m"
	Magenta = "\033[35m"
)

// Paint wraps s in the given codes followed by Reset.
func Paint(s string, codes ...string) string {
	var prefix string
	for _, c := range codes {
		prefix += c
	}
	return prefix + s + Reset
}
