package tui

// MsgFilterSettled is posted by the filter debouncer once typing pauses.
type MsgFilterSettled struct {
	Text string
}
