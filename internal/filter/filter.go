// Package filter narrows the picker's flattened candidate list down to the
// rows whose display name matches the current search text. Filtering only
// decides which rows are visible (and therefore reachable by "select all");
// it never changes what is picked.
package filter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Mode selects a Matcher.
type Mode string

const (
	ModeSubstring Mode = "substring"
	ModeFuzzy     Mode = "fuzzy"
)

// Matcher selects the names matching a non-empty query.
// Implementations return indexes into names in ascending order.
type Matcher interface {
	Match(query string, names []string) []int
}

// NewMatcher returns the matcher for mode. An empty mode means substring.
func NewMatcher(mode Mode) (Matcher, error) {
	switch Mode(strings.ToLower(string(mode))) {
	case ModeSubstring, "":
		return Substring{}, nil
	case ModeFuzzy:
		return Fuzzy{}, nil
	default:
		return nil, fmt.Errorf("unknown filter mode %q", mode)
	}
}

// Substring matches names containing the query, ignoring case.
type Substring struct{}

func (Substring) Match(query string, names []string) []int {
	q := strings.ToLower(query)
	var out []int
	for i, n := range names {
		if strings.Contains(strings.ToLower(n), q) {
			out = append(out, i)
		}
	}
	return out
}

// Fuzzy matches names containing the query's characters in order.
type Fuzzy struct{}

func (Fuzzy) Match(query string, names []string) []int {
	matches := fuzzy.Find(query, names)
	out := make([]int, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Index)
	}
	// Keep display order rather than match score.
	sort.Ints(out)
	return out
}

// Apply returns the rows whose name matches text. Empty text returns rows
// unchanged; any other text, spaces included, is matched as typed. name
// resolves a row's display name.
func Apply(rows []Row, name func(Row) string, m Matcher, text string) []Row {
	if text == "" {
		return rows
	}
	names := make([]string, len(rows))
	for i, r := range rows {
		names[i] = name(r)
	}
	idx := m.Match(text, names)
	out := make([]Row, 0, len(idx))
	for _, i := range idx {
		out = append(out, rows[i])
	}
	return out
}
