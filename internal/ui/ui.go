// Package ui prints human-readable summaries and reports to stderr for the
// non-interactive commands.
package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/papapumpkin/pickgraph/internal/ansi"
	"github.com/papapumpkin/pickgraph/internal/candidate"
	"github.com/papapumpkin/pickgraph/internal/cascade"
	"github.com/papapumpkin/pickgraph/internal/catalog"
	"github.com/papapumpkin/pickgraph/internal/graph"
	"github.com/papapumpkin/pickgraph/internal/relation"
	"github.com/papapumpkin/pickgraph/internal/selection"
)

type Printer struct{}

func New() *Printer {
	return &Printer{}
}

func (p *Printer) Error(msg string) {
	fmt.Fprintf(os.Stderr, ansi.Red+ansi.Bold+"error: "+ansi.Reset+"%s\n", msg)
}

func (p *Printer) Info(msg string) {
	fmt.Fprintf(os.Stderr, ansi.Dim+"%s"+ansi.Reset+"\n", msg)
}

// KindColor is the color used for kind labels.
func KindColor(k catalog.Kind) string {
	switch k {
	case catalog.KindTopic:
		return ansi.Cyan
	case catalog.KindPipeline:
		return ansi.Blue
	case catalog.KindSpace:
		return ansi.Magenta
	case catalog.KindConnectedSpace:
		return ansi.Yellow
	case catalog.KindSubject:
		return ansi.Green
	default:
		return ansi.Red
	}
}

func kindLabel(k catalog.Kind) string {
	return ansi.Paint(fmt.Sprintf("%-15s", k.String()), KindColor(k))
}

// Loaded reports the size of a freshly built session.
func (p *Printer) Loaded(source string, set *candidate.Set, stats graph.Stats) {
	fmt.Fprintf(os.Stderr, ansi.Bold+ansi.Cyan+"◆ %s"+ansi.Reset+ansi.Dim+" (%d nodes, %d edges)"+ansi.Reset+"\n",
		source, stats.Nodes, stats.Edges)
	var parts []string
	for _, k := range catalog.AllKinds() {
		if n := set.Len(k); n > 0 {
			parts = append(parts, fmt.Sprintf("%s: %d", k, n))
		}
	}
	if len(parts) == 0 {
		fmt.Fprintln(os.Stderr, ansi.Dim+"  (empty catalog)"+ansi.Reset)
		return
	}
	fmt.Fprintf(os.Stderr, "  %s\n", strings.Join(parts, ", "))
}

// Transitions lists every flag a toggle changed.
func (p *Printer) Transitions(name func(candidate.Ref) string, changes []cascade.Transition) {
	for _, t := range changes {
		symbol, color := "-", ansi.Red
		if t.To {
			symbol, color = "+", ansi.Green
		}
		fmt.Fprintf(os.Stderr, "  "+color+symbol+ansi.Reset+" %s %s\n", kindLabel(t.Ref.Kind), name(t.Ref))
	}
}

// SelectionSaved summarizes a written selection.
func (p *Printer) SelectionSaved(path string, sel selection.Selection) {
	fmt.Fprintf(os.Stderr, ansi.Green+ansi.Bold+"✓ selection saved"+ansi.Reset+" %s "+ansi.Dim+"(%d entities)"+ansi.Reset+"\n",
		path, sel.Len())
	for _, k := range catalog.AllKinds() {
		if n := sel.Count(k); n > 0 {
			fmt.Fprintf(os.Stderr, "  %s %d\n", kindLabel(k), n)
		}
	}
}

// Relations prints the relations row of one entity.
func (p *Printer) Relations(ref candidate.Ref, name func(candidate.Ref) string, rel *graph.Relations) {
	fmt.Fprintf(os.Stderr, "\n"+ansi.Bold+"%s %s"+ansi.Reset+ansi.Dim+" (%s)"+ansi.Reset+"\n",
		ref.Kind, name(ref), ref.ID)
	if rel.Len() == 0 {
		fmt.Fprintln(os.Stderr, ansi.Dim+"  (no relations)"+ansi.Reset)
		return
	}
	for _, k := range catalog.AllKinds() {
		refs := rel.Refs(k)
		if len(refs) == 0 {
			continue
		}
		names := make([]string, len(refs))
		for i, r := range refs {
			names[i] = name(r)
		}
		fmt.Fprintf(os.Stderr, "  %s %s\n", kindLabel(k), strings.Join(names, ", "))
	}
}

func topicLine(label string, name func(candidate.Ref) string, ids []string) {
	if len(ids) == 0 {
		fmt.Fprintf(os.Stderr, "  %-15s "+ansi.Dim+"none"+ansi.Reset+"\n", label)
		return
	}
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = name(candidate.Topic(id))
	}
	fmt.Fprintf(os.Stderr, "  %-15s %s\n", label, strings.Join(names, ", "))
}

// TopicFlow prints the topics upstream and downstream of a topic.
func (p *Printer) TopicFlow(name func(candidate.Ref) string, upstream, downstream []string) {
	topicLine("upstream", name, upstream)
	topicLine("downstream", name, downstream)
}

// PipelineUsage prints the topics a pipeline is triggered by, reads and writes.
func (p *Printer) PipelineUsage(name func(candidate.Ref) string, u relation.Usage) {
	var trigger []string
	if u.Trigger != "" {
		trigger = []string{u.Trigger}
	}
	topicLine("trigger", name, trigger)
	topicLine("reads", name, u.Reads)
	topicLine("writes", name, u.Writes)
}

// CheckReport prints the outcome of validating a picked-set. It returns
// true when the set is consistent.
func (p *Printer) CheckReport(name func(candidate.Ref) string, picked int, violations []cascade.Violation, dropped []candidate.Ref) bool {
	for _, ref := range dropped {
		fmt.Fprintf(os.Stderr, ansi.Yellow+"⚠ %s"+ansi.Reset+" is not in the source catalog\n", ref)
	}
	if len(violations) == 0 {
		fmt.Fprintf(os.Stderr, ansi.Green+ansi.Bold+"✓ consistent"+ansi.Reset+" — %d picked, no missing foundations\n", picked)
		return true
	}
	fmt.Fprintf(os.Stderr, ansi.Red+ansi.Bold+"✗ %d violation(s)"+ansi.Reset+" in %d picked:\n", len(violations), picked)
	for _, v := range violations {
		missing := make([]string, len(v.Missing))
		for i, m := range v.Missing {
			missing[i] = fmt.Sprintf("%s %s", m.Kind, name(m))
		}
		joiner := " and "
		if v.AnyOf {
			joiner = " or "
		}
		fmt.Fprintf(os.Stderr, "  "+ansi.Red+"• "+ansi.Reset+"%s %s needs %s\n",
			v.Ref.Kind, name(v.Ref), strings.Join(missing, joiner))
	}
	return false
}
