package ui

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/papapumpkin/pickgraph/internal/candidate"
	"github.com/papapumpkin/pickgraph/internal/cascade"
	"github.com/papapumpkin/pickgraph/internal/catalog"
	"github.com/papapumpkin/pickgraph/internal/graph"
	"github.com/papapumpkin/pickgraph/internal/relation"
	"github.com/papapumpkin/pickgraph/internal/selection"
)

// captureStderr redirects os.Stderr to a pipe and returns the captured output.
func captureStderr(fn func()) string {
	r, w, _ := os.Pipe()
	orig := os.Stderr
	os.Stderr = w

	fn()

	w.Close()
	os.Stderr = orig

	out, _ := io.ReadAll(r)
	r.Close()
	return string(out)
}

func testSet() *candidate.Set {
	return candidate.NewSet(&catalog.Catalog{
		Topics:    []catalog.Topic{{ID: "t1", Name: "Orders"}, {ID: "t2", Name: "Payments"}},
		Pipelines: []catalog.Pipeline{{ID: "p1", Name: "Settle", TopicID: "t2"}},
		Spaces:    []catalog.Space{{ID: "s1", Name: "Sales", TopicIDs: []string{"t1"}}},
		ConnectedSpaces: []catalog.ConnectedSpace{{
			ID: "c1", Name: "Board", SpaceID: "s1",
			Subjects: []catalog.Subject{{ID: "sub1", Name: "Revenue"}},
		}},
	})
}

func assertContains(t *testing.T, output string, substrs ...string) {
	t.Helper()
	for _, s := range substrs {
		if !strings.Contains(output, s) {
			t.Errorf("expected output to contain %q, got:\n%s", s, output)
		}
	}
}

func TestLoaded(t *testing.T) {
	set := testSet()
	output := captureStderr(func() {
		New().Loaded("source.toml", set, graph.Stats{Nodes: 6, Edges: 12})
	})
	assertContains(t, output, "source.toml", "6 nodes", "12 edges", "topic: 2", "pipeline: 1", "subject: 1")
	if strings.Contains(output, "indicator:") {
		t.Errorf("empty kinds should be omitted, got:\n%s", output)
	}
}

func TestRelations(t *testing.T) {
	set := testSet()
	table := graph.Build(set, nil)
	output := captureStderr(func() {
		New().Relations(candidate.Topic("t1"), set.Name, table.Of(candidate.Topic("t1")))
	})
	assertContains(t, output, "Orders", "Sales", "Board", "Revenue")
	if strings.Contains(output, "Settle") {
		t.Errorf("t1 is not related to p1, got:\n%s", output)
	}

	output = captureStderr(func() {
		New().Relations(candidate.Topic("ghost"), set.Name, table.Of(candidate.Topic("ghost")))
	})
	assertContains(t, output, "(no relations)")
}

func TestTransitionsAndSelection(t *testing.T) {
	set := testSet()
	output := captureStderr(func() {
		p := New()
		p.Transitions(set.Name, []cascade.Transition{
			{Ref: candidate.Pipeline("p1"), From: false, To: true},
			{Ref: candidate.Topic("t2"), From: true, To: false},
		})
		sel := selection.Build(set, candidate.NewState(candidate.Topic("t1"), candidate.Space("s1")))
		p.SelectionSaved("out.toml", sel)
	})
	assertContains(t, output, "+", "Settle", "-", "Payments", "selection saved", "out.toml", "2 entities")
}

func TestCheckReport(t *testing.T) {
	set := testSet()

	var ok bool
	output := captureStderr(func() {
		ok = New().CheckReport(set.Name, 3, nil, nil)
	})
	if !ok {
		t.Error("CheckReport with no violations returned false")
	}
	assertContains(t, output, "consistent", "3 picked")

	output = captureStderr(func() {
		ok = New().CheckReport(set.Name, 2, []cascade.Violation{{
			Ref:     candidate.Subject("sub1"),
			Missing: []candidate.Ref{candidate.ConnectedSpace("c1")},
			AnyOf:   true,
		}}, []candidate.Ref{candidate.Topic("ghost")})
	})
	if ok {
		t.Error("CheckReport with violations returned true")
	}
	assertContains(t, output, "1 violation(s)", "Revenue needs connected-space Board", "topic:ghost")
}

func TestTopicFlowAndPipelineUsage(t *testing.T) {
	set := testSet()
	output := captureStderr(func() {
		p := New()
		p.TopicFlow(set.Name, []string{"t2"}, nil)
		p.PipelineUsage(set.Name, relation.Usage{Trigger: "t2", Writes: []string{"t1"}})
	})
	assertContains(t, output, "upstream", "Payments", "downstream", "none", "trigger", "writes", "Orders")
}
