package filter

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/papapumpkin/pickgraph/internal/candidate"
	"github.com/papapumpkin/pickgraph/internal/catalog"
)

func fixture() *candidate.Set {
	return candidate.NewSet(&catalog.Catalog{
		Topics:    []catalog.Topic{{ID: "t1", Name: "Orders"}, {ID: "t2", Name: "Customers"}},
		Pipelines: []catalog.Pipeline{{ID: "p1", Name: "Load orders", TopicID: "t1"}},
		Spaces:    []catalog.Space{{ID: "s1", Name: "Sales", TopicIDs: []string{"t1"}}},
		ConnectedSpaces: []catalog.ConnectedSpace{
			{ID: "c1", Name: "Board", SpaceID: "s1", Subjects: []catalog.Subject{{ID: "sub1", Name: "Revenue"}}},
			{ID: "c2", Name: "Shared", SpaceID: "s1", Subjects: []catalog.Subject{{ID: "sub1", Name: "Revenue"}}},
			{ID: "c3", Name: "Lost", SpaceID: "gone", Subjects: []catalog.Subject{{ID: "sub2", Name: "Margin"}}},
		},
		Indicators: []catalog.Indicator{
			{ID: "i1", Name: "Order count", BaseOn: catalog.BaseOnTopic, TopicOrSubjectID: "t1"},
			{ID: "i2", Name: "Revenue sum", BaseOn: catalog.BaseOnSubject, TopicOrSubjectID: "sub1"},
			{ID: "i3", Name: "Margin avg", BaseOn: catalog.BaseOnSubject, TopicOrSubjectID: "sub2"},
			{ID: "i4", Name: "Orphan", BaseOn: catalog.BaseOnTopic, TopicOrSubjectID: "t404"},
		},
	})
}

func TestOrder(t *testing.T) {
	set := fixture()
	got := Order(set)

	want := []Row{
		{candidate.Topic("t1"), 0},
		{candidate.Indicator("i1"), 1},
		{candidate.Topic("t2"), 0},
		{candidate.Pipeline("p1"), 0},
		{candidate.Space("s1"), 0},
		{candidate.ConnectedSpace("c1"), 1},
		{candidate.Subject("sub1"), 2},
		{candidate.Indicator("i2"), 3},
		{candidate.ConnectedSpace("c2"), 1},
		{candidate.ConnectedSpace("c3"), 0},
		{candidate.Subject("sub2"), 1},
		{candidate.Indicator("i3"), 2},
		{candidate.Indicator("i4"), 0},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Order mismatch (-want +got):\n%s", diff)
	}
	if len(got) != set.Total() {
		t.Errorf("Order returned %d rows for %d candidates", len(got), set.Total())
	}
}

func TestApply_Substring(t *testing.T) {
	set := fixture()
	rows := Order(set)
	name := func(r Row) string { return set.Name(r.Ref) }

	tests := []struct {
		text string
		want []candidate.Ref
	}{
		{"", Refs(rows)},
		{"   ", []candidate.Ref{}},
		{" orders", []candidate.Ref{candidate.Pipeline("p1")}},
		{"ORDER", []candidate.Ref{candidate.Topic("t1"), candidate.Indicator("i1"), candidate.Pipeline("p1")}},
		{"revenue", []candidate.Ref{candidate.Subject("sub1"), candidate.Indicator("i2")}},
		{"zzz", []candidate.Ref{}},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := Refs(Apply(rows, name, Substring{}, tt.text))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Apply(%q) mismatch (-want +got):\n%s", tt.text, diff)
			}
		})
	}
}

func TestApply_FuzzyKeepsDisplayOrder(t *testing.T) {
	set := fixture()
	rows := Order(set)
	name := func(r Row) string { return set.Name(r.Ref) }

	got := Refs(Apply(rows, name, Fuzzy{}, "rvn"))
	want := []candidate.Ref{candidate.Subject("sub1"), candidate.Indicator("i2")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("fuzzy mismatch (-want +got):\n%s", diff)
	}
}

func TestNewMatcher(t *testing.T) {
	for _, mode := range []Mode{"", ModeSubstring, "FUZZY"} {
		if _, err := NewMatcher(mode); err != nil {
			t.Errorf("NewMatcher(%q): %v", mode, err)
		}
	}
	if _, err := NewMatcher("regex"); err == nil {
		t.Error("NewMatcher(regex) should fail")
	}
}

func TestDebouncer_OnlyLastTriggerRuns(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	var calls atomic.Int32
	var last atomic.Int32

	for i := int32(1); i <= 5; i++ {
		v := i
		d.Trigger(func() {
			calls.Add(1)
			last.Store(v)
		})
	}
	if !d.Pending() {
		t.Error("expected a pending callback")
	}

	deadline := time.Now().Add(time.Second)
	for calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(50 * time.Millisecond)

	if got := calls.Load(); got != 1 {
		t.Errorf("callback ran %d times, want 1", got)
	}
	if got := last.Load(); got != 5 {
		t.Errorf("last trigger value = %d, want 5", got)
	}
	if d.Pending() {
		t.Error("debouncer still pending after firing")
	}
}

func TestDebouncer_Cancel(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)
	var calls atomic.Int32
	d.Trigger(func() { calls.Add(1) })
	d.Cancel()
	time.Sleep(40 * time.Millisecond)
	if calls.Load() != 0 {
		t.Error("cancelled callback ran")
	}
}

func TestNewDebouncer_Duration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want time.Duration
	}{
		{DefaultDebounce, DefaultDebounce},
		{0, 0},
		{-time.Second, 0},
	}
	for _, tt := range tests {
		if got := NewDebouncer(tt.in).Duration(); got != tt.want {
			t.Errorf("NewDebouncer(%v).Duration() = %v, want %v", tt.in, got, tt.want)
		}
	}
}
