package catalog

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestStore_RoundTrip(t *testing.T) {
	want, err := Load(filepath.Join("testdata", "source.toml"), nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	path := filepath.Join(t.TempDir(), "catalog.db")
	if err := SaveStore(context.Background(), path, want); err != nil {
		t.Fatalf("SaveStore: %v", err)
	}

	got, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load(store): %v", err)
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("store round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_SaveReplacesContents(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "catalog.sqlite")

	s, err := OpenStore(ctx, path)
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	defer s.Close()

	first := &Catalog{
		Topics: []Topic{{ID: "t1", Name: "Orders"}, {ID: "t2", Name: "Payments"}},
		ConnectedSpaces: []ConnectedSpace{{
			ID: "c1", SpaceID: "s1",
			Subjects: []Subject{{ID: "sub1", Name: "Revenue"}},
		}},
	}
	if err := s.Save(ctx, first); err != nil {
		t.Fatalf("Save(first): %v", err)
	}
	second := &Catalog{
		Topics:     []Topic{{ID: "t3", Name: "Refunds"}},
		Indicators: []Indicator{{ID: "i1", Name: "Refund count", BaseOn: "TOPIC", TopicOrSubjectID: "t3"}},
	}
	if err := s.Save(ctx, second); err != nil {
		t.Fatalf("Save(second): %v", err)
	}

	got, err := s.Load(ctx, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := &Catalog{
		Topics:     []Topic{{ID: "t3", Name: "Refunds"}},
		Indicators: []Indicator{{ID: "i1", Name: "Refund count", BaseOn: BaseOnTopic, TopicOrSubjectID: "t3"}},
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("Load after replace mismatch (-want +got):\n%s", diff)
	}
}

func TestIsStorePath(t *testing.T) {
	tests := map[string]bool{
		"catalog.db":      true,
		"catalog.SQLITE":  true,
		"a/b.sqlite3":     true,
		"catalog.toml":    false,
		"catalog.db.json": false,
		"catalog":         false,
	}
	for path, want := range tests {
		if got := IsStorePath(path); got != want {
			t.Errorf("IsStorePath(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestLoad_MissingStore(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.db"), nil)
	if !errors.Is(err, ErrNoCatalog) {
		t.Errorf("error = %v, want ErrNoCatalog", err)
	}
}
