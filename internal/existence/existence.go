// Package existence answers whether a source candidate already exists in the
// destination scope. It is purely informational and never affects picking.
package existence

import (
	"github.com/papapumpkin/pickgraph/internal/candidate"
	"github.com/papapumpkin/pickgraph/internal/catalog"
)

// Index maps id → display name per kind for every destination entity.
type Index struct {
	byKind [catalog.NumKinds]map[string]string
}

// New indexes the entities of dest. A nil dest yields an index that reports
// nothing as existing.
func New(dest *catalog.Catalog) *Index {
	idx := &Index{}
	for i := range idx.byKind {
		idx.byKind[i] = make(map[string]string)
	}
	if dest == nil {
		return idx
	}
	for _, t := range dest.Topics {
		idx.add(catalog.KindTopic, t.ID, t.Name)
	}
	for _, p := range dest.Pipelines {
		idx.add(catalog.KindPipeline, p.ID, p.Name)
	}
	for _, s := range dest.Spaces {
		idx.add(catalog.KindSpace, s.ID, s.Name)
	}
	for _, cs := range dest.ConnectedSpaces {
		idx.add(catalog.KindConnectedSpace, cs.ID, cs.Name)
		for _, sub := range cs.Subjects {
			idx.add(catalog.KindSubject, sub.ID, sub.Name)
		}
	}
	for _, ind := range dest.Indicators {
		idx.add(catalog.KindIndicator, ind.ID, ind.Name)
	}
	return idx
}

func (idx *Index) add(kind catalog.Kind, id, name string) {
	if id == "" {
		return
	}
	if _, ok := idx.byKind[kind][id]; !ok {
		idx.byKind[kind][id] = name
	}
}

// IsExisting reports whether ref's id is present in the destination.
func (idx *Index) IsExisting(ref candidate.Ref) bool {
	_, ok := idx.Lookup(ref)
	return ok
}

// Lookup returns the destination entity's name for ref.
func (idx *Index) Lookup(ref candidate.Ref) (string, bool) {
	if idx == nil || !ref.Kind.Valid() {
		return "", false
	}
	name, ok := idx.byKind[ref.Kind][ref.ID]
	return name, ok
}

// Count returns the number of destination entities of kind.
func (idx *Index) Count(kind catalog.Kind) int {
	if idx == nil || !kind.Valid() {
		return 0
	}
	return len(idx.byKind[kind])
}
