// Package relation derives topic/pipeline read and write relations by
// inspecting pipeline triggers and actions. The result feeds the candidate
// relationship graph and the topic-level views of the picker.
package relation

import (
	"github.com/papapumpkin/pickgraph/internal/catalog"
)

// Access classifies what a pipeline action does to its topic.
type Access int

const (
	AccessNone Access = iota
	AccessRead
	AccessWrite
)

var actionAccess = map[string]Access{
	"read-row":            AccessRead,
	"read-rows":           AccessRead,
	"read-factor":         AccessRead,
	"read-factors":        AccessRead,
	"exists":              AccessRead,
	"insert-row":          AccessWrite,
	"merge-row":           AccessWrite,
	"insert-or-merge-row": AccessWrite,
	"write-factor":        AccessWrite,
	"delete-row":          AccessWrite,
	"delete-rows":         AccessWrite,
}

// AccessOf returns the access an action type performs on its topic.
func AccessOf(actionType string) Access {
	return actionAccess[actionType]
}

// Usage lists the topics a single pipeline touches. Reads and Writes are
// deduplicated and keep action order; Trigger is not repeated in Reads.
type Usage struct {
	Trigger string
	Reads   []string
	Writes  []string
}

// Incoming returns the trigger topic followed by the read topics.
func (u Usage) Incoming() []string {
	out := make([]string, 0, len(u.Reads)+1)
	if u.Trigger != "" {
		out = append(out, u.Trigger)
	}
	for _, id := range u.Reads {
		if id != u.Trigger {
			out = append(out, id)
		}
	}
	return out
}

// Topics returns trigger, reads and writes deduplicated by id.
func (u Usage) Topics() []string {
	seen := make(map[string]bool)
	var out []string
	for _, id := range append(u.Incoming(), u.Writes...) {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// Inspect reports which topics a pipeline triggers from, reads and writes.
func Inspect(p catalog.Pipeline) Usage {
	u := Usage{Trigger: p.TopicID}
	reads := make(map[string]bool)
	writes := make(map[string]bool)
	for _, a := range p.Actions() {
		if a.TopicID == "" {
			continue
		}
		switch AccessOf(a.Type) {
		case AccessRead:
			if a.TopicID != p.TopicID && !reads[a.TopicID] {
				reads[a.TopicID] = true
				u.Reads = append(u.Reads, a.TopicID)
			}
		case AccessWrite:
			if !writes[a.TopicID] {
				writes[a.TopicID] = true
				u.Writes = append(u.Writes, a.TopicID)
			}
		}
	}
	return u
}

// TopicRelation lists the pipelines that read (or are triggered by) a topic
// and the pipelines that write it.
type TopicRelation struct {
	ReadMe  []string
	WriteMe []string
}

// Pipelines returns ReadMe ∪ WriteMe deduplicated, readers first.
func (r TopicRelation) Pipelines() []string {
	seen := make(map[string]bool, len(r.ReadMe)+len(r.WriteMe))
	out := make([]string, 0, len(r.ReadMe)+len(r.WriteMe))
	for _, id := range append(append([]string(nil), r.ReadMe...), r.WriteMe...) {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// Index is the low-level topic/pipeline relation table. It is immutable
// once built.
type Index struct {
	topics  []string
	known   map[string]bool
	byTopic map[string]*TopicRelation
	usage   map[string]Usage
}

// Build inspects every pipeline and records, for every topic in topics,
// which pipelines read and write it. Pipelines referencing topics outside
// topics are simply omitted from those topics' relations.
func Build(topics []catalog.Topic, pipelines []catalog.Pipeline) *Index {
	idx := &Index{
		known:   make(map[string]bool, len(topics)),
		byTopic: make(map[string]*TopicRelation, len(topics)),
		usage:   make(map[string]Usage, len(pipelines)),
	}
	for _, t := range topics {
		if idx.known[t.ID] {
			continue
		}
		idx.known[t.ID] = true
		idx.topics = append(idx.topics, t.ID)
		idx.byTopic[t.ID] = &TopicRelation{}
	}

	for _, p := range pipelines {
		if _, dup := idx.usage[p.ID]; dup {
			continue
		}
		u := Inspect(p)
		idx.usage[p.ID] = u

		for _, tid := range u.Incoming() {
			if rel, ok := idx.byTopic[tid]; ok {
				rel.ReadMe = append(rel.ReadMe, p.ID)
			}
		}
		for _, tid := range u.Writes {
			if rel, ok := idx.byTopic[tid]; ok {
				rel.WriteMe = append(rel.WriteMe, p.ID)
			}
		}
	}
	return idx
}

// Topic returns the relation for a topic. Unknown topics get an empty relation.
func (idx *Index) Topic(topicID string) TopicRelation {
	if rel, ok := idx.byTopic[topicID]; ok {
		return *rel
	}
	return TopicRelation{}
}

// Usage returns the inspected usage of a pipeline, restricted to topics the
// index knows about.
func (idx *Index) Usage(pipelineID string) Usage {
	u, ok := idx.usage[pipelineID]
	if !ok {
		return Usage{}
	}
	out := Usage{}
	if idx.known[u.Trigger] {
		out.Trigger = u.Trigger
	}
	out.Reads = idx.filterKnown(u.Reads)
	out.Writes = idx.filterKnown(u.Writes)
	return out
}

// Upstream returns the topics read by pipelines that write topicID,
// excluding topicID itself.
func (idx *Index) Upstream(topicID string) []string {
	var sources []string
	for _, pid := range idx.Topic(topicID).WriteMe {
		sources = append(sources, idx.Usage(pid).Incoming()...)
	}
	return dedupeExcept(sources, topicID)
}

// Downstream returns the topics written by pipelines that read topicID,
// excluding topicID itself.
func (idx *Index) Downstream(topicID string) []string {
	var targets []string
	for _, pid := range idx.Topic(topicID).ReadMe {
		targets = append(targets, idx.Usage(pid).Writes...)
	}
	return dedupeExcept(targets, topicID)
}

// Topics returns the known topic ids in input order.
func (idx *Index) Topics() []string {
	return append([]string(nil), idx.topics...)
}

func (idx *Index) filterKnown(ids []string) []string {
	var out []string
	for _, id := range ids {
		if idx.known[id] {
			out = append(out, id)
		}
	}
	return out
}

func dedupeExcept(ids []string, skip string) []string {
	seen := map[string]bool{skip: true}
	var out []string
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
