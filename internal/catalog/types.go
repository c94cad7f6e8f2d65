// Package catalog defines the raw entities a picker session is built from
// (topics, pipelines, spaces, connected spaces with their embedded subjects,
// and indicators) and loads them from TOML, YAML or JSON catalog files or from
// a SQLite store.
package catalog

import "strings"

// BaseOn names what an indicator measures.
type BaseOn string

const (
	BaseOnTopic   BaseOn = "topic"
	BaseOnSubject BaseOn = "subject"
)

// Normalize lower-cases the value so "TOPIC" and "topic" compare equal.
func (b BaseOn) Normalize() BaseOn {
	return BaseOn(strings.ToLower(strings.TrimSpace(string(b))))
}

// Topic is a data topic.
type Topic struct {
	ID   string `toml:"id" yaml:"id" json:"id"`
	Name string `toml:"name" yaml:"name" json:"name"`
}

// Action is a single pipeline action. TopicID is empty for actions that do
// not touch a topic (alarms, memory copies, external writes).
type Action struct {
	Type    string `toml:"type" yaml:"type" json:"type"`
	TopicID string `toml:"topic_id,omitempty" yaml:"topic_id,omitempty" json:"topicId,omitempty"`
}

// Unit groups actions inside a stage.
type Unit struct {
	Name string   `toml:"name,omitempty" yaml:"name,omitempty" json:"name,omitempty"`
	Do   []Action `toml:"do,omitempty" yaml:"do,omitempty" json:"do,omitempty"`
}

// Stage groups units inside a pipeline.
type Stage struct {
	Name  string `toml:"name,omitempty" yaml:"name,omitempty" json:"name,omitempty"`
	Units []Unit `toml:"units,omitempty" yaml:"units,omitempty" json:"units,omitempty"`
}

// Pipeline is triggered by TopicID and reads or writes further topics
// through the actions in its stages.
type Pipeline struct {
	ID      string  `toml:"id" yaml:"id" json:"id"`
	Name    string  `toml:"name" yaml:"name" json:"name"`
	TopicID string  `toml:"topic_id" yaml:"topic_id" json:"topicId"`
	Stages  []Stage `toml:"stages,omitempty" yaml:"stages,omitempty" json:"stages,omitempty"`
}

// Actions returns every action of the pipeline in stage, unit, action order.
func (p Pipeline) Actions() []Action {
	var out []Action
	for _, s := range p.Stages {
		for _, u := range s.Units {
			out = append(out, u.Do...)
		}
	}
	return out
}

// Space exposes an ordered set of topics.
type Space struct {
	ID       string   `toml:"id" yaml:"id" json:"id"`
	Name     string   `toml:"name" yaml:"name" json:"name"`
	TopicIDs []string `toml:"topic_ids" yaml:"topic_ids" json:"topicIds"`
}

// Subject is a dataset defined inside a connected space.
type Subject struct {
	ID   string `toml:"id" yaml:"id" json:"id"`
	Name string `toml:"name" yaml:"name" json:"name"`
}

// ConnectedSpace connects to a space and embeds its subjects in full.
type ConnectedSpace struct {
	ID       string    `toml:"id" yaml:"id" json:"id"`
	Name     string    `toml:"name" yaml:"name" json:"name"`
	SpaceID  string    `toml:"space_id" yaml:"space_id" json:"spaceId"`
	Subjects []Subject `toml:"subjects,omitempty" yaml:"subjects,omitempty" json:"subjects,omitempty"`
}

// Indicator measures either a topic or a subject.
type Indicator struct {
	ID               string `toml:"id" yaml:"id" json:"id"`
	Name             string `toml:"name" yaml:"name" json:"name"`
	BaseOn           BaseOn `toml:"base_on" yaml:"base_on" json:"baseOn"`
	TopicOrSubjectID string `toml:"topic_or_subject_id" yaml:"topic_or_subject_id" json:"topicOrSubjectId"`
}

// Catalog is a flat snapshot of every entity in one scope.
type Catalog struct {
	Topics          []Topic          `toml:"topics" yaml:"topics" json:"topics"`
	Pipelines       []Pipeline       `toml:"pipelines" yaml:"pipelines" json:"pipelines"`
	Spaces          []Space          `toml:"spaces" yaml:"spaces" json:"spaces"`
	ConnectedSpaces []ConnectedSpace `toml:"connected_spaces" yaml:"connected_spaces" json:"connectedSpaces"`
	Indicators      []Indicator      `toml:"indicators" yaml:"indicators" json:"indicators"`
}

// Subjects returns every subject embedded in the catalog's connected spaces,
// deduplicated by id in first-seen order.
func (c *Catalog) Subjects() []Subject {
	seen := make(map[string]bool)
	var out []Subject
	for _, cs := range c.ConnectedSpaces {
		for _, s := range cs.Subjects {
			if seen[s.ID] {
				continue
			}
			seen[s.ID] = true
			out = append(out, s)
		}
	}
	return out
}

// Len returns the total number of entities, counting each subject once.
func (c *Catalog) Len() int {
	return len(c.Topics) + len(c.Pipelines) + len(c.Spaces) +
		len(c.ConnectedSpaces) + len(c.Subjects()) + len(c.Indicators)
}
