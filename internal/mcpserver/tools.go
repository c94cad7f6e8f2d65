package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papapumpkin/pickgraph/internal/candidate"
	"github.com/papapumpkin/pickgraph/internal/cascade"
	"github.com/papapumpkin/pickgraph/internal/catalog"
	"github.com/papapumpkin/pickgraph/internal/session"
)

// entity is one candidate as seen by MCP clients.
type entity struct {
	Kind   string `json:"kind"`
	ID     string `json:"id"`
	Name   string `json:"name"`
	Picked bool   `json:"picked"`
	Exists bool   `json:"exists"`
}

// change is one picked flag that a call flipped.
type change struct {
	Kind   string `json:"kind"`
	ID     string `json:"id"`
	Picked bool   `json:"picked"`
}

type refInput struct {
	Kind string `json:"kind" jsonschema:"Entity kind: topic, pipeline, space, connected-space, subject or indicator"`
	ID   string `json:"id" jsonschema:"Entity id"`
}

type relationsOutput struct {
	Entity  entity   `json:"entity"`
	Related []entity `json:"related"`
}

type toggleInput struct {
	Kind   string `json:"kind" jsonschema:"Entity kind: topic, pipeline, space, connected-space, subject or indicator"`
	ID     string `json:"id" jsonschema:"Entity id"`
	Picked *bool  `json:"picked,omitempty" jsonschema:"Target state; omit to flip the current state"`
}

type changesOutput struct {
	Changes []change `json:"changes"`
	Picked  int      `json:"picked"`
	Visible int      `json:"visible,omitempty"`
}

type selectVisibleInput struct {
	Filter string `json:"filter" jsonschema:"Name filter; empty matches every candidate"`
	Picked bool   `json:"picked" jsonschema:"Pick (true) or unpick (false) every matching candidate"`
}

type undoInput struct{}

type undoOutput struct {
	Undone bool `json:"undone"`
	Picked int  `json:"picked"`
}

type selectionInput struct{}

type selectionOutput struct {
	Session    string   `json:"session"`
	Picked     []entity `json:"picked"`
	Violations []string `json:"violations,omitempty"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "relations",
		Description: "List the candidates directly related to one entity",
	}, s.relations)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "toggle",
		Description: "Pick or unpick one entity and cascade the change to its related entities",
	}, s.toggle)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "select_visible",
		Description: "Set the name filter, then pick or unpick every matching entity",
	}, s.selectVisible)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "undo",
		Description: "Revert the last effective toggle or select_visible",
	}, s.undo)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "selection",
		Description: "Return the picked entities and any picked entity whose foundation is missing",
	}, s.selection)
}

func parseRef(kind, id string) (candidate.Ref, error) {
	k, err := catalog.ParseKind(kind)
	if err != nil {
		return candidate.Ref{}, err
	}
	if id == "" {
		return candidate.Ref{}, fmt.Errorf("id is required")
	}
	return candidate.Ref{Kind: k, ID: id}, nil
}

func toEntity(sess *session.Session, ref candidate.Ref) entity {
	return entity{
		Kind:   ref.Kind.String(),
		ID:     ref.ID,
		Name:   sess.Name(ref),
		Picked: sess.Picked(ref),
		Exists: sess.Existing(ref),
	}
}

func toChanges(changes []cascade.Transition) []change {
	out := make([]change, len(changes))
	for i, c := range changes {
		out[i] = change{Kind: c.Ref.Kind.String(), ID: c.Ref.ID, Picked: c.To}
	}
	return out
}

func (s *Server) relations(_ context.Context, _ *mcp.CallToolRequest, in refInput) (*mcp.CallToolResult, relationsOutput, error) {
	ref, err := parseRef(in.Kind, in.ID)
	if err != nil {
		return nil, relationsOutput{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.sess.Set().Has(ref) {
		return nil, relationsOutput{}, fmt.Errorf("%w: %s", session.ErrUnknownCandidate, ref)
	}
	rel := s.sess.Table().Of(ref)
	out := relationsOutput{Entity: toEntity(s.sess, ref), Related: []entity{}}
	for _, kind := range catalog.AllKinds() {
		for _, r := range rel.Refs(kind) {
			out.Related = append(out.Related, toEntity(s.sess, r))
		}
	}
	return nil, out, nil
}

func (s *Server) toggle(_ context.Context, _ *mcp.CallToolRequest, in toggleInput) (*mcp.CallToolResult, changesOutput, error) {
	ref, err := parseRef(in.Kind, in.ID)
	if err != nil {
		return nil, changesOutput{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var changes []cascade.Transition
	if in.Picked == nil {
		changes, err = s.sess.Flip(ref)
	} else {
		changes, err = s.sess.Toggle(ref, *in.Picked)
	}
	if err != nil {
		return nil, changesOutput{}, err
	}
	return nil, changesOutput{Changes: toChanges(changes), Picked: s.sess.State().Total()}, nil
}

func (s *Server) selectVisible(_ context.Context, _ *mcp.CallToolRequest, in selectVisibleInput) (*mcp.CallToolResult, changesOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sess.SetFilter(in.Filter)
	changes := s.sess.SelectAllVisible(in.Picked)
	return nil, changesOutput{
		Changes: toChanges(changes),
		Picked:  s.sess.State().Total(),
		Visible: len(s.sess.Visible()),
	}, nil
}

func (s *Server) undo(_ context.Context, _ *mcp.CallToolRequest, _ undoInput) (*mcp.CallToolResult, undoOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	undone := s.sess.Undo()
	return nil, undoOutput{Undone: undone, Picked: s.sess.State().Total()}, nil
}

func (s *Server) selection(_ context.Context, _ *mcp.CallToolRequest, _ selectionInput) (*mcp.CallToolResult, selectionOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := selectionOutput{Session: s.sess.ID(), Picked: []entity{}}
	for _, ref := range s.sess.State().PickedRefs(s.sess.Set()) {
		out.Picked = append(out.Picked, toEntity(s.sess, ref))
	}
	for _, v := range s.sess.Violations() {
		out.Violations = append(out.Violations, v.String())
	}
	return nil, out, nil
}
