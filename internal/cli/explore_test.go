package cli

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/courseflow/pkg/catalog"
	"github.com/matzehuels/courseflow/pkg/graph"
	"github.com/matzehuels/courseflow/pkg/session"
	"github.com/matzehuels/courseflow/pkg/viewport"
)

func exploreSession(t *testing.T) *session.Session {
	t.Helper()
	cat, err := catalog.New("Test University", []catalog.Unit{
		{Code: "M1", Title: "Calculus", Faculty: "Science", School: "Mathematics", Level: 1},
		{Code: "H1", Title: "Antiquity", Faculty: "Arts", School: "History", Level: 2},
	})
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	s := session.New(cat, session.Options{})
	if err := s.Load(context.Background(), catalog.ByFaculty); err != nil {
		t.Fatalf("Load: %v", err)
	}
	t.Cleanup(s.Dispose)
	return s
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m ExploreModel, msg tea.Msg) (ExploreModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	em, ok := next.(ExploreModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return em, cmd
}

func TestExploreTickChain(t *testing.T) {
	s := exploreSession(t)
	m := newExploreModel(context.Background(), s, time.Millisecond)

	m, cmd := update(t, m, tickMsg{step: s.ScheduleTick()})
	if cmd == nil {
		t.Fatal("running session should schedule another tick")
	}
	if got := s.Frame().Run.Ticks; got != 1 {
		t.Errorf("ticks = %d, want 1", got)
	}

	stale := s.ScheduleTick()
	m, _ = update(t, m, key("r"))
	if _, cmd := update(t, m, tickMsg{step: stale}); cmd != nil {
		t.Error("stale tick should end its chain")
	}
	if got := s.Frame().Run.Ticks; got != 0 {
		t.Errorf("stale tick advanced the new run to %d ticks", got)
	}
}

func TestExploreNavigation(t *testing.T) {
	s := exploreSession(t)
	m := newExploreModel(context.Background(), s, time.Millisecond)

	// Pre-order: catalog, faculty:arts, ...
	m, _ = update(t, m, key("down"))
	m, cmd := update(t, m, key("enter"))
	if cmd == nil {
		t.Error("drill-down should restart the tick chain")
	}
	if got := s.Scope().Root.ID; got != "faculty:arts" {
		t.Fatalf("scope = %q, want faculty:arts", got)
	}
	if m.Cursor != 0 || !strings.Contains(m.Status, "faculty:arts") {
		t.Errorf("cursor = %d, status = %q", m.Cursor, m.Status)
	}

	m, _ = update(t, m, key("backspace"))
	if got := s.Scope().Root.ID; got != catalog.GroupCatalog {
		t.Errorf("after up scope = %q", got)
	}

	m, cmd = update(t, m, key("backspace"))
	if cmd != nil || m.Status != "already at the top" {
		t.Errorf("up at root: status = %q, cmd = %v", m.Status, cmd != nil)
	}

	_, _ = update(t, m, key("m"))
	if s.Mode() != catalog.BySchool {
		t.Errorf("mode = %s, want school", s.Mode())
	}
}

func TestExploreZoom(t *testing.T) {
	s := exploreSession(t)
	m := newExploreModel(context.Background(), s, time.Millisecond)
	before := s.Transform().K
	_, _ = update(t, m, key("+"))
	if got := s.Transform().K; got <= before {
		t.Errorf("zoom K = %v, want > %v", got, before)
	}
}

func TestExploreView(t *testing.T) {
	s := exploreSession(t)
	m := newExploreModel(context.Background(), s, time.Millisecond)
	view := m.View()
	for _, want := range []string{"courseflow", "faculty", "Test University", "q quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestRenderMinimap(t *testing.T) {
	f := graph.Frame{
		Width: 100, Height: 100, Scope: "a",
		Transform: viewport.Identity,
		Nodes: []graph.Node{
			{ID: "a", X: 10, Y: 10},
			{ID: "b", X: 90, Y: 90, Leaf: true},
			{ID: "off", X: 500, Y: 500},
		},
		Edges: []graph.Edge{{From: "a", To: "b", X1: 10, Y1: 10, X2: 90, Y2: 90}},
	}
	out := renderMinimap(f, "b", 10, 10)
	lines := strings.Split(out, "\n")
	if len(lines) != 10 {
		t.Fatalf("rows = %d, want 10", len(lines))
	}
	if []rune(lines[1])[1] != '◉' {
		t.Errorf("scope root not drawn at (1,1):\n%s", out)
	}
	if []rune(lines[9])[9] != '@' {
		t.Errorf("selected node not drawn at (9,9):\n%s", out)
	}
	if !strings.Contains(out, "·") {
		t.Errorf("edge not drawn:\n%s", out)
	}
}

func TestNextMode(t *testing.T) {
	if got := nextMode(catalog.ByLevel); got != catalog.ByFaculty {
		t.Errorf("nextMode(level) = %s, want faculty", got)
	}
	if got := nextMode(catalog.ByFaculty); got != catalog.BySchool {
		t.Errorf("nextMode(faculty) = %s, want school", got)
	}
}
