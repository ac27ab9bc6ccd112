package projection

import (
	"errors"
	"slices"
	"testing"

	apperrors "github.com/matzehuels/courseflow/pkg/errors"
	"github.com/matzehuels/courseflow/pkg/hierarchy"
)

func mustBuild(t *testing.T, r hierarchy.Record) *hierarchy.Node {
	t.Helper()
	n, err := hierarchy.Build(r)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return n
}

// A→[B,C], B→[D]
func abcd(t *testing.T) *hierarchy.Node {
	return mustBuild(t, hierarchy.Record{ID: "A", Children: []hierarchy.Record{
		{ID: "B", Children: []hierarchy.Record{{ID: "D"}}},
		{ID: "C"},
	}})
}

func TestProjectScenario(t *testing.T) {
	g, err := Project(abcd(t), nil)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}

	if got, want := g.IDs(), []string{"A", "B", "D", "C"}; !slices.Equal(got, want) {
		t.Errorf("IDs() = %v, want %v", got, want)
	}

	type pair struct{ s, t string }
	var edges []pair
	for _, e := range g.Edges {
		edges = append(edges, pair{g.Nodes[e.Source].ID, g.Nodes[e.Target].ID})
	}
	want := []pair{{"A", "B"}, {"B", "D"}, {"A", "C"}}
	if !slices.Equal(edges, want) {
		t.Errorf("edges = %v, want %v", edges, want)
	}
}

func TestProjectCompleteness(t *testing.T) {
	tests := []struct {
		name string
		rec  hierarchy.Record
		want int
	}{
		{"Single", hierarchy.Record{ID: "r"}, 1},
		{"Chain", hierarchy.Record{ID: "a", Children: []hierarchy.Record{{ID: "b", Children: []hierarchy.Record{{ID: "c"}}}}}, 3},
		{"Star", hierarchy.Record{ID: "hub", Children: []hierarchy.Record{{ID: "1"}, {ID: "2"}, {ID: "3"}, {ID: "4"}}}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Project(mustBuild(t, tt.rec), nil)
			if err != nil {
				t.Fatalf("Project: %v", err)
			}
			if len(g.Nodes) != tt.want {
				t.Errorf("nodes = %d, want %d", len(g.Nodes), tt.want)
			}
			if len(g.Edges) != tt.want-1 {
				t.Errorf("edges = %d, want %d", len(g.Edges), tt.want-1)
			}
			for _, e := range g.Edges {
				if e.Source < 0 || e.Source >= g.Len() || e.Target < 0 || e.Target >= g.Len() {
					t.Errorf("edge %+v out of range", e)
				}
				if g.Nodes[e.Target].Parent != e.Source {
					t.Errorf("edge %+v does not match parent index", e)
				}
			}
		})
	}
}

func TestProjectNilRoot(t *testing.T) {
	g, err := Project(nil, nil)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if g.Len() != 0 || len(g.Edges) != 0 {
		t.Errorf("expected empty graph, got %d nodes", g.Len())
	}
	if g.Root() != nil {
		t.Error("Root() should be nil")
	}
}

func TestProjectSubtreeDepth(t *testing.T) {
	root := abcd(t)
	b, _ := root.Find("B")

	g, err := Project(b, nil)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if g.Nodes[0].Depth != 0 || g.Nodes[0].Parent != -1 {
		t.Errorf("scope root = %+v", g.Nodes[0])
	}
	if g.Nodes[1].Depth != 1 {
		t.Errorf("D depth = %d, want 1", g.Nodes[1].Depth)
	}
}

func TestProjectDetectsSharedChild(t *testing.T) {
	shared := &hierarchy.Node{ID: "x"}
	root := &hierarchy.Node{ID: "r", Children: []*hierarchy.Node{
		{ID: "a", Children: []*hierarchy.Node{shared}},
		{ID: "b", Children: []*hierarchy.Node{shared}},
	}}

	_, err := Project(root, nil)
	if !errors.Is(err, ErrRevisited) {
		t.Fatalf("err = %v, want ErrRevisited", err)
	}
	if !apperrors.Is(err, apperrors.ErrCodeMalformedHierarchy) {
		t.Errorf("code = %q", apperrors.GetCode(err))
	}
}

func TestProjectDetectsCycle(t *testing.T) {
	a := &hierarchy.Node{ID: "a"}
	b := &hierarchy.Node{ID: "b", Children: []*hierarchy.Node{a}}
	a.Children = []*hierarchy.Node{b}

	if _, err := Project(a, nil); !errors.Is(err, ErrRevisited) {
		t.Fatalf("err = %v, want ErrRevisited", err)
	}
}

type fixedMetrics struct{ dist, strength float64 }

func (m fixedMetrics) LinkDistance(_, _ *hierarchy.Node) float64 { return m.dist }
func (m fixedMetrics) LinkStrength(_, _ *hierarchy.Node) float64 { return m.strength }

func TestProjectMetrics(t *testing.T) {
	g, _ := Project(abcd(t), fixedMetrics{dist: 80, strength: 0.5})
	for _, e := range g.Edges {
		if e.Distance != 80 || e.Strength != 0.5 {
			t.Errorf("edge %+v, want distance 80 strength 0.5", e)
		}
	}
}

func TestProjectDefaultMetrics(t *testing.T) {
	g, _ := Project(abcd(t), nil)

	// deg(A)=2, deg(B)=2, deg(C)=1, deg(D)=1
	wantStrength := map[[2]string]float64{
		{"A", "B"}: 0.5,
		{"B", "D"}: 1,
		{"A", "C"}: 1,
	}
	for _, e := range g.Edges {
		key := [2]string{g.Nodes[e.Source].ID, g.Nodes[e.Target].ID}
		if e.Strength != wantStrength[key] {
			t.Errorf("%v strength = %v, want %v", key, e.Strength, wantStrength[key])
		}
		if e.Distance != DefaultLinkDistance {
			t.Errorf("%v distance = %v", key, e.Distance)
		}
	}
}

func TestIndexAndDegree(t *testing.T) {
	g, _ := Project(abcd(t), nil)

	i, ok := g.Index("D")
	if !ok || i != 2 {
		t.Errorf("Index(D) = %d, %v", i, ok)
	}
	if _, ok := g.Index("Z"); ok {
		t.Error("Index(Z) reported found")
	}
	if g.Degree(0) != 2 || g.Degree(3) != 1 || g.Degree(99) != 0 {
		t.Errorf("degrees = %d %d %d", g.Degree(0), g.Degree(3), g.Degree(99))
	}
}
