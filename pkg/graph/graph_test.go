package graph

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/courseflow/pkg/style"
	"github.com/matzehuels/courseflow/pkg/viewport"
)

func sampleFrame() Frame {
	return Frame{
		Width:     960,
		Height:    600,
		Canvas:    Canvas{Color: "#fff", BorderRadius: 4},
		Scope:     "A",
		Path:      []string{"A"},
		Tier:      "overview",
		Transform: viewport.Transform{X: 480, Y: 300, K: 0.8},
		Run:       Run{Generation: 2, State: "running", Ticks: 10, Alpha: 0.7},
		Nodes: []Node{
			{ID: "A", Label: "Root", X: 0, Y: 0, Style: style.NodeStyle{Radius: 10, Fill: "#000"}},
			{ID: "B", Depth: 1, X: 10, Y: 5},
			{ID: "C", Depth: 1, Leaf: true, X: -10, Y: 5},
		},
		Edges: []Edge{
			{From: "A", To: "B", X2: 10, Y2: 5, Style: style.LinkStyle{Width: 1, Opacity: 0.5, Stroke: "#999"}},
			{From: "A", To: "C", X2: -10, Y2: 5},
		},
	}
}

func TestMarshalFrameRoundTrip(t *testing.T) {
	in := sampleFrame()
	data, err := MarshalFrame(in)
	if err != nil {
		t.Fatalf("MarshalFrame: %v", err)
	}
	out, err := UnmarshalFrame(data)
	if err != nil {
		t.Fatalf("UnmarshalFrame: %v", err)
	}

	if out.Transform != in.Transform || out.Run != in.Run || out.Canvas != in.Canvas {
		t.Errorf("header changed: %+v", out)
	}
	if len(out.Nodes) != 3 || len(out.Edges) != 2 {
		t.Fatalf("got %d nodes, %d edges", len(out.Nodes), len(out.Edges))
	}
	if out.Nodes[0].Style != in.Nodes[0].Style {
		t.Errorf("node style = %+v", out.Nodes[0].Style)
	}
	if out.Edges[0].Style != in.Edges[0].Style {
		t.Errorf("edge style = %+v", out.Edges[0].Style)
	}
}

func TestUnmarshalFrameErrors(t *testing.T) {
	tests := []struct {
		name string
		json string
		want string
	}{
		{"Syntax", `{"nodes": [`, "unmarshal frame"},
		{"EmptyID", `{"nodes": [{"id": ""}]}`, "empty id"},
		{"DuplicateID", `{"nodes": [{"id": "a"}, {"id": "a"}]}`, "duplicate"},
		{"UnknownSource", `{"nodes": [{"id": "a"}], "edges": [{"from": "x", "to": "a"}]}`, "unknown source"},
		{"UnknownTarget", `{"nodes": [{"id": "a"}], "edges": [{"from": "a", "to": "x"}]}`, "unknown target"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalFrame([]byte(tt.json))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestWriteReadFrame(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFrame(sampleFrame(), &buf); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}
	if !strings.Contains(buf.String(), `"state": "running"`) {
		t.Errorf("output missing run state:\n%s", buf.String())
	}
	f, err := ReadFrame(&buf)
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if f.Scope != "A" {
		t.Errorf("Scope = %q", f.Scope)
	}
}

func TestFrameFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.json")
	if err := WriteFrameFile(sampleFrame(), path); err != nil {
		t.Fatalf("WriteFrameFile: %v", err)
	}
	f, err := ReadFrameFile(path)
	if err != nil {
		t.Fatalf("ReadFrameFile: %v", err)
	}
	if len(f.Nodes) != 3 {
		t.Errorf("nodes = %d", len(f.Nodes))
	}

	if _, err := ReadFrameFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadFrameFile(path); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestFrameQueries(t *testing.T) {
	f := sampleFrame()

	if n, ok := f.Node("C"); !ok || !n.Leaf {
		t.Errorf("Node(C) = %+v, %v", n, ok)
	}
	if _, ok := f.Node("Z"); ok {
		t.Error("Node(Z) reported found")
	}
	if got := strings.Join(f.IDs(), ","); got != "A,B,C" {
		t.Errorf("IDs() = %s", got)
	}
	if f.Empty() {
		t.Error("Empty() = true")
	}
	if b := f.Bounds(); b != (viewport.Box{MinX: -10, MinY: 0, MaxX: 10, MaxY: 5}) {
		t.Errorf("Bounds() = %+v", b)
	}
	if !(&Frame{}).Empty() {
		t.Error("zero frame should be empty")
	}
}

func TestDisplayLabel(t *testing.T) {
	n := Node{ID: "x"}
	if n.DisplayLabel() != "x" {
		t.Errorf("DisplayLabel() = %q", n.DisplayLabel())
	}
	n.Label = "Ex"
	if n.DisplayLabel() != "Ex" {
		t.Errorf("DisplayLabel() = %q", n.DisplayLabel())
	}
}
