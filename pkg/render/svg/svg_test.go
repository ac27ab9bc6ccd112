package svg

import (
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"github.com/matzehuels/courseflow/pkg/graph"
	"github.com/matzehuels/courseflow/pkg/style"
	"github.com/matzehuels/courseflow/pkg/viewport"
)

func testFrame() graph.Frame {
	ns := style.NodeStyle{Radius: 6, Fill: "#2f6db5", TextColor: "#333", FontSize: 10, FontWeight: "bold", TextDX: 8, TextDY: 3}
	ls := style.LinkStyle{Width: 1.5, Opacity: 0.6, Stroke: "#999"}
	return graph.Frame{
		Width:     400,
		Height:    300,
		Canvas:    graph.Canvas{Color: "#fcfcfd", BorderRadius: 12},
		Scope:     "catalog",
		Transform: viewport.Transform{X: 200, Y: 150, K: 1.5},
		Nodes: []graph.Node{
			{ID: "catalog", Label: "Example University", X: 0, Y: 0, Style: ns},
			{ID: "MATH1001", Label: "MATH1001 Calculus & Analysis", Description: "Limits <and> series", X: 40, Y: -20, Style: ns},
		},
		Edges: []graph.Edge{
			{From: "catalog", To: "MATH1001", X2: 40, Y2: -20, Style: ls},
		},
	}
}

func TestRenderWellFormed(t *testing.T) {
	doc := Render(testFrame(), WithInteraction(), WithTitles())

	dec := xml.NewDecoder(strings.NewReader(string(doc)))
	for {
		_, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("invalid XML: %v\n%s", err, doc)
		}
	}
}

func TestRenderContent(t *testing.T) {
	doc := string(Render(testFrame()))

	for _, want := range []string{
		`viewBox="0 0 400.0 300.0"`,
		`data-scope="catalog"`,
		`<rect class="canvas" width="400.0" height="300.0" rx="12.0" ry="12.0" fill="#fcfcfd"/>`,
		`transform="translate(200.00,150.00) scale(1.5000)"`,
		`data-from="catalog" data-to="MATH1001" x1="0.00" y1="0.00" x2="40.00" y2="-20.00"`,
		`stroke-width="1.50" stroke-opacity="0.60"`,
		`<circle r="6.00" fill="#2f6db5"/>`,
		`MATH1001 Calculus &amp; Analysis`,
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("missing %q", want)
		}
	}
	if strings.Contains(doc, "<script") {
		t.Error("script rendered without WithInteraction")
	}
	if strings.Contains(doc, "<title>") {
		t.Error("title rendered without WithTitles")
	}
}

func TestRenderOptions(t *testing.T) {
	doc := string(Render(testFrame(), WithoutLabels(), WithTitles(), WithInteraction()))
	if strings.Contains(doc, "<text") {
		t.Error("labels rendered with WithoutLabels")
	}
	if !strings.Contains(doc, "<title>Limits &lt;and&gt; series</title>") {
		t.Error("description title missing")
	}
	if !strings.Contains(doc, "courseflow:activate") {
		t.Error("activation script missing")
	}

	doc = string(Render(testFrame(), WithMaxLabel(10)))
	if !strings.Contains(doc, ">MATH1001..</text>") {
		t.Error("label not truncated")
	}
}

func TestRenderEmptyFrame(t *testing.T) {
	doc := string(Render(graph.Frame{Width: 100, Height: 50, Transform: viewport.Identity}))
	if strings.Contains(doc, "<circle") || strings.Contains(doc, "<line") {
		t.Error("empty frame rendered shapes")
	}
	if strings.Contains(doc, `class="canvas"`) {
		t.Error("canvas drawn without a colour")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"much longer label", 10, "much lon.."},
		{"abcdef", 1, "a.."},
		{"unlimited", 0, "unlimited"},
		{"Überblick über", 6, "Über.."},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}
