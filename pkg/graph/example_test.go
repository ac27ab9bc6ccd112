package graph_test

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/matzehuels/courseflow/pkg/graph"
	"github.com/matzehuels/courseflow/pkg/viewport"
)

func ExampleReadFrame() {
	jsonData := `{
		"width": 400,
		"height": 300,
		"transform": {"x": 200, "y": 150, "k": 2},
		"run": {"generation": 3, "state": "converged", "ticks": 131},
		"nodes": [
			{"id": "sci", "label": "Science", "x": 0, "y": 0},
			{"id": "math", "x": 30, "y": -10}
		],
		"edges": [
			{"from": "sci", "to": "math", "x2": 30, "y2": -10}
		]
	}`

	f, err := graph.ReadFrame(bytes.NewReader([]byte(jsonData)))
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	math, _ := f.Node("math")
	x, y := f.Transform.Apply(math.X, math.Y)
	fmt.Println("Run:", f.Run.State, "after", f.Run.Ticks, "ticks")
	fmt.Printf("%s on canvas: (%.0f, %.0f)\n", math.DisplayLabel(), x, y)
	// Output:
	// Run: converged after 131 ticks
	// math on canvas: (260, 130)
}

func ExampleWriteFrameFile() {
	f := graph.Frame{
		Width:     200,
		Height:    200,
		Transform: viewport.Identity,
		Nodes:     []graph.Node{{ID: "root"}, {ID: "leaf", Depth: 1, Leaf: true, X: 30}},
		Edges:     []graph.Edge{{From: "root", To: "leaf", X2: 30}},
	}

	path := filepath.Join(os.TempDir(), "example-frame.json")
	defer os.Remove(path)

	if err := graph.WriteFrameFile(f, path); err != nil {
		fmt.Println("Error:", err)
		return
	}
	back, err := graph.ReadFrameFile(path)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println("Nodes:", back.IDs())
	// Output:
	// Nodes: [root leaf]
}
