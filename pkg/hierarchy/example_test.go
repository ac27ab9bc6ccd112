package hierarchy_test

import (
	"fmt"

	"github.com/matzehuels/courseflow/pkg/hierarchy"
)

func ExampleBuildFlat() {
	root, err := hierarchy.BuildFlat([]hierarchy.Entry{
		{ID: "A", Name: "University"},
		{ID: "B", Parent: "A", Name: "Science"},
		{ID: "C", Parent: "A", Name: "Arts"},
		{ID: "D", Parent: "B", Name: "Physics"},
	})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	root.Walk(func(n *hierarchy.Node) bool {
		fmt.Printf("%*s%s\n", n.Depth()*2, "", n.Label())
		return true
	})
	// Output:
	// University
	//   Science
	//     Physics
	//   Arts
}
