package catalog

import (
	"context"
	"slices"
	"strings"
	"testing"

	apperrors "github.com/matzehuels/courseflow/pkg/errors"
	"github.com/matzehuels/courseflow/pkg/hierarchy"
)

func loadTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := LoadFile("testdata/catalog.json")
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	return c
}

func childIDs(n *hierarchy.Node) []string {
	ids := make([]string, len(n.Children))
	for i, c := range n.Children {
		ids[i] = c.ID
	}
	return ids
}

func TestHierarchicalDataByFaculty(t *testing.T) {
	c := loadTestCatalog(t)
	root, err := c.HierarchicalData(context.Background(), ByFaculty)
	if err != nil {
		t.Fatalf("HierarchicalData: %v", err)
	}

	if root.ID != GroupCatalog || root.Name != "Example University" {
		t.Errorf("root = %s %q", root.ID, root.Name)
	}
	want := []string{"faculty:arts", "faculty:science", "faculty:unassigned"}
	if got := childIDs(root); !slices.Equal(got, want) {
		t.Errorf("faculties = %v, want %v", got, want)
	}

	sci, _ := root.Find("faculty:science")
	if got := childIDs(sci); !slices.Equal(got, []string{"faculty:science/school:mathematics", "faculty:science/school:physics"}) {
		t.Errorf("science schools = %v", got)
	}
	calc, ok := root.Find("MATH1001")
	if !ok {
		t.Fatal("MATH1001 missing")
	}
	if calc.Depth() != 3 || calc.Group != GroupUnit || calc.Name != "MATH1001 Calculus" {
		t.Errorf("MATH1001 = depth %d group %q name %q", calc.Depth(), calc.Group, calc.Name)
	}
	if root.Count() != 1+3+5+6 {
		t.Errorf("Count() = %d, want 15", root.Count())
	}
}

func TestHierarchicalDataBySchoolAndLevel(t *testing.T) {
	c := loadTestCatalog(t)
	ctx := context.Background()

	bySchool, err := c.HierarchicalData(ctx, BySchool)
	if err != nil {
		t.Fatalf("school: %v", err)
	}
	if len(bySchool.Children) != 5 {
		t.Errorf("schools = %v", childIDs(bySchool))
	}

	byLevel, err := c.HierarchicalData(ctx, "LEVEL")
	if err != nil {
		t.Fatalf("level: %v", err)
	}
	want := []string{"level:1", "level:2", "level:3", "level:0"}
	if got := childIDs(byLevel); !slices.Equal(got, want) {
		t.Errorf("levels = %v, want %v", got, want)
	}
	lvl1, _ := byLevel.Find("level:1")
	if got := childIDs(lvl1); !slices.Equal(got, []string{"HIST1001", "MATH1001", "PHYS1001"}) {
		t.Errorf("level 1 units = %v", got)
	}
}

func TestHierarchicalDataDeterministic(t *testing.T) {
	c := loadTestCatalog(t)
	a, _ := c.HierarchicalData(context.Background(), ByFaculty)
	b, _ := c.HierarchicalData(context.Background(), ByFaculty)

	var ida, idb []string
	a.Walk(func(n *hierarchy.Node) bool { ida = append(ida, n.ID); return true })
	b.Walk(func(n *hierarchy.Node) bool { idb = append(idb, n.ID); return true })
	if !slices.Equal(ida, idb) {
		t.Error("two calls produced different trees")
	}
}

func TestHierarchicalDataUnknownMode(t *testing.T) {
	c := loadTestCatalog(t)
	_, err := c.HierarchicalData(context.Background(), "campus")
	if !apperrors.Is(err, apperrors.ErrCodeDataUnavailable) {
		t.Errorf("err = %v, want DATA_UNAVAILABLE", err)
	}
}

func TestHierarchicalDataCancelled(t *testing.T) {
	c := loadTestCatalog(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.HierarchicalData(ctx, ByFaculty); !apperrors.Is(err, apperrors.ErrCodeDataUnavailable) {
		t.Errorf("err = %v, want DATA_UNAVAILABLE", err)
	}
}

func TestParseMode(t *testing.T) {
	if m, err := ParseMode(""); err != nil || m != DefaultMode {
		t.Errorf("ParseMode(\"\") = %v, %v", m, err)
	}
	if m, err := ParseMode("School"); err != nil || m != BySchool {
		t.Errorf("ParseMode(School) = %v, %v", m, err)
	}
	if _, err := ParseMode("nope"); err == nil {
		t.Error("ParseMode(nope) should fail")
	}
}

func TestNewValidates(t *testing.T) {
	if _, err := New("x", []Unit{{Code: "A"}, {Code: "A"}}); !apperrors.Is(err, apperrors.ErrCodeInvalidInput) {
		t.Errorf("duplicate code err = %v", err)
	}
	if _, err := New("x", []Unit{{Title: "no code"}}); !apperrors.Is(err, apperrors.ErrCodeInvalidInput) {
		t.Errorf("empty code err = %v", err)
	}
	c, err := New("", []Unit{{Code: "A", Title: "Alpha"}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.Name != "Catalog" {
		t.Errorf("default name = %q", c.Name)
	}
	if u, ok := c.Unit("A"); !ok || u.Title != "Alpha" {
		t.Errorf("Unit(A) = %+v, %v", u, ok)
	}
}

func TestReadErrors(t *testing.T) {
	if _, err := Read(strings.NewReader("{")); !apperrors.Is(err, apperrors.ErrCodeInvalidFormat) {
		t.Errorf("err = %v, want INVALID_FORMAT", err)
	}
	if _, err := LoadFile("testdata/missing.json"); !apperrors.Is(err, apperrors.ErrCodeDataUnavailable) {
		t.Errorf("err = %v, want DATA_UNAVAILABLE", err)
	}
	if _, err := LoadFile(""); !apperrors.Is(err, apperrors.ErrCodeInvalidPath) {
		t.Errorf("err = %v, want INVALID_PATH", err)
	}
}

func TestConstraintsPreserved(t *testing.T) {
	c := loadTestCatalog(t)
	u, ok := c.Unit("MATH2002")
	if !ok || len(u.Constraints) != 1 || u.Constraints[0].Units[0] != "MATH1001" {
		t.Errorf("MATH2002 constraints = %+v", u.Constraints)
	}
}

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"Science":                 "science",
		"  Arts & Humanities ":    "arts-humanities",
		"Engineering (Civil)":     "engineering-civil",
		"Business--Law":           "business-law",
	}
	for in, want := range tests {
		if got := slug(in); got != want {
			t.Errorf("slug(%q) = %q, want %q", in, got, want)
		}
	}
}
