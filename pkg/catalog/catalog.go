// Package catalog is the reference catalog data source: a flat list of
// academic units grouped into a hierarchy on demand.
//
// A [Catalog] is loaded from JSON and answers [Catalog.HierarchicalData] for
// each supported [GroupingMode]:
//
//	faculty  catalog → faculty → school → unit
//	school   catalog → school → unit
//	level    catalog → level → unit
//
// Group nodes use the IDs "faculty:<slug>", "school:<slug>" and
// "level:<n>"; units use their code. Groups are ordered by name and units
// by code, so the same catalog always produces the same tree.
package catalog

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strings"
	"unicode"

	apperrors "github.com/matzehuels/courseflow/pkg/errors"
	"github.com/matzehuels/courseflow/pkg/hierarchy"
)

// GroupingMode selects how units are grouped below the catalog root.
type GroupingMode string

// Supported grouping modes.
const (
	ByFaculty GroupingMode = "faculty"
	BySchool  GroupingMode = "school"
	ByLevel   GroupingMode = "level"
)

// DefaultMode is the grouping used when none is requested.
const DefaultMode = ByFaculty

// Modes lists the supported grouping modes.
var Modes = []GroupingMode{ByFaculty, BySchool, ByLevel}

// Group names of the generated hierarchy nodes.
const (
	GroupCatalog = "catalog"
	GroupFaculty = "faculty"
	GroupSchool  = "school"
	GroupLevel   = "level"
	GroupUnit    = "unit"
)

const unassigned = "Unassigned"

// ParseMode converts a mode name (case-insensitive) into a GroupingMode.
// Unknown names return DATA_UNAVAILABLE.
func ParseMode(s string) (GroupingMode, error) {
	if s == "" {
		return DefaultMode, nil
	}
	names := make([]string, len(Modes))
	for i, m := range Modes {
		names[i] = string(m)
	}
	if err := apperrors.ValidateGroupingMode(s, names); err != nil {
		return "", err
	}
	return GroupingMode(strings.ToLower(s)), nil
}

// Unit is one catalog entry.
type Unit struct {
	Code        string       `json:"code"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Faculty     string       `json:"faculty,omitempty"`
	School      string       `json:"school,omitempty"`
	Level       int          `json:"level,omitempty"`
	Constraints []Constraint `json:"constraints,omitempty"`
}

// Constraint is an enrolment rule naming other units, such as
// prerequisites or prohibitions.
type Constraint struct {
	Type  string   `json:"type"`
	Units []string `json:"units"`
}

// Catalog is an immutable set of units.
type Catalog struct {
	Name  string `json:"name"`
	Units []Unit `json:"units"`

	byCode map[string]int
}

// New validates units and returns a catalog. Unit codes must be non-empty
// and unique.
func New(name string, units []Unit) (*Catalog, error) {
	c := &Catalog{Name: name, Units: slices.Clone(units)}
	if err := c.index(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) index() error {
	if c.Name == "" {
		c.Name = "Catalog"
	}
	c.byCode = make(map[string]int, len(c.Units))
	for i, u := range c.Units {
		if err := apperrors.ValidateNodeID(u.Code); err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "unit %d", i)
		}
		if _, dup := c.byCode[u.Code]; dup {
			return apperrors.New(apperrors.ErrCodeInvalidInput, "duplicate unit code %q", u.Code)
		}
		c.byCode[u.Code] = i
	}
	return nil
}

// Read decodes a catalog from JSON.
func Read(r io.Reader) (*Catalog, error) {
	var c Catalog
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "decode catalog")
	}
	if err := c.index(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadFile reads a catalog from a JSON file.
func LoadFile(path string) (*Catalog, error) {
	if err := apperrors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeDataUnavailable, err, "open catalog %s", path)
	}
	defer f.Close()
	return Read(f)
}

// Unit returns the unit with the given code.
func (c *Catalog) Unit(code string) (Unit, bool) {
	i, ok := c.byCode[code]
	if !ok {
		return Unit{}, false
	}
	return c.Units[i], true
}

// HierarchicalData groups the catalog's units by mode. Unknown modes return
// DATA_UNAVAILABLE.
func (c *Catalog) HierarchicalData(ctx context.Context, mode GroupingMode) (*hierarchy.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeDataUnavailable, err, "group by %s", mode)
	}
	mode, err := ParseMode(string(mode))
	if err != nil {
		return nil, err
	}

	root := hierarchy.Record{
		ID:          GroupCatalog,
		Name:        c.Name,
		Description: fmt.Sprintf("%d units", len(c.Units)),
		Group:       GroupCatalog,
	}
	switch mode {
	case ByFaculty:
		root.Children = partition(c.Units, GroupFaculty, "", facultyOf, func(parent string, units []Unit) []hierarchy.Record {
			return partition(units, GroupSchool, parent+"/", schoolOf, unitRecords)
		})
	case BySchool:
		root.Children = partition(c.Units, GroupSchool, "", schoolOf, unitRecords)
	case ByLevel:
		root.Children = partition(c.Units, GroupLevel, "", levelOf, unitRecords)
	}
	return hierarchy.Build(root)
}

type bucketKey struct {
	id   string
	name string
	rank int
}

func facultyOf(u Unit) bucketKey { return named("faculty", u.Faculty) }
func schoolOf(u Unit) bucketKey  { return named("school", u.School) }

func levelOf(u Unit) bucketKey {
	if u.Level <= 0 {
		return bucketKey{id: "level:0", name: unassigned, rank: math.MaxInt}
	}
	return bucketKey{id: fmt.Sprintf("level:%d", u.Level), name: fmt.Sprintf("Level %d", u.Level), rank: u.Level}
}

func named(kind, name string) bucketKey {
	if strings.TrimSpace(name) == "" {
		return bucketKey{id: kind + ":unassigned", name: unassigned, rank: 1}
	}
	return bucketKey{id: kind + ":" + slug(name), name: name}
}

func partition(units []Unit, group, prefix string, key func(Unit) bucketKey, children func(parent string, units []Unit) []hierarchy.Record) []hierarchy.Record {
	type bucket struct {
		key   bucketKey
		units []Unit
	}
	byID := make(map[string]*bucket)
	var order []*bucket
	for _, u := range units {
		k := key(u)
		k.id = prefix + k.id
		b, ok := byID[k.id]
		if !ok {
			b = &bucket{key: k}
			byID[k.id] = b
			order = append(order, b)
		}
		b.units = append(b.units, u)
	}
	slices.SortFunc(order, func(a, b *bucket) int {
		if a.key.rank != b.key.rank {
			return cmp.Compare(a.key.rank, b.key.rank)
		}
		return cmp.Or(cmp.Compare(a.key.name, b.key.name), cmp.Compare(a.key.id, b.key.id))
	})

	out := make([]hierarchy.Record, len(order))
	for i, b := range order {
		out[i] = hierarchy.Record{
			ID:          b.key.id,
			Name:        b.key.name,
			Description: fmt.Sprintf("%d units", len(b.units)),
			Group:       group,
			Children:    children(b.key.id, b.units),
		}
	}
	return out
}

func unitRecords(_ string, units []Unit) []hierarchy.Record {
	sorted := slices.SortedFunc(slices.Values(units), func(a, b Unit) int {
		return cmp.Compare(a.Code, b.Code)
	})
	out := make([]hierarchy.Record, len(sorted))
	for i, u := range sorted {
		name := u.Code
		if u.Title != "" {
			name = u.Code + " " + u.Title
		}
		out[i] = hierarchy.Record{ID: u.Code, Name: name, Description: u.Description, Group: GroupUnit}
	}
	return out
}

// slug lowercases s and replaces runs of non-alphanumerics with '-'.
func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
