// Package course holds the read-only course reference data: par, stroke
// index and distance per hole per tee.
package course

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	scoredomain "github.com/Black-And-White-Club/golf-bot/app/modules/score/domain"
	"gopkg.in/yaml.v3"
)

//go:embed courses.yaml
var defaultCatalog []byte

var ErrInvalidCatalog = errors.New("invalid course catalog")

// Tee is a set of tee markers a round can be played from.
type Tee struct {
	Key           string `yaml:"key" json:"key"`
	Label         string `yaml:"label" json:"label"`
	TotalDistance int    `yaml:"total_distance,omitempty" json:"totalDistance,omitempty"`
}

// TeeOverride replaces par or stroke index for one tee on one hole.
type TeeOverride struct {
	Par         int `yaml:"par,omitempty"`
	StrokeIndex int `yaml:"si,omitempty"`
}

// Hole is the reference entry for a single hole.
type Hole struct {
	Par         int                    `yaml:"par"`
	StrokeIndex int                    `yaml:"si"`
	Distances   map[string]int         `yaml:"distances,omitempty"`
	Overrides   map[string]TeeOverride `yaml:"tee_overrides,omitempty"`
}

// Course is a known course with its holes keyed by number.
type Course struct {
	Name  string       `yaml:"name"`
	Par   int          `yaml:"par"`
	Tees  []Tee        `yaml:"tees"`
	Holes map[int]Hole `yaml:"holes"`
}

var _ scoredomain.CourseData = (*Course)(nil)

// HoleInfo returns par and stroke index for a hole from the given tee.
func (c *Course) HoleInfo(hole int, tee string) (int, int, bool) {
	if c == nil {
		return 0, 0, false
	}
	h, ok := c.Holes[hole]
	if !ok {
		return 0, 0, false
	}
	par, si := h.Par, h.StrokeIndex
	if o, ok := h.Overrides[strings.ToLower(tee)]; ok {
		if o.Par > 0 {
			par = o.Par
		}
		if o.StrokeIndex > 0 {
			si = o.StrokeIndex
		}
	}
	return par, si, par > 0
}

// Distance returns the hole length from a tee, or 0 when unknown.
func (c *Course) Distance(hole int, tee string) int {
	if c == nil {
		return 0
	}
	return c.Holes[hole].Distances[strings.ToLower(tee)]
}

// GenericTees is offered for courses missing from the catalog.
var GenericTees = []Tee{
	{Key: "back", Label: "Back"},
	{Key: "middle", Label: "Middle"},
	{Key: "front", Label: "Front"},
}

// Catalog is an immutable set of courses.
type Catalog struct {
	courses []Course
}

type catalogFile struct {
	Courses []Course `yaml:"courses"`
}

// DefaultCatalog returns the built-in courses.
func DefaultCatalog() *Catalog {
	c, err := ParseCatalog(strings.NewReader(string(defaultCatalog)))
	if err != nil {
		panic(fmt.Sprintf("course: embedded catalog: %v", err))
	}
	return c
}

// ParseCatalog reads a YAML course catalog.
func ParseCatalog(r io.Reader) (*Catalog, error) {
	var f catalogFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	for _, c := range f.Courses {
		if err := validate(c); err != nil {
			return nil, err
		}
	}
	return &Catalog{courses: f.Courses}, nil
}

// LoadCatalogFile parses a catalog from disk and merges it over the built-in
// courses. Courses with the same name replace the built-in entry.
func LoadCatalogFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open course catalog: %w", err)
	}
	defer f.Close()

	extra, err := ParseCatalog(f)
	if err != nil {
		return nil, err
	}
	return DefaultCatalog().Merge(extra), nil
}

// Merge returns a catalog holding c's courses with other's layered on top.
func (c *Catalog) Merge(other *Catalog) *Catalog {
	merged := make([]Course, 0, len(c.courses)+len(other.courses))
	for _, existing := range c.courses {
		replaced := false
		for _, o := range other.courses {
			if strings.EqualFold(o.Name, existing.Name) {
				replaced = true
				break
			}
		}
		if !replaced {
			merged = append(merged, existing)
		}
	}
	merged = append(merged, other.courses...)
	return &Catalog{courses: merged}
}

// Lookup finds a course whose catalog name appears in name, ignoring case.
// "Bonville Golf Resort - Sunday comp" matches "Bonville Golf Resort".
func (c *Catalog) Lookup(name string) (*Course, bool) {
	if c == nil || strings.TrimSpace(name) == "" {
		return nil, false
	}
	lower := strings.ToLower(name)
	for i := range c.courses {
		if strings.Contains(lower, strings.ToLower(c.courses[i].Name)) {
			return &c.courses[i], true
		}
	}
	return nil, false
}

// CourseData returns the scoring view of a course, or a nil interface when
// the course is unknown.
func (c *Catalog) CourseData(name string) scoredomain.CourseData {
	if course, ok := c.Lookup(name); ok {
		return course
	}
	return nil
}

// Tees returns the tee options for a course, falling back to GenericTees.
func (c *Catalog) Tees(name string) []Tee {
	if course, ok := c.Lookup(name); ok && len(course.Tees) > 0 {
		return course.Tees
	}
	return GenericTees
}

// Names lists the catalog's course names.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.courses))
	for i := range c.courses {
		out[i] = c.courses[i].Name
	}
	return out
}

func validate(c Course) error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: course without a name", ErrInvalidCatalog)
	}
	seen := make(map[int]bool, len(c.Holes))
	for n, h := range c.Holes {
		if !scoredomain.ValidHole(n) {
			return fmt.Errorf("%w: %s hole %d out of range", ErrInvalidCatalog, c.Name, n)
		}
		if h.StrokeIndex == 0 {
			continue
		}
		if seen[h.StrokeIndex] {
			return fmt.Errorf("%w: %s stroke index %d used twice", ErrInvalidCatalog, c.Name, h.StrokeIndex)
		}
		seen[h.StrokeIndex] = true
	}
	return nil
}
