package drd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/drdscore/internal/scoring"
)

// LevelInfo describes one maturity rung.
type LevelInfo struct {
	Level       int    `yaml:"level"`
	Title       string `yaml:"title"`
	Description string `yaml:"description,omitempty"`
}

// Area is a sub-dimension of an axis, identified as "<axis><letter>" (e.g. "1A").
type Area struct {
	ID     string      `yaml:"id"`
	Name   string      `yaml:"name"`
	Levels []LevelInfo `yaml:"levels,omitempty"`
}

// Axis is a top-level assessed dimension.
type Axis struct {
	ID     int         `yaml:"id"`
	Name   string      `yaml:"name"`
	Scale  int         `yaml:"scale"`
	Levels []LevelInfo `yaml:"levels,omitempty"`
	Areas  []Area      `yaml:"areas,omitempty"`
}

// Catalog is the full DRD maturity model.
type Catalog struct {
	Axes []Axis `yaml:"axes"`
}

// LoadCatalog decodes and validates a YAML catalog.
// Axes without an explicit scale use scoring.AxisLevels.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	for i := range c.Axes {
		if c.Axes[i].Scale == 0 {
			c.Axes[i].Scale = scoring.AxisLevels
		}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Axis returns the axis with the given ID.
func (c *Catalog) Axis(id int) (*Axis, error) {
	for i := range c.Axes {
		if c.Axes[i].ID == id {
			return &c.Axes[i], nil
		}
	}
	return nil, fmt.Errorf("axis %d not found", id)
}

// ParseAxisID accepts "3" as well as "axis3".
func ParseAxisID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimPrefix(strings.ToLower(s), "axis"))
	if err != nil {
		return 0, fmt.Errorf("invalid axis ID %q", s)
	}
	return id, nil
}

// Area returns the area with the given ID. Matching ignores case.
func (a *Axis) Area(id string) (*Area, error) {
	for i := range a.Areas {
		if strings.EqualFold(a.Areas[i].ID, id) {
			return &a.Areas[i], nil
		}
	}
	return nil, fmt.Errorf("area %q not found in axis %d", id, a.ID)
}

// AreaIDs lists the axis' area IDs in catalog order.
func (a *Axis) AreaIDs() []string {
	ids := make([]string, len(a.Areas))
	for i, ar := range a.Areas {
		ids[i] = ar.ID
	}
	return ids
}

// AreaScale is the number of levels ar is scored on: its own level list
// when that is shorter than the axis scale, the axis scale otherwise.
func (a *Axis) AreaScale(ar *Area) int {
	if n := len(ar.Levels); n > 0 && n < a.Scale {
		return n
	}
	return a.Scale
}

// IsSimple reports whether the axis is scored without areas.
func (a *Axis) IsSimple() bool {
	return len(a.Areas) == 0
}

// LevelTitle returns the title of an axis level, or "" when undescribed.
func (a *Axis) LevelTitle(level int) string {
	return lookupTitle(a.Levels, level)
}

// LevelTitle returns the area's own title for level, falling back to the axis title.
func (ar *Area) LevelTitle(axis *Axis, level int) string {
	if t := lookupTitle(ar.Levels, level); t != "" {
		return t
	}
	return axis.LevelTitle(level)
}

func lookupTitle(levels []LevelInfo, level int) string {
	for _, l := range levels {
		if l.Level == level {
			return l.Title
		}
	}
	return ""
}

// Validate performs structural checks on the catalog.
// Returns a combined error describing all problems found, or nil if valid.
func (c *Catalog) Validate() error {
	var errs []string

	if len(c.Axes) == 0 {
		errs = append(errs, "catalog has no axes")
	}

	axisIDs := make(map[int]bool, len(c.Axes))
	areaIDs := make(map[string]bool)
	for _, ax := range c.Axes {
		if axisIDs[ax.ID] {
			errs = append(errs, fmt.Sprintf("duplicate axis ID: %d", ax.ID))
		}
		axisIDs[ax.ID] = true

		if ax.Scale < 1 || ax.Scale > scoring.MaxScale {
			errs = append(errs, fmt.Sprintf("axis %d: scale %d outside [1, %d]", ax.ID, ax.Scale, scoring.MaxScale))
		}
		errs = append(errs, checkLevels(fmt.Sprintf("axis %d", ax.ID), ax.Levels, ax.Scale)...)

		prefix := strconv.Itoa(ax.ID)
		for _, ar := range ax.Areas {
			key := strings.ToUpper(ar.ID)
			if areaIDs[key] {
				errs = append(errs, fmt.Sprintf("duplicate area ID: %q", ar.ID))
			}
			areaIDs[key] = true

			if !strings.HasPrefix(ar.ID, prefix) || len(ar.ID) == len(prefix) {
				errs = append(errs, fmt.Sprintf("area %q does not belong to axis %d", ar.ID, ax.ID))
			}
			errs = append(errs, checkLevels(fmt.Sprintf("area %q", ar.ID), ar.Levels, ax.Scale)...)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("catalog validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// checkLevels requires described levels to run 1, 2, 3... without gaps and
// to stay within scale.
func checkLevels(owner string, levels []LevelInfo, scale int) []string {
	var errs []string
	for i, l := range levels {
		if l.Level != i+1 {
			errs = append(errs, fmt.Sprintf("%s: level %d out of sequence (want %d)", owner, l.Level, i+1))
		}
		if l.Level > scale {
			errs = append(errs, fmt.Sprintf("%s: level %d exceeds scale %d", owner, l.Level, scale))
		}
	}
	return errs
}
