package points

import (
	"fmt"

	"github.com/ruei-yu/activity-checkin-points/models"
)

// Catalog is the validated, read-only category table for one session.
type Catalog struct {
	defs  []models.CategoryDef
	index map[string]models.CategoryDef
}

// NewCatalog validates the parsed category table: names must be unique and
// non-empty, points strictly positive.
func NewCatalog(defs []models.CategoryDef) (*Catalog, error) {
	index := make(map[string]models.CategoryDef, len(defs))
	kept := make([]models.CategoryDef, 0, len(defs))
	for _, d := range defs {
		if d.Name == "" {
			return nil, fmt.Errorf("category with empty name")
		}
		if d.Points <= 0 {
			return nil, fmt.Errorf("category %q: points must be positive, got %d", d.Name, d.Points)
		}
		if _, dup := index[d.Name]; dup {
			return nil, fmt.Errorf("duplicate category %q", d.Name)
		}
		index[d.Name] = d
		kept = append(kept, d)
	}
	return &Catalog{defs: kept, index: index}, nil
}

// Lookup returns the definition for name and whether it exists.
func (c *Catalog) Lookup(name string) (models.CategoryDef, bool) {
	d, ok := c.index[name]
	return d, ok
}

// Points returns the point value for name, or 0 when unknown.
func (c *Catalog) Points(name string) int {
	return c.index[name].Points
}

// Tips returns the descriptive text for name, or "" when unknown.
func (c *Catalog) Tips(name string) string {
	return c.index[name].Tips
}

// Defs returns the categories in configuration order.
func (c *Catalog) Defs() []models.CategoryDef {
	return c.defs
}

// Names returns the category names in configuration order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.defs))
	for i, d := range c.defs {
		names[i] = d.Name
	}
	return names
}
