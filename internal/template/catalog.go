package template

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"

	"github.com/alexanderramin/groundwork/internal/domain"
)

//go:embed templates/*.json
var builtinFS embed.FS

// Catalog holds one template list per project type.
type Catalog struct {
	lists    map[domain.ProjectType]*TemplateList
	fallback domain.ProjectType
}

// NewCatalog validates the given lists and indexes them by project type.
// Unknown project types resolve to the NEW_CONSTRUCTION list when present,
// otherwise to the first list given.
func NewCatalog(lists ...*TemplateList) (*Catalog, error) {
	if len(lists) == 0 {
		return nil, fmt.Errorf("%w: catalog needs at least one template list", domain.ErrValidation)
	}
	c := &Catalog{lists: make(map[domain.ProjectType]*TemplateList, len(lists))}
	for _, l := range lists {
		if errs := ValidateSchema(l); len(errs) > 0 {
			return nil, fmt.Errorf("template %q: %w", l.ProjectType, errors.Join(errs...))
		}
		if _, dup := c.lists[l.ProjectType]; dup {
			return nil, fmt.Errorf("%w: two lists for project type %s", domain.ErrDuplicateTemplate, l.ProjectType)
		}
		c.lists[l.ProjectType] = l
	}
	c.fallback = lists[0].ProjectType
	if _, ok := c.lists[domain.ProjectNewConstruction]; ok {
		c.fallback = domain.ProjectNewConstruction
	}
	return c, nil
}

// LoadFS reads every *.json file under dir of fsys into a catalog.
func LoadFS(fsys fs.FS, dir string) (*Catalog, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("reading template dir: %w", err)
	}
	var lists []*TemplateList
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".json" {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", e.Name(), err)
		}
		list, err := ParseList(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Name(), err)
		}
		lists = append(lists, list)
	}
	return NewCatalog(lists...)
}

// DefaultCatalog returns the built-in construction templates.
func DefaultCatalog() (*Catalog, error) {
	return LoadFS(builtinFS, "templates")
}

// ForType returns the list for pt, or the fallback list for unknown types.
func (c *Catalog) ForType(pt domain.ProjectType) *TemplateList {
	if l, ok := c.lists[pt]; ok {
		return l
	}
	return c.lists[c.fallback]
}

// Lookup returns the list for pt without falling back.
func (c *Catalog) Lookup(pt domain.ProjectType) (*TemplateList, bool) {
	l, ok := c.lists[pt]
	return l, ok
}

// Types lists the project types in the catalog, sorted.
func (c *Catalog) Types() []domain.ProjectType {
	types := make([]domain.ProjectType, 0, len(c.lists))
	for pt := range c.lists {
		types = append(types, pt)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// Fallback is the project type used for unknown types.
func (c *Catalog) Fallback() domain.ProjectType {
	return c.fallback
}
