package service

import (
	"fmt"

	"github.com/alexanderramin/groundwork/internal/domain"
	"github.com/alexanderramin/groundwork/internal/template"
)

type templateService struct {
	catalog *template.Catalog
}

func NewTemplateService(catalog *template.Catalog) TemplateService {
	return &templateService{catalog: catalog}
}

// List returns the template list of every known project type, sorted by
// type.
func (s *templateService) List() []*template.TemplateList {
	types := s.catalog.Types()
	lists := make([]*template.TemplateList, 0, len(types))
	for _, pt := range types {
		l, _ := s.catalog.Lookup(pt)
		lists = append(lists, l)
	}
	return lists
}

// Get returns the list for pt without falling back.
func (s *templateService) Get(pt domain.ProjectType) (*template.TemplateList, error) {
	l, ok := s.catalog.Lookup(pt)
	if !ok {
		return nil, fmt.Errorf("template for project type %s: %w", pt, domain.ErrNotFound)
	}
	return l, nil
}
