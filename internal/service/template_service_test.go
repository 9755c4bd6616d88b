package service

import (
	"testing"

	"github.com/alexanderramin/groundwork/internal/domain"
	"github.com/alexanderramin/groundwork/internal/template"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateService_ListAndGet(t *testing.T) {
	catalog, err := template.DefaultCatalog()
	require.NoError(t, err)
	svc := NewTemplateService(catalog)

	lists := svc.List()
	require.Len(t, lists, len(domain.KnownProjectTypes))
	for i := 1; i < len(lists); i++ {
		assert.Less(t, lists[i-1].ProjectType, lists[i].ProjectType)
	}

	reno, err := svc.Get(domain.ProjectRenovation)
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectRenovation, reno.ProjectType)

	_, err = svc.Get("TREEHOUSE")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
