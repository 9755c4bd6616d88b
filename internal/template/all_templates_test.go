package template

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/alexanderramin/groundwork/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAllTemplates_LoadAndValidate checks every embedded template file so a
// malformed list fails here rather than during project initialization.
func TestAllTemplates_LoadAndValidate(t *testing.T) {
	entries, err := fs.ReadDir(builtinFS, "templates")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	for _, entry := range entries {
		name := entry.Name()
		t.Run(name, func(t *testing.T) {
			data, err := fs.ReadFile(builtinFS, "templates/"+name)
			require.NoError(t, err)
			list, err := ParseList(data)
			require.NoError(t, err)

			for _, e := range ValidateSchema(list) {
				t.Errorf("validation error in %s: %v", name, e)
			}
			assert.InDelta(t, 100.0, list.BudgetTotal(), 1e-9, "shipped lists allocate the whole budget")
			assert.NotEmpty(t, list.Milestones)

			names := map[string]bool{}
			for _, tt := range list.Tasks {
				names[tt.Name] = true
			}
			for _, tt := range list.Tasks {
				for _, dep := range tt.Dependencies {
					assert.True(t, names[dep], "%s: %q depends on unknown %q", name, tt.Name, dep)
				}
			}
			for _, m := range list.Milestones {
				for _, task := range m.Tasks {
					assert.True(t, names[task], "%s: milestone %q names unknown task %q", name, m.Name, task)
				}
			}
		})
	}
}

func TestDefaultCatalog_CoversKnownTypes(t *testing.T) {
	c := defaultCatalog(t)
	for _, pt := range domain.KnownProjectTypes {
		l, ok := c.Lookup(pt)
		require.True(t, ok, "missing template for %s", pt)
		assert.Equal(t, pt, l.ProjectType)
	}
	assert.Equal(t, domain.ProjectNewConstruction, c.Fallback())
	assert.Len(t, c.Types(), len(domain.KnownProjectTypes))
}

func TestCatalog_UnknownTypeFallsBack(t *testing.T) {
	c := defaultCatalog(t)
	assert.Equal(t, domain.ProjectNewConstruction, c.ForType("HIGH_RISE").ProjectType)
	assert.Equal(t, domain.ProjectRenovation, c.ForType(domain.ProjectRenovation).ProjectType)
}

func TestNewCatalog_RejectsInvalidList(t *testing.T) {
	bad := validList()
	bad.Tasks[0].DurationDays = -3
	_, err := NewCatalog(bad)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = NewCatalog()
	assert.Error(t, err)
}

func TestNewCatalog_RejectsTwoListsForOneType(t *testing.T) {
	_, err := NewCatalog(validList(), validList())
	assert.ErrorIs(t, err, domain.ErrDuplicateTemplate)
}

func TestLoadFS_SkipsNonJSON(t *testing.T) {
	fsys := fstest.MapFS{
		"t/a.json":   {Data: []byte(`{"project_type":"A","tasks":[{"name":"x","duration_days":1,"budget_percentage":100}]}`)},
		"t/notes.md": {Data: []byte("ignored")},
	}
	c, err := LoadFS(fsys, "t")
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectType("A"), c.Fallback())
}

func TestLoadFS_BadJSON(t *testing.T) {
	fsys := fstest.MapFS{"t/a.json": {Data: []byte(`{`)}}
	_, err := LoadFS(fsys, "t")
	assert.Error(t, err)
}

func TestLoadSchema_FromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"project_type":"CUSTOM","tasks":[{"name":"Only","duration_days":2}]}`), 0o644))

	list, err := LoadSchema(path)
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectType("CUSTOM"), list.ProjectType)
	assert.Equal(t, 2, list.TotalDuration())

	_, err = LoadSchema(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
