package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentops/owner-ledger/internal/logging"
)

const categoriesYAML = `categories:
  - name: Plumbing
    keywords:
      - sewer
      - sump pump
  - name: Landscaping
    keywords:
      - gutter
`

func TestLoadCategories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.yaml")
	require.NoError(t, os.WriteFile(path, []byte(categoriesYAML), 0o600))

	s := NewCategoryStore(path, logging.NewMockLogger())
	categories, err := s.LoadCategories()
	require.NoError(t, err)

	require.Len(t, categories, 2)
	assert.Equal(t, "Plumbing", categories[0].Name)
	assert.Equal(t, []string{"sewer", "sump pump"}, categories[0].Keywords)
	assert.Equal(t, "Landscaping", categories[1].Name)
}

func TestLoadCategories_MissingFileIsNotAnError(t *testing.T) {
	s := NewCategoryStore(filepath.Join(t.TempDir(), "absent.yaml"), logging.NewMockLogger())
	categories, err := s.LoadCategories()
	require.NoError(t, err)
	assert.Empty(t, categories)
}

func TestLoadCategories_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.yaml")
	require.NoError(t, os.WriteFile(path, []byte("categories: [unclosed"), 0o600))

	s := NewCategoryStore(path, logging.NewMockLogger())
	_, err := s.LoadCategories()
	assert.Error(t, err)
}

func TestNewCategoryStore_DefaultFilename(t *testing.T) {
	s := NewCategoryStore("", logging.NewMockLogger())
	assert.Equal(t, "categories.yaml", s.CategoriesFile)
}
