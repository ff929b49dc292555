// Package store loads expense-category keyword configuration from YAML.
package store

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"rentops/owner-ledger/internal/logging"
	"rentops/owner-ledger/internal/models"
)

// CategoryStore manages loading of expense category keyword data.
type CategoryStore struct {
	CategoriesFile string
	logger         logging.Logger
}

// NewCategoryStore creates a store for category configuration. An empty
// filename falls back to "categories.yaml".
func NewCategoryStore(categoriesFile string, logger logging.Logger) *CategoryStore {
	if categoriesFile == "" {
		categoriesFile = "categories.yaml"
	}
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &CategoryStore{
		CategoriesFile: categoriesFile,
		logger:         logger,
	}
}

// findConfigFile looks for a configuration file in standard locations.
func (s *CategoryStore) findConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(homeDir, ".config", "owner-ledger", filename))
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}
	return "", os.ErrNotExist
}

// LoadCategories loads category keyword configuration from the YAML file.
// A missing file is not an error; the categorizer falls back to its built-in
// keyword table.
func (s *CategoryStore) LoadCategories() ([]models.CategoryConfig, error) {
	filePath, err := s.findConfigFile(s.CategoriesFile)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug("Categories file not found, using built-in keywords",
				logging.Field{Key: logging.FieldInputFile, Value: s.CategoriesFile})
			return []models.CategoryConfig{}, nil
		}
		return nil, fmt.Errorf("error resolving categories file: %w", err)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading categories file %s: %w", filePath, err)
	}

	var wrapper struct {
		Categories []models.CategoryConfig `yaml:"categories"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("error parsing categories file %s: %w", filePath, err)
	}

	s.logger.Debug("Loaded category configuration",
		logging.Field{Key: logging.FieldInputFile, Value: filePath},
		logging.Field{Key: logging.FieldCount, Value: len(wrapper.Categories)})

	return wrapper.Categories, nil
}
