// internal/config/dimensions.go
package config

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/solidwrite/pseo/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed dimensions.yaml
var defaultDimensions []byte

// DefaultDimensions returns the dimension config shipped with the binary.
func DefaultDimensions() (*models.DimensionConfig, error) {
	return ParseDimensions(defaultDimensions)
}

// ParseDimensions decodes a YAML dimension config. Entries are not
// validated: a missing label flows into the generated pages as-is.
func ParseDimensions(data []byte) (*models.DimensionConfig, error) {
	var cfg models.DimensionConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode dimensions: %w", err)
	}
	return &cfg, nil
}

// LoadDimensionsFile reads a YAML dimension config from disk.
func LoadDimensionsFile(path string) (*models.DimensionConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dimensions %s: %w", path, err)
	}
	return ParseDimensions(data)
}
