package llm

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// CatalogProvider groups the static models of one provider. Requires names
// the setting that must be present for the models to be offered; empty means
// always offered.
type CatalogProvider struct {
	Name     string      `yaml:"name"`
	Requires string      `yaml:"requires"`
	Models   []ModelInfo `yaml:"models"`
}

// Catalog is the static model list shipped with the binary.
type Catalog struct {
	Providers []CatalogProvider `yaml:"providers"`
}

// LoadCatalog parses the embedded catalog.
func LoadCatalog() (Catalog, error) {
	return ParseCatalog(catalogYAML)
}

// ParseCatalog parses a catalog document. Each model inherits its provider label.
func ParseCatalog(data []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("failed to parse model catalog: %w", err)
	}
	for i := range c.Providers {
		for j := range c.Providers[i].Models {
			c.Providers[i].Models[j].Provider = c.Providers[i].Name
		}
	}
	return c, nil
}

// Available returns the models whose required setting is reported present by has.
func (c Catalog) Available(has func(key string) bool) []ModelInfo {
	var models []ModelInfo
	for _, p := range c.Providers {
		if p.Requires != "" && !has(p.Requires) {
			continue
		}
		models = append(models, p.Models...)
	}
	return models
}
