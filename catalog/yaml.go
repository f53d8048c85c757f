package catalog

import (
	"fmt"
	"maps"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// yamlFile is the layout of a YAML catalog:
//
//	tags:
//	  person: 0x10000
//	  address: 65537
type yamlFile struct {
	Tags map[string]uint64 `yaml:"tags"`
}

// LoadYAML adds the names listed in a YAML file.
func (c *Catalog) LoadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	return c.ParseYAML(data)
}

// ParseYAML adds the names listed in a YAML document.
func (c *Catalog) ParseYAML(data []byte) error {
	var doc yamlFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse catalog: %w", err)
	}
	// Sorted so conflicts are reported deterministically.
	parsed := New()
	for _, name := range slices.Sorted(maps.Keys(doc.Tags)) {
		if err := parsed.Add(doc.Tags[name], name); err != nil {
			return err
		}
	}
	return c.Merge(parsed)
}
