// Package preset loads named saved filter sets from a YAML file, so common
// searches do not have to be retyped as flags.
package preset

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/garygao333/chert-number-search/internal/model"
)

// File is the on-disk preset collection, one section per provider.
type File struct {
	Forager map[string]model.SearchFilters       `yaml:"forager"`
	Aviato  map[string]model.AviatoSearchFilters `yaml:"aviato"`
}

// Load reads the preset file at path. A missing file yields an empty
// collection, not an error.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &File{}, nil
		}
		return nil, eris.Wrapf(err, "preset: read %s", path)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrapf(err, "preset: parse %s", path)
	}
	return &f, nil
}

// ForagerPreset returns the named Forager filter set.
func (f *File) ForagerPreset(name string) (model.SearchFilters, error) {
	p, ok := f.Forager[name]
	if !ok {
		return model.SearchFilters{}, eris.Errorf("preset: unknown forager preset %q", name)
	}
	return p, nil
}

// AviatoPreset returns the named Aviato filter set.
func (f *File) AviatoPreset(name string) (model.AviatoSearchFilters, error) {
	p, ok := f.Aviato[name]
	if !ok {
		return model.AviatoSearchFilters{}, eris.Errorf("preset: unknown aviato preset %q", name)
	}
	return p, nil
}
