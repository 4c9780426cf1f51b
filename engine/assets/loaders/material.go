package loaders

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/voxelcraft/engine/renderer/metadata"
)

type MaterialLoader struct{}

func (ml *MaterialLoader) Load(path string) (interface{}, error) {
	return LoadMaterial(path)
}

// LoadMaterial decodes a material TOML document into a spec.
func LoadMaterial(path string) (*metadata.MaterialSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	spec, err := parseMaterial(data)
	if err != nil {
		var de *toml.DecodeError
		if errors.As(err, &de) {
			row, col := de.Position()
			return nil, fmt.Errorf("material %s:%d:%d: %w", path, row, col, err)
		}
		return nil, fmt.Errorf("material %s: %w", path, err)
	}
	return spec, nil
}

func parseMaterial(data []byte) (*metadata.MaterialSpec, error) {
	spec := &metadata.MaterialSpec{}
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(spec); err != nil {
		return nil, err
	}
	if err := validateMaterial(spec); err != nil {
		return nil, err
	}
	return spec, nil
}

func validateMaterial(spec *metadata.MaterialSpec) error {
	if spec.Name == "" {
		return fmt.Errorf("material name is required")
	}
	if spec.VertexShader == "" {
		return fmt.Errorf("vertex_shader is required")
	}
	if spec.FragmentShader == "" {
		return fmt.Errorf("fragment_shader is required")
	}
	return nil
}
