package colspec

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Parse decodes a YAML column descriptor list and validates it.
func Parse(data []byte) (*Spec, error) {
	var columns []Column
	if err := yaml.Unmarshal(data, &columns); err != nil {
		return nil, fmt.Errorf("parse column spec: %w", err)
	}
	spec := New(columns)
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}
