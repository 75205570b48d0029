package physics

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed data/constants.yaml
var constantsYAML []byte

// Record is one constant-definition record from the embedded dataset:
// identity, declared dependencies and reference metadata. The value-producing
// formulas are registered separately in code (see registry.go).
type Record struct {
	ID           string   `yaml:"id"`
	Description  string   `yaml:"description"`
	Unit         string   `yaml:"unit"`
	Fundamental  bool     `yaml:"fundamental"`
	Dependencies []string `yaml:"dependencies"`
	Experimental *float64 `yaml:"experimental"`
}

type dataset struct {
	Constants []Record `yaml:"constants"`
}

// LoadRecords decodes the embedded constant catalogue.
func LoadRecords() ([]Record, error) {
	var ds dataset
	if err := yaml.Unmarshal(constantsYAML, &ds); err != nil {
		return nil, fmt.Errorf("decoding constant catalogue: %w", err)
	}
	if len(ds.Constants) == 0 {
		return nil, fmt.Errorf("constant catalogue is empty")
	}
	seen := make(map[string]struct{}, len(ds.Constants))
	for _, r := range ds.Constants {
		if r.ID == "" {
			return nil, fmt.Errorf("constant catalogue: record without id")
		}
		if _, dup := seen[r.ID]; dup {
			return nil, fmt.Errorf("constant catalogue: duplicate id %q", r.ID)
		}
		seen[r.ID] = struct{}{}
	}
	return ds.Constants, nil
}
