package experiment

import (
	"encoding/json"
	"fmt"
	"os"
)

// tableFile is the on-disk shape of the experiment configuration. Groups are
// declared as an array because their order is load-bearing.
type tableFile struct {
	Salt        string        `json:"salt"`
	Experiments []*Experiment `json:"experiments"`
}

// DefaultTable returns the built-in single-experiment configuration used when
// no experiments file is present.
func DefaultTable(salt string) *Table {
	return &Table{
		Salt: salt,
		Experiments: map[string]*Experiment{
			"default_recommendation_experiment": {
				Name:         "default_recommendation_experiment",
				Enabled:      true,
				DefaultGroup: "control",
				Groups: []Group{
					{Name: "control", Weight: 50},
					{Name: "model_v2", Weight: 50},
				},
			},
		},
	}
}

// LoadTable reads the experiment table from a JSON file. A missing file is
// not an error: the built-in default table is returned so a fresh deployment
// works without configuration. fallbackSalt is used when the file does not
// set one.
func LoadTable(path, fallbackSalt string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultTable(fallbackSalt), nil
		}
		return nil, fmt.Errorf("failed to read experiments file %s: %w", path, err)
	}

	var file tableFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse experiments file %s: %w", path, err)
	}

	table := &Table{
		Salt:        file.Salt,
		Experiments: make(map[string]*Experiment, len(file.Experiments)),
	}
	if table.Salt == "" {
		table.Salt = fallbackSalt
	}

	for _, exp := range file.Experiments {
		if exp.Name == "" {
			return nil, fmt.Errorf("experiments file %s: experiment with empty name", path)
		}
		if len(exp.Groups) == 0 {
			return nil, fmt.Errorf("experiments file %s: experiment %q has no groups", path, exp.Name)
		}
		if exp.DefaultGroup == "" {
			exp.DefaultGroup = exp.Groups[0].Name
		}
		table.Experiments[exp.Name] = exp
	}

	return table, nil
}
