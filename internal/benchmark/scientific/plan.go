package scientific

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/hyp3rd/ewrap"
	"gopkg.in/yaml.v3"

	"github.com/mschirtzinger/shellbench/internal/sentinel"
)

// LoadPlan reads a suite plan from a .toml, .yaml or .yml file. Keys left out
// of the file keep their DefaultConfig values. The plan is validated before
// it is returned.
//
// Example plan.toml:
//
//	lengths = [1000, 10000]
//	sequences = ["knuth_1973", "ciura_2001", "1,5,19,41,109"]
//	rounds = 50
//	quicksort = true
func LoadPlan(path string) (SuiteConfig, error) {
	cfg := DefaultConfig()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return SuiteConfig{}, ewrap.Wrapf(err, "failed to read plan %s", path)
		}
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return SuiteConfig{}, ewrap.Wrapf(err, "failed to read plan %s", path)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return SuiteConfig{}, ewrap.Wrapf(err, "failed to parse plan %s", path)
		}
	default:
		return SuiteConfig{}, ewrap.Wrapf(sentinel.ErrUnknownFormat, "plan %s: use .toml, .yaml or .yml", path)
	}

	if _, err := cfg.Validate(); err != nil {
		return SuiteConfig{}, ewrap.Wrapf(err, "plan %s", path)
	}
	return cfg, nil
}
