// Package profile loads the target-company profile the matching engine
// scores against. The profile is read once at startup; the engine receives
// it by value and never reloads it.
package profile

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/chris-donut/donut-investor-pipe/internal/model"
)

// Load reads and validates a profile file. YAML and JSON are supported,
// selected by extension. A missing or invalid profile is a hard error:
// scoring cannot run without a target.
func Load(path string) (*model.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "profile: read %s", path)
	}

	var p model.Profile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &p); err != nil {
			return nil, eris.Wrapf(err, "profile: parse yaml %s", path)
		}
	case ".json":
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, eris.Wrapf(err, "profile: parse json %s", path)
		}
	default:
		return nil, eris.Errorf("profile: unsupported extension %q (want .yaml, .yml or .json)", filepath.Ext(path))
	}

	if err := validate(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

func validate(p *model.Profile) error {
	var missing []string
	if p.Stage == "" {
		missing = append(missing, "stage")
	}
	if len(p.Sectors) == 0 {
		missing = append(missing, "sectors")
	}
	if p.Location == "" {
		missing = append(missing, "location")
	}
	if len(missing) > 0 {
		return eris.Errorf("profile: missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}
