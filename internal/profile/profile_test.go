package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validYAML = `
name: Donut Labs
stage: pre-seed
sectors:
  - AI
  - DeFi
  - Trading
product: AI-powered trading terminal
differentiator: Natural-language strategy builder
target_raise: $2M-$3M
traction: 1.2k waitlist signups
team_size: "4"
location: Hong Kong
`

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "profile.yaml", validYAML)

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Donut Labs", p.Name)
	assert.Equal(t, "pre-seed", p.Stage)
	assert.Equal(t, []string{"AI", "DeFi", "Trading"}, p.Sectors)
	assert.Equal(t, "$2M-$3M", p.TargetRaise)
	assert.Equal(t, "Hong Kong", p.Location)
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "profile.json", `{
		"name": "Donut Labs",
		"stage": "pre-seed",
		"sectors": ["AI", "DeFi"],
		"target_raise": "$2M-$3M",
		"location": "Hong Kong"
	}`)

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"AI", "DeFi"}, p.Sectors)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "profile: read")
}

func TestLoadUnsupportedExtension(t *testing.T) {
	path := writeFile(t, "profile.toml", "stage = 'seed'")
	_, err := Load(path)
	assert.ErrorContains(t, err, "unsupported extension")
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeFile(t, "profile.yaml", "stage: [unclosed")
	_, err := Load(path)
	assert.ErrorContains(t, err, "parse yaml")
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		missing string
	}{
		{"no stage", "sectors: [AI]\nlocation: Hong Kong\n", "stage"},
		{"no sectors", "stage: seed\nlocation: Hong Kong\n", "sectors"},
		{"no location", "stage: seed\nsectors: [AI]\n", "location"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "profile.yaml", tt.yaml)
			_, err := Load(path)
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.missing)
		})
	}
}
