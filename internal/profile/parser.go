package profile

import (
	"embed"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/comreg-labs/comreg/internal/component"
)

// BuiltinName is the profile used when no profile file is given.
const BuiltinName = "virtual-audio-device"

//go:embed builtin/*.yaml
var builtinFS embed.FS

// Parse validates data against the schema and decodes it. CLSIDs are
// checked beyond the schema's pattern so a bad GUID fails here rather than
// at lookup time.
func Parse(data []byte) (*Profile, error) {
	result, err := Validate(data)
	if err != nil {
		return nil, err
	}
	if !result.Valid {
		return nil, &ValidationError{Issues: result.Issues}
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decoding profile: %w", err)
	}

	for _, v := range component.Variants {
		if _, err := p.CLSID(v); err != nil {
			return nil, err
		}
	}
	return &p, nil
}

// Load reads and parses the profile at path. An empty path selects the
// built-in profile.
func Load(path string) (*Profile, error) {
	if path == "" {
		return Builtin(BuiltinName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", path, err)
	}
	p.Source = path
	return p, nil
}

// Builtin returns an embedded profile by name.
func Builtin(name string) (*Profile, error) {
	data, err := builtinFS.ReadFile("builtin/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("unknown built-in profile %q", name)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("built-in profile %s: %w", name, err)
	}
	p.Source = "builtin"
	return p, nil
}
