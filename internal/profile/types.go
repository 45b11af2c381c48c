package profile

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/comreg-labs/comreg/internal/component"
)

// Profile is a parsed component profile.
type Profile struct {
	Name        string                   `yaml:"name" json:"name"`
	DisplayName string                   `yaml:"display_name,omitempty" json:"display_name,omitempty"`
	Description string                   `yaml:"description,omitempty" json:"description,omitempty"`
	Version     string                   `yaml:"version" json:"version"`
	Requires    string                   `yaml:"requires,omitempty" json:"requires,omitempty"`
	Homepage    string                   `yaml:"homepage,omitempty" json:"homepage,omitempty"`
	Variants    map[string]VariantConfig `yaml:"variants" json:"variants"`

	// Source is where the profile was loaded from ("builtin" or a file path).
	Source string `yaml:"-" json:"-"`
}

// VariantConfig is the per-variant part of a profile.
type VariantConfig struct {
	CLSID    string `yaml:"clsid" json:"clsid"`
	Artifact string `yaml:"artifact" json:"artifact"`
}

// Title returns DisplayName, falling back to Name.
func (p *Profile) Title() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.Name
}

func (p *Profile) variant(v component.Variant) (VariantConfig, error) {
	vc, ok := p.Variants[v.Spec().Key]
	if !ok {
		return VariantConfig{}, fmt.Errorf("profile %s has no %s variant", p.Name, v.Spec().Key)
	}
	return vc, nil
}

// CLSID returns the class identifier for v in registry form, e.g.
// "{8E14549B-DB61-4309-AFA1-3578E927E935}".
func (p *Profile) CLSID(v component.Variant) (string, error) {
	vc, err := p.variant(v)
	if err != nil {
		return "", err
	}
	return FormatCLSID(vc.CLSID)
}

// ArtifactPath resolves the candidate DLL for v against dir. Absolute
// artifact paths are returned unchanged.
func (p *Profile) ArtifactPath(v component.Variant, dir string) (string, error) {
	vc, err := p.variant(v)
	if err != nil {
		return "", err
	}
	rel := filepath.FromSlash(strings.ReplaceAll(vc.Artifact, `\`, "/"))
	if filepath.IsAbs(rel) || isWindowsAbs(vc.Artifact) {
		return vc.Artifact, nil
	}
	return filepath.Join(dir, rel), nil
}

// FormatCLSID normalizes a GUID string, with or without braces, to the
// uppercase braced form used under HKLM\...\CLSID.
func FormatCLSID(s string) (string, error) {
	id, err := uuid.Parse(strings.Trim(strings.TrimSpace(s), "{}"))
	if err != nil {
		return "", fmt.Errorf("invalid CLSID %q: %w", s, err)
	}
	return "{" + strings.ToUpper(id.String()) + "}", nil
}

// isWindowsAbs checks for a drive-letter or UNC path regardless of host OS.
func isWindowsAbs(path string) bool {
	if strings.HasPrefix(path, `\\`) {
		return true
	}
	return len(path) >= 3 && path[1] == ':' && (path[2] == '\\' || path[2] == '/')
}
