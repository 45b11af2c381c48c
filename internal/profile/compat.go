package profile

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// CheckCompatibility verifies that toolVersion satisfies the profile's
// requires constraint. Profiles without a constraint and development builds
// that are not valid semver always pass.
func (p *Profile) CheckCompatibility(toolVersion string) error {
	if p.Requires == "" {
		return nil
	}

	constraint, err := semver.NewConstraint(p.Requires)
	if err != nil {
		return fmt.Errorf("profile %s: invalid requires constraint %q: %w", p.Name, p.Requires, err)
	}

	v, err := semver.NewVersion(strings.TrimPrefix(toolVersion, "v"))
	if err != nil {
		return nil
	}

	if !constraint.Check(v) {
		return fmt.Errorf("profile %s requires version %s, running %s", p.Name, p.Requires, toolVersion)
	}
	return nil
}

// ParsedVersion returns the profile's own version as semver.
func (p *Profile) ParsedVersion() (*semver.Version, error) {
	v, err := semver.NewVersion(strings.TrimPrefix(p.Version, "v"))
	if err != nil {
		return nil, fmt.Errorf("profile %s: parsing version %q: %w", p.Name, p.Version, err)
	}
	return v, nil
}
