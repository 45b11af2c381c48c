package helper

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/comreg-labs/comreg/internal/component"
)

// ErrNoSystemHelper is returned when the system helper cannot be resolved.
var ErrNoSystemHelper = errors.New("system registration helper not available")

// Locator resolves the helper binary for a variant.
type Locator interface {
	Path(v component.Variant) (string, error)
}

// StaticLocator maps variants to fixed helper paths.
type StaticLocator map[component.Variant]string

func (s StaticLocator) Path(v component.Variant) (string, error) {
	p, ok := s[v]
	if !ok || p == "" {
		return "", fmt.Errorf("no helper configured for %s: %w", v, ErrNoSystemHelper)
	}
	return p, nil
}

// WithOverrides returns a Locator that prefers the non-empty entries of
// overrides and falls back to base.
func WithOverrides(base Locator, overrides map[component.Variant]string) Locator {
	static := StaticLocator{}
	for v, p := range overrides {
		if p != "" {
			static[v] = p
		}
	}
	if len(static) == 0 {
		return base
	}
	return overrideLocator{base: base, static: static}
}

type overrideLocator struct {
	base   Locator
	static StaticLocator
}

func (o overrideLocator) Path(v component.Variant) (string, error) {
	if p, ok := o.static[v]; ok {
		return p, nil
	}
	return o.base.Path(v)
}

// helperPath joins the helper directory for dir. systemDir is the native
// system directory and windowsDir the Windows root.
func helperPath(dir component.HelperDir, systemDir, windowsDir string) (string, error) {
	switch dir {
	case component.HelperSystem:
		if systemDir == "" {
			return "", ErrNoSystemHelper
		}
		return filepath.Join(systemDir, ExeName), nil
	case component.HelperSysWOW64:
		if windowsDir == "" {
			return "", ErrNoSystemHelper
		}
		return filepath.Join(windowsDir, "SysWOW64", ExeName), nil
	}
	return "", fmt.Errorf("unknown helper directory %d: %w", dir, ErrNoSystemHelper)
}
