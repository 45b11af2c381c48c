//go:build !windows

package helper

import (
	"fmt"

	"github.com/comreg-labs/comreg/internal/component"
)

// SystemLocator has nothing to resolve outside Windows; configure explicit
// helper paths instead.
type SystemLocator struct{}

func (SystemLocator) Path(v component.Variant) (string, error) {
	return "", fmt.Errorf("%s helper for %s: %w", ExeName, v, ErrNoSystemHelper)
}
