//go:build windows

package helper

import (
	"fmt"

	"golang.org/x/sys/windows"

	"github.com/comreg-labs/comreg/internal/component"
)

// SystemLocator resolves regsvr32.exe from the directories Windows reports,
// so relocated Windows installs work.
type SystemLocator struct{}

func (SystemLocator) Path(v component.Variant) (string, error) {
	systemDir, err := windows.GetSystemDirectory()
	if err != nil {
		return "", fmt.Errorf("resolving system directory: %w", err)
	}
	windowsDir, err := windows.GetSystemWindowsDirectory()
	if err != nil {
		return "", fmt.Errorf("resolving Windows directory: %w", err)
	}
	return helperPath(v.Spec().Helper, systemDir, windowsDir)
}
