//go:build windows

package winreg

import (
	"errors"
	"fmt"

	"golang.org/x/sys/windows/registry"
)

// SystemStore reads HKEY_LOCAL_MACHINE through the 64-bit registry view.
type SystemStore struct{}

// NewSystemStore returns the store backed by the live registry.
func NewSystemStore() Store {
	return SystemStore{}
}

const access = registry.QUERY_VALUE | registry.WOW64_64KEY

func (SystemStore) KeyExists(path string) (bool, error) {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, trimPath(path), access)
	if errors.Is(err, registry.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("opening HKLM\\%s: %w", trimPath(path), err)
	}
	k.Close()
	return true, nil
}

func (SystemStore) StringValue(path, name string) (string, bool, error) {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, trimPath(path), access)
	if errors.Is(err, registry.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("opening HKLM\\%s: %w", trimPath(path), err)
	}
	defer k.Close()

	val, valType, err := k.GetStringValue(name)
	if errors.Is(err, registry.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading HKLM\\%s value %q: %w", trimPath(path), name, err)
	}
	if valType == registry.EXPAND_SZ {
		expanded, err := registry.ExpandString(val)
		if err == nil {
			val = expanded
		}
	}
	return val, true, nil
}

// trimPath drops the leading separator some callers carry over from
// HKLM-qualified paths.
func trimPath(path string) string {
	for len(path) > 0 && path[0] == '\\' {
		path = path[1:]
	}
	return path
}
