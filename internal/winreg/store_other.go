//go:build !windows

package winreg

// SystemStore stands in for the registry on hosts that have none. Every
// read fails with ErrUnsupported.
type SystemStore struct{}

// NewSystemStore returns a store whose reads fail with ErrUnsupported.
func NewSystemStore() Store {
	return SystemStore{}
}

func (SystemStore) KeyExists(string) (bool, error) {
	return false, ErrUnsupported
}

func (SystemStore) StringValue(string, string) (string, bool, error) {
	return "", false, ErrUnsupported
}
