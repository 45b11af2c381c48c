//go:build windows

package platform

import (
	"golang.org/x/sys/windows"
)

// IsElevated reports whether the process token is elevated, the same
// question IsUserAnAdmin answers for dialog applications.
func IsElevated() (bool, error) {
	return windows.GetCurrentProcessToken().IsElevated(), nil
}
