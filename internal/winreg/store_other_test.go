//go:build !windows

package winreg

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSystemStoreUnsupported(t *testing.T) {
	s := NewSystemStore()
	_, err := s.KeyExists(`SOFTWARE\Classes`)
	require.ErrorIs(t, err, ErrUnsupported)
	_, _, err = s.StringValue(`SOFTWARE\Classes`, "")
	require.ErrorIs(t, err, ErrUnsupported)
}
