package platform

import (
	"fmt"
	"runtime"

	"github.com/comreg-labs/comreg/internal/component"
)

// HostArch returns the architecture the process was built for.
func HostArch() string {
	return runtime.GOARCH
}

// Is64Bit reports whether arch is a 64-bit Windows architecture.
func Is64Bit(arch string) bool {
	switch arch {
	case "amd64", "arm64":
		return true
	}
	return false
}

// CheckHost verifies the process runs natively on a 64-bit host. Both the
// 64-bit registry view and the System32 helper resolve correctly only from a
// 64-bit process.
func CheckHost() error {
	return checkArch(HostArch())
}

func checkArch(arch string) error {
	if Is64Bit(arch) {
		return nil
	}
	return &component.Error{
		Kind: component.KindUnsupportedHost,
		Err:  fmt.Errorf("running as %s; use the 64 bit build", arch),
	}
}
