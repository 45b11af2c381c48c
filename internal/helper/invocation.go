package helper

import (
	"strings"

	"github.com/comreg-labs/comreg/internal/component"
)

// ExeName is the registration helper's file name in both system directories.
const ExeName = "regsvr32.exe"

// Invocation describes one helper run.
type Invocation struct {
	Helper     string
	Unregister bool
	// Silent passes /s, which suppresses the helper's own message boxes.
	Silent bool
	Target string
}

// NewInvocation builds the invocation for req using helper.
func NewInvocation(helper string, req component.Request, silent bool) Invocation {
	return Invocation{
		Helper:     helper,
		Unregister: req.Direction == component.Unregister,
		Silent:     silent,
		Target:     req.Path,
	}
}

// Args returns the helper arguments: [/u] [/s] <target>.
func (inv Invocation) Args() []string {
	args := make([]string, 0, 3)
	if inv.Unregister {
		args = append(args, "/u")
	}
	if inv.Silent {
		args = append(args, "/s")
	}
	return append(args, inv.Target)
}

// CommandLine renders the full Windows command line with the helper and
// target quoted: "<helper>" [/u] [/s] "<target>".
func (inv Invocation) CommandLine() string {
	var b strings.Builder
	b.WriteString(quote(inv.Helper))
	if inv.Unregister {
		b.WriteString(" /u")
	}
	if inv.Silent {
		b.WriteString(" /s")
	}
	b.WriteByte(' ')
	b.WriteString(quote(inv.Target))
	return b.String()
}

// quote wraps s in double quotes. Windows paths cannot contain '"', so no
// escaping is needed.
func quote(s string) string {
	return `"` + s + `"`
}
