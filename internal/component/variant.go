package component

import (
	"fmt"
	"strings"
)

// Variant identifies one of the two parallel builds of a component.
type Variant int

const (
	// X86 is the 32-bit build, registered in the WOW64 view of the registry.
	X86 Variant = iota
	// X64 is the 64-bit build, registered in the native view.
	X64
)

// HelperDir names the system directory a variant's regsvr32.exe lives in.
type HelperDir int

const (
	// HelperSystem is the native system directory (System32).
	HelperSystem HelperDir = iota
	// HelperSysWOW64 is the 32-bit system directory on a 64-bit host.
	HelperSysWOW64
)

func (d HelperDir) String() string {
	switch d {
	case HelperSystem:
		return "System32"
	case HelperSysWOW64:
		return "SysWOW64"
	default:
		return "unknown"
	}
}

// VariantSpec holds everything that differs between the two variants.
type VariantSpec struct {
	Variant Variant
	// Label is the user-facing name ("32 bit").
	Label string
	// Key is the profile key for the variant ("x86").
	Key string
	// ClassesRoot is the HKLM-relative path holding CLSID keys for this view.
	ClassesRoot string
	// Helper selects where the registration helper is resolved from.
	Helper HelperDir
}

var variantTable = [...]VariantSpec{
	X86: {
		Variant:     X86,
		Label:       "32 bit",
		Key:         "x86",
		ClassesRoot: `SOFTWARE\WOW6432Node\Classes\CLSID`,
		Helper:      HelperSysWOW64,
	},
	X64: {
		Variant:     X64,
		Label:       "64 bit",
		Key:         "x64",
		ClassesRoot: `SOFTWARE\Classes\CLSID`,
		Helper:      HelperSystem,
	},
}

// Variants lists all variants in processing order.
var Variants = []Variant{X86, X64}

// Spec returns the lookup table entry for v. It panics on an invalid variant.
func (v Variant) Spec() VariantSpec {
	if !v.Valid() {
		panic(fmt.Sprintf("component: invalid variant %d", int(v)))
	}
	return variantTable[v]
}

// Valid reports whether v is one of the known variants.
func (v Variant) Valid() bool {
	return v == X86 || v == X64
}

func (v Variant) String() string {
	if !v.Valid() {
		return fmt.Sprintf("Variant(%d)", int(v))
	}
	return variantTable[v].Label
}

// ParseVariant accepts the profile keys and common aliases.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x86", "32", "32bit", "32-bit", "win32":
		return X86, nil
	case "x64", "64", "64bit", "64-bit", "amd64":
		return X64, nil
	}
	return 0, fmt.Errorf("unknown variant %q: expected x86 or x64", s)
}

// ClassKey returns the HKLM-relative key for clsid in this variant's view.
// clsid is expected in registry form, including braces.
func (v Variant) ClassKey(clsid string) string {
	return v.Spec().ClassesRoot + `\` + clsid
}

// ServerKey returns the InprocServer32 sub-key whose default value records
// the registered DLL path.
func (v Variant) ServerKey(clsid string) string {
	return v.ClassKey(clsid) + `\InprocServer32`
}
