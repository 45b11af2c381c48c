package component

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failure.
type Kind int

const (
	KindMissingArtifact Kind = iota + 1
	KindLaunchFailure
	KindHelperFailure
	KindHelperTimeout
	KindPrivilegeDenied
	KindUnsupportedHost
	KindNoRecordedPath
)

func (k Kind) String() string {
	switch k {
	case KindMissingArtifact:
		return "missing artifact"
	case KindLaunchFailure:
		return "launch failure"
	case KindHelperFailure:
		return "helper failure"
	case KindHelperTimeout:
		return "helper timeout"
	case KindPrivilegeDenied:
		return "privilege denied"
	case KindUnsupportedHost:
		return "unsupported host"
	case KindNoRecordedPath:
		return "no recorded path"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is. A *Error matches the sentinel of its Kind.
var (
	ErrMissingArtifact = errors.New("component files not found")
	ErrLaunchFailure   = errors.New("helper could not be started")
	ErrHelperFailure   = errors.New("helper reported failure")
	ErrHelperTimeout   = errors.New("helper timed out")
	ErrPrivilegeDenied = errors.New("administrator privileges are required")
	ErrUnsupportedHost = errors.New("a 64 bit Windows system is required")
	ErrNoRecordedPath  = errors.New("no registered path recorded")
)

var kindSentinels = map[Kind]error{
	KindMissingArtifact: ErrMissingArtifact,
	KindLaunchFailure:   ErrLaunchFailure,
	KindHelperFailure:   ErrHelperFailure,
	KindHelperTimeout:   ErrHelperTimeout,
	KindPrivilegeDenied: ErrPrivilegeDenied,
	KindUnsupportedHost: ErrUnsupportedHost,
	KindNoRecordedPath:  ErrNoRecordedPath,
}

// Error is a classified failure. Code holds the platform error code for
// KindLaunchFailure and the exit code for KindHelperFailure.
type Error struct {
	Kind    Kind
	Variant Variant
	// Paths lists the files involved, e.g. every missing artifact.
	Paths []string
	Code  int64
	Err   error
}

func (e *Error) Error() string {
	var b strings.Builder
	if sentinel, ok := kindSentinels[e.Kind]; ok {
		b.WriteString(sentinel.Error())
	} else {
		b.WriteString("component error")
	}

	switch e.Kind {
	case KindMissingArtifact:
		if len(e.Paths) > 0 {
			b.WriteString(": ")
			b.WriteString(strings.Join(e.Paths, ", "))
		}
	case KindLaunchFailure, KindHelperFailure, KindHelperTimeout, KindNoRecordedPath:
		fmt.Fprintf(&b, " (%s)", e.Variant)
		if e.Kind == KindHelperFailure || (e.Kind == KindLaunchFailure && e.Code != 0) {
			fmt.Fprintf(&b, ": %s", FormatCode(e.Code))
		}
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel for e.Kind.
func (e *Error) Is(target error) bool {
	sentinel, ok := kindSentinels[e.Kind]
	return ok && sentinel == target
}

// KindOf returns the Kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return 0
}

// FormatCode renders a code the way Windows diagnostics usually show it,
// in decimal and as a 32-bit hex value.
func FormatCode(code int64) string {
	return fmt.Sprintf("%d (0x%07X)", code, uint32(code))
}
