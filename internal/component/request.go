package component

import (
	"fmt"
	"strings"
)

// Direction selects register or unregister.
type Direction int

const (
	Register Direction = iota
	Unregister
)

func (d Direction) String() string {
	switch d {
	case Register:
		return "register"
	case Unregister:
		return "unregister"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Label returns the button caption that triggers d.
func (d Direction) Label() string {
	if d == Unregister {
		return "UnRegister"
	}
	return "Register"
}

// Record is the registration state of one variant as read from the registry.
type Record struct {
	Variant    Variant
	Registered bool
	// Path is the DLL path recorded at registration time. It may be empty
	// even when Registered is true.
	Path string
}

// Usable reports whether the record can drive an unregister.
func (r Record) Usable() bool {
	return r.Registered && strings.TrimSpace(r.Path) != ""
}

// Request is a single transition for one variant. Build it with
// RegisterRequest or UnregisterRequest.
type Request struct {
	Variant   Variant
	Direction Direction
	Path      string
}

func (r Request) String() string {
	return fmt.Sprintf("%s %s %q", r.Direction, r.Variant, r.Path)
}

// RegisterRequest builds a register request for a candidate artifact. The
// caller must have verified that path exists.
func RegisterRequest(v Variant, path string) Request {
	return Request{Variant: v, Direction: Register, Path: path}
}

// UnregisterRequest builds an unregister request from a registry record.
// Only a registered record with a non-empty recorded path qualifies.
func UnregisterRequest(rec Record) (Request, error) {
	if !rec.Usable() {
		return Request{}, &Error{Kind: KindNoRecordedPath, Variant: rec.Variant}
	}
	return Request{Variant: rec.Variant, Direction: Unregister, Path: strings.TrimSpace(rec.Path)}, nil
}

// Outcome is the result of one transition.
type Outcome struct {
	Request  Request
	Launched bool
	ExitCode int
	// Err is nil on success, otherwise a *Error.
	Err error
}

// Succeeded reports whether the helper ran and exited with code zero.
func (o Outcome) Succeeded() bool {
	return o.Err == nil && o.Launched && o.ExitCode == 0
}
