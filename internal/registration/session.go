package registration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/comreg-labs/comreg/internal/component"
	"github.com/comreg-labs/comreg/internal/logutil"
	"github.com/comreg-labs/comreg/internal/platform"
)

// ArtifactFunc returns the candidate DLL path for a variant.
type ArtifactFunc func(v component.Variant) (string, error)

// SessionOptions wires a Session.
type SessionOptions struct {
	Inspector    *Inspector
	Transitioner *Transitioner
	Artifacts    ArtifactFunc
	// Include32 seeds the toggle.
	Include32 bool
	// IsElevated defaults to platform.IsElevated.
	IsElevated func() (bool, error)
	// FileExists defaults to platform.FileExists.
	FileExists func(string) (bool, error)
	Logger     *slog.Logger
}

// Session is the caller-side state of the registration tool: the toggle
// that decides whether the 32-bit build takes part in registration, plus
// the collaborators needed to act on it.
type Session struct {
	// Include32 makes Register handle the 32-bit build as well. Unregister
	// ignores it and removes whatever is registered.
	Include32 bool

	inspector    *Inspector
	transitioner *Transitioner
	artifacts    ArtifactFunc
	isElevated   func() (bool, error)
	fileExists   func(string) (bool, error)
	log          *slog.Logger
}

// NewSession applies defaults to opts.
func NewSession(opts SessionOptions) *Session {
	s := &Session{
		Include32:    opts.Include32,
		inspector:    opts.Inspector,
		transitioner: opts.Transitioner,
		artifacts:    opts.Artifacts,
		isElevated:   opts.IsElevated,
		fileExists:   opts.FileExists,
		log:          opts.Logger,
	}
	if s.isElevated == nil {
		s.isElevated = platform.IsElevated
	}
	if s.fileExists == nil {
		s.fileExists = platform.FileExists
	}
	if s.log == nil {
		s.log = logutil.Discard()
	}
	return s
}

// State is a snapshot of both variants' registration.
type State struct {
	Records []component.Record
}

// Record returns the record for v.
func (st State) Record(v component.Variant) component.Record {
	for _, r := range st.Records {
		if r.Variant == v {
			return r
		}
	}
	return component.Record{Variant: v}
}

// AnyRegistered reports whether at least one variant is registered.
func (st State) AnyRegistered() bool {
	for _, r := range st.Records {
		if r.Registered {
			return true
		}
	}
	return false
}

// Next is the direction the toggle action takes from this state.
func (st State) Next() component.Direction {
	if st.AnyRegistered() {
		return component.Unregister
	}
	return component.Register
}

// Label is the caption of the toggle action: "UnRegister" while anything is
// registered, otherwise "Register".
func (st State) Label() string {
	return st.Next().Label()
}

// Result is what happened to one variant during an action.
type Result struct {
	Variant component.Variant
	Outcome component.Outcome
	// Skipped is set when no transition was attempted; Err says why.
	Skipped bool
	Err     error
}

// Succeeded reports whether the variant's transition completed with exit code 0.
func (r Result) Succeeded() bool {
	return !r.Skipped && r.Err == nil
}

// Report summarizes one user action.
type Report struct {
	Direction component.Direction
	Results   []Result
	Before    State
	After     State
}

// Err joins the errors of all failed or skipped variants.
func (r *Report) Err() error {
	var errs []error
	for _, res := range r.Results {
		if res.Err != nil {
			errs = append(errs, res.Err)
		}
	}
	return errors.Join(errs...)
}

// Launched counts helper processes that were started.
func (r *Report) Launched() int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome.Launched {
			n++
		}
	}
	return n
}

// State reads both variants from the registry.
func (s *Session) State() (State, error) {
	st := State{Records: make([]component.Record, 0, len(component.Variants))}
	for _, v := range component.Variants {
		rec, err := s.inspector.Record(v)
		if err != nil {
			return State{}, err
		}
		st.Records = append(st.Records, rec)
	}
	return st, nil
}

// Initial32Toggle returns the toggle's starting value: on when the 32-bit
// build is currently registered.
func (s *Session) Initial32Toggle() (bool, error) {
	return s.inspector.IsRegistered(component.X86)
}

// Register registers the 64-bit build, and the 32-bit build first when
// Include32 is set.
func (s *Session) Register(ctx context.Context) (*Report, error) {
	if err := s.checkPrivileges(); err != nil {
		return nil, err
	}
	before, err := s.State()
	if err != nil {
		return nil, err
	}
	return s.register(ctx, before)
}

// Unregister removes every variant the registry shows as registered, using
// the recorded paths.
func (s *Session) Unregister(ctx context.Context) (*Report, error) {
	if err := s.checkPrivileges(); err != nil {
		return nil, err
	}
	before, err := s.State()
	if err != nil {
		return nil, err
	}
	return s.unregister(ctx, before)
}

// Toggle unregisters when anything is registered and registers otherwise.
func (s *Session) Toggle(ctx context.Context) (*Report, error) {
	if err := s.checkPrivileges(); err != nil {
		return nil, err
	}
	before, err := s.State()
	if err != nil {
		return nil, err
	}
	if before.Next() == component.Unregister {
		return s.unregister(ctx, before)
	}
	return s.register(ctx, before)
}

// RegisterVariants lists the variants Register acts on, in order.
func (s *Session) RegisterVariants() []component.Variant {
	if s.Include32 {
		return []component.Variant{component.X86, component.X64}
	}
	return []component.Variant{component.X64}
}

func (s *Session) checkPrivileges() error {
	ok, err := s.isElevated()
	if err != nil {
		return fmt.Errorf("checking privileges: %w", err)
	}
	if !ok {
		return &component.Error{Kind: component.KindPrivilegeDenied}
	}
	return nil
}

func (s *Session) register(ctx context.Context, before State) (*Report, error) {
	variants := s.RegisterVariants()

	// Every candidate must exist before any helper runs.
	paths := make(map[component.Variant]string, len(variants))
	var missing []string
	for _, v := range variants {
		path, err := s.artifacts(v)
		if err != nil {
			return nil, fmt.Errorf("locating %s artifact: %w", v, err)
		}
		ok, err := s.fileExists(path)
		if err != nil {
			return nil, err
		}
		if !ok {
			missing = append(missing, path)
		}
		paths[v] = path
	}
	if len(missing) > 0 {
		s.log.Warn("artifacts missing, nothing registered", "paths", missing)
		return nil, &component.Error{Kind: component.KindMissingArtifact, Paths: missing}
	}

	report := &Report{Direction: component.Register, Before: before}
	for _, v := range variants {
		out := s.transitioner.Transition(ctx, component.RegisterRequest(v, paths[v]))
		report.Results = append(report.Results, Result{Variant: v, Outcome: out, Err: out.Err})
	}
	return s.finish(report)
}

func (s *Session) unregister(ctx context.Context, before State) (*Report, error) {
	report := &Report{Direction: component.Unregister, Before: before}
	for _, v := range component.Variants {
		rec := before.Record(v)
		if !rec.Registered {
			continue
		}
		req, err := component.UnregisterRequest(rec)
		if err != nil {
			s.log.Warn("registered without a recorded path, skipping", "variant", v.String())
			report.Results = append(report.Results, Result{Variant: v, Skipped: true, Err: err})
			continue
		}
		out := s.transitioner.Transition(ctx, req)
		report.Results = append(report.Results, Result{Variant: v, Outcome: out, Err: out.Err})
	}
	return s.finish(report)
}

func (s *Session) finish(report *Report) (*Report, error) {
	after, err := s.State()
	if err != nil {
		return report, fmt.Errorf("re-reading registration state: %w", err)
	}
	report.After = after
	return report, nil
}
