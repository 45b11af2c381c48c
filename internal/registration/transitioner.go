package registration

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/comreg-labs/comreg/internal/component"
	"github.com/comreg-labs/comreg/internal/helper"
	"github.com/comreg-labs/comreg/internal/logutil"
	"github.com/comreg-labs/comreg/internal/platform"
)

// TransitionerOptions configures a Transitioner.
type TransitionerOptions struct {
	Locator  helper.Locator
	Launcher helper.Launcher
	// Silent passes /s so regsvr32 shows no message boxes of its own.
	Silent bool
	// Timeout bounds each helper run. Zero waits indefinitely.
	Timeout time.Duration
	// FileExists defaults to platform.FileExists.
	FileExists func(string) (bool, error)
	Logger     *slog.Logger
}

// Transitioner runs one registration transition at a time. It keeps no
// state between calls.
type Transitioner struct {
	locator    helper.Locator
	launcher   helper.Launcher
	silent     bool
	timeout    time.Duration
	fileExists func(string) (bool, error)
	log        *slog.Logger
}

// NewTransitioner applies defaults to opts.
func NewTransitioner(opts TransitionerOptions) *Transitioner {
	t := &Transitioner{
		locator:    opts.Locator,
		launcher:   opts.Launcher,
		silent:     opts.Silent,
		timeout:    opts.Timeout,
		fileExists: opts.FileExists,
		log:        opts.Logger,
	}
	if t.locator == nil {
		t.locator = helper.SystemLocator{}
	}
	if t.launcher == nil {
		t.launcher = &helper.ExecLauncher{}
	}
	if t.fileExists == nil {
		t.fileExists = platform.FileExists
	}
	if t.log == nil {
		t.log = logutil.Discard()
	}
	return t
}

// Transition runs the helper for req and blocks until it exits.
//
// Register requests re-check that the artifact exists right before launch.
// Unregister requests must carry a recorded path. Once the helper is running
// only the configured timeout can stop it; cancelling ctx does not.
func (t *Transitioner) Transition(ctx context.Context, req component.Request) component.Outcome {
	out := component.Outcome{Request: req, ExitCode: -1}
	fail := func(kind component.Kind, code int64, paths []string, err error) component.Outcome {
		out.Err = &component.Error{Kind: kind, Variant: req.Variant, Paths: paths, Code: code, Err: err}
		return out
	}

	if !req.Variant.Valid() {
		return fail(component.KindLaunchFailure, 0, nil, errors.New("invalid variant"))
	}

	switch req.Direction {
	case component.Register:
		ok, err := t.fileExists(req.Path)
		if err != nil {
			return fail(component.KindMissingArtifact, 0, []string{req.Path}, err)
		}
		if !ok {
			return fail(component.KindMissingArtifact, 0, []string{req.Path}, nil)
		}
	case component.Unregister:
		if req.Path == "" {
			return fail(component.KindNoRecordedPath, 0, nil, nil)
		}
	}

	helperPath, err := t.locator.Path(req.Variant)
	if err != nil {
		return fail(component.KindLaunchFailure, helper.ErrorCode(err), nil, err)
	}
	inv := helper.NewInvocation(helperPath, req, t.silent)

	runCtx := context.WithoutCancel(ctx)
	if t.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(runCtx, t.timeout)
		defer cancel()
	}

	t.log.Info("running helper",
		"variant", req.Variant.String(),
		"direction", req.Direction.String(),
		"command", inv.CommandLine())

	code, err := t.launcher.Run(runCtx, inv)

	var startErr *helper.StartError
	switch {
	case errors.As(err, &startErr):
		t.log.Warn("helper failed to start", "variant", req.Variant.String(), "error", err)
		return fail(component.KindLaunchFailure, helper.ErrorCode(err), nil, startErr.Err)
	case errors.Is(err, context.DeadlineExceeded):
		out.Launched = true
		t.log.Warn("helper timed out", "variant", req.Variant.String(), "timeout", t.timeout)
		return fail(component.KindHelperTimeout, 0, nil, err)
	case err != nil:
		out.Launched = true
		return fail(component.KindLaunchFailure, helper.ErrorCode(err), nil, err)
	}

	out.Launched = true
	out.ExitCode = code
	t.log.Info("helper exited", "variant", req.Variant.String(), "exit_code", code)
	if code != 0 {
		return fail(component.KindHelperFailure, int64(code), nil, nil)
	}
	return out
}
