package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/comreg-labs/comreg/internal/component"
	"github.com/comreg-labs/comreg/internal/config"
	"github.com/comreg-labs/comreg/internal/helper"
	"github.com/comreg-labs/comreg/internal/platform"
	"github.com/comreg-labs/comreg/internal/profile"
	"github.com/comreg-labs/comreg/internal/registration"
	"github.com/comreg-labs/comreg/internal/winreg"
)

// environment holds the host-facing collaborators. Tests swap it out.
type environment struct {
	store       func() winreg.Store
	locator     func() helper.Locator
	launcher    func(stdout, stderr io.Writer) helper.Launcher
	isElevated  func() (bool, error)
	checkHost   func() error
	fileExists  func(string) (bool, error)
	artifactDir func() (string, error)
}

func defaultEnvironment() environment {
	return environment{
		store:   winreg.NewSystemStore,
		locator: func() helper.Locator { return helper.SystemLocator{} },
		launcher: func(stdout, stderr io.Writer) helper.Launcher {
			return &helper.ExecLauncher{Stdout: stdout, Stderr: stderr}
		},
		isElevated:  platform.IsElevated,
		checkHost:   platform.CheckHost,
		fileExists:  platform.FileExists,
		artifactDir: platform.ExecutableDir,
	}
}

var env = defaultEnvironment()

// loadProfile resolves the profile from --profile, then config, then the
// built-in default, and checks it against this build's version.
func loadProfile() (*profile.Profile, error) {
	path := flagProfile
	if path == "" {
		path = currentSettings().Profile
	}
	p, err := profile.Load(path)
	if err != nil {
		return nil, err
	}
	if err := p.CheckCompatibility(buildVersion); err != nil {
		return nil, err
	}
	return p, nil
}

// artifactDir resolves --dir, then config, then the executable's directory.
func artifactDir() (string, error) {
	if flagDir != "" {
		return flagDir, nil
	}
	if dir := currentSettings().ArtifactsDir; dir != "" {
		return dir, nil
	}
	return env.artifactDir()
}

// currentSettings falls back to defaults when no command has loaded config.
func currentSettings() *config.Settings {
	if settings != nil {
		return settings
	}
	return &config.Settings{Silent: true}
}

// helperLocator applies the configured helper overrides.
func helperLocator() helper.Locator {
	cfg := currentSettings()
	return helper.WithOverrides(env.locator(), map[component.Variant]string{
		component.X86: cfg.HelperX86,
		component.X64: cfg.HelperX64,
	})
}

type sessionOptions struct {
	showDiagnostics bool
}

// app bundles what a command needs to act on one profile.
type app struct {
	profile *profile.Profile
	dir     string
	session *registration.Session
}

func newApp(cmd *cobra.Command, opts sessionOptions) (*app, error) {
	p, err := loadProfile()
	if err != nil {
		return nil, err
	}
	dir, err := artifactDir()
	if err != nil {
		return nil, err
	}

	inspector, err := registration.NewInspectorForProfile(env.store(), p)
	if err != nil {
		return nil, err
	}

	cfg := currentSettings()
	silent := cfg.Silent && !opts.showDiagnostics

	transitioner := registration.NewTransitioner(registration.TransitionerOptions{
		Locator:    helperLocator(),
		Launcher:   env.launcher(cmd.OutOrStdout(), cmd.ErrOrStderr()),
		Silent:     silent,
		Timeout:    cfg.Timeout,
		FileExists: env.fileExists,
		Logger:     logger,
	})

	session := registration.NewSession(registration.SessionOptions{
		Inspector:    inspector,
		Transitioner: transitioner,
		Artifacts: func(v component.Variant) (string, error) {
			return p.ArtifactPath(v, dir)
		},
		IsElevated: env.isElevated,
		FileExists: env.fileExists,
		Logger:     logger,
	})

	return &app{profile: p, dir: dir, session: session}, nil
}

// resolveInclude32 seeds the toggle: an explicit flag wins, then config,
// then whether the 32-bit build is registered right now.
func (a *app) resolveInclude32(cmd *cobra.Command, flagValue bool) error {
	if f := cmd.Flags().Lookup("include-32bit"); f != nil && f.Changed {
		a.session.Include32 = flagValue
		return nil
	}
	if cfg := currentSettings(); cfg.Include32 != nil {
		a.session.Include32 = *cfg.Include32
		return nil
	}
	on, err := a.session.Initial32Toggle()
	if err != nil {
		return fmt.Errorf("reading 32 bit registration: %w", err)
	}
	a.session.Include32 = on
	return nil
}
