package registration

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/comreg-labs/comreg/internal/component"
	"github.com/comreg-labs/comreg/internal/helper"
	"github.com/comreg-labs/comreg/internal/winreg"
)

const (
	clsid32  = "{8E14549B-DB61-4309-AFA1-3578E927E935}"
	clsid64  = "{8E146464-DB61-4309-AFA1-3578E927E935}"
	helper32 = `C:\Windows\SysWOW64\regsvr32.exe`
	helper64 = `C:\Windows\System32\regsvr32.exe`
)

var testCLSIDs = map[component.Variant]string{
	component.X86: clsid32,
	component.X64: clsid64,
}

var testLocator = helper.StaticLocator{
	component.X86: helper32,
	component.X64: helper64,
}

// fakeLauncher stands in for regsvr32: on exit code 0 it applies the
// registration to the in-memory registry, the way the real helper would.
type fakeLauncher struct {
	store     *winreg.MemStore
	exitCodes map[string]int
	startErr  error
	runErr    error
	calls     []helper.Invocation
	contexts  []context.Context
}

func (f *fakeLauncher) Run(ctx context.Context, inv helper.Invocation) (int, error) {
	f.calls = append(f.calls, inv)
	f.contexts = append(f.contexts, ctx)
	if f.startErr != nil {
		return -1, &helper.StartError{Helper: inv.Helper, Err: f.startErr}
	}
	if f.runErr != nil {
		return -1, f.runErr
	}
	if code := f.exitCodes[inv.Helper]; code != 0 {
		return code, nil
	}

	v := component.X64
	if inv.Helper == helper32 {
		v = component.X86
	}
	if inv.Unregister {
		f.store.DeleteTree(v.ClassKey(testCLSIDs[v]))
	} else {
		f.store.SetString(v.ServerKey(testCLSIDs[v]), "", inv.Target)
		f.store.SetString(v.ServerKey(testCLSIDs[v]), "ThreadingModel", "Both")
	}
	return 0, nil
}

type fixture struct {
	store    *winreg.MemStore
	launcher *fakeLauncher
	session  *Session
	art32    string
	art64    string
	elevated bool
	// fileChecks counts filesystem lookups made by the session and transitioner.
	fileChecks int
}

type fixtureOpts struct {
	with32, with64 bool
	include32      bool
	notElevated    bool
}

func newFixture(t *testing.T, opts fixtureOpts) *fixture {
	t.Helper()
	dir := t.TempDir()
	f := &fixture{
		store:    winreg.NewMemStore(),
		art32:    filepath.Join(dir, "VirtualAudioDevice32", "audio_sniffer.dll"),
		art64:    filepath.Join(dir, "VirtualAudioDevice64", "audio_sniffer-x64.dll"),
		elevated: !opts.notElevated,
	}
	if opts.with32 {
		writeArtifact(t, f.art32)
	}
	if opts.with64 {
		writeArtifact(t, f.art64)
	}
	f.launcher = &fakeLauncher{store: f.store, exitCodes: map[string]int{}}

	exists := func(path string) (bool, error) {
		f.fileChecks++
		_, err := os.Stat(path)
		return err == nil, nil
	}

	inspector := NewInspector(f.store, testCLSIDs)
	transitioner := NewTransitioner(TransitionerOptions{
		Locator:    testLocator,
		Launcher:   f.launcher,
		Silent:     true,
		FileExists: exists,
	})
	f.session = NewSession(SessionOptions{
		Inspector:    inspector,
		Transitioner: transitioner,
		Artifacts: func(v component.Variant) (string, error) {
			if v == component.X86 {
				return f.art32, nil
			}
			return f.art64, nil
		},
		Include32:  opts.include32,
		IsElevated: func() (bool, error) { return f.elevated, nil },
		FileExists: exists,
	})
	return f
}

func writeArtifact(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("MZ"), 0644))
}

// markRegistered simulates an earlier registration from path.
func (f *fixture) markRegistered(v component.Variant, path string) {
	f.store.SetString(v.ServerKey(testCLSIDs[v]), "", path)
}
