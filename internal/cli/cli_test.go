package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
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

var clsids = map[component.Variant]string{
	component.X86: clsid32,
	component.X64: clsid64,
}

// fakeHelper applies registrations to the in-memory registry on exit 0.
type fakeHelper struct {
	store     *winreg.MemStore
	exitCodes map[component.Variant]int
	calls     []helper.Invocation
}

func (f *fakeHelper) Run(ctx context.Context, inv helper.Invocation) (int, error) {
	f.calls = append(f.calls, inv)
	v := component.X64
	if inv.Helper == helper32 {
		v = component.X86
	}
	if code := f.exitCodes[v]; code != 0 {
		return code, nil
	}
	if inv.Unregister {
		f.store.DeleteTree(v.ClassKey(clsids[v]))
	} else {
		f.store.SetString(v.ServerKey(clsids[v]), "", inv.Target)
	}
	return 0, nil
}

type harness struct {
	store    *winreg.MemStore
	helper   *fakeHelper
	dir      string
	elevated bool
	hostErr  error
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("USERPROFILE", os.Getenv("HOME"))

	h := &harness{store: winreg.NewMemStore(), dir: t.TempDir(), elevated: true}
	h.helper = &fakeHelper{store: h.store, exitCodes: map[component.Variant]int{}}

	saved := env
	env = environment{
		store:   func() winreg.Store { return h.store },
		locator: func() helper.Locator { return helper.StaticLocator{component.X86: helper32, component.X64: helper64} },
		launcher: func(stdout, stderr io.Writer) helper.Launcher {
			return h.helper
		},
		isElevated: func() (bool, error) { return h.elevated, nil },
		checkHost:  func() error { return h.hostErr },
		fileExists: func(path string) (bool, error) {
			switch path {
			case helper32, helper64:
				return true, nil
			}
			_, err := os.Stat(path)
			return err == nil, nil
		},
		artifactDir: func() (string, error) { return h.dir, nil },
	}
	t.Cleanup(func() {
		env = saved
		settings = nil
	})
	return h
}

func (h *harness) artifact(v component.Variant) string {
	if v == component.X86 {
		return filepath.Join(h.dir, "VirtualAudioDevice32", "audio_sniffer.dll")
	}
	return filepath.Join(h.dir, "VirtualAudioDevice64", "audio_sniffer-x64.dll")
}

func (h *harness) writeArtifacts(t *testing.T, variants ...component.Variant) {
	t.Helper()
	for _, v := range variants {
		path := h.artifact(v)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("MZ"), 0644))
	}
}

func (h *harness) registered(v component.Variant) bool {
	ok, err := h.store.KeyExists(v.ClassKey(clsids[v]))
	if err != nil {
		return false
	}
	return ok
}

// run executes the root command with args and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

// resetFlags restores every flag to its default between executions.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func TestRegister64Only(t *testing.T) {
	h := newHarness(t)
	h.writeArtifacts(t, component.X86, component.X64)

	out, err := run(t, "register")
	require.NoError(t, err)

	require.Len(t, h.helper.calls, 1)
	assert.Equal(t, helper64, h.helper.calls[0].Helper)
	assert.True(t, h.helper.calls[0].Silent)
	assert.True(t, h.registered(component.X64))
	assert.False(t, h.registered(component.X86))
	assert.Contains(t, out, "[ OK ] registered 64 bit")
	assert.Contains(t, out, "Next action: UnRegister")
}

func TestRegisterInclude32(t *testing.T) {
	h := newHarness(t)
	h.writeArtifacts(t, component.X86, component.X64)

	_, err := run(t, "register", "--include-32bit", "--show-diagnostics")
	require.NoError(t, err)

	require.Len(t, h.helper.calls, 2)
	assert.Equal(t, helper32, h.helper.calls[0].Helper)
	assert.Equal(t, helper64, h.helper.calls[1].Helper)
	assert.False(t, h.helper.calls[0].Silent)
	assert.True(t, h.registered(component.X86))
	assert.True(t, h.registered(component.X64))
}

func TestRegisterMissingArtifactLaunchesNothing(t *testing.T) {
	h := newHarness(t)
	h.writeArtifacts(t, component.X64)

	_, err := run(t, "register", "--include-32bit")
	require.Error(t, err)
	assert.ErrorIs(t, err, component.ErrMissingArtifact)
	assert.Empty(t, h.helper.calls)
}

func TestRegisterNotElevated(t *testing.T) {
	h := newHarness(t)
	h.elevated = false
	h.writeArtifacts(t, component.X64)

	_, err := run(t, "register")
	assert.ErrorIs(t, err, component.ErrPrivilegeDenied)
	assert.Empty(t, h.helper.calls)
}

func TestRegisterHelperFailure(t *testing.T) {
	h := newHarness(t)
	h.writeArtifacts(t, component.X64)
	h.helper.exitCodes[component.X64] = 5

	out, err := run(t, "register")
	require.Error(t, err)
	assert.ErrorIs(t, err, component.ErrHelperFailure)
	assert.Contains(t, out, "[FAIL] 64 bit")
	assert.Contains(t, out, "Next action: Register")
}

func TestUnregisterUsesRecordedPaths(t *testing.T) {
	h := newHarness(t)
	h.store.SetString(component.X86.ServerKey(clsid32), "", `D:\old\audio_sniffer.dll`)
	h.store.SetString(component.X64.ServerKey(clsid64), "", `D:\old\audio_sniffer-x64.dll`)

	out, err := run(t, "unregister")
	require.NoError(t, err)

	require.Len(t, h.helper.calls, 2)
	assert.True(t, h.helper.calls[0].Unregister)
	assert.Equal(t, `D:\old\audio_sniffer.dll`, h.helper.calls[0].Target)
	assert.Equal(t, `D:\old\audio_sniffer-x64.dll`, h.helper.calls[1].Target)
	assert.False(t, h.registered(component.X86))
	assert.False(t, h.registered(component.X64))
	assert.Contains(t, out, "Next action: Register")
}

func TestUnregisterSkipsMissingPath(t *testing.T) {
	h := newHarness(t)
	h.store.CreateKey(component.X86.ClassKey(clsid32))
	h.store.SetString(component.X64.ServerKey(clsid64), "", `C:\x\audio_sniffer-x64.dll`)

	out, err := run(t, "unregister")
	require.Error(t, err)
	assert.ErrorIs(t, err, component.ErrNoRecordedPath)
	require.Len(t, h.helper.calls, 1)
	assert.Equal(t, helper64, h.helper.calls[0].Helper)
	assert.Contains(t, out, "[SKIP] 32 bit")
}

func TestToggleSeedsInclude32FromRegistry(t *testing.T) {
	h := newHarness(t)
	h.writeArtifacts(t, component.X86, component.X64)

	// Nothing registered: the 32 bit toggle starts off.
	_, err := run(t, "toggle")
	require.NoError(t, err)
	assert.True(t, h.registered(component.X64))
	assert.False(t, h.registered(component.X86))

	_, err = run(t, "toggle")
	require.NoError(t, err)
	assert.False(t, h.registered(component.X64))

	_, err = run(t, "toggle", "--include-32bit")
	require.NoError(t, err)
	assert.True(t, h.registered(component.X86))
	assert.True(t, h.registered(component.X64))
}

func TestToggleInclude32FromConfig(t *testing.T) {
	h := newHarness(t)
	h.writeArtifacts(t, component.X86, component.X64)

	_, err := run(t, "config", "set", "include_32bit", "true")
	require.NoError(t, err)

	_, err = run(t, "toggle")
	require.NoError(t, err)
	assert.True(t, h.registered(component.X86))
	assert.True(t, h.registered(component.X64))
}

func TestHostCheckGuardsRegistryCommands(t *testing.T) {
	h := newHarness(t)
	h.hostErr = &component.Error{Kind: component.KindUnsupportedHost}

	_, err := run(t, "status")
	assert.ErrorIs(t, err, component.ErrUnsupportedHost)

	_, err = run(t, "version", "--short")
	assert.NoError(t, err)
}

func TestStatusJSON(t *testing.T) {
	h := newHarness(t)
	h.store.SetString(component.X64.ServerKey(clsid64), "", `C:\x\audio_sniffer-x64.dll`)

	out, err := run(t, "status", "--json")
	require.NoError(t, err)

	var report statusReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "virtual-audio-device", report.Profile)
	assert.Equal(t, "UnRegister", report.Action)
	require.Len(t, report.Variants, 2)
	assert.False(t, report.Variants[0].Registered)
	assert.True(t, report.Variants[1].Registered)
	assert.Equal(t, clsid64, report.Variants[1].CLSID)
	assert.Equal(t, `C:\x\audio_sniffer-x64.dll`, report.Variants[1].Path)
}

func TestStatusText(t *testing.T) {
	h := newHarness(t)
	h.store.CreateKey(component.X86.ClassKey(clsid32))

	out, err := run(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "[WARN] 32 bit registered without a recorded path")
	assert.Contains(t, out, "[ -- ] 64 bit not registered")
	assert.Contains(t, out, "Next action: UnRegister")
}

func TestDoctorReportsMissingArtifacts(t *testing.T) {
	h := newHarness(t)
	h.writeArtifacts(t, component.X64)

	out, err := run(t, "doctor")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 check(s) failed")
	assert.Contains(t, out, "[MISS] 32 bit artifact")
	assert.Contains(t, out, "[ OK ] 64 bit artifact")
	assert.Contains(t, out, "[ OK ] 64 bit helper found at "+helper64)
}

func TestProfileValidate(t *testing.T) {
	newHarness(t)
	dir := t.TempDir()

	good := filepath.Join(dir, "good.yaml")
	require.NoError(t, os.WriteFile(good, []byte(`name: demo
version: 1.0.0
variants:
  x86:
    clsid: "{8E14549B-DB61-4309-AFA1-3578E927E935}"
    artifact: demo32.dll
  x64:
    clsid: "{8E146464-DB61-4309-AFA1-3578E927E935}"
    artifact: demo64.dll
`), 0644))
	out, err := run(t, "profile", "validate", good)
	require.NoError(t, err)
	assert.Contains(t, out, "[ OK ] Valid profile: demo (v1.0.0)")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("name: demo\n"), 0644))
	out, err = run(t, "profile", "validate", bad)
	require.Error(t, err)
	assert.Contains(t, out, "[FAIL]")
}

func TestProfileShowJSON(t *testing.T) {
	newHarness(t)

	out, err := run(t, "profile", "show", "--json")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "virtual-audio-device", got["name"])
}

func TestConfigSetRejectsUnknownKey(t *testing.T) {
	newHarness(t)

	_, err := run(t, "config", "set", "nope", "1")
	assert.ErrorContains(t, err, "unknown config key")

	_, err = run(t, "config", "set", "helper.timeout", "30s")
	require.NoError(t, err)
	out, err := run(t, "config", "get", "helper.timeout")
	require.NoError(t, err)
	assert.Equal(t, "30s\n", out)
}
