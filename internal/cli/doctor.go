package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/comreg-labs/comreg/internal/component"
	"github.com/comreg-labs/comreg/internal/platform"
	"github.com/comreg-labs/comreg/internal/profile"
	"github.com/comreg-labs/comreg/internal/registration"
)

func init() {
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that registration can work on this machine",
	Long: `Run diagnostic checks: host architecture, elevation, the component
profile, the system helpers, the DLLs and the current registry state.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if failed := runDoctor(cmd.OutOrStdout()); failed > 0 {
			return fmt.Errorf("%d check(s) failed", failed)
		}
		return nil
	},
}

// runDoctor prints every check and returns the number that failed.
func runDoctor(w io.Writer) int {
	failed := 0
	fail := func(format string, a ...any) {
		failed++
		fmt.Fprintf(w, "  [FAIL] "+format+"\n", a...)
	}

	fmt.Fprintln(w, "Host check:")
	if err := env.checkHost(); err != nil {
		fail("%v", err)
	} else {
		fmt.Fprintf(w, "  [ OK ] 64 bit host (%s)\n", platform.HostArch())
	}
	elevated, err := env.isElevated()
	switch {
	case err != nil:
		fmt.Fprintf(w, "  [WARN] cannot determine elevation: %v\n", err)
	case elevated:
		fmt.Fprintln(w, "  [ OK ] running elevated")
	default:
		fmt.Fprintln(w, "  [WARN] not elevated: register and unregister will be refused")
	}

	fmt.Fprintln(w, "Profile check:")
	p, err := loadProfile()
	if err != nil {
		fail("%v", err)
		return failed
	}
	fmt.Fprintf(w, "  [ OK ] %s (v%s, from %s)\n", p.Title(), p.Version, p.Source)

	fmt.Fprintln(w, "Helper check:")
	for _, v := range component.Variants {
		path, err := helperLocator().Path(v)
		if err != nil {
			fail("%s helper: %v", v, err)
			continue
		}
		checkFile(w, &failed, v.String()+" helper", path)
	}

	fmt.Fprintln(w, "Artifact check:")
	dir, err := artifactDir()
	if err != nil {
		fail("artifact directory: %v", err)
	} else {
		for _, v := range component.Variants {
			path, err := p.ArtifactPath(v, dir)
			if err != nil {
				fail("%s artifact: %v", v, err)
				continue
			}
			checkFile(w, &failed, v.String()+" artifact", path)
		}
	}

	fmt.Fprintln(w, "Registry check:")
	doctorRegistry(w, p, fail)
	return failed
}

func checkFile(w io.Writer, failed *int, what, path string) {
	ok, err := env.fileExists(path)
	switch {
	case err != nil:
		*failed++
		fmt.Fprintf(w, "  [FAIL] %s %s: %v\n", what, path, err)
	case ok:
		fmt.Fprintf(w, "  [ OK ] %s found at %s\n", what, path)
	default:
		*failed++
		fmt.Fprintf(w, "  [MISS] %s not found at %s\n", what, path)
	}
}

func doctorRegistry(w io.Writer, p *profile.Profile, fail func(string, ...any)) {
	inspector, err := registration.NewInspectorForProfile(env.store(), p)
	if err != nil {
		fail("%v", err)
		return
	}
	for _, v := range component.Variants {
		rec, err := inspector.Record(v)
		if err != nil {
			fail("%s: reading registry: %v", v, err)
			continue
		}
		switch {
		case rec.Usable():
			fmt.Fprintf(w, "  [ OK ] %s registered: %s\n", v, rec.Path)
		case rec.Registered:
			fmt.Fprintf(w, "  [WARN] %s registered without a recorded path, unregister will skip it\n", v)
		default:
			fmt.Fprintf(w, "  [INFO] %s not registered\n", v)
		}
	}
}
