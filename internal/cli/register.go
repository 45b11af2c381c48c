package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/comreg-labs/comreg/internal/component"
	"github.com/comreg-labs/comreg/internal/registration"
)

var (
	flagInclude32       bool
	flagShowDiagnostics bool
)

func init() {
	for _, c := range []*cobra.Command{registerCmd, unregisterCmd, toggleCmd} {
		c.Flags().BoolVar(&flagShowDiagnostics, "show-diagnostics", false, "Let the helper show its result dialogs")
		rootCmd.AddCommand(c)
	}
	for _, c := range []*cobra.Command{registerCmd, toggleCmd} {
		c.Flags().BoolVar(&flagInclude32, "include-32bit", false, "Also register the 32 bit build (default: on when it is registered now)")
	}
}

type action func(s *registration.Session, ctx context.Context) (*registration.Report, error)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register the 64 bit build, and the 32 bit build with --include-32bit",
	Long: `Register runs the system helper on the DLLs found in the artifact
directory. Both DLLs are checked before anything runs, so a missing file
leaves the registry untouched.`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationHost: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAction(cmd, (*registration.Session).Register)
	},
}

var unregisterCmd = &cobra.Command{
	Use:   "unregister",
	Short: "Unregister every registered build",
	Long: `Unregister removes each registered build using the DLL path the
registry recorded for it, which may differ from the artifact directory.`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationHost: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAction(cmd, (*registration.Session).Unregister)
	},
}

var toggleCmd = &cobra.Command{
	Use:         "toggle",
	Short:       "Unregister if anything is registered, otherwise register",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationHost: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAction(cmd, (*registration.Session).Toggle)
	},
}

func runAction(cmd *cobra.Command, act action) error {
	a, err := newApp(cmd, sessionOptions{showDiagnostics: flagShowDiagnostics})
	if err != nil {
		return err
	}
	if err := a.resolveInclude32(cmd, flagInclude32); err != nil {
		return err
	}

	report, err := act(a.session, cmd.Context())
	if report != nil {
		writeReport(cmd.OutOrStdout(), report)
	}
	if err != nil {
		return err
	}
	return report.Err()
}

func writeReport(w io.Writer, report *registration.Report) {
	for _, res := range report.Results {
		label := res.Variant.String()
		switch {
		case res.Skipped:
			fmt.Fprintf(w, "  [SKIP] %s: %v\n", label, res.Err)
		case res.Succeeded():
			fmt.Fprintf(w, "  [ OK ] %s %s: %s\n", directionVerb(report.Direction), label, res.Outcome.Request.Path)
		default:
			fmt.Fprintf(w, "  [FAIL] %s: %v\n", label, res.Err)
		}
	}
	if len(report.Results) == 0 {
		fmt.Fprintln(w, "Nothing to do.")
	}
	if len(report.After.Records) > 0 {
		fmt.Fprintf(w, "Next action: %s\n", report.After.Label())
	}
}

func directionVerb(d component.Direction) string {
	if d == component.Unregister {
		return "unregistered"
	}
	return "registered"
}
