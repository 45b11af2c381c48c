package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/comreg-labs/comreg/internal/component"
	"github.com/comreg-labs/comreg/internal/registration"
)

var statusJSON bool

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Print the registration state as JSON")
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:         "status",
	Short:       "Show which builds are registered",
	Annotations: map[string]string{annotationHost: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, sessionOptions{})
		if err != nil {
			return err
		}
		st, err := a.session.State()
		if err != nil {
			return fmt.Errorf("reading registration state: %w", err)
		}
		if statusJSON {
			return writeStatusJSON(cmd.OutOrStdout(), a, st)
		}
		writeStatus(cmd.OutOrStdout(), a, st)
		return nil
	},
}

type variantStatus struct {
	Variant    string `json:"variant"`
	CLSID      string `json:"clsid"`
	Registered bool   `json:"registered"`
	Path       string `json:"path,omitempty"`
}

type statusReport struct {
	Profile  string          `json:"profile"`
	Variants []variantStatus `json:"variants"`
	Action   string          `json:"action"`
}

func buildStatus(a *app, st registration.State) statusReport {
	report := statusReport{Profile: a.profile.Name, Action: st.Label()}
	for _, v := range component.Variants {
		rec := st.Record(v)
		clsid, _ := a.profile.CLSID(v)
		report.Variants = append(report.Variants, variantStatus{
			Variant:    v.Spec().Key,
			CLSID:      clsid,
			Registered: rec.Registered,
			Path:       rec.Path,
		})
	}
	return report
}

func writeStatusJSON(w io.Writer, a *app, st registration.State) error {
	data, err := json.MarshalIndent(buildStatus(a, st), "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling status: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func writeStatus(w io.Writer, a *app, st registration.State) {
	fmt.Fprintf(w, "%s\n", a.profile.Title())
	for _, v := range component.Variants {
		rec := st.Record(v)
		switch {
		case rec.Registered && rec.Path != "":
			fmt.Fprintf(w, "  [ OK ] %s registered: %s\n", v.Spec().Label, rec.Path)
		case rec.Registered:
			fmt.Fprintf(w, "  [WARN] %s registered without a recorded path\n", v.Spec().Label)
		default:
			fmt.Fprintf(w, "  [ -- ] %s not registered\n", v.Spec().Label)
		}
	}
	fmt.Fprintf(w, "Next action: %s\n", st.Label())
}
