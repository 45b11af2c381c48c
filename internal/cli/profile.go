package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/comreg-labs/comreg/internal/component"
	"github.com/comreg-labs/comreg/internal/profile"
)

var (
	profileShowYAML bool
	profileShowJSON bool
)

func init() {
	profileShowCmd.Flags().BoolVar(&profileShowYAML, "yaml", false, "Output as YAML")
	profileShowCmd.Flags().BoolVar(&profileShowJSON, "json", false, "Output as JSON")

	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileValidateCmd)
	rootCmd.AddCommand(profileCmd)
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Inspect component profiles",
	Long: `A component profile names the CLSIDs and DLL locations of the 32 bit
and 64 bit builds. Without --profile the built-in ` + profile.BuiltinName + ` profile is used.`,
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the active profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadProfile()
		if err != nil {
			return fmt.Errorf("loading profile: %w", err)
		}
		out := cmd.OutOrStdout()

		if profileShowJSON {
			data, err := json.MarshalIndent(p, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling profile as JSON: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		if profileShowYAML {
			data, err := yaml.Marshal(p)
			if err != nil {
				return fmt.Errorf("marshaling profile as YAML: %w", err)
			}
			fmt.Fprint(out, string(data))
			return nil
		}

		fmt.Fprintf(out, "Profile: %s (%s)\n", p.Title(), p.Source)
		fmt.Fprintln(out, "---")
		fmt.Fprintf(out, "  name:     %s\n", p.Name)
		fmt.Fprintf(out, "  version:  %s\n", p.Version)
		if p.Requires != "" {
			fmt.Fprintf(out, "  requires: %s\n", p.Requires)
		}
		if p.Homepage != "" {
			fmt.Fprintf(out, "  homepage: %s\n", p.Homepage)
		}
		for _, v := range component.Variants {
			clsid, _ := p.CLSID(v)
			cfg := p.Variants[v.Spec().Key]
			fmt.Fprintf(out, "  %s: %s %s\n", v.Spec().Key, clsid, cfg.Artifact)
		}
		return nil
	},
}

var profileValidateCmd = &cobra.Command{
	Use:   "validate <path>",
	Short: "Validate a profile file against the schema",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Profile validation: %s\n", path)

		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(out, "  [FAIL] %v\n", err)
			return fmt.Errorf("reading profile: %w", err)
		}
		result, err := profile.Validate(data)
		if err != nil {
			fmt.Fprintf(out, "  [FAIL] %v\n", err)
			return fmt.Errorf("profile validation failed: %w", err)
		}

		if !result.Valid {
			fmt.Fprintf(out, "  [FAIL] %d validation issue(s):\n", len(result.Issues))
			for _, issue := range result.Issues {
				fmt.Fprintf(out, "    - %s\n", issue)
			}
			return fmt.Errorf("profile %s has %d validation issue(s)", path, len(result.Issues))
		}

		p, err := profile.Parse(data)
		if err != nil {
			fmt.Fprintf(out, "  [FAIL] %v\n", err)
			return err
		}
		fmt.Fprintf(out, "  [ OK ] Valid profile: %s (v%s)\n", p.Name, p.Version)
		return nil
	},
}
