package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/comreg-labs/comreg/internal/branding"
	"github.com/comreg-labs/comreg/internal/config"
	"github.com/comreg-labs/comreg/internal/logutil"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	flagProfile  string
	flagDir      string
	flagLogLevel string
)

// annotationHost marks commands that need a 64-bit Windows host.
const annotationHost = "requires-host"

var (
	settings *config.Settings
	logger   = logutil.Discard()
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagProfile, "profile", "", "Component profile YAML (default: built-in virtual-audio-device)")
	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", "", "Directory holding the component DLLs (default: next to the executable)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Diagnostic log level: debug, info, warn, error")
}

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` registers a DirectShow filter such as virtual-audio-device for use by
64 bit programs, and optionally 32 bit programs too.

Run 'status' to see what is registered, then 'toggle' to register or
unregister. To update to new copies of the DLLs, unregister and register
again. Registration requires an elevated (Run as administrator) prompt.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		s, err := config.Current()
		if err != nil {
			return err
		}
		settings = s

		levelName := settings.LogLevel
		if flagLogLevel != "" {
			levelName = flagLogLevel
		}
		level, err := logutil.ParseLevel(levelName)
		if err != nil {
			return err
		}
		logger = logutil.NewLogger(cmd.ErrOrStderr(), level)
		slog.SetDefault(logger)

		if cmd.Annotations[annotationHost] == "true" {
			if err := env.checkHost(); err != nil {
				return err
			}
		}
		return nil
	},
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

