// Package cli defines the Cobra command tree for the comreg CLI. Each file
// registers one top-level command with the root command. Commands build a
// registration.Session from the loaded config and component profile, then
// only handle flags, output formatting and exit status.
package cli
