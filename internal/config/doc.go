// Package config manages user-level settings stored at ~/.comreg/config.yaml.
// Values can be overridden with COMREG_* environment variables, e.g.
// COMREG_HELPER_SILENT=false or COMREG_HELPER_TIMEOUT=30s.
package config
