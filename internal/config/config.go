package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/comreg-labs/comreg/internal/branding"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Recognized keys.
const (
	KeyInclude32    = "include_32bit"
	KeySilent       = "helper.silent"
	KeyTimeout      = "helper.timeout"
	KeyHelperX86    = "helper.x86"
	KeyHelperX64    = "helper.x64"
	KeyProfile      = "profile"
	KeyArtifactsDir = "artifacts_dir"
	KeyLogLevel     = "log.level"
)

var knownKeys = map[string]bool{
	KeyInclude32:    true,
	KeySilent:       true,
	KeyTimeout:      true,
	KeyHelperX86:    true,
	KeyHelperX64:    true,
	KeyProfile:      true,
	KeyArtifactsDir: true,
	KeyLogLevel:     true,
}

var v = newViper()

// Settings is the typed view of the configuration.
type Settings struct {
	// Include32 is nil when unset, meaning "follow the current registry state".
	Include32    *bool
	Silent       bool
	Timeout      time.Duration
	HelperX86    string
	HelperX64    string
	Profile      string
	ArtifactsDir string
	LogLevel     string
}

// Dir returns the path to the config directory (~/.comreg/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.comreg/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

func newViper() *viper.Viper {
	nv := viper.New()
	nv.SetDefault(KeySilent, true)
	nv.SetDefault(KeyTimeout, "0s")
	nv.SetDefault(KeyLogLevel, "warn")
	nv.SetEnvPrefix(branding.EnvPrefix())
	nv.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	nv.AutomaticEnv()
	return nv
}

// Load reads the config file and environment. A missing file is not an error.
func Load() {
	LoadFile(FilePath())
}

// LoadFile is Load with an explicit file path.
func LoadFile(path string) {
	v = newViper()
	v.SetConfigFile(path)
	v.SetConfigType(fileType)
	_ = v.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return v.GetString(key)
}

// Keys lists the recognized keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(knownKeys))
	for k := range knownKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set validates and writes a key-value pair, then saves the config file.
func Set(key, value string) error {
	key = strings.ToLower(key)
	if !knownKeys[key] {
		return fmt.Errorf("unknown config key %q (known: %s)", key, strings.Join(Keys(), ", "))
	}
	if err := checkValue(key, value); err != nil {
		return err
	}
	if err := EnsureDir(); err != nil {
		return err
	}

	v.Set(key, value)

	configFile := FilePath()
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func checkValue(key, value string) error {
	switch key {
	case KeyInclude32, KeySilent:
		switch strings.ToLower(value) {
		case "true", "false", "1", "0", "yes", "no":
			return nil
		}
		return fmt.Errorf("%s expects a boolean, got %q", key, value)
	case KeyTimeout:
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("%s expects a duration such as 30s: %w", key, err)
		}
		if d < 0 {
			return fmt.Errorf("%s must not be negative", key)
		}
	}
	return nil
}

// Current returns the typed settings from the loaded configuration.
func Current() (*Settings, error) {
	timeout, err := time.ParseDuration(v.GetString(KeyTimeout))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", KeyTimeout, err)
	}
	if timeout < 0 {
		return nil, fmt.Errorf("%s must not be negative", KeyTimeout)
	}

	s := &Settings{
		Silent:       v.GetBool(KeySilent),
		Timeout:      timeout,
		HelperX86:    v.GetString(KeyHelperX86),
		HelperX64:    v.GetString(KeyHelperX64),
		Profile:      v.GetString(KeyProfile),
		ArtifactsDir: v.GetString(KeyArtifactsDir),
		LogLevel:     v.GetString(KeyLogLevel),
	}
	if v.IsSet(KeyInclude32) {
		include := v.GetBool(KeyInclude32)
		s.Include32 = &include
	}
	return s, nil
}
