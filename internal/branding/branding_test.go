package branding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmbeddedValues(t *testing.T) {
	assert.Equal(t, "comreg", CLIName())
	assert.Equal(t, ".comreg", HomeDir())
	assert.Equal(t, "COMREG", EnvPrefix())
	assert.NotEmpty(t, Description())
}

func TestEnvVar(t *testing.T) {
	assert.Equal(t, "COMREG_PROFILE", EnvVar("profile"))
	assert.Equal(t, "COMREG_LOG_LEVEL", EnvVar("log_level"))
}
