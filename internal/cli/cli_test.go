package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEntryAndDefaults(t *testing.T) {
	var out bytes.Buffer
	cfg, exit, err := Parse([]string{"main.wgsl"}, &out)
	require.NoError(t, err)
	require.False(t, exit)
	require.NotNil(t, cfg)

	assert.Equal(t, "main.wgsl", cfg.EntryPath)
	assert.Equal(t, ".", cfg.RootPath)
	assert.Equal(t, "", cfg.OutputPath)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.Defines)
}

func TestParseAllFlags(t *testing.T) {
	var out bytes.Buffer
	args := []string{
		"-root", "shaders",
		"-o", "out.wgsl",
		"-D", "quality=4.5",
		"-D", "SAMPLE_SIZE=64",
		"-D", "USE_FOG=true",
		"-log-format", "json",
		"-log-level", "debug",
		"main.wgsl",
	}
	cfg, exit, err := Parse(args, &out)
	require.NoError(t, err)
	require.False(t, exit)

	assert.Equal(t, "shaders", cfg.RootPath)
	assert.Equal(t, "out.wgsl", cfg.OutputPath)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "debug", cfg.LogLevel)
	require.Len(t, cfg.Defines, 3)
	assert.Equal(t, "quality", cfg.Defines[0].Name)
	assert.Equal(t, "4.5", cfg.Defines[0].Raw)
}

func TestParseNoEntryPrintsUsage(t *testing.T) {
	var out bytes.Buffer
	cfg, exit, err := Parse(nil, &out)
	require.NoError(t, err)
	assert.True(t, exit)
	assert.Nil(t, cfg)
	assert.Contains(t, out.String(), "Usage:")
}

func TestParseInvalidInputs(t *testing.T) {
	cases := []struct {
		name string
		args []string
	}{
		{"bad log format", []string{"-log-format", "xml", "main.wgsl"}},
		{"bad log level", []string{"-log-level", "loud", "main.wgsl"}},
		{"define without equals", []string{"-D", "quality", "main.wgsl"}},
		{"define with bad value", []string{"-D", "quality=maybe", "main.wgsl"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			_, _, err := Parse(tc.args, &out)
			require.Error(t, err)

			exitErr, ok := err.(*ExitError)
			require.True(t, ok)
			assert.Equal(t, 2, exitErr.Code)
		})
	}
}
