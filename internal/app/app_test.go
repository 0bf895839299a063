package app

import (
	"bytes"
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/wgslpp/diag"
)

func testConfig(t *testing.T, cfg Config) *Config {
	t.Helper()
	validated, err := NewConfig(cfg)
	require.NoError(t, err)
	return validated
}

func TestRunExpandsEntryToStdout(t *testing.T) {
	fsys := fstest.MapFS{
		"main.wgsl": {Data: []byte("//:if quality >= 4.0\nhigh\n//:else\nlow\n//:end\n")},
	}
	cfg := testConfig(t, Config{
		EntryPath: "main.wgsl",
		RootPath:  ".",
		Defines:   []Define{{Name: "quality", Raw: "5.0"}},
		LogLevel:  "error",
	})

	var out, errOut bytes.Buffer
	a := newApp(&out, &errOut, cfg, fsys)
	require.NoError(t, a.Run(context.Background(), cfg))
	assert.Equal(t, "high\n", out.String())
}

func TestRunDefineTypes(t *testing.T) {
	fsys := fstest.MapFS{
		"main.wgsl": {Data: []byte("//:const N\n//:const SCALE\n")},
	}
	cfg := testConfig(t, Config{
		EntryPath: "main.wgsl",
		Defines: []Define{
			{Name: "N", Raw: "3"},
			{Name: "SCALE", Raw: "2.5"},
		},
		LogLevel: "error",
	})

	var out, errOut bytes.Buffer
	a := newApp(&out, &errOut, cfg, fsys)
	require.NoError(t, a.Run(context.Background(), cfg))
	assert.Equal(t, "const N = 3;\nconst SCALE = 2.5;\n", out.String())
}

func TestRunSurfacesStructuredErrors(t *testing.T) {
	fsys := fstest.MapFS{
		"main.wgsl": {Data: []byte("//:include gone.wgsl\n")},
	}
	cfg := testConfig(t, Config{EntryPath: "main.wgsl", LogLevel: "error"})

	var out, errOut bytes.Buffer
	a := newApp(&out, &errOut, cfg, fsys)
	err := a.Run(context.Background(), cfg)
	require.Error(t, err)
	assert.True(t, diag.IsKind(err, diag.Lookup))
}

func TestNewConfigValidation(t *testing.T) {
	_, err := NewConfig(Config{})
	assert.Error(t, err, "empty entry path must be rejected")

	_, err = NewConfig(Config{EntryPath: "a.wgsl", Defines: []Define{{Name: "x", Raw: "not-a-value"}}})
	assert.Error(t, err, "unparseable define must be rejected")

	cfg, err := NewConfig(Config{EntryPath: "a.wgsl"})
	require.NoError(t, err)
	assert.Equal(t, ".", cfg.RootPath, "root defaults to the current directory")
}
