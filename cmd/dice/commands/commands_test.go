package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dicengine/dice/pkg/banner"
	"github.com/dicengine/dice/pkg/buildinfo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the command line with fresh flag values and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfgFile = ""
	runVerbose = false
	versionShort = false
	infoOutput = "table"

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	err := ExecuteArgs(args)
	return out.String(), err
}

func TestVersion_Short(t *testing.T) {
	out, err := execute(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, buildinfo.Version+"\n", out)
}

func TestVersion_Full(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "dice "+buildinfo.Version)
	assert.Contains(t, out, "Revision")
	assert.Contains(t, out, buildinfo.Revision)
	assert.Contains(t, out, "Go version")
}

func TestInfo_JSON(t *testing.T) {
	out, err := execute(t, "info", "-o", "json")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, buildinfo.Revision, got["revision"])
	assert.Equal(t, buildinfo.DistributedEnabled(), got["distributed"])
}

func TestInfo_InvalidFormat(t *testing.T) {
	_, err := execute(t, "info", "-o", "xml")
	assert.Error(t, err)
}

func TestRun_NoBannerWithoutFlag(t *testing.T) {
	if buildinfo.DistributedEnabled() {
		t.Skip("run would start the coordinated runtime")
	}

	out, err := execute(t, "run", "input.xml")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRun_VerboseBanner(t *testing.T) {
	if buildinfo.DistributedEnabled() {
		t.Skip("run would start the coordinated runtime")
	}

	for _, flag := range []string{"-v", "--verbose"} {
		t.Run(flag, func(t *testing.T) {
			out, err := execute(t, "run", flag)
			require.NoError(t, err)

			var want bytes.Buffer
			banner.Write(&want, buildinfo.Current())
			assert.Equal(t, want.String(), out)
			assert.Contains(t, out, "distributed: disabled")
		})
	}
}

func TestRun_PassesUnknownArguments(t *testing.T) {
	if buildinfo.DistributedEnabled() {
		t.Skip("run would start the coordinated runtime")
	}

	out, err := execute(t, "run", "--input", "images.xml", "-v")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, banner.ProductLine))
}

func TestRun_MissingConfigFile(t *testing.T) {
	_, err := execute(t, "run", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration file not found")
}

func TestConfig_InitValidateShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dice.yaml")

	out, err := execute(t, "config", "init", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)
	_, err = os.Stat(path)
	require.NoError(t, err)

	out, err = execute(t, "config", "validate", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Validation: OK")
	assert.Contains(t, out, "127.0.0.1:7400")

	out, err = execute(t, "config", "show", "--config", path, "-o", "json")
	require.NoError(t, err)
	var shown map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &shown))
	assert.Contains(t, shown, "distributed")
}

func TestConfig_ValidateRejectsBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dice.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: LOUD\n"), 0644))

	_, err := execute(t, "config", "validate", "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Logging.Level")
}
