package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResetCommand_WritesDefaultsToPrefsDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	cfgPath := filepath.Join(home, "config.toml")
	cfg := "log_file = \"" + filepath.Join(home, "lp.log") + "\"\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))
	prefsDir := filepath.Join(home, "prefs")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"reset", "--config", cfgPath, "--prefs-dir", prefsDir, "--poll", "2s"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "preferences reset")
	assert.FileExists(t, filepath.Join(prefsDir, "lightpanel_config.json"))
	assert.Equal(t, "2s", opts.PollEvery.String())
}
