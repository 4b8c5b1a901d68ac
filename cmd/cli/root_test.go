// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"pakewrapper/internal/config"
	"pakewrapper/internal/session"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// loadWithArgs parses args on a throwaway command bound to fresh options and
// returns the resulting configuration.
func loadWithArgs(t *testing.T, args ...string) (config.Config, error) {
	t.Helper()
	var opts globalOptions
	var cfg config.Config
	var loadErr error
	cmd := &cobra.Command{
		Use: "test",
		Run: func(cmd *cobra.Command, _ []string) {
			cfg, loadErr = opts.load(cmd)
		},
	}
	opts.bind(cmd)
	cmd.SetArgs(args)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	require.NoError(t, cmd.Execute())
	return cfg, loadErr
}

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg, err := loadWithArgs(t, "--config", path)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad_FlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pake_path: /usr/local/bin/pake\nwidth: 1440\nheight: 900\n"), 0644))

	cfg, err := loadWithArgs(t, "--config", path, "--width", "1024", "--no-multi-arch")
	require.NoError(t, err)
	assert.Equal(t, "/usr/local/bin/pake", cfg.PakePath)
	assert.Equal(t, 1024, cfg.Width)
	assert.Equal(t, 900, cfg.Height)
	assert.False(t, cfg.MultiArch)
}

func TestLoad_PakePathExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := loadWithArgs(t, "--config", filepath.Join(home, "config.yaml"), "--pake-path", "~/bin/pake")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "bin", "pake"), cfg.PakePath)
}

func TestLoad_RejectsInvalidOverride(t *testing.T) {
	_, err := loadWithArgs(t, "--config", filepath.Join(t.TempDir(), "config.yaml"), "--height", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "height must be positive")
}

// presetWithArgs parses args on a throwaway command carrying the --url and
// --icon flags and returns what presetInputs makes of them.
func presetWithArgs(t *testing.T, args ...string) (*session.Inputs, error) {
	t.Helper()
	var url, icon string
	var inputs *session.Inputs
	var presetErr error
	cmd := &cobra.Command{
		Use: "test",
		Run: func(cmd *cobra.Command, _ []string) {
			inputs, presetErr = presetInputs(cmd, url, icon)
		},
	}
	cmd.Flags().StringVar(&url, "url", "", "")
	cmd.Flags().StringVar(&icon, "icon", "", "")
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return inputs, presetErr
}

func TestPresetInputs(t *testing.T) {
	inputs, err := presetWithArgs(t)
	require.NoError(t, err)
	assert.Nil(t, inputs)

	inputs, err = presetWithArgs(t, "--url", "example.com")
	require.NoError(t, err)
	assert.Equal(t, &session.Inputs{URL: "example.com"}, inputs)

	inputs, err = presetWithArgs(t, "--url", "example.com", "--icon", "~/app.png")
	require.NoError(t, err)
	assert.Equal(t, &session.Inputs{URL: "example.com", Icon: "~/app.png"}, inputs)

	inputs, err = presetWithArgs(t, "--icon", "~/app.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--icon requires --url")
	assert.Nil(t, inputs)
}

func TestRoot_IconWithoutURLIsRejected(t *testing.T) {
	t.Cleanup(func() {
		iconFlag = ""
		rootCmd.Flags().Lookup("icon").Changed = false
	})
	out, err := executeRoot(t, "--icon", "app.png")
	require.Error(t, err)
	assert.Contains(t, out, "--icon requires --url")
}

func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		forceInit = false
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestConfigInitShowPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	out, err := executeRoot(t, "--config", path, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, path+"\n", out)

	out, err = executeRoot(t, "--config", path, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration written to "+path)
	assert.FileExists(t, path)

	_, err = executeRoot(t, "--config", path, "config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = executeRoot(t, "--config", path, "config", "init", "--force")
	require.NoError(t, err)

	out, err = executeRoot(t, "--config", path, "config", "show")
	require.NoError(t, err)
	var shown config.Config
	require.NoError(t, yaml.Unmarshal([]byte(out), &shown))
	assert.Equal(t, config.Default(), shown)
}
