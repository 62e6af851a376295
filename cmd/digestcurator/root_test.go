package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	assert.Equal(t, "digestcurator dev\n", out.String())
}

func TestRootRegistersCommands(t *testing.T) {
	t.Parallel()

	root := newRootCmd()
	for _, name := range []string{"run", "serve", "version"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}
	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
	assert.NotNil(t, root.PersistentFlags().Lookup("log-level"))

	run, _, err := root.Find([]string{"run"})
	require.NoError(t, err)
	assert.NotNil(t, run.Flags().Lookup("preview"))
}

func TestLoadAppliesFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: warn\n"), 0o600))
	t.Setenv("LOG_LEVEL", "")

	opts := &rootOptions{configPath: path}
	cfg, logger, err := opts.load()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.NotNil(t, logger)

	opts.logLevel = "debug"
	cfg, _, err = opts.load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	opts := &rootOptions{configPath: filepath.Join(t.TempDir(), "missing.yaml")}
	_, _, err := opts.load()
	require.ErrorContains(t, err, "load config")
}

func TestRunFailsWithoutCredentials(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("metrics:\n  addr: \"\"\n"), 0o600))
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("DATABASE_DSN", "")

	root := newRootCmd()
	root.SetArgs([]string{"run", "--config", path})
	err := root.Execute()
	require.ErrorContains(t, err, "missing completion service credentials")
}
