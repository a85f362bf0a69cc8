package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/catalogview/internal/cli"
	"github.com/rshade/catalogview/internal/config"
	"github.com/rshade/catalogview/pkg/version"
)

func TestMainComponents(t *testing.T) {
	t.Run("version available", func(t *testing.T) {
		assert.NotEmpty(t, version.GetVersion())
	})

	t.Run("cli root command", func(t *testing.T) {
		root := cli.NewRootCmd(version.GetVersion())
		require.NotNil(t, root)
		assert.Equal(t, "catalogview", root.Use)
		assert.Equal(t, version.GetVersion(), root.Version)
	})
}

func TestRootCommandSubcommands(t *testing.T) {
	root := cli.NewRootCmd("test")

	for _, name := range []string{"browse", "products", "reviews", "auth", "config", "cache"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := root.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestRun_UnknownCommandFails(t *testing.T) {
	t.Setenv(config.EnvHome, t.TempDir())
	t.Cleanup(config.ResetGlobalConfigForTest)

	root := cli.NewRootCmd("test")
	root.SetArgs([]string{"no-such-command"})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}
