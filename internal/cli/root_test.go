package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "shopfront", cmd.Use)
	assert.Contains(t, cmd.Long, "local state file")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := [][]string{
		{"products"}, {"product"},
		{"cart"}, {"cart", "show"}, {"cart", "add"}, {"cart", "set"}, {"cart", "remove"}, {"cart", "clear"},
		{"register"}, {"login"}, {"logout"}, {"forgot-password"}, {"reset-password"},
		{"checkout"}, {"orders"}, {"orders", "list"}, {"orders", "cancel"},
		{"view"}, {"watch"}, {"scenario"},
	}

	for _, path := range commands {
		t.Run(path[len(path)-1], func(t *testing.T) {
			subCmd, _, err := cmd.Find(path)
			require.NoError(t, err, "Command %v should exist", path)
			require.NotNil(t, subCmd)
			assert.Equal(t, path[len(path)-1], subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	for _, name := range []string{"config-dir", "data-dir", "api-url", "ws-url"} {
		f := cmd.PersistentFlags().Lookup(name)
		require.NotNil(t, f, name)
		assert.Equal(t, "", f.DefValue)
	}
}

func TestProductsCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	productsCmd, _, err := cmd.Find([]string{"products"})
	require.NoError(t, err)

	for _, name := range []string{"category", "query", "min", "max", "category-filter", "sort"} {
		assert.NotNil(t, productsCmd.Flags().Lookup(name), name)
	}
	assert.Equal(t, "q", productsCmd.Flags().Lookup("query").Shorthand)
}

func TestExecute_ExitCodes(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"unknown command", []string{"frobnicate"}, ExitCommandError},
		{"invalid format", []string{"--format", "xml", "view"}, ExitCommandError},
		{"unknown flag", []string{"products", "--colour"}, ExitCommandError},
		{"too many args", []string{"cart", "add", "1", "2"}, ExitCommandError},
		{"bad id", []string{"product", "abc"}, ExitCommandError},
		{"validation", []string{"login"}, ExitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Execute(context.Background(), tt.args))
		})
	}
}

func TestHelpText(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"scenario", "--help"})

	require.NoError(t, cmd.Execute())
	output := buf.String()
	assert.Contains(t, output, "--golden")
	assert.Contains(t, output, "--update")
	assert.Contains(t, output, "Exit codes")
}
