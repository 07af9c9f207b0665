package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_HasSubcommands(t *testing.T) {
	names := make([]string, 0, len(rootCmd.Commands()))
	for _, cmd := range rootCmd.Commands() {
		names = append(names, cmd.Name())
	}

	for _, want := range []string{"submit", "entries", "forms", "settings", "mcp", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestRootCmd_VerboseFlag(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, flag)
	assert.Equal(t, "v", flag.Shorthand)
	assert.Equal(t, "false", flag.DefValue)
}

func TestSetServices(t *testing.T) {
	_, cleanup := setupTestServices()

	assert.NotNil(t, submissionService)
	assert.NotNil(t, entryService)
	assert.NotNil(t, formService)
	assert.NotNil(t, settingsService)

	cleanup()

	assert.Nil(t, submissionService)
	assert.Nil(t, formWatcher)
}

func TestExecute(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "formflow version")

	rootCmd.SetArgs([]string{"version"})
	defer rootCmd.SetArgs(nil)
	assert.NoError(t, Execute(context.Background()))
}
