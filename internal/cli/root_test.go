package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRootCmd_Structure(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()
	assert.Equal(t, "changemoji [path]", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
	assert.NotEmpty(t, cmd.Example)
	assert.True(t, cmd.SilenceUsage)
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		flagName  string
		shorthand string
		defValue  string
	}{
		"config":   {flagName: "config", defValue: ""},
		"output":   {flagName: "output", shorthand: "o", defValue: "CHANGELOG.md"},
		"format":   {flagName: "format", defValue: "markdown"},
		"title":    {flagName: "title", defValue: "Changelog"},
		"provider": {flagName: "provider", defValue: "gogit"},
		"jobs":     {flagName: "jobs", defValue: "1"},
		"debug":    {flagName: "debug", defValue: "false"},
		"plain":    {flagName: "plain", defValue: "false"},
	}

	cmd := NewRootCmd()
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			flag := cmd.PersistentFlags().Lookup(tt.flagName)
			if assert.NotNil(t, flag, "Flag %s should exist", tt.flagName) {
				assert.Equal(t, tt.shorthand, flag.Shorthand)
				assert.Equal(t, tt.defValue, flag.DefValue)
			}
		})
	}
}

func TestRootCmd_LocalFlags(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()
	for _, name := range []string{"dry-run", "diff", "summary"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "Flag %s should exist", name)
		assert.Nil(t, cmd.PersistentFlags().Lookup(name), "Flag %s should not be inherited", name)
	}
}

func TestRootCmd_Subcommands(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()
	names := map[string]string{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = sub.GroupID
	}

	assert.Equal(t, GroupGenerate, names["watch"])
	assert.Equal(t, GroupConfiguration, names["doctor"])
	assert.Equal(t, GroupConfiguration, names["config"])
	assert.Equal(t, GroupConfiguration, names["version"])

	groups := map[string]bool{}
	for _, g := range cmd.Groups() {
		groups[g.ID] = true
	}
	assert.True(t, groups[GroupGenerate])
	assert.True(t, groups[GroupConfiguration])
}

func TestRepoPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ".", repoPath(nil))
	assert.Equal(t, "../api", repoPath([]string{"../api"}))
}

func TestExitCodes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, ExitSuccess)
	assert.Equal(t, 1, ExitFailure)
}
