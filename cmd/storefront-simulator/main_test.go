package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	simTicks, simSeed, simFormat = 10, 0, "json"
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return buf.String()
}

func TestSimulateIsDeterministic(t *testing.T) {
	a := execute(t, "simulate", "--ticks", "25", "--seed", "42")
	b := execute(t, "simulate", "--ticks", "25", "--seed", "42")
	assert.Equal(t, a, b)

	var out simulation
	require.NoError(t, json.Unmarshal([]byte(a), &out))
	assert.Equal(t, uint64(42), out.Seed)
	assert.Len(t, out.Services, 7)
	assert.Len(t, out.Traffic, 20)
}

func TestSimulateYAML(t *testing.T) {
	got := execute(t, "simulate", "--ticks", "1", "--seed", "3", "--format", "yaml")
	assert.Contains(t, got, "seed: 3")
	assert.Contains(t, got, "services:")
}

func TestInsightWithoutKey(t *testing.T) {
	t.Setenv("API_KEY", "")
	got := execute(t, "insight", "p2")
	assert.Equal(t, "AI insights unavailable: API Key missing.\n", got)
}

func TestRootCommandServesByDefault(t *testing.T) {
	cmd, rest, err := rootCmd.Find(nil)
	require.NoError(t, err)
	assert.Equal(t, rootCmd, cmd)
	assert.Empty(t, rest)
	assert.True(t, cmd.Runnable(), "bare invocation must run the server, not print help")
	assert.NotNil(t, cmd.RunE)

	serve, _, err := rootCmd.Find([]string{"serve"})
	require.NoError(t, err)
	assert.True(t, serve.Runnable())
}

func TestRootCommandRejectsUnknownSubcommand(t *testing.T) {
	rootCmd.SetArgs([]string{"sevre"})
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	assert.Error(t, rootCmd.Execute())
}
