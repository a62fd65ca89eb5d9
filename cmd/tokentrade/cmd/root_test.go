package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	cerrors "github.com/lugondev/go-tokentrade/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("HOME", dir)
	return executeIn(t, args...)
}

// executeIn runs the root command in the current working directory.
func executeIn(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append([]string{}, args...))

	err := rootCmd.Execute()
	return out.String(), err
}

func TestRootRejectsUnknownSelector(t *testing.T) {
	_, err := execute(t, "--rpc", "http://127.0.0.1:1", "3")
	require.Error(t, err)
	assert.True(t, cerrors.Is(err, cerrors.ErrInvalidInstruction))
}

func TestRootRequiresSelector(t *testing.T) {
	_, err := execute(t)
	require.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "tokentrade CLI")
	assert.Contains(t, out, Version)
}

func TestQuoteCommand(t *testing.T) {
	out, err := execute(t, "quote", "--amount", "0.1")
	require.NoError(t, err)
	assert.Contains(t, out, "100000000 lamports) -> 1000000000 token base units")
	assert.Contains(t, out, "1000000000 token base units -> 100000000 lamports")
	assert.Contains(t, out, "sol-to-token data: 0100e1f50500000000")
	assert.Contains(t, out, "token-to-sol data: 0200ca9a3b00000000")
}

func TestQuoteCommandInvalidAmount(t *testing.T) {
	_, err := execute(t, "quote", "--amount", "abc")
	require.Error(t, err)
}

func TestWalletNewWritesKeypair(t *testing.T) {
	path := t.TempDir() + "/id.json"
	out, err := execute(t, "wallet", "new", "--out", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Saved to:")
	assert.FileExists(t, path)
	walletOut = ""
}

func TestOfflineCommandsIgnoreBrokenConfig(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("HOME", dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".tokentrade.yaml"), []byte("solana: [unterminated"), 0o600))

	out, err := executeIn(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "tokentrade CLI")

	out, err = executeIn(t, "quote", "--amount", "0.1")
	require.NoError(t, err)
	assert.Contains(t, out, "sol-to-token data: 0100e1f50500000000")

	_, err = executeIn(t, "1")
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to read config")
}

// chdir changes the working directory for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
