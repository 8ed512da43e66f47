package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HELLOCMS_CONFIG", "")
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), "none.env")}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestPathsCommands(t *testing.T) {
	out, err := run(t, "paths", "relative", "./templates/email/foo/bar.twig")
	require.NoError(t, err)
	assert.Equal(t, "foo/bar.twig", strings.TrimSpace(out))

	out, err = run(t, "paths", "duplicate", "foo/bar.twig")
	require.NoError(t, err)
	assert.Equal(t, "./storage/runtime/email/foo/bar.twig", strings.TrimSpace(out))

	_, err = run(t, "paths", "relative", "/elsewhere/bar.twig")
	assert.Error(t, err)
}

func TestLocalesCommand_SeededMemoryStore(t *testing.T) {
	t.Setenv("HELLOCMS_STORAGE_SEED", "true")

	out, err := run(t, "locales", "1")
	require.NoError(t, err)
	assert.Equal(t, "en\nes", strings.TrimSpace(out))

	out, err = run(t, "locales", "3")
	require.NoError(t, err)
	assert.Equal(t, "es", strings.TrimSpace(out))

	_, err = run(t, "locales", "99")
	assert.Error(t, err)

	_, err = run(t, "locales", "x")
	assert.Error(t, err)
}

func TestMigrateDryRun(t *testing.T) {
	out, err := run(t, "migrate", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "0001 init")
	assert.Contains(t, out, "0002 matrix")
}

func TestMigrate_RequiresPostgres(t *testing.T) {
	_, err := run(t, "migrate")
	assert.ErrorContains(t, err, "postgres")
}
