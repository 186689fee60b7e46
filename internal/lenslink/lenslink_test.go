package lenslink

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lensdock/injectable"
	"github.com/lensdock/injectable/internal/config"
)

func newContainer(t *testing.T, wd string) *injectable.Container {
	t.Helper()
	c := injectable.NewContainer(injectable.PreventSideEffects())
	t.Cleanup(func() { _ = c.Dispose() })
	require.NoError(t, c.Register(config.StateInjectable))
	require.NoError(t, c.RegisterModules(Module))
	require.NoError(t, injectable.OverrideValue(c, WorkingDirectoryInjectable, wd))
	return c
}

func TestResolvePath(t *testing.T) {
	assert.Equal(t, filepath.FromSlash("/work/ext/package.json"), resolvePath("/work", "ext", "package.json"))
	assert.Equal(t, filepath.FromSlash("/work/package.json"), resolvePath("/work", "ext/..", "package.json"))
	assert.Equal(t, filepath.FromSlash("/abs/package.json"), resolvePath("/work", "/abs", "package.json"))
}

func TestGetPackageJSONPaths(t *testing.T) {
	c := newContainer(t, "/some-working-directory")

	getPaths := injectable.MustInject(c, GetPackageJSONPathsInjectable)
	paths := getPaths([]string{"some-extension", "../other", "/abs/ext"})

	assert.Equal(t, []string{
		filepath.FromSlash("/some-working-directory/some-extension/package.json"),
		filepath.FromSlash("/other/package.json"),
		filepath.FromSlash("/abs/ext/package.json"),
	}, paths)
	assert.Empty(t, getPaths(nil))
}

func TestGetConfig_PrefersConfiguredDirs(t *testing.T) {
	wd := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(wd, LinksFileName), []byte("- from-file\n"), 0o600))
	c := newContainer(t, wd)
	injectable.MustInject(c, config.StateInjectable).Set(config.Config{LinkDirs: []string{"from-config"}})

	dirs, err := injectable.MustInject(c, GetConfigInjectable)()
	require.NoError(t, err)
	assert.Equal(t, []string{"from-config"}, dirs)
}

func TestGetConfig_ReadsLinksFile(t *testing.T) {
	wd := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(wd, LinksFileName), []byte("- ext-a\n- ext-b\n"), 0o600))
	c := newContainer(t, wd)

	dirs, err := injectable.MustInject(c, GetConfigInjectable)()
	require.NoError(t, err)
	assert.Equal(t, []string{"ext-a", "ext-b"}, dirs)
}

func TestGetConfig_NoLinks(t *testing.T) {
	c := newContainer(t, t.TempDir())

	dirs, err := injectable.MustInject(c, GetConfigInjectable)()
	require.NoError(t, err)
	assert.Empty(t, dirs)
}

func TestGetConfig_InvalidLinksFile(t *testing.T) {
	wd := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(wd, LinksFileName), []byte("not: a list\n"), 0o600))
	c := newContainer(t, wd)

	_, err := injectable.MustInject(c, GetConfigInjectable)()
	require.Error(t, err)
	assert.Contains(t, err.Error(), LinksFileName)
}

func TestWorkingDirectoryInjectable(t *testing.T) {
	c := injectable.NewContainer()
	defer c.Dispose()
	require.NoError(t, c.Register(WorkingDirectoryInjectable))

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, wd, injectable.MustInject(c, WorkingDirectoryInjectable))
}
