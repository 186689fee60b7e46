package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		cfgFile = ""
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestPathsCommand(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.yaml", "link_dirs: [ext-a, nested/ext-b]\n")

	out, err := execute(t, "paths", "--config", cfgPath)
	require.NoError(t, err)

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t,
		filepath.Join(wd, "ext-a", "package.json")+"\n"+filepath.Join(wd, "nested", "ext-b", "package.json")+"\n",
		out)
}

func TestGraphCommand(t *testing.T) {
	dir := t.TempDir()
	cluster := writeFile(t, dir, "cluster.yaml", "namespaces:\n  - metadata: {name: default}\n")
	cfgPath := writeFile(t, dir, "config.yaml", "cluster_file: "+cluster+"\n")

	out, err := execute(t, "graph", "--config", cfgPath)
	require.NoError(t, err)

	assert.Contains(t, out, "container")
	assert.Contains(t, out, "dock")
	assert.Contains(t, out, "workloads (Workloads)")
	assert.Contains(t, out, "namespace-rows")
}

func TestInvalidConfigFails(t *testing.T) {
	cfgPath := writeFile(t, t.TempDir(), "config.yaml", "tracing:\n  sample_rate: 2\n")

	_, err := execute(t, "paths", "--config", cfgPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading config")
}
