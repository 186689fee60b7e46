// Package lenslink locates the package manifests of locally linked
// extensions.
package lenslink

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/lensdock/injectable"
	"github.com/lensdock/injectable/fp"
	"github.com/lensdock/injectable/internal/config"
)

// LinksFileName is read from the working directory when the configuration
// lists no link directories.
const LinksFileName = ".lens-links.yaml"

// WorkingDirectoryInjectable is the directory link paths are relative to.
var WorkingDirectoryInjectable = injectable.Define("working-directory", func(ctx *injectable.ResolveCtx) (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting current directory: %w", err)
	}
	return wd, nil
})

// ResolvePath joins segments left to right; an absolute segment discards
// everything before it.
type ResolvePath func(segments ...string) string

var ResolvePathInjectable = injectable.Define("resolve-path", func(ctx *injectable.ResolveCtx) (ResolvePath, error) {
	return resolvePath, nil
})

func resolvePath(segments ...string) string {
	resolved := ""
	for _, seg := range segments {
		if filepath.IsAbs(seg) {
			resolved = seg
			continue
		}
		resolved = filepath.Join(resolved, seg)
	}
	return filepath.Clean(resolved)
}

// ReadLinksFile decodes a YAML list of link directories.
func ReadLinksFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var dirs []string
	if err := yaml.Unmarshal(data, &dirs); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}
	return dirs, nil
}

// GetConfig returns the link directories to inspect.
type GetConfig func() ([]string, error)

var GetConfigInjectable = injectable.Define("get-link-config", func(ctx *injectable.ResolveCtx) (GetConfig, error) {
	state, err := injectable.Inject(ctx, config.StateInjectable)
	if err != nil {
		return nil, err
	}
	wd, err := injectable.Inject(ctx, WorkingDirectoryInjectable)
	if err != nil {
		return nil, err
	}

	return func() ([]string, error) {
		if dirs := state.Peek().LinkDirs; len(dirs) > 0 {
			return dirs, nil
		}
		dirs, err := ReadLinksFile(filepath.Join(wd, LinksFileName))
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return dirs, err
	}, nil
})

// GetPackageJSONPaths maps link directories to their package.json files.
type GetPackageJSONPaths func(linkDirs []string) []string

var GetPackageJSONPathsInjectable = injectable.Define("get-package-json-paths", func(ctx *injectable.ResolveCtx) (GetPackageJSONPaths, error) {
	resolve, err := injectable.Inject(ctx, ResolvePathInjectable)
	if err != nil {
		return nil, err
	}
	wd, err := injectable.Inject(ctx, WorkingDirectoryInjectable)
	if err != nil {
		return nil, err
	}

	return func(linkDirs []string) []string {
		return fp.Map(func(dir string) string {
			return resolve(wd, dir, "package.json")
		})(linkDirs)
	}, nil
})

// Module bundles the link definitions.
var Module = injectable.NewModule("lens-link",
	WorkingDirectoryInjectable,
	ResolvePathInjectable,
	GetConfigInjectable,
	GetPackageJSONPathsInjectable,
)
