package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lensdock/injectable"
	"github.com/lensdock/injectable/internal/lenslink"
)

var pathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Print the package.json paths of linked extensions",
	RunE:  runPaths,
}

func runPaths(cmd *cobra.Command, args []string) error {
	c, release, err := buildContainer(true)
	if err != nil {
		return err
	}
	defer func() { _ = release() }()

	getConfig, err := injectable.Inject(c, lenslink.GetConfigInjectable)
	if err != nil {
		return err
	}
	getPaths, err := injectable.Inject(c, lenslink.GetPackageJSONPathsInjectable)
	if err != nil {
		return err
	}

	dirs, err := getConfig()
	if err != nil {
		return fmt.Errorf("reading link config: %w", err)
	}
	for _, path := range getPaths(dirs) {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), path); err != nil {
			return err
		}
	}
	return nil
}
