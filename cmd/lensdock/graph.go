package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lensdock/injectable"
	"github.com/lensdock/injectable/extensions"
	"github.com/lensdock/injectable/internal/dock"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Print the dependency tree of the dock",
	Long: `Resolves the dock and every enabled tab without starting the file watcher,
then prints what each definition injected.`,
	RunE: runGraph,
}

func runGraph(cmd *cobra.Command, args []string) error {
	c, release, err := buildContainer(true)
	if err != nil {
		return err
	}
	defer func() { _ = release() }()

	d, err := injectable.Inject(c, dock.DockInjectable)
	if err != nil {
		return err
	}
	tabs, err := d.Tabs()
	if err != nil {
		return err
	}
	for _, tab := range tabs {
		if _, err := tab.Content(); err != nil {
			return fmt.Errorf("rendering tab %s: %w", tab.ID(), err)
		}
	}

	label := func(id string) string {
		def, err := c.Registry().Lookup(id)
		if err != nil {
			return id
		}
		if name := injectable.DisplayName(def); name != id {
			return fmt.Sprintf("%s (%s)", id, name)
		}
		return id
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), extensions.RenderDependencyTree(c, label))
	return err
}
