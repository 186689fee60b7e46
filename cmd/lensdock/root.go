package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lensdock/injectable"
	"github.com/lensdock/injectable/internal/app"
	"github.com/lensdock/injectable/internal/config"
	"github.com/lensdock/injectable/internal/logging"
	"github.com/lensdock/injectable/internal/tracing"
	"github.com/lensdock/injectable/internal/tui"
)

func init() {
	// query the terminal background before the program owns stdin
	_ = lipgloss.HasDarkBackground()
}

var (
	version   = "dev"
	cfgFile   string
	debug     bool
	cfg       config.Config
	configErr error
	v         = viper.New()
)

var rootCmd = &cobra.Command{
	Use:     "lensdock",
	Short:   "A terminal dock for cluster snapshots",
	Long:    `lensdock shows the workloads and namespaces of a cluster snapshot file in a tabbed terminal dock. The file is reloaded when it changes.`,
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configErr != nil {
			return fmt.Errorf("loading config: %w", configErr)
		}
		return nil
	},
	RunE:         runApp,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/lensdock/config.yaml)")
	rootCmd.PersistentFlags().String("cluster", "",
		"cluster snapshot file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"write debug logs to the configured log file")

	_ = v.BindPFlag("cluster_file", rootCmd.PersistentFlags().Lookup("cluster"))

	rootCmd.AddCommand(graphCmd, pathsCmd)
}

func initConfig() {
	cfg, configErr = config.Load(v, cfgFile)
	if configErr == nil && debug {
		cfg.Log.Enabled = true
		cfg.Log.Level = "debug"
	}
}

// buildContainer assembles the application container together with its
// logger and tracer. The returned function releases all of them.
func buildContainer(sandbox bool) (*injectable.Container, func() error, error) {
	logger, closeLog, err := logging.New(cfg.Log)
	if err != nil {
		return nil, nil, err
	}

	provider, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		_ = closeLog()
		return nil, nil, fmt.Errorf("creating tracer: %w", err)
	}

	opts := app.Options{
		Config:  cfg,
		Version: version,
		Logger:  logger,
		Sandbox: sandbox,
	}
	if provider.Enabled() {
		opts.Tracer = provider.Tracer()
	}

	c, err := app.New(opts)
	if err != nil {
		_ = provider.Shutdown(context.Background())
		_ = closeLog()
		return nil, nil, err
	}

	release := func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return errors.Join(c.Dispose(), provider.Shutdown(ctx), closeLog())
	}
	return c, release, nil
}

func runApp(cmd *cobra.Command, args []string) error {
	c, release, err := buildContainer(false)
	if err != nil {
		return err
	}

	model, err := tui.New(c, cfg.ClusterFile != "")
	if err != nil {
		return errors.Join(err, release())
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	model.Close()

	if releaseErr := release(); releaseErr != nil && err == nil {
		err = releaseErr
	}
	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
