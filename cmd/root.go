package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clubops/planner/app"
	"github.com/clubops/planner/config"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "planner",
	Short: "Assignment and derived-budget engine for club events",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

// service builds the app service from the configured file. Callers own the
// returned service and must Close it.
func service() (*app.Service, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return app.New(cfg)
}
