package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"MorningRadar/internal/config"
)

// Version is set at build time with -ldflags "-X MorningRadar/internal/cli.Version=...".
var Version = "dev"

type globalOptions struct {
	configPath string
	preset     string
}

// NewRootCmd builds the radar command tree.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "radar",
		Short: "Morning market risk radar",
		Long: `radar collects a handful of market indicators every morning, folds them
into one 0-100 risk score with an action recommendation, and serves it as a
web dashboard and a Telegram push.`,
		SilenceUsage: true,
	}

	defaultConfig := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultConfig = v
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", defaultConfig, "Path to the YAML config file")
	root.PersistentFlags().StringVar(&opts.preset, "preset", "", "Use an embedded rule preset instead of the configured indicators")

	root.AddCommand(
		newServeCmd(opts),
		newOnceCmd(opts),
		newPresetsCmd(),
		newVersionCmd(),
	)
	return root
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func (o *globalOptions) load() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if o.preset != "" {
		if err := cfg.UsePreset(o.preset); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "radar %s\n", Version)
		},
	}
}
