package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"lessonlink/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand(ctx))

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			dir := filepath.Dir(target)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create config directory %q: %w", dir, err)
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Edit the file to set manifest_path and publisher before running an update.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display the resolved configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config file:    %s\n", ctx.configPath)
			fmt.Fprintf(out, "Manifest:       %s\n", cfg.Paths.ManifestPath)
			fmt.Fprintf(out, "Cache:          %s\n", cfg.Paths.CachePath)
			fmt.Fprintf(out, "Log directory:  %s\n", cfg.Paths.LogDir)
			fmt.Fprintf(out, "History DB:     %s (enabled: %s)\n", cfg.Paths.HistoryDBPath, yesNo(cfg.History.Enabled))
			fmt.Fprintf(out, "Search binary:  %s\n", cfg.Search.Binary)
			fmt.Fprintf(out, "Publisher:      %s\n", cfg.Search.Publisher)
			fmt.Fprintf(out, "Channel IDs:    %s\n", strings.Join(cfg.Search.ChannelIDs, ", "))
			fmt.Fprintf(out, "Max results:    %d\n", cfg.Search.MaxResults)
			fmt.Fprintf(out, "Pace:           %dms\n", cfg.Search.PaceMilliseconds)
			fmt.Fprintf(out, "Threshold:      %.2f\n", cfg.Matching.AcceptThreshold)
			fmt.Fprintf(out, "Log level:      %s (%s)\n", cfg.Logging.Level, cfg.Logging.Format)
			return nil
		},
	}
}
