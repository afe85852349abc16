package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"framepress/internal/config"
)

func newConfigCommand(cctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand(cctx))

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a sample configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample configuration to %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigShowCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			out := cmd.OutOrStdout()
			if cctx.configPath != "" {
				fmt.Fprintf(out, "Config path: %s\n", cctx.configPath)
			}
			rows := []table.Row{
				{"encoder.ffmpeg_binary", cfg.Encoder.FFmpegBinary},
				{"encoder.ffprobe_binary", cfg.Encoder.FFprobeBinary},
				{"encoder.target_codec", cfg.Encoder.TargetCodec},
				{"encoder.video_codec", cfg.Encoder.VideoCodec},
				{"encoder.video_params", cfg.Encoder.VideoParams},
				{"encoder.audio_codec", cfg.Encoder.AudioCodec},
				{"encoder.audio_quality", fmt.Sprintf("%d", cfg.Encoder.AudioQuality)},
				{"files.video_extensions", strings.Join(cfg.Files.VideoExtensions, ", ")},
				{"files.output_suffix", cfg.Files.OutputSuffix},
				{"files.list_file", cfg.Files.ListFile},
				{"files.checkpoint_file", cfg.Files.CheckpointFile},
				{"files.lock_file", cfg.Files.LockFile},
				{"session.poll_interval_ms", fmt.Sprintf("%d", cfg.Session.PollIntervalMS)},
				{"session.keep_awake", yesNo(cfg.Session.KeepAwake)},
				{"logging.format", cfg.Logging.Format},
				{"logging.level", cfg.Logging.Level},
				{"logging.dir", cfg.Logging.Dir},
				{"history.enabled", yesNo(cfg.History.Enabled)},
				{"history.path", cfg.History.Path},
			}
			fmt.Fprintln(out, renderTable(table.Row{"Setting", "Value"}, rows))
			return nil
		},
	}
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
