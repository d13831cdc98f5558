package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/jpfielding/pixcloak.go/pkg/config"
	"github.com/jpfielding/pixcloak.go/pkg/logging"
	"github.com/spf13/cobra"
)

func NewRoot(ctx context.Context, gitsha string) *cobra.Command {
	var logFile io.Closer
	cmd := &cobra.Command{
		Use:          "pixcloak",
		Short:        "a CLI to obfuscate and restore images with reversible pixel transforms",
		Long:         "pixcloak applies additive, bitwise (xor) or channel swap transforms to every pixel of an image and reverses them exactly.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logLevel := cfg.Log.Level
			if cmd.Flags().Changed("log-level") {
				logLevel, _ = cmd.Flags().GetString("log-level")
			}
			jsonLogs := cfg.Log.JSON
			if cmd.Flags().Changed("log-json") {
				jsonLogs, _ = cmd.Flags().GetBool("log-json")
			}
			path := cfg.Log.File
			if cmd.Flags().Changed("log-file") {
				path, _ = cmd.Flags().GetString("log-file")
			}

			var out io.Writer = os.Stderr
			if path != "" {
				f := logging.FileWriter(path, cfg.Log.MaxSizeMB, cfg.Log.MaxBackups, cfg.Log.MaxAgeDays)
				logFile = f
				out = io.MultiWriter(os.Stderr, f)
			}
			// Parse log level
			level, lerr := logging.ParseLevel(logLevel)
			slog.SetDefault(logging.Logger(out, jsonLogs, level))
			if lerr != nil {
				slog.WarnContext(ctx, "Invalid log level, defaulting to INFO", "level", logLevel, "error", lerr)
			}
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			printCommandTree(cmd, 0)
		},
	}
	// finalizers also run when RunE fails, PersistentPostRun does not
	cobra.OnFinalize(func() {
		if logFile != nil {
			logFile.Close()
			logFile = nil
		}
	})
	cmd.AddCommand(
		NewVersionCmd(ctx, gitsha),
		NewEncryptCmd(ctx),
		NewDecryptCmd(ctx),
		NewVerifyCmd(ctx),
		NewPreviewCmd(ctx),
		NewInfoCmd(ctx),
	)
	pf := cmd.PersistentFlags()
	pf.String("config", "", "TOML config file")
	pf.String("log-level", "INFO", "Log level (DEBUG, INFO, WARN, ERROR)")
	pf.Bool("log-json", false, "log as json")
	pf.String("log-file", "", "also log to this rotated file")
	return cmd
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

func printCommandTree(cmd *cobra.Command, indent int) {
	fmt.Fprintln(cmd.OutOrStdout(), strings.Repeat("\t", indent), cmd.Use+":", cmd.Short)
	for _, subCmd := range cmd.Commands() {
		printCommandTree(subCmd, indent+1)
	}
}

func NewVersionCmd(ctx context.Context, gitsha string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "git sha for this build",
		Long:  "git sha for this build",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), gitsha)
		},
	}
	return cmd
}
