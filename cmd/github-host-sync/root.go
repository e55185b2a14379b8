package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/auto-dns/github-host-sync/internal/app"
	"github.com/auto-dns/github-host-sync/internal/config"
	"github.com/auto-dns/github-host-sync/internal/logger"
)

type contextKey string

const configKey = contextKey("config")

const exitConfigError = 4

// runError carries the process exit code for a failed run.
type runError struct {
	code int
	err  error
}

func (e *runError) Error() string { return e.err.Error() }
func (e *runError) Unwrap() error { return e.err }

var rootCmd = &cobra.Command{
	Use:   "github-host-sync",
	Short: "Convert the GitHub520 hosts list into a GitHub Host plugin",
	Long: "Fetches the remote GitHub hosts file, and when its update time differs from the last " +
		"recorded one, regenerates the plugin file and records the new update time.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		bindFlags(cmd.Root().PersistentFlags())
		configFile, _ := cmd.Flags().GetString("config")
		if err := config.InitConfig(configFile); err != nil {
			return &runError{code: exitConfigError, err: err}
		}
		cfg, err := config.Load()
		if err != nil {
			return &runError{code: exitConfigError, err: err}
		}
		ctx := context.WithValue(cmd.Context(), configKey, cfg)
		cmd.SetContext(ctx)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Load configuration.
		cfg := cmd.Context().Value(configKey).(*config.Config)

		// Set up logger.
		logInstance := logger.SetupLogger(&cfg.Logging)

		// Create the application.
		application, err := app.New(cfg, logInstance)
		if err != nil {
			return &runError{code: exitConfigError, err: fmt.Errorf("failed to create app: %w", err)}
		}
		defer func() {
			if err := application.Close(); err != nil {
				logInstance.Warn().Err(err).Msg("Error closing application")
			}
		}()

		// Cancel the in-flight request on SIGINT/SIGTERM.
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return runOnce(ctx, application, cmd.OutOrStdout())
	},
}

// runOnce executes a single run and prints its status line.
func runOnce(ctx context.Context, application application, out io.Writer) error {
	res, err := application.Run(ctx)
	fmt.Fprintln(out, res.Status())
	if err != nil {
		return &runError{code: res.Outcome.ExitCode(), err: err}
	}
	return nil
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default is config.yaml)")
	flags.String("log-level", "INFO", "set log level (e.g. INFO, DEBUG, WARN)")
	flags.String("url", "", "remote hosts file URL")
	flags.Duration("timeout", 0, "HTTP request timeout (e.g. 30s)")
	flags.String("marker", "", "file holding the last seen update time")
	flags.String("output", "", "plugin file to write")
	flags.String("metrics-textfile", "", "write Prometheus metrics to this file")
	flags.Bool("force", false, "regenerate even if the update time is unchanged")
}

// bindFlags maps command-line flags onto config keys. It runs on every
// execution so the bindings survive a viper reset.
func bindFlags(flags *pflag.FlagSet) {
	viper.BindPFlag("log.log_level", flags.Lookup("log-level"))
	viper.BindPFlag("source.url", flags.Lookup("url"))
	viper.BindPFlag("source.timeout", flags.Lookup("timeout"))
	viper.BindPFlag("marker.path", flags.Lookup("marker"))
	viper.BindPFlag("output.path", flags.Lookup("output"))
	viper.BindPFlag("metrics.textfile_path", flags.Lookup("metrics-textfile"))
	viper.BindPFlag("app.force", flags.Lookup("force"))
}

// exitCode maps an Execute error to the process exit status.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var re *runError
	if errors.As(err, &re) {
		return re.code
	}
	return 1
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var re *runError
		if !errors.As(err, &re) || re.code == exitConfigError {
			fmt.Fprintf(os.Stderr, "Execution error: %v\n", err)
		}
		os.Exit(exitCode(err))
	}
}
