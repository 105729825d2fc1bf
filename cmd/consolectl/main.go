// Package main implements consolectl, a command-line client for the back-office console API.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/garyjia/backoffice-console/internal/client"
	"github.com/garyjia/backoffice-console/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, renderError(err.Error()))
		var exitErr interface{ ExitCode() int }
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "consolectl",
	Short:         "Operate the back-office console from the terminal",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var globalFlags struct {
	configPath  string
	apiURL      string
	fallbackURL string
	token       string
	verbose     bool
}

func init() {
	addGlobalFlags(rootCmd.PersistentFlags())
}

func addGlobalFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&globalFlags.configPath, "config", "c", "configs/config.yaml", "path to the YAML config file")
	fs.StringVar(&globalFlags.apiURL, "api-url", "", "console API base URL (overrides client.base_url)")
	fs.StringVar(&globalFlags.fallbackURL, "fallback-url", "", "secondary API base URL for read retries")
	fs.StringVar(&globalFlags.token, "token", "", "bearer token sent with every request")
	fs.BoolVarP(&globalFlags.verbose, "verbose", "v", false, "log retries and transport failures to stderr")
}

// newAPIClient builds a client from the config file, env and flags, in rising precedence.
func newAPIClient(cmd *cobra.Command) (*client.Client, error) {
	cfg, err := config.Load(globalFlags.configPath)
	if err != nil {
		return nil, err
	}
	cc := cfg.Client

	flags := cmd.Flags()
	if flags.Changed("api-url") {
		cc.BaseURL = globalFlags.apiURL
	}
	if flags.Changed("fallback-url") {
		cc.FallbackBaseURL = globalFlags.fallbackURL
	}
	if flags.Changed("token") {
		cc.Token = globalFlags.token
	}

	opts := []client.Option{
		client.WithTimeout(cc.Timeout),
		client.WithTerminationTimeout(cc.TerminationTimeout),
	}
	if cc.FallbackBaseURL != "" {
		opts = append(opts, client.WithFallbackBaseURL(cc.FallbackBaseURL))
	}
	if cc.Token != "" {
		opts = append(opts, client.WithToken(cc.Token))
	}

	if globalFlags.verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return nil, err
		}
		opts = append(opts, client.WithLogger(logger))
	}

	c, err := client.New(cc.BaseURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("client config: %w", err)
	}
	return c, nil
}

func hasChangedFlags(cmd *cobra.Command, flags ...string) bool {
	for _, flag := range flags {
		if cmd.Flags().Changed(flag) {
			return true
		}
	}
	return false
}
