package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"pomocoin/internal/bootstrap"
	"pomocoin/internal/platform/config"
	"pomocoin/internal/platform/confirm"
	"pomocoin/internal/platform/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootOptions struct {
	home     string
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	defaultHome, _ := os.UserHomeDir()

	root := &cobra.Command{
		Use:           "pomocoin",
		Short:         "Earn coins for tasks and focus sessions, spend them on rewards",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.home, "home", defaultHome, "directory holding .pomocoin/")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override the configured log level")

	root.AddCommand(newTUICmd(opts))
	root.AddCommand(newBalanceCmd(opts))
	root.AddCommand(newTaskCmd(opts))
	root.AddCommand(newRewardCmd(opts))
	root.AddCommand(newTimerCmd(opts))
	return root
}

func loadConfig(opts *rootOptions) (config.Config, error) {
	cfg, err := config.Load(opts.home)
	if err != nil {
		return config.Config{}, err
	}
	if level := strings.TrimSpace(opts.logLevel); level != "" {
		cfg.Log.Level = strings.ToLower(level)
	}
	return cfg, nil
}

// withApp wires the app for one command and releases it afterwards. CLI logs
// go to stderr.
func withApp(cmd *cobra.Command, opts *rootOptions, fn func(context.Context, *bootstrap.App) error) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	app, err := bootstrap.New(ctx, cfg, bootstrap.Options{Log: log})
	if err != nil {
		return err
	}
	runErr := fn(ctx, app)
	if err := app.Close(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

func newTUICmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the pomocoin terminal UI",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			log, closer, err := logging.NewFile(cfg.Log, cfg.LogPath)
			if err != nil {
				return err
			}
			defer func() { _ = closer.Close() }()

			app, err := bootstrap.New(context.Background(), cfg, bootstrap.Options{Log: log, Bell: os.Stderr})
			if err != nil {
				return err
			}
			runErr := bootstrap.RunTUI(app)
			if err := app.Close(); err != nil && runErr == nil {
				runErr = err
			}
			return runErr
		},
	}
}

func newBalanceCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show the coin balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.LedgerCLI.Balance(ctx)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d coins\n", out.Balance)
				return nil
			})
		},
	}
}

func asker(cmd *cobra.Command, yes bool) confirm.Asker {
	if yes {
		return confirm.Always(true)
	}
	return confirm.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
}

func warn(w io.Writer, warning string) {
	if warning != "" {
		_, _ = fmt.Fprintf(w, "warning: %s\n", warning)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// resolveID matches arg against ids exactly or as a unique prefix.
func resolveID(kind, arg string, ids []string) (string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", fmt.Errorf("%s id is required", kind)
	}
	var matches []string
	for _, id := range ids {
		if id == arg {
			return id, nil
		}
		if strings.HasPrefix(id, arg) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		// let the usecase report not found
		return arg, nil
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%s id %q is ambiguous (%d matches)", kind, arg, len(matches))
	}
}
