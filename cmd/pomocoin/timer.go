package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"pomocoin/internal/bootstrap"
	timerdto "pomocoin/internal/modules/timer/dto"
)

func newTimerCmd(opts *rootOptions) *cobra.Command {
	timer := &cobra.Command{Use: "timer", Short: "Pomodoro focus timer"}

	state := func(fn func(context.Context, *bootstrap.App) (timerdto.StateOutput, error)) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *bootstrap.App) error {
				out, err := fn(ctx, app)
				if err != nil {
					return err
				}
				printState(cmd.OutOrStdout(), out)
				warn(cmd.ErrOrStderr(), out.Warning)
				return nil
			})
		}
	}

	timer.AddCommand(&cobra.Command{
		Use:   "start",
		Short: "Start or resume the current session",
		Args:  cobra.NoArgs,
		RunE: state(func(ctx context.Context, app *bootstrap.App) (timerdto.StateOutput, error) {
			return app.TimerCLI.Start(ctx)
		}),
	})
	timer.AddCommand(&cobra.Command{
		Use:   "pause",
		Short: "Pause the running session",
		Args:  cobra.NoArgs,
		RunE: state(func(ctx context.Context, app *bootstrap.App) (timerdto.StateOutput, error) {
			return app.TimerCLI.Pause(ctx)
		}),
	})
	timer.AddCommand(&cobra.Command{
		Use:   "reset [focus|short|long]",
		Short: "Stop the timer and load a full session",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := strings.Join(args, " ")
			return state(func(ctx context.Context, app *bootstrap.App) (timerdto.StateOutput, error) {
				return app.TimerCLI.Reset(ctx, mode)
			})(cmd, args)
		},
	})
	timer.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the current session",
		Args:  cobra.NoArgs,
		RunE: state(func(ctx context.Context, app *bootstrap.App) (timerdto.StateOutput, error) {
			return app.TimerCLI.Status(ctx)
		}),
	})
	timer.AddCommand(&cobra.Command{
		Use:   "watch",
		Short: "Follow the timer until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *bootstrap.App) error {
				ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
				defer stop()

				w := cmd.OutOrStdout()
				unsubscribe := app.TimerCLI.Watch(func(out timerdto.StateOutput) {
					printState(w, out)
				})
				defer unsubscribe()

				out, err := app.TimerCLI.Resume(ctx)
				if err != nil {
					return err
				}
				if !out.Running {
					printState(w, out)
				}
				<-ctx.Done()
				return nil
			})
		},
	})
	return timer
}

func printState(w io.Writer, out timerdto.StateOutput) {
	if c := out.Completed; c != nil {
		line := fmt.Sprintf("%s complete. Next up: %s", c.Finished, c.Next)
		if c.Award > 0 {
			line += fmt.Sprintf(" (+%d coins, balance %d)", c.Award, c.Balance)
		}
		_, _ = fmt.Fprintln(w, line)
	}
	status := "paused"
	if out.Running {
		status = "running"
	}
	dots := strings.Repeat("●", out.CycleDots) + strings.Repeat("○", 4-out.CycleDots)
	_, _ = fmt.Fprintf(w, "%s %02d:%02d %s %s\n", out.Mode, out.RemainingSeconds/60, out.RemainingSeconds%60, status, dots)
}
