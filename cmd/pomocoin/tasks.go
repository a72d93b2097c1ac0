package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"pomocoin/internal/bootstrap"
)

func newTaskCmd(opts *rootOptions) *cobra.Command {
	task := &cobra.Command{Use: "task", Short: "Manage tasks that earn coins"}

	var value int
	add := &cobra.Command{
		Use:   "add <text>",
		Short: "Add a task worth --value coins (1-5)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.TasksCLI.Add(ctx, strings.Join(args, " "), value)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "added %s %q (+%d)\n", shortID(out.Task.ID), out.Task.Text, out.Task.Value)
				warn(cmd.ErrOrStderr(), out.Warning)
				return nil
			})
		},
	}
	add.Flags().IntVarP(&value, "value", "v", 1, "coins awarded on completion (1-5)")

	list := &cobra.Command{
		Use:   "list",
		Short: "List pending tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *bootstrap.App) error {
				tasks, err := app.TasksCLI.List(ctx)
				if err != nil {
					return err
				}
				if len(tasks) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no tasks")
					return nil
				}
				for _, t := range tasks {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t+%d\t%s\n", shortID(t.ID), t.Value, t.Text)
				}
				return nil
			})
		},
	}

	var (
		editText  string
		editValue int
	)
	edit := &cobra.Command{
		Use:   "edit <id> [--text <text>] [--value <n>]",
		Short: "Change a task's text or value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var text *string
			var value *int
			if cmd.Flags().Changed("text") {
				text = &editText
			}
			if cmd.Flags().Changed("value") {
				value = &editValue
			}
			if text == nil && value == nil {
				return fmt.Errorf("nothing to change: pass --text and/or --value")
			}
			return withApp(cmd, opts, func(ctx context.Context, app *bootstrap.App) error {
				id, err := taskID(ctx, app, args[0])
				if err != nil {
					return err
				}
				out, err := app.TasksCLI.Edit(ctx, id, text, value)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "updated %s %q (+%d)\n", shortID(out.Task.ID), out.Task.Text, out.Task.Value)
				warn(cmd.ErrOrStderr(), out.Warning)
				return nil
			})
		},
	}
	edit.Flags().StringVar(&editText, "text", "", "new task text")
	edit.Flags().IntVar(&editValue, "value", 0, "new coin value (1-5)")

	done := &cobra.Command{
		Use:     "done <id>",
		Aliases: []string{"complete"},
		Short:   "Complete a task and collect its coins",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *bootstrap.App) error {
				id, err := taskID(ctx, app, args[0])
				if err != nil {
					return err
				}
				out, err := app.TasksCLI.Complete(ctx, id)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "completed %q: +%d coins, balance %d\n", out.Task.Text, out.Task.Value, out.Balance)
				warn(cmd.ErrOrStderr(), out.Warning)
				return nil
			})
		},
	}

	var yes bool
	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task without earning coins",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *bootstrap.App) error {
				id, err := taskID(ctx, app, args[0])
				if err != nil {
					return err
				}
				task, err := app.TasksCLI.Get(ctx, id)
				if err != nil {
					return err
				}
				if !asker(cmd, yes).Ask(fmt.Sprintf("Are you sure you want to delete %q?", task.Text)) {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "cancelled")
					return nil
				}
				out, err := app.TasksCLI.Delete(ctx, id)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted %q\n", out.Task.Text)
				warn(cmd.ErrOrStderr(), out.Warning)
				return nil
			})
		},
	}
	del.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	task.AddCommand(add, list, edit, done, del)
	return task
}

func taskID(ctx context.Context, app *bootstrap.App, arg string) (string, error) {
	tasks, err := app.TasksCLI.List(ctx)
	if err != nil {
		return "", err
	}
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return resolveID("task", arg, ids)
}
