package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"pomocoin/internal/bootstrap"
)

func newRewardCmd(opts *rootOptions) *cobra.Command {
	reward := &cobra.Command{Use: "reward", Short: "Manage the reward shop"}

	var cost int
	add := &cobra.Command{
		Use:   "add <name> --cost <n>",
		Short: "Add a reward costing --cost coins (1-999)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.RewardsCLI.Add(ctx, strings.Join(args, " "), cost)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "added %s %q (%d coins)\n", shortID(out.Reward.ID), out.Reward.Name, out.Reward.Cost)
				warn(cmd.ErrOrStderr(), out.Warning)
				return nil
			})
		},
	}
	add.Flags().IntVarP(&cost, "cost", "c", 10, "price in coins (1-999)")

	list := &cobra.Command{
		Use:   "list",
		Short: "List rewards and whether you can afford them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *bootstrap.App) error {
				rewards, err := app.RewardsCLI.List(ctx)
				if err != nil {
					return err
				}
				if len(rewards) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no rewards")
					return nil
				}
				for _, r := range rewards {
					mark := " "
					if r.Affordable {
						mark = "*"
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\t%d\t%s\n", mark, shortID(r.ID), r.Cost, r.Name)
				}
				return nil
			})
		},
	}

	var (
		editName string
		editCost int
	)
	edit := &cobra.Command{
		Use:   "edit <id> [--name <name>] [--cost <n>]",
		Short: "Change a reward's name or cost",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var name *string
			var cost *int
			if cmd.Flags().Changed("name") {
				name = &editName
			}
			if cmd.Flags().Changed("cost") {
				cost = &editCost
			}
			if name == nil && cost == nil {
				return fmt.Errorf("nothing to change: pass --name and/or --cost")
			}
			return withApp(cmd, opts, func(ctx context.Context, app *bootstrap.App) error {
				id, err := rewardID(ctx, app, args[0])
				if err != nil {
					return err
				}
				out, err := app.RewardsCLI.Edit(ctx, id, name, cost)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "updated %s %q (%d coins)\n", shortID(out.Reward.ID), out.Reward.Name, out.Reward.Cost)
				warn(cmd.ErrOrStderr(), out.Warning)
				return nil
			})
		},
	}
	edit.Flags().StringVar(&editName, "name", "", "new reward name")
	edit.Flags().IntVar(&editCost, "cost", 0, "new price (1-999)")

	var redeemYes bool
	redeem := &cobra.Command{
		Use:   "redeem <id>",
		Short: "Spend coins on a reward",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *bootstrap.App) error {
				id, err := rewardID(ctx, app, args[0])
				if err != nil {
					return err
				}
				r, err := app.RewardsCLI.Get(ctx, id)
				if err != nil {
					return err
				}
				if !asker(cmd, redeemYes).Ask(fmt.Sprintf("Redeem %q for %d coins?", r.Name, r.Cost)) {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "cancelled")
					return nil
				}
				out, err := app.RewardsCLI.Redeem(ctx, id)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "redeemed %q: -%d coins, balance %d\n", out.Reward.Name, out.Reward.Cost, out.Balance)
				warn(cmd.ErrOrStderr(), out.Warning)
				return nil
			})
		},
	}
	redeem.Flags().BoolVarP(&redeemYes, "yes", "y", false, "skip the confirmation prompt")

	var deleteYes bool
	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a reward from the shop",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *bootstrap.App) error {
				id, err := rewardID(ctx, app, args[0])
				if err != nil {
					return err
				}
				r, err := app.RewardsCLI.Get(ctx, id)
				if err != nil {
					return err
				}
				if !asker(cmd, deleteYes).Ask(fmt.Sprintf("Are you sure you want to delete %q?", r.Name)) {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "cancelled")
					return nil
				}
				out, err := app.RewardsCLI.Delete(ctx, id)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted %q\n", out.Reward.Name)
				warn(cmd.ErrOrStderr(), out.Warning)
				return nil
			})
		},
	}
	del.Flags().BoolVarP(&deleteYes, "yes", "y", false, "skip the confirmation prompt")

	reward.AddCommand(add, list, edit, redeem, del)
	return reward
}

func rewardID(ctx context.Context, app *bootstrap.App, arg string) (string, error) {
	rewards, err := app.RewardsCLI.List(ctx)
	if err != nil {
		return "", err
	}
	ids := make([]string, len(rewards))
	for i, r := range rewards {
		ids[i] = r.ID
	}
	return resolveID("reward", arg, ids)
}
