package bootstrap_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"pomocoin/internal/bootstrap"
	"pomocoin/internal/platform/config"
	"pomocoin/internal/platform/logging"
)

func TestNewWiresModulesOverSQLite(t *testing.T) {
	home := t.TempDir()
	cfg, err := config.Load(home)
	require.NoError(t, err)
	ctx := context.Background()

	app, err := bootstrap.New(ctx, cfg, bootstrap.Options{Log: logging.Discard()})
	require.NoError(t, err)

	added, err := app.TasksCLI.Add(ctx, "write report", 3)
	require.NoError(t, err)
	done, err := app.TasksCLI.Complete(ctx, added.Task.ID)
	require.NoError(t, err)
	require.Equal(t, 3, done.Balance)

	_, err = app.RewardsCLI.Add(ctx, "coffee", 2)
	require.NoError(t, err)
	require.NoError(t, app.Close())

	reopened, err := bootstrap.New(ctx, cfg, bootstrap.Options{Log: logging.Discard()})
	require.NoError(t, err)
	defer func() { require.NoError(t, reopened.Close()) }()

	balance, err := reopened.LedgerCLI.Balance(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, balance.Balance)

	rewards, err := reopened.RewardsCLI.List(ctx)
	require.NoError(t, err)
	require.Len(t, rewards, 1)
	require.True(t, rewards[0].Affordable)

	state, err := reopened.TimerCLI.Status(ctx)
	require.NoError(t, err)
	require.Equal(t, "Focus", state.Mode)
	require.Equal(t, 1500, state.RemainingSeconds)
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	cfg := config.Default(t.TempDir())
	cfg.Storage.Driver = "etcd"
	_, err := bootstrap.New(context.Background(), cfg, bootstrap.Options{Log: logging.Discard()})
	require.Error(t, err)
}
