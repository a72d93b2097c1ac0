package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func run(t *testing.T, home, stdin string, args ...string) string {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--home", home}, args...))
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestTaskAndRewardFlow(t *testing.T) {
	home := t.TempDir()

	added := run(t, home, "", "task", "add", "--value", "3", "write", "report")
	require.Contains(t, added, `"write report" (+3)`)
	id := strings.Fields(added)[1]

	require.Contains(t, run(t, home, "", "task", "list"), "write report")
	require.Contains(t, run(t, home, "", "task", "done", id), "balance 3")
	require.Contains(t, run(t, home, "", "task", "list"), "no tasks")

	rewardOut := run(t, home, "", "reward", "add", "--cost", "2", "coffee")
	rewardID := strings.Fields(rewardOut)[1]

	require.Contains(t, run(t, home, "n\n", "reward", "redeem", rewardID), "cancelled")
	require.Contains(t, run(t, home, "", "balance"), "3 coins")

	require.Contains(t, run(t, home, "y\n", "reward", "redeem", rewardID), "balance 1")
	require.Contains(t, run(t, home, "", "balance"), "1 coins")
}

func TestTimerCommands(t *testing.T) {
	home := t.TempDir()
	require.Contains(t, run(t, home, "", "timer", "status"), "Focus 25:00 paused")
	require.Contains(t, run(t, home, "", "timer", "start"), "running")
	require.Contains(t, run(t, home, "", "timer", "reset", "short"), "Short Break 05:00 paused")
}

func TestResolveID(t *testing.T) {
	ids := []string{"abc123", "abd456"}
	id, err := resolveID("task", "abc", ids)
	require.NoError(t, err)
	require.Equal(t, "abc123", id)

	_, err = resolveID("task", "ab", ids)
	require.Error(t, err)

	id, err = resolveID("task", "zzz", ids)
	require.NoError(t, err)
	require.Equal(t, "zzz", id)
}
