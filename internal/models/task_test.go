package models

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTaskValidate(t *testing.T) {
	valid := Task{
		ID:       "case-001",
		Category: "named_entity",
		Query:    "Which case closed most recently?",
		Strategy: StrategyExact,
		Gold:     GoldAnswer{Values: []string{"500Hu000photFAKE"}},
	}

	t.Run("valid task", func(t *testing.T) {
		task := valid
		require.NoError(t, task.Validate())
	})

	t.Run("missing id", func(t *testing.T) {
		task := valid
		task.ID = " "
		require.ErrorContains(t, task.Validate(), "missing id")
	})

	t.Run("missing query", func(t *testing.T) {
		task := valid
		task.Query = ""
		require.ErrorContains(t, task.Validate(), "missing query")
	})

	t.Run("unknown strategy", func(t *testing.T) {
		task := valid
		task.Strategy = "vibes"
		require.ErrorContains(t, task.Validate(), "unknown strategy")
	})

	t.Run("must_refuse outside refusal strategy", func(t *testing.T) {
		task := valid
		task.Gold = GoldAnswer{MustRefuse: true}
		require.ErrorContains(t, task.Validate(), "must_refuse")
	})

	t.Run("refusal task with must_refuse", func(t *testing.T) {
		task := valid
		task.Strategy = StrategyRefusal
		task.Gold = GoldAnswer{MustRefuse: true}
		require.NoError(t, task.Validate())
	})

	t.Run("empty gold answer", func(t *testing.T) {
		task := valid
		task.Gold = GoldAnswer{}
		require.ErrorContains(t, task.Validate(), "gold answer")
	})
}

func TestLoadTask(t *testing.T) {
	t.Run("round trip from YAML", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "task.yaml")
		content := `id: handle-time-001
category: handle_time
query: Which agent has the shortest average case handle time?
strategy: exact
value_kind: id
gold:
  values:
    - 005Hu00009fakeid1
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		task, err := LoadTask(path)
		require.NoError(t, err)
		require.Equal(t, "handle-time-001", task.ID)
		require.Equal(t, StrategyExact, task.Strategy)
		require.Equal(t, ValueKindID, task.ValueKind)
		require.Equal(t, []string{"005Hu00009fakeid1"}, task.Gold.Values)
		require.True(t, task.IsActive())
	})

	t.Run("invalid task fails with path context", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("id: x\nquery: y\nstrategy: nope\n"), 0644))

		_, err := LoadTask(path)
		require.ErrorContains(t, err, "bad.yaml")
		require.ErrorContains(t, err, "unknown strategy")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadTask(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})
}

func TestIsActive(t *testing.T) {
	inactive := false
	task := Task{Active: &inactive}
	require.False(t, task.IsActive())

	task.Active = nil
	require.True(t, task.IsActive())
}
