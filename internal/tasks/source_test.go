package tasks

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTask(t *testing.T, dir, name, id, category string, extra string) {
	t.Helper()
	content := fmt.Sprintf(`id: %s
category: %s
query: placeholder query
strategy: exact
value_kind: number
gold:
  values: ["1"]
%s`, id, category, extra)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestDirSource(t *testing.T) {
	t.Run("loads all tasks in lexical order", func(t *testing.T) {
		dir := t.TempDir()
		writeTask(t, dir, "b.yaml", "task-b", "aggregates", "")
		writeTask(t, dir, "a.yaml", "task-a", "policy", "")

		got, err := NewDirSource(dir).Tasks("all", 0)
		require.NoError(t, err)
		require.Len(t, got, 2)
		require.Equal(t, "task-a", got[0].ID)
		require.Equal(t, "task-b", got[1].ID)
	})

	t.Run("single category filter", func(t *testing.T) {
		dir := t.TempDir()
		writeTask(t, dir, "a.yaml", "task-a", "policy", "")
		writeTask(t, dir, "b.yaml", "task-b", "aggregates", "")

		got, err := NewDirSource(dir).Tasks("policy", 0)
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.Equal(t, "task-a", got[0].ID)
	})

	t.Run("comma-separated category list", func(t *testing.T) {
		dir := t.TempDir()
		writeTask(t, dir, "a.yaml", "task-a", "policy", "")
		writeTask(t, dir, "b.yaml", "task-b", "aggregates", "")
		writeTask(t, dir, "c.yaml", "task-c", "privacy", "")

		got, err := NewDirSource(dir).Tasks("policy, privacy", 0)
		require.NoError(t, err)
		require.Len(t, got, 2)
		require.Equal(t, "task-a", got[0].ID)
		require.Equal(t, "task-c", got[1].ID)
	})

	t.Run("max count truncates", func(t *testing.T) {
		dir := t.TempDir()
		for i := 0; i < 5; i++ {
			writeTask(t, dir, fmt.Sprintf("t%d.yaml", i), fmt.Sprintf("task-%d", i), "aggregates", "")
		}

		got, err := NewDirSource(dir).Tasks("all", 3)
		require.NoError(t, err)
		require.Len(t, got, 3)
	})

	t.Run("inactive tasks are skipped", func(t *testing.T) {
		dir := t.TempDir()
		writeTask(t, dir, "a.yaml", "task-a", "policy", "active: false\n")
		writeTask(t, dir, "b.yaml", "task-b", "policy", "")

		got, err := NewDirSource(dir).Tasks("all", 0)
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.Equal(t, "task-b", got[0].ID)
	})

	t.Run("duplicate ids are rejected", func(t *testing.T) {
		dir := t.TempDir()
		writeTask(t, dir, "a.yaml", "task-a", "policy", "")
		writeTask(t, dir, "b.yaml", "task-a", "policy", "")

		_, err := NewDirSource(dir).Tasks("all", 0)
		require.ErrorContains(t, err, `duplicate task id "task-a"`)
	})

	t.Run("missing directory", func(t *testing.T) {
		_, err := NewDirSource(filepath.Join(t.TempDir(), "nope")).Tasks("all", 0)
		require.Error(t, err)
	})

	t.Run("empty directory", func(t *testing.T) {
		_, err := NewDirSource(t.TempDir()).Tasks("all", 0)
		require.ErrorContains(t, err, "no task files")
	})

	t.Run("invalid yaml surfaces the file", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("id: x\n"), 0644))

		_, err := NewDirSource(dir).Tasks("all", 0)
		require.ErrorContains(t, err, "bad.yaml")
	})
}
