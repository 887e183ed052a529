// Package tasks loads assessment task definitions from disk.
package tasks

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/agentbeats/arenabench/internal/models"
)

// Source yields the set of tasks an assessment run should cover.
type Source interface {
	// Tasks returns tasks matching the category filter. category is "all",
	// a single category name, or a comma-separated list. maxCount > 0
	// truncates the result.
	Tasks(category string, maxCount int) ([]*models.Task, error)
}

// DirSource loads tasks from *.yaml files in a directory. Files are read in
// lexical order so runs over the same directory see the same task order.
type DirSource struct {
	dir string
}

// NewDirSource creates a source rooted at dir.
func NewDirSource(dir string) *DirSource {
	return &DirSource{dir: dir}
}

// Tasks loads every active task whose category matches the filter.
func (s *DirSource) Tasks(category string, maxCount int) ([]*models.Task, error) {
	paths, err := filepath.Glob(filepath.Join(s.dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("globbing task directory %s: %w", s.dir, err)
	}
	ymlPaths, err := filepath.Glob(filepath.Join(s.dir, "*.yml"))
	if err != nil {
		return nil, fmt.Errorf("globbing task directory %s: %w", s.dir, err)
	}
	paths = append(paths, ymlPaths...)
	if len(paths) == 0 {
		if _, statErr := os.Stat(s.dir); statErr != nil {
			return nil, fmt.Errorf("task directory %s: %w", s.dir, statErr)
		}
		return nil, fmt.Errorf("no task files found in %s", s.dir)
	}
	sort.Strings(paths)

	wanted := categoryFilter(category)

	var out []*models.Task
	seen := map[string]string{}
	for _, p := range paths {
		t, err := models.LoadTask(p)
		if err != nil {
			return nil, fmt.Errorf("loading task %s: %w", p, err)
		}
		if !t.IsActive() {
			continue
		}
		if !wanted(t.Category) {
			continue
		}
		if prev, dup := seen[t.ID]; dup {
			return nil, fmt.Errorf("duplicate task id %q in %s and %s", t.ID, prev, p)
		}
		seen[t.ID] = p
		out = append(out, t)
	}

	if maxCount > 0 && len(out) > maxCount {
		out = out[:maxCount]
	}
	return out, nil
}

// categoryFilter compiles the category selector into a predicate.
func categoryFilter(category string) func(string) bool {
	category = strings.TrimSpace(category)
	if category == "" || category == "all" {
		return func(string) bool { return true }
	}

	wanted := map[string]bool{}
	for _, c := range strings.Split(category, ",") {
		c = strings.TrimSpace(c)
		if c != "" {
			wanted[c] = true
		}
	}
	return func(c string) bool { return wanted[c] }
}

var _ Source = (*DirSource)(nil)
