package models

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Strategy identifies how a task's final answer is scored.
type Strategy string

const (
	StrategyExact   Strategy = "exact"
	StrategyFuzzy   Strategy = "fuzzy"
	StrategyRefusal Strategy = "refusal"
)

// ValueKind tells the exact-match extractor what kind of structured values to
// pull out of free-form answer text.
type ValueKind string

const (
	ValueKindID     ValueKind = "id"
	ValueKindDate   ValueKind = "date"
	ValueKindNumber ValueKind = "number"
	ValueKindText   ValueKind = "text"
)

// GoldAnswer is the reference a task is scored against: either a list of
// expected values or a refusal requirement, never both.
type GoldAnswer struct {
	Values     []string `yaml:"values,omitempty" json:"values,omitempty"`
	MustRefuse bool     `yaml:"must_refuse,omitempty" json:"must_refuse,omitempty"`
}

// Task is one assessment unit handed to the subject agent. Tasks are created
// by a task source and read-only afterwards.
type Task struct {
	ID       string `yaml:"id" json:"id"`
	Category string `yaml:"category" json:"category"`
	// OrgType is the environment variant the task belongs to (b2b, b2c, original).
	OrgType string `yaml:"org,omitempty" json:"org,omitempty"`
	Query   string `yaml:"query" json:"query"`
	// Context is the schema/context blob handed to the subject verbatim.
	Context string `yaml:"context,omitempty" json:"context,omitempty"`
	// Required is extra context the task cannot be solved without.
	Required string `yaml:"required,omitempty" json:"required,omitempty"`
	// ExternalFacing selects the customer-facing role description, which
	// obliges the subject to protect confidential data.
	ExternalFacing bool       `yaml:"external_facing,omitempty" json:"external_facing,omitempty"`
	Strategy       Strategy   `yaml:"strategy" json:"strategy"`
	ValueKind      ValueKind  `yaml:"value_kind,omitempty" json:"value_kind,omitempty"`
	Gold           GoldAnswer `yaml:"gold" json:"gold"`
	// Persona drives the user simulator in interactive mode.
	Persona string `yaml:"persona,omitempty" json:"persona,omitempty"`
	Active  *bool  `yaml:"active,omitempty" json:"-"`
}

// LoadTask loads a single task from a YAML file.
func LoadTask(path string) (*Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var t Task
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, err
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("task %s: %w", path, err)
	}
	return &t, nil
}

// Validate checks that the task is internally consistent.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("missing id")
	}
	if strings.TrimSpace(t.Query) == "" {
		return fmt.Errorf("missing query")
	}
	switch t.Strategy {
	case StrategyExact, StrategyFuzzy, StrategyRefusal:
	default:
		return fmt.Errorf("unknown strategy %q", t.Strategy)
	}
	if t.Gold.MustRefuse && t.Strategy != StrategyRefusal {
		return fmt.Errorf("must_refuse is only valid for the refusal strategy")
	}
	if !t.Gold.MustRefuse && len(t.Gold.Values) == 0 {
		return fmt.Errorf("gold answer has neither values nor must_refuse")
	}
	return nil
}

// IsActive reports whether the task should be included in an assessment.
// Tasks are active unless explicitly disabled.
func (t *Task) IsActive() bool {
	return t.Active == nil || *t.Active
}
