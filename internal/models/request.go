package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Default turn budgets, matching the assessment request schema defaults.
const (
	DefaultMaxTurns     = 20
	DefaultMaxUserTurns = 10
)

// AssessmentRequest is the external request consumed by the orchestrator.
type AssessmentRequest struct {
	SubjectURL   string `json:"subject_url"`
	TaskCategory string `json:"task_category,omitempty"`
	MaxTasks     int    `json:"max_tasks,omitempty"`
	Interactive  bool   `json:"interactive,omitempty"`
	MaxTurns     int    `json:"max_turns,omitempty"`
	MaxUserTurns int    `json:"max_user_turns,omitempty"`
}

// requestSchemaJSON is the JSON Schema the /assess payload is validated
// against. It doubles as the input schema advertised on the agent card.
const requestSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "subject_url":    {"type": "string", "minLength": 1},
    "task_category":  {"type": "string", "default": "all"},
    "max_tasks":      {"type": "integer", "minimum": 1},
    "interactive":    {"type": "boolean", "default": false},
    "max_turns":      {"type": "integer", "minimum": 1, "default": 20},
    "max_user_turns": {"type": "integer", "minimum": 1, "default": 10}
  },
  "required": ["subject_url"]
}`

var requestSchema *jsonschema.Schema

func init() {
	requestSchema = mustCompileSchema(requestSchemaJSON, "assessment-request.schema.json")
}

func mustCompileSchema(raw string, name string) *jsonschema.Schema {
	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		panic(fmt.Sprintf("failed to parse embedded %s: %v", name, err))
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, doc); err != nil {
		panic(fmt.Sprintf("failed to add %s resource: %v", name, err))
	}

	sch, err := compiler.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("failed to compile %s: %v", name, err))
	}
	return sch
}

// RequestSchemaJSON returns the raw input schema for agent-card discovery.
func RequestSchemaJSON() json.RawMessage {
	return json.RawMessage(requestSchemaJSON)
}

// ParseAssessmentRequest validates raw JSON against the request schema,
// decodes it, and applies defaults.
func ParseAssessmentRequest(data []byte) (*AssessmentRequest, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("assessment request is not valid JSON: %w", err)
	}
	if err := requestSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("assessment request failed validation: %w", err)
	}

	var req AssessmentRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, err
	}
	req.ApplyDefaults()
	return &req, nil
}

// ApplyDefaults fills zero-valued optional fields with schema defaults.
func (r *AssessmentRequest) ApplyDefaults() {
	if strings.TrimSpace(r.TaskCategory) == "" {
		r.TaskCategory = "all"
	}
	if r.MaxTurns <= 0 {
		r.MaxTurns = DefaultMaxTurns
	}
	if r.MaxUserTurns <= 0 {
		r.MaxUserTurns = DefaultMaxUserTurns
	}
}
