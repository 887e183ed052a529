package models

// Action is the tagged variant decoded from a subject reply. Exactly two
// shapes exist: execute a query, or respond with a final answer. The sealed
// interface gives exhaustive-switch safety instead of inspecting dynamic
// fields.
type Action interface {
	isAction()
}

// ExecuteAction asks the environment to run a query.
type ExecuteAction struct {
	Query string `json:"query"`
}

// RespondAction terminates the session with the subject's final answer.
type RespondAction struct {
	Answer string `json:"answer"`
}

func (ExecuteAction) isAction() {}
func (RespondAction) isAction() {}
