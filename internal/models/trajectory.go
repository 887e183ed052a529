package models

// TerminalStatus records why a session ended.
type TerminalStatus string

const (
	StatusAnswered            TerminalStatus = "answered"
	StatusMaxTurnsExceeded    TerminalStatus = "max_turns_exceeded"
	StatusChannelError        TerminalStatus = "channel_error"
	StatusParseErrorExhausted TerminalStatus = "parse_error_exhausted"
)

// Scored reports whether the session produced a final answer worth scoring.
func (s TerminalStatus) Scored() bool {
	return s == StatusAnswered
}

// Turn is one decoded subject action and the observation it produced. A
// Respond action carries an empty observation.
type Turn struct {
	Action      Action      `json:"-"`
	Observation Observation `json:"observation"`
	// ActionKind and raw payload are kept alongside the sum type so
	// trajectories serialize without a custom marshaller.
	ActionKind string `json:"action"`
	Payload    string `json:"payload"`
}

// Trajectory is the complete ordered record of one session. It is owned by
// its session runner, finalized exactly once, and never mutated after being
// handed to the evaluator.
type Trajectory struct {
	TaskID      string         `json:"task_id"`
	SessionID   string         `json:"session_id"`
	Turns       []Turn         `json:"turns"`
	UserTurns   int            `json:"user_turns,omitempty"`
	Status      TerminalStatus `json:"status"`
	FinalAnswer string         `json:"final_answer,omitempty"`
	// Detail carries the failure message for abnormal terminations.
	Detail     string `json:"detail,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

// NewTurn builds a Turn from an action, filling the serialization mirror
// fields from the variant.
func NewTurn(action Action, obs Observation) Turn {
	turn := Turn{Action: action, Observation: obs}
	switch a := action.(type) {
	case ExecuteAction:
		turn.ActionKind = "execute"
		turn.Payload = a.Query
	case RespondAction:
		turn.ActionKind = "respond"
		turn.Payload = a.Answer
	}
	return turn
}
