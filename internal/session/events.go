package session

import "time"

// EventType identifies the kind of session event.
type EventType string

const (
	EventDispatch    EventType = "dispatch"
	EventAction      EventType = "action"
	EventObservation EventType = "observation"
	EventReprompt    EventType = "reprompt"
	EventUserTurn    EventType = "user_turn"
	EventTerminal    EventType = "terminal"
)

// Event is a single timestamped entry in a session log.
type Event struct {
	Timestamp time.Time      `json:"timestamp"`
	Type      EventType      `json:"type"`
	Data      map[string]any `json:"data,omitempty"`
}

// NewEvent creates an event with the current timestamp.
func NewEvent(t EventType, data map[string]any) Event {
	return Event{
		Timestamp: time.Now().UTC(),
		Type:      t,
		Data:      data,
	}
}

// DispatchData returns event data for the initial task dispatch.
func DispatchData(taskID, sessionID string) map[string]any {
	return map[string]any{
		"task_id":    taskID,
		"session_id": sessionID,
	}
}

// ActionData returns event data for a decoded subject action.
func ActionData(turn int, kind, payload string) map[string]any {
	return map[string]any{
		"turn":    turn,
		"kind":    kind,
		"payload": payload,
	}
}

// ObservationData returns event data for an observation sent back.
func ObservationData(turn, rowCount int, errMsg string) map[string]any {
	data := map[string]any{
		"turn": turn,
		"rows": rowCount,
	}
	if errMsg != "" {
		data["error"] = errMsg
	}
	return data
}

// TerminalData returns event data for a terminal transition.
func TerminalData(status string, turns int, detail string) map[string]any {
	data := map[string]any{
		"status": status,
		"turns":  turns,
	}
	if detail != "" {
		data["detail"] = detail
	}
	return data
}
