package models

// Rows is the ordered result set of an environment query. Values are kept as
// strings because the orchestrator never interprets backend data semantics.
type Rows struct {
	Columns []string   `json:"columns"`
	Records [][]string `json:"records"`
}

// Len returns the number of result records.
func (r *Rows) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Records)
}

// Observation is what the subject sees after one of its actions. Exactly one
// of the fields is populated: query rows, a normalized error description, or
// (interactive mode) the next simulated-user utterance.
type Observation struct {
	Rows      *Rows  `json:"rows,omitempty"`
	ErrorMsg  string `json:"error,omitempty"`
	Utterance string `json:"utterance,omitempty"`
}
