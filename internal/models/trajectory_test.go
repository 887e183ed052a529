package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewTurn(t *testing.T) {
	t.Run("execute fills mirror fields", func(t *testing.T) {
		turn := NewTurn(ExecuteAction{Query: "SELECT 1"}, Observation{})
		require.Equal(t, "execute", turn.ActionKind)
		require.Equal(t, "SELECT 1", turn.Payload)
	})

	t.Run("respond fills mirror fields", func(t *testing.T) {
		turn := NewTurn(RespondAction{Answer: "42"}, Observation{})
		require.Equal(t, "respond", turn.ActionKind)
		require.Equal(t, "42", turn.Payload)
	})
}

func TestTrajectorySerializes(t *testing.T) {
	traj := Trajectory{
		TaskID:    "t1",
		SessionID: "task_t1_abc",
		Turns: []Turn{
			NewTurn(ExecuteAction{Query: "SELECT 1"}, Observation{Rows: &Rows{Columns: []string{"c"}}}),
			NewTurn(RespondAction{Answer: "42"}, Observation{}),
		},
		Status:      StatusAnswered,
		FinalAnswer: "42",
	}

	data, err := json.Marshal(traj)
	require.NoError(t, err)

	var decoded Trajectory
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded.Turns, 2)
	require.Equal(t, "execute", decoded.Turns[0].ActionKind)
	require.Equal(t, "42", decoded.Turns[1].Payload)
}

func TestTerminalStatusScored(t *testing.T) {
	require.True(t, StatusAnswered.Scored())
	require.False(t, StatusMaxTurnsExceeded.Scored())
	require.False(t, StatusChannelError.Scored())
	require.False(t, StatusParseErrorExhausted.Scored())
}
