// Package session drives one task's end-to-end turn exchange with the
// subject agent, from dispatch to terminal state.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/agentbeats/arenabench/internal/channel"
	"github.com/agentbeats/arenabench/internal/codec"
	"github.com/agentbeats/arenabench/internal/env"
	"github.com/agentbeats/arenabench/internal/models"
)

// Runner is the turn-loop state machine for a single session:
// Dispatched → AwaitingAction → (Executing | Evaluating) → AwaitingAction | Terminal.
// Within a session turns are strictly ordered; concurrency lives one level
// up, across sessions.
type Runner struct {
	channel      channel.Channel
	adapter      *env.Adapter
	sim          Simulator
	logger       Logger
	maxTurns     int
	maxUserTurns int
}

// Option configures a Runner.
type Option func(*Runner)

// WithSimulator enables interactive mode with the given user simulator.
func WithSimulator(sim Simulator) Option {
	return func(r *Runner) { r.sim = sim }
}

// WithLogger sets the session event logger.
func WithLogger(l Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// WithMaxTurns overrides the action turn budget.
func WithMaxTurns(n int) Option {
	return func(r *Runner) { r.maxTurns = n }
}

// WithMaxUserTurns overrides the simulated-user turn budget.
func WithMaxUserTurns(n int) Option {
	return func(r *Runner) { r.maxUserTurns = n }
}

// NewRunner creates a session runner over the given transport and
// environment adapter.
func NewRunner(ch channel.Channel, adapter *env.Adapter, opts ...Option) *Runner {
	r := &Runner{
		channel:      ch,
		adapter:      adapter,
		logger:       NopLogger{},
		maxTurns:     models.DefaultMaxTurns,
		maxUserTurns: models.DefaultMaxUserTurns,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// stop carries an early terminal transition out of a helper.
type stop struct {
	status models.TerminalStatus
	detail string
}

// Run drives the task to a terminal state and returns the frozen trajectory.
// Every session terminates: the turn budgets bound the loop even against a
// subject that never emits a terminal action.
func (r *Runner) Run(ctx context.Context, task *models.Task) *models.Trajectory {
	start := time.Now()
	traj := &models.Trajectory{
		TaskID:    task.ID,
		SessionID: fmt.Sprintf("task_%s_%s", task.ID, uuid.NewString()),
	}

	var history []string
	userTurns := 0

	finish := func(status models.TerminalStatus, detail string) *models.Trajectory {
		traj.Status = status
		traj.Detail = detail
		traj.UserTurns = userTurns
		traj.DurationMs = time.Since(start).Milliseconds()
		r.logger.Log(NewEvent(EventTerminal, TerminalData(string(status), len(traj.Turns), detail))) //nolint:errcheck
		return traj
	}

	outbound := BuildTaskMessage(task, r.maxTurns)
	if r.sim != nil {
		utt, halted := r.nextUserTurn(ctx, task, history, &userTurns)
		if halted != nil {
			return finish(halted.status, halted.detail)
		}
		outbound += "\n\nUser: " + utt
	}

	r.logger.Log(NewEvent(EventDispatch, DispatchData(task.ID, traj.SessionID))) //nolint:errcheck

	history = append(history, outbound)
	reply, err := r.channel.Send(ctx, traj.SessionID, outbound)
	if err != nil {
		return finish(models.StatusChannelError, err.Error())
	}
	history = append(history, reply)

	turns := 0
	decodeFailed := false

	for {
		action, decodeErr := codec.Decode(reply)
		if decodeErr != nil {
			if decodeFailed {
				// Second consecutive decode failure is terminal.
				return finish(models.StatusParseErrorExhausted, decodeErr.Error())
			}
			decodeFailed = true
			r.logger.Log(NewEvent(EventReprompt, map[string]any{"reason": decodeErr.Error()})) //nolint:errcheck

			// Re-prompts are budget-free; the turn counter only moves on
			// well-formed Execute/Respond actions.
			history = append(history, correctiveMessage)
			reply, err = r.channel.Send(ctx, traj.SessionID, correctiveMessage)
			if err != nil {
				return finish(models.StatusChannelError, err.Error())
			}
			history = append(history, reply)
			continue
		}
		decodeFailed = false

		switch a := action.(type) {
		case models.RespondAction:
			turns++
			traj.Turns = append(traj.Turns, models.NewTurn(a, models.Observation{}))
			traj.FinalAnswer = a.Answer
			r.logger.Log(NewEvent(EventAction, ActionData(turns, "respond", a.Answer))) //nolint:errcheck
			return finish(models.StatusAnswered, "")

		case models.ExecuteAction:
			turns++
			r.logger.Log(NewEvent(EventAction, ActionData(turns, "execute", a.Query))) //nolint:errcheck

			obs := r.adapter.Observe(ctx, a.Query)
			traj.Turns = append(traj.Turns, models.NewTurn(a, obs))
			r.logger.Log(NewEvent(EventObservation, ObservationData(turns, obs.Rows.Len(), obs.ErrorMsg))) //nolint:errcheck

			if turns >= r.maxTurns {
				// Budget exhausted: terminal instead of another dispatch.
				return finish(models.StatusMaxTurnsExceeded, fmt.Sprintf("turn budget of %d exhausted", r.maxTurns))
			}

			outbound = codec.EncodeObservation(obs) + "\n\n" + nextActionPrompt
			if r.sim != nil {
				utt, halted := r.nextUserTurn(ctx, task, history, &userTurns)
				if halted != nil {
					return finish(halted.status, halted.detail)
				}
				outbound += "\n\nUser: " + utt
			}

			history = append(history, outbound)
			reply, err = r.channel.Send(ctx, traj.SessionID, outbound)
			if err != nil {
				return finish(models.StatusChannelError, err.Error())
			}
			history = append(history, reply)
		}
	}
}

// nextUserTurn asks the simulator for the next utterance, enforcing the
// dedicated user-turn budget. The simulator's end signal is equivalent to the
// subject responding: the session evaluates whatever answer it last gave.
func (r *Runner) nextUserTurn(ctx context.Context, task *models.Task, history []string, userTurns *int) (string, *stop) {
	utt, err := r.sim.NextUtterance(ctx, history, task.Persona)
	switch {
	case errors.Is(err, ErrEndOfConversation):
		return "", &stop{status: models.StatusAnswered, detail: "simulator ended conversation"}
	case err != nil:
		return "", &stop{status: models.StatusChannelError, detail: "user simulator: " + err.Error()}
	}

	if *userTurns >= r.maxUserTurns {
		return "", &stop{
			status: models.StatusMaxTurnsExceeded,
			detail: fmt.Sprintf("user turn budget of %d exhausted", r.maxUserTurns),
		}
	}
	*userTurns++

	r.logger.Log(NewEvent(EventUserTurn, map[string]any{"turn": *userTurns, "utterance": utt})) //nolint:errcheck
	return utt, nil
}
