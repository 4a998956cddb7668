package entity

import "encoding/json"

type OutcomeKind string

const (
	OutcomeContinue OutcomeKind = "continue"
	OutcomeWin      OutcomeKind = "win"
	OutcomeDraw     OutcomeKind = "draw"
	OutcomeRejected OutcomeKind = "rejected"
)

// MoveOutcome - result of applying a single move.
type MoveOutcome struct {
	Kind   OutcomeKind
	Winner Mark
	Reason error
}

func Continue() MoveOutcome {
	return MoveOutcome{Kind: OutcomeContinue}
}

func Win(player Mark) MoveOutcome {
	return MoveOutcome{Kind: OutcomeWin, Winner: player}
}

func Draw() MoveOutcome {
	return MoveOutcome{Kind: OutcomeDraw}
}

// Rejected - no state change happened, reason is one of the apperror sentinels.
func Rejected(reason error) MoveOutcome {
	return MoveOutcome{Kind: OutcomeRejected, Reason: reason}
}

// IsTerminal - reports a win or a draw.
func (that MoveOutcome) IsTerminal() bool {
	return that.Kind == OutcomeWin || that.Kind == OutcomeDraw
}

func (that MoveOutcome) IsRejected() bool {
	return that.Kind == OutcomeRejected
}

type outcomeJSON struct {
	Kind   OutcomeKind `json:"kind"`
	Winner Mark        `json:"winner,omitempty"`
	Reason string      `json:"reason,omitempty"`
}

func (that MoveOutcome) MarshalJSON() ([]byte, error) {
	out := outcomeJSON{
		Kind:   that.Kind,
		Winner: that.Winner,
	}

	if that.Reason != nil {
		out.Reason = that.Reason.Error()
	}

	return json.Marshal(out)
}
