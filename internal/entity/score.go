package entity

// ScoreBoard - win and draw tallies kept across games.
type ScoreBoard struct {
	X    int `json:"X"`
	O    int `json:"O"`
	Draw int `json:"draw"`
}

// Record - returns the tallies after counting a finished game.
func (that ScoreBoard) Record(outcome MoveOutcome) ScoreBoard {
	switch outcome.Kind {
	case OutcomeWin:
		switch outcome.Winner {
		case PlayerX:
			that.X++
		case PlayerO:
			that.O++
		}
	case OutcomeDraw:
		that.Draw++
	case OutcomeContinue, OutcomeRejected:
	}

	return that
}

// IsValid - tallies are never negative.
func (that ScoreBoard) IsValid() bool {
	return that.X >= 0 && that.O >= 0 && that.Draw >= 0
}
