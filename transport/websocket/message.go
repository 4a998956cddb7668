package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/gridtactoe/internal/entity"
)

const (
	actionGameState    = "game:state"
	actionGameNew      = "game:new"
	actionGameSettings = "game:settings"
	actionGameTurn     = "game:turn"
	actionScoresReset  = "scores:reset"
	actionError        = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type Payload struct {
	Game     *entity.Session     `json:"game,omitempty"`
	Scores   *entity.ScoreBoard  `json:"scores,omitempty"`
	Outcome  *entity.MoveOutcome `json:"outcome,omitempty"`
	Settings *entity.Settings    `json:"settings,omitempty"`
	Cell     *int                `json:"cell,omitempty"`
	Error    string              `json:"error,omitempty"`
}
