package rest

import (
	"encoding/json"
	"net/http"

	"github.com/rocketscienceinc/gridtactoe/internal/entity"
)

type turnRequest struct {
	Cell *int `json:"cell"`
}

type response struct {
	Game    *entity.Session     `json:"game,omitempty"`
	Outcome *entity.MoveOutcome `json:"outcome,omitempty"`
	Scores  *entity.ScoreBoard  `json:"scores,omitempty"`
	Error   string              `json:"error,omitempty"`
}

func (that *Server) ping(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		that.logger.Error("failed to write ping response", "error", err)
	}
}

func (that *Server) getGame(w http.ResponseWriter, _ *http.Request) {
	game := that.manager.Session()
	scores := that.manager.Scores()

	that.writeJSON(w, http.StatusOK, response{Game: &game, Scores: &scores})
}

func (that *Server) newGame(w http.ResponseWriter, r *http.Request) {
	game := that.manager.NewGame(r.Context())
	scores := that.manager.Scores()

	that.writeJSON(w, http.StatusOK, response{Game: &game, Scores: &scores})
}

func (that *Server) applySettings(w http.ResponseWriter, r *http.Request) {
	var settings entity.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		that.writeJSON(w, http.StatusBadRequest, response{Error: "invalid settings payload"})
		return
	}

	if err := settings.Validate(); err != nil {
		that.writeJSON(w, http.StatusBadRequest, response{Error: err.Error()})
		return
	}

	game := that.manager.ApplySettings(r.Context(), settings)
	scores := that.manager.Scores()

	that.writeJSON(w, http.StatusOK, response{Game: &game, Scores: &scores})
}

func (that *Server) makeTurn(w http.ResponseWriter, r *http.Request) {
	var req turnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Cell == nil {
		that.writeJSON(w, http.StatusBadRequest, response{Error: "cell is required"})
		return
	}

	game, outcome := that.manager.MakeTurn(r.Context(), *req.Cell)
	scores := that.manager.Scores()

	status := http.StatusOK
	if outcome.IsRejected() {
		status = http.StatusConflict
	}

	that.writeJSON(w, status, response{Game: &game, Outcome: &outcome, Scores: &scores})
}

func (that *Server) getScores(w http.ResponseWriter, _ *http.Request) {
	scores := that.manager.Scores()

	that.writeJSON(w, http.StatusOK, response{Scores: &scores})
}

func (that *Server) resetScores(w http.ResponseWriter, r *http.Request) {
	scores := that.manager.ResetScores(r.Context())
	game := that.manager.Session()

	that.writeJSON(w, http.StatusOK, response{Game: &game, Scores: &scores})
}

func (that *Server) writeJSON(w http.ResponseWriter, status int, body response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
