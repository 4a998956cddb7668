package websocket

import (
	"context"
	"encoding/json"
	"fmt"
)

func (that *Server) handleGameState(_ context.Context, msg *Message, conn *connection) error {
	game := that.manager.Session()
	scores := that.manager.Scores()

	return that.sendMessage(conn, msg.Action, Payload{Game: &game, Scores: &scores})
}

func (that *Server) handleNewGame(ctx context.Context, msg *Message, _ *connection) error {
	game := that.manager.NewGame(ctx)
	scores := that.manager.Scores()

	that.broadcast(msg.Action, Payload{Game: &game, Scores: &scores})

	return nil
}

func (that *Server) handleSettings(ctx context.Context, msg *Message, conn *connection) error {
	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return that.sendErrorResponse(conn, msg.Action, "invalid payload")
	}

	if payloadReq.Settings == nil {
		return that.sendErrorResponse(conn, msg.Action, "settings are required")
	}

	if err := payloadReq.Settings.Validate(); err != nil {
		return that.sendErrorResponse(conn, msg.Action, err.Error())
	}

	game := that.manager.ApplySettings(ctx, *payloadReq.Settings)
	scores := that.manager.Scores()

	that.broadcast(msg.Action, Payload{Game: &game, Scores: &scores})

	return nil
}

func (that *Server) handleGameTurn(ctx context.Context, msg *Message, conn *connection) error {
	log := that.logger.With("method", "handleGameTurn")

	var payloadReq Payload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return that.sendErrorResponse(conn, msg.Action, "invalid payload")
	}

	if payloadReq.Cell == nil {
		log.Error("Cell is missing in payload")
		return that.sendErrorResponse(conn, msg.Action, "cell is required")
	}

	game, outcome := that.manager.MakeTurn(ctx, *payloadReq.Cell)
	scores := that.manager.Scores()

	payloadResp := Payload{Game: &game, Scores: &scores, Outcome: &outcome}

	// a rejected move changed nothing, only the sender needs to know
	if outcome.IsRejected() {
		payloadResp.Error = outcome.Reason.Error()
		return that.sendMessage(conn, msg.Action, payloadResp)
	}

	that.broadcast(msg.Action, payloadResp)

	return nil
}

func (that *Server) handleScoresReset(ctx context.Context, msg *Message, _ *connection) error {
	scores := that.manager.ResetScores(ctx)
	game := that.manager.Session()

	that.broadcast(msg.Action, Payload{Game: &game, Scores: &scores})

	return nil
}

func (that *Server) broadcast(action string, payload Payload) {
	log := that.logger.With("method", "broadcast", "action", action)

	that.connectionsMutex.RLock()
	connections := make([]*connection, 0, len(that.connections))
	for conn := range that.connections {
		connections = append(connections, conn)
	}
	that.connectionsMutex.RUnlock()

	for _, conn := range connections {
		if err := that.sendMessage(conn, action, payload); err != nil {
			log.Error("failed to send game update", "error", err)
		}
	}
}

func (that *Server) sendMessage(conn *connection, action string, payload Payload) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	if err = conn.write(Message{Action: action, Payload: payloadJSON}); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}

func (that *Server) sendErrorResponse(conn *connection, action, errMsg string) error {
	return that.sendMessage(conn, action, Payload{Error: errMsg})
}
