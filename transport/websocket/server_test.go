package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rocketscienceinc/gridtactoe/internal/entity"
	"github.com/rocketscienceinc/gridtactoe/internal/repository"
	"github.com/rocketscienceinc/gridtactoe/internal/repository/storage"
	"github.com/rocketscienceinc/gridtactoe/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPayload struct {
	Game    *entity.Session    `json:"game"`
	Scores  *entity.ScoreBoard `json:"scores"`
	Outcome *struct {
		Kind   entity.OutcomeKind `json:"kind"`
		Winner entity.Mark        `json:"winner"`
		Reason string             `json:"reason"`
	} `json:"outcome"`
	Error string `json:"error"`
}

func newTestServer(t *testing.T) string {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st := storage.NewMemoryStorage()
	manager := usecase.NewGameManager(logger, repository.NewScoreRepository(st), repository.NewGameRepository(st), entity.Settings{Size: 3, WinLength: 3})

	srv := httptest.NewServer(New(logger, manager).Handler(ctx))
	t.Cleanup(srv.Close)

	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()

	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	_ = resp.Body.Close()
	t.Cleanup(func() {
		_ = conn.Close()
	})

	// every connection starts with the current state
	action, _ := read(t, conn)
	require.Equal(t, actionGameState, action)

	return conn
}

func send(t *testing.T, conn *websocket.Conn, action, payload string) {
	t.Helper()

	msg := Message{Action: action}
	if payload != "" {
		msg.Payload = json.RawMessage(payload)
	}

	require.NoError(t, conn.WriteJSON(msg))
}

func read(t *testing.T, conn *websocket.Conn) (string, testPayload) {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))

	var payload testPayload
	if len(msg.Payload) > 0 {
		require.NoError(t, json.Unmarshal(msg.Payload, &payload))
	}

	return msg.Action, payload
}

func TestServer_GameState(t *testing.T) {
	conn := dial(t, newTestServer(t))

	send(t, conn, actionGameState, "")
	action, payload := read(t, conn)

	assert.Equal(t, actionGameState, action)
	require.NotNil(t, payload.Game)
	assert.Len(t, payload.Game.Board, 9)
	assert.Equal(t, entity.ScoreBoard{}, *payload.Scores)
}

func TestServer_GameTurn(t *testing.T) {
	t.Run("Broadcasts moves to every connection", func(t *testing.T) {
		// Given: two open tabs
		url := newTestServer(t)
		first := dial(t, url)
		second := dial(t, url)

		// When: the first plays the center
		send(t, first, actionGameTurn, `{"cell":4}`)

		// Then: both receive the new board
		for _, conn := range []*websocket.Conn{first, second} {
			action, payload := read(t, conn)
			assert.Equal(t, actionGameTurn, action)
			assert.Equal(t, entity.OutcomeContinue, payload.Outcome.Kind)
			assert.Equal(t, entity.PlayerX, payload.Game.Board[4])
			assert.Equal(t, entity.PlayerO, payload.Game.CurrentPlayer)
		}
	})

	t.Run("Rejected move is answered to the sender only", func(t *testing.T) {
		conn := dial(t, newTestServer(t))
		send(t, conn, actionGameTurn, `{"cell":4}`)
		read(t, conn)

		send(t, conn, actionGameTurn, `{"cell":4}`)
		_, payload := read(t, conn)

		assert.Equal(t, entity.OutcomeRejected, payload.Outcome.Kind)
		assert.Equal(t, "cell is already occupied", payload.Error)
	})

	t.Run("Win updates the scores", func(t *testing.T) {
		conn := dial(t, newTestServer(t))

		var payload testPayload
		for _, cell := range []string{"0", "3", "1", "4", "2"} {
			send(t, conn, actionGameTurn, `{"cell":`+cell+`}`)
			_, payload = read(t, conn)
		}

		assert.Equal(t, entity.OutcomeWin, payload.Outcome.Kind)
		assert.Equal(t, entity.ScoreBoard{X: 1}, *payload.Scores)
	})

	t.Run("Missing cell is an error", func(t *testing.T) {
		conn := dial(t, newTestServer(t))

		send(t, conn, actionGameTurn, `{}`)
		_, payload := read(t, conn)

		assert.Equal(t, "cell is required", payload.Error)
	})
}

func TestServer_ConcurrentTurnsArriveInOrder(t *testing.T) {
	// Given: two tabs on a board where nobody can win in 20 moves
	url := newTestServer(t)
	first := dial(t, url)
	second := dial(t, url)

	send(t, first, actionGameSettings, `{"settings":{"size":20,"win_length":20}}`)
	for _, conn := range []*websocket.Conn{first, second} {
		action, _ := read(t, conn)
		require.Equal(t, actionGameSettings, action)
	}

	// When: both tabs play their own cells at the same time
	errs := make(chan error, 2)
	for offset, conn := range []*websocket.Conn{first, second} {
		go func(conn *websocket.Conn, offset int) {
			for cell := offset; cell < 20; cell += 2 {
				if err := conn.WriteJSON(Message{Action: actionGameTurn, Payload: json.RawMessage(fmt.Sprintf(`{"cell":%d}`, cell))}); err != nil {
					errs <- err
					return
				}
			}
			errs <- nil
		}(conn, offset)
	}
	require.NoError(t, <-errs)
	require.NoError(t, <-errs)

	// Then: every tab sees the board grow by one mark per update
	for _, conn := range []*websocket.Conn{first, second} {
		for moves := 1; moves <= 20; moves++ {
			action, payload := read(t, conn)
			require.Equal(t, actionGameTurn, action)
			require.Empty(t, payload.Error)
			assert.Equal(t, 400-moves, payload.Game.Board.Count(entity.EmptyCell))
		}
	}
}

func TestServer_Settings(t *testing.T) {
	conn := dial(t, newTestServer(t))

	send(t, conn, actionGameSettings, `{"settings":{"size":4,"win_length":9}}`)
	_, payload := read(t, conn)

	assert.Equal(t, entity.Settings{Size: 4, WinLength: 4}, payload.Game.Settings)
	assert.Len(t, payload.Game.Board, 16)

	send(t, conn, actionGameSettings, `{"settings":{"size":0,"win_length":1}}`)
	_, payload = read(t, conn)

	assert.NotEmpty(t, payload.Error)
}

func TestServer_NewGameAndScoresReset(t *testing.T) {
	conn := dial(t, newTestServer(t))
	for _, cell := range []string{"0", "3", "1", "4", "2"} {
		send(t, conn, actionGameTurn, `{"cell":`+cell+`}`)
		read(t, conn)
	}

	send(t, conn, actionGameNew, "")
	_, payload := read(t, conn)
	assert.False(t, payload.Game.IsOver)
	assert.Equal(t, entity.ScoreBoard{X: 1}, *payload.Scores)

	send(t, conn, actionGameTurn, `{"cell":4}`)
	read(t, conn)

	send(t, conn, actionScoresReset, "")
	_, payload = read(t, conn)
	assert.Equal(t, entity.ScoreBoard{}, *payload.Scores)
	assert.False(t, payload.Game.IsOver)
	assert.Equal(t, 9, payload.Game.Board.Count(entity.EmptyCell))
}

func TestServer_BadMessages(t *testing.T) {
	conn := dial(t, newTestServer(t))

	t.Run("Unknown action", func(t *testing.T) {
		send(t, conn, "game:undo", "")
		action, payload := read(t, conn)

		assert.Equal(t, "game:undo", action)
		assert.Equal(t, "unknown action", payload.Error)
	})

	t.Run("Not JSON", func(t *testing.T) {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("hello")))
		action, payload := read(t, conn)

		assert.Equal(t, actionError, action)
		assert.Equal(t, "invalid message", payload.Error)
	})
}
