package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rocketscienceinc/gridtactoe/internal/entity"
)

const (
	writeTimeout    = 10 * time.Second
	shutdownTimeout = 5 * time.Second
)

type gameManager interface {
	Session() entity.Session
	Scores() entity.ScoreBoard

	MakeTurn(ctx context.Context, cell int) (entity.Session, entity.MoveOutcome)
	NewGame(ctx context.Context) entity.Session
	ApplySettings(ctx context.Context, settings entity.Settings) entity.Session
	ResetScores(ctx context.Context) entity.ScoreBoard
}

// connection - gorilla connections allow one concurrent writer.
type connection struct {
	socket  *websocket.Conn
	writeMu sync.Mutex
}

func (that *connection) write(message Message) error {
	that.writeMu.Lock()
	defer that.writeMu.Unlock()

	if err := that.socket.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	return that.socket.WriteJSON(message)
}

type Server struct {
	logger   *slog.Logger
	manager  gameManager
	upgrader websocket.Upgrader

	connectionsMutex sync.RWMutex
	connections      map[*connection]struct{}

	// held from a manager call until its broadcast is written, so every
	// connection sees states in the order they were made
	eventsMutex sync.Mutex

	handlers map[string]func(ctx context.Context, msg *Message, conn *connection) error
}

func New(logger *slog.Logger, manager gameManager) *Server {
	server := &Server{
		logger:  logger.With("component", "websocket"),
		manager: manager,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// the game is served to a local browser page on another port
			CheckOrigin: func(*http.Request) bool { return true },
		},

		connections: make(map[*connection]struct{}),
	}

	server.handlers = map[string]func(context.Context, *Message, *connection) error{
		actionGameState:    server.handleGameState,
		actionGameNew:      server.handleNewGame,
		actionGameSettings: server.handleSettings,
		actionGameTurn:     server.handleGameTurn,
		actionScoresReset:  server.handleScoresReset,
	}

	return server
}

func (that *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.upgradeToWebSocket(ctx, w, r)
	})

	return mux
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     that.Handler(ctx),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down WebSocket server", "error", err)
		}

		that.closeAll()
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// upgradeToWebSocket - upgrades the connection to WebSocket.
func (that *Server) upgradeToWebSocket(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeToWebSocket")

	socket, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	conn := &connection{socket: socket}
	defer that.handleDisconnect(conn)

	log.Info("WebSocket connection established", "remote", req.RemoteAddr)

	if err = that.register(ctx, conn); err != nil {
		log.Error("failed to send initial state", "error", err)
		return
	}

	if err = that.handleMessages(ctx, conn); err != nil {
		log.Debug("connection closed", "error", err)
	}
}

// handleMessages - processes messages from the client.
func (that *Server) handleMessages(ctx context.Context, conn *connection) error {
	log := that.logger.With("method", "handleMessages")

	for {
		_, reqBody, err := conn.socket.ReadMessage()
		if err != nil {
			return err
		}

		var message Message
		if err = json.Unmarshal(reqBody, &message); err != nil {
			log.Error("failed to unmarshal message", "error", err)
			if err = that.sendErrorResponse(conn, actionError, "invalid message"); err != nil {
				return err
			}
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Error("unknown action", "action", message.Action)
			if err = that.sendErrorResponse(conn, message.Action, "unknown action"); err != nil {
				return err
			}
			continue
		}

		that.eventsMutex.Lock()
		err = handler(ctx, &message, conn)
		that.eventsMutex.Unlock()

		if err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

// register - adds conn to the broadcast list after sending it the current state.
func (that *Server) register(ctx context.Context, conn *connection) error {
	that.eventsMutex.Lock()
	defer that.eventsMutex.Unlock()

	that.connectionsMutex.Lock()
	that.connections[conn] = struct{}{}
	that.connectionsMutex.Unlock()

	return that.handleGameState(ctx, &Message{Action: actionGameState}, conn)
}

func (that *Server) handleDisconnect(conn *connection) {
	that.connectionsMutex.Lock()
	delete(that.connections, conn)
	that.connectionsMutex.Unlock()

	if err := conn.socket.Close(); err != nil {
		that.logger.Debug("failed to close connection", "error", err)
	}
}

func (that *Server) closeAll() {
	that.connectionsMutex.RLock()
	defer that.connectionsMutex.RUnlock()

	for conn := range that.connections {
		_ = conn.socket.Close()
	}
}
