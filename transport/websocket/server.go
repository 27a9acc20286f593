package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-history/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
	"github.com/rocketscienceinc/tictactoe-history/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-history/transport/rest"
)

const (
	readLimit  = 1024
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	writeWait  = 10 * time.Second
)

type gameManager interface {
	GetOrCreateGame(ctx context.Context, sessionID string) (*entity.Game, error)
	MakeMove(ctx context.Context, sessionID string, cell int) (*entity.Game, error)
	JumpTo(ctx context.Context, sessionID string, step int) (*entity.Game, error)
	Reset(ctx context.Context, sessionID string) (*entity.Game, error)
}

type handlerFunc func(ctx context.Context, sessionID string, message *Message) (*entity.Game, error)

type Server struct {
	logger      *slog.Logger
	gameManager gameManager
	upgrader    websocket.Upgrader

	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, gameManager gameManager) *Server {
	server := &Server{
		logger:      logger.With("component", "websocket"),
		gameManager: gameManager,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  readLimit,
			WriteBufferSize: readLimit,
		},

		handlers: make(map[string]handlerFunc),
	}

	server.handlers[ActionState] = server.handleState
	server.handlers[ActionMove] = server.handleMove
	server.handlers[ActionJump] = server.handleJump
	server.handlers[ActionReset] = server.handleReset

	return server
}

// Handler - the /ws endpoint.
func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", that.upgradeToWebSocket)

	return mux
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     that.Handler(),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
	}

	if err := rest.Serve(ctx, srv); err != nil {
		return fmt.Errorf("websocket server: %w", err)
	}

	return nil
}

// upgradeToWebSocket - upgrades the connection to WebSocket.
func (that *Server) upgradeToWebSocket(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeConnection")

	sessionID := pkg.SessionID(req)

	var header http.Header
	if sessionID == "" {
		sessionID = pkg.GenerateNewSessionID()
		header = http.Header{}
		header.Add("Set-Cookie", pkg.SessionCookie(sessionID).String())
		log.Info("session cookie not found, new one created", "session", sessionID)
	}

	conn, err := that.upgrader.Upgrade(writer, req, header)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	log.Info("WebSocket connection established", "session", sessionID)

	if err = that.handleMessages(req.Context(), conn, sessionID); err != nil {
		log.Error("error handling messages", "error", err)
	}
}

// handleMessages - processes messages from the client until it disconnects.
func (that *Server) handleMessages(ctx context.Context, conn *websocket.Conn, sessionID string) error {
	log := that.logger.With("method", "handleMessages", "session", sessionID)

	conn.SetReadLimit(readLimit)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go that.keepAlive(conn, done)

	for {
		_, reqBody, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("failed to read message: %w", err)
		}

		var message Message
		if err = json.Unmarshal(reqBody, &message); err != nil {
			log.Error("failed to unmarshal message", "error", err)
			if err = that.sendError(conn, ActionError, "invalid message"); err != nil {
				return err
			}
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Error("unknown action", "action", message.Action)
			if err := that.sendError(conn, ActionError, "unknown action: "+message.Action); err != nil {
				return err
			}
			continue
		}

		game, err := handler(ctx, sessionID, &message)
		if err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
			payload := newResponsePayload(game)
			payload.Error = clientError(err)
			if err = that.sendMessage(conn, message.Action, payload); err != nil {
				return err
			}
			continue
		}

		if err = that.sendMessage(conn, message.Action, newResponsePayload(game)); err != nil {
			return err
		}
	}
}

func (that *Server) keepAlive(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

func (that *Server) sendMessage(conn *websocket.Conn, action string, payload ResponsePayload) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err = conn.WriteJSON(Message{Action: action, Payload: payloadJSON}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

// clientError - rule violations are reported as is, anything else is hidden behind a generic text.
func clientError(err error) string {
	for _, known := range []error{apperror.ErrInvalidCell, apperror.ErrInvalidStep, ErrCellRequired, ErrStepRequired, errInvalidPayload} {
		if errors.Is(err, known) {
			return err.Error()
		}
	}

	return "internal error"
}

func (that *Server) sendError(conn *websocket.Conn, action, text string) error {
	return that.sendMessage(conn, action, ResponsePayload{Error: text})
}
