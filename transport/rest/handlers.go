package rest

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rocketscienceinc/tictactoe-history/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
	"github.com/rocketscienceinc/tictactoe-history/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-history/internal/view"
)

//go:embed templates/*.html
var templateFS embed.FS

var ErrInvalidIndex = errors.New("index is not a number")

type Handlers interface {
	Routes() http.Handler

	PingHandler(w http.ResponseWriter, _ *http.Request)

	PageHandler(w http.ResponseWriter, r *http.Request)
	SquareHandler(w http.ResponseWriter, r *http.Request)
	JumpHandler(w http.ResponseWriter, r *http.Request)
	ResetHandler(w http.ResponseWriter, r *http.Request)

	GameStateAPI(w http.ResponseWriter, r *http.Request)
	SquareAPI(w http.ResponseWriter, r *http.Request)
	JumpAPI(w http.ResponseWriter, r *http.Request)
	ResetAPI(w http.ResponseWriter, r *http.Request)
}

type gameManager interface {
	GetOrCreateGame(ctx context.Context, sessionID string) (*entity.Game, error)
	MakeMove(ctx context.Context, sessionID string, cell int) (*entity.Game, error)
	JumpTo(ctx context.Context, sessionID string, step int) (*entity.Game, error)
	Reset(ctx context.Context, sessionID string) (*entity.Game, error)
}

// GameResponse - body of every JSON endpoint.
type GameResponse struct {
	Game  *entity.Game `json:"game,omitempty"`
	View  *view.Page   `json:"view,omitempty"`
	Error string       `json:"error,omitempty"`
}

type handlers struct {
	logger      *slog.Logger
	gameManager gameManager
	page        *template.Template
}

func NewHandlers(logger *slog.Logger, gameManager gameManager) Handlers {
	return &handlers{
		logger:      logger.With("component", "rest"),
		gameManager: gameManager,
		page:        template.Must(template.ParseFS(templateFS, "templates/index.html")),
	}
}

func (that *handlers) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /ping", that.PingHandler)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /{$}", that.PageHandler)
	mux.HandleFunc("POST /squares/{cell}", that.SquareHandler)
	mux.HandleFunc("POST /jump/{step}", that.JumpHandler)
	mux.HandleFunc("POST /reset", that.ResetHandler)

	mux.HandleFunc("GET /api/game", that.GameStateAPI)
	mux.HandleFunc("POST /api/game/squares/{cell}", that.SquareAPI)
	mux.HandleFunc("POST /api/game/jump/{step}", that.JumpAPI)
	mux.HandleFunc("POST /api/game/reset", that.ResetAPI)

	return mux
}

func (that *handlers) PageHandler(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "PageHandler")

	sessionID, _ := pkg.EnsureSession(w, r)

	game, err := that.gameManager.GetOrCreateGame(r.Context(), sessionID)
	if err != nil {
		log.Error("failed to get game", "error", err)
		http.Error(w, "Failed to get game", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err = that.page.Execute(w, view.Render(game)); err != nil {
		log.Error("failed to render page", "error", err)
	}
}

func (that *handlers) SquareHandler(w http.ResponseWriter, r *http.Request) {
	cell, err := pathIndex(r, "cell")
	if err != nil {
		http.Error(w, "Invalid cell", http.StatusBadRequest)
		return
	}

	that.redirectAfter(w, r, "SquareHandler", func(ctx context.Context, sessionID string) error {
		_, err := that.gameManager.MakeMove(ctx, sessionID, cell)
		return err
	})
}

func (that *handlers) JumpHandler(w http.ResponseWriter, r *http.Request) {
	step, err := pathIndex(r, "step")
	if err != nil {
		http.Error(w, "Invalid step", http.StatusBadRequest)
		return
	}

	that.redirectAfter(w, r, "JumpHandler", func(ctx context.Context, sessionID string) error {
		_, err := that.gameManager.JumpTo(ctx, sessionID, step)
		return err
	})
}

func (that *handlers) ResetHandler(w http.ResponseWriter, r *http.Request) {
	that.redirectAfter(w, r, "ResetHandler", func(ctx context.Context, sessionID string) error {
		_, err := that.gameManager.Reset(ctx, sessionID)
		return err
	})
}

// redirectAfter - applies action to the caller's game and sends the browser back to the page.
func (that *handlers) redirectAfter(w http.ResponseWriter, r *http.Request, method string, action func(ctx context.Context, sessionID string) error) {
	sessionID, _ := pkg.EnsureSession(w, r)

	if err := action(r.Context(), sessionID); err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			that.logger.Error("failed to apply action", "method", method, "error", err)
		}
		http.Error(w, http.StatusText(status), status)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (that *handlers) GameStateAPI(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := pkg.EnsureSession(w, r)

	game, err := that.gameManager.GetOrCreateGame(r.Context(), sessionID)
	that.writeGame(w, "GameStateAPI", game, err)
}

func (that *handlers) SquareAPI(w http.ResponseWriter, r *http.Request) {
	cell, err := pathIndex(r, "cell")
	if err != nil {
		that.writeJSON(w, http.StatusBadRequest, GameResponse{Error: err.Error()})
		return
	}

	sessionID, _ := pkg.EnsureSession(w, r)

	game, err := that.gameManager.MakeMove(r.Context(), sessionID, cell)
	that.writeGame(w, "SquareAPI", game, err)
}

func (that *handlers) JumpAPI(w http.ResponseWriter, r *http.Request) {
	step, err := pathIndex(r, "step")
	if err != nil {
		that.writeJSON(w, http.StatusBadRequest, GameResponse{Error: err.Error()})
		return
	}

	sessionID, _ := pkg.EnsureSession(w, r)

	game, err := that.gameManager.JumpTo(r.Context(), sessionID, step)
	that.writeGame(w, "JumpAPI", game, err)
}

func (that *handlers) ResetAPI(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := pkg.EnsureSession(w, r)

	game, err := that.gameManager.Reset(r.Context(), sessionID)
	that.writeGame(w, "ResetAPI", game, err)
}

func (that *handlers) writeGame(w http.ResponseWriter, method string, game *entity.Game, err error) {
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			that.logger.Error("failed to apply action", "method", method, "error", err)
			that.writeJSON(w, status, GameResponse{Error: http.StatusText(status)})
			return
		}

		that.writeJSON(w, status, newGameResponse(game, err))
		return
	}

	that.writeJSON(w, http.StatusOK, newGameResponse(game, nil))
}

func (that *handlers) writeJSON(w http.ResponseWriter, status int, body GameResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}

func newGameResponse(game *entity.Game, err error) GameResponse {
	response := GameResponse{Game: game}
	if game != nil {
		page := view.Render(game)
		response.View = &page
	}

	if err != nil {
		response.Error = err.Error()
	}

	return response
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrInvalidCell), errors.Is(err, apperror.ErrInvalidStep):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func pathIndex(r *http.Request, name string) (int, error) {
	index, err := strconv.Atoi(r.PathValue(name))
	if err != nil {
		return 0, ErrInvalidIndex
	}

	return index, nil
}
