package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
	"github.com/rocketscienceinc/tictactoe-history/internal/metrics"
	"github.com/rocketscienceinc/tictactoe-history/internal/repository"
	"github.com/rocketscienceinc/tictactoe-history/internal/tictactoe"
)

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
}

type recorder interface {
	GameCreated()
	MoveMade(result, winner string)
	Jumped(result string)
	GameReset()
}

// GameManager - owns one game per session and applies the move, jump and reset transitions to it.
type GameManager struct {
	logger   *slog.Logger
	gameRepo gameRepo
	metrics  recorder
}

func NewGameManager(logger *slog.Logger, gameRepo gameRepo, metrics recorder) *GameManager {
	return &GameManager{
		logger:   logger.With("component", "game_manager"),
		gameRepo: gameRepo,
		metrics:  metrics,
	}
}

// GetOrCreateGame - returns the session's game, starting a new one on first access.
func (that *GameManager) GetOrCreateGame(ctx context.Context, sessionID string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, sessionID)
	if err == nil {
		return game, nil
	}

	if !errors.Is(err, repository.ErrGameNotFound) {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	game = entity.NewGame(sessionID)
	if err = that.updateGame(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	that.metrics.GameCreated()
	that.logger.Info("game created", "gameID", sessionID)

	return game, nil
}

func (that *GameManager) MakeMove(ctx context.Context, sessionID string, cell int) (*entity.Game, error) {
	log := that.logger.With("method", "MakeMove", "gameID", sessionID, "cell", cell)

	game, err := that.GetOrCreateGame(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	next, err := tictactoe.Move(game, cell)
	if err != nil {
		that.metrics.MoveMade(metrics.ResultRejected, "")
		return game, fmt.Errorf("failed make move: %w", err)
	}

	if next == game {
		that.metrics.MoveMade(metrics.ResultIgnored, "")
		log.Debug("move ignored", "winner", game.Winner(), "step", game.StepNumber)
		return game, nil
	}

	if err = that.updateGame(ctx, next); err != nil {
		return nil, fmt.Errorf("failed update game: %w", err)
	}

	that.metrics.MoveMade(metrics.ResultApplied, next.Winner())

	log.Debug("move made", "mark", game.NextMark(), "step", next.StepNumber)

	return next, nil
}

func (that *GameManager) JumpTo(ctx context.Context, sessionID string, step int) (*entity.Game, error) {
	log := that.logger.With("method", "JumpTo", "gameID", sessionID, "step", step)

	game, err := that.GetOrCreateGame(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	next, err := tictactoe.JumpTo(game, step)
	if err != nil {
		that.metrics.Jumped(metrics.ResultRejected)
		return game, fmt.Errorf("failed jump: %w", err)
	}

	if err = that.updateGame(ctx, next); err != nil {
		return nil, fmt.Errorf("failed update game: %w", err)
	}

	that.metrics.Jumped(metrics.ResultApplied)

	log.Debug("jumped", "historyLength", len(next.History))

	return next, nil
}

func (that *GameManager) Reset(ctx context.Context, sessionID string) (*entity.Game, error) {
	game := tictactoe.Reset(&entity.Game{ID: sessionID})

	if err := that.updateGame(ctx, game); err != nil {
		return nil, fmt.Errorf("failed reset game: %w", err)
	}

	that.metrics.GameReset()

	that.logger.Info("game reset", "gameID", sessionID)

	return game, nil
}

func (that *GameManager) updateGame(ctx context.Context, game *entity.Game) error {
	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}

	return nil
}
