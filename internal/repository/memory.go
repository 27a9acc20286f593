package repository

import (
	"context"
	"sync"

	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
)

type memoryGame struct {
	mu    sync.RWMutex
	games map[string]*entity.Game
}

// NewMemoryGameRepository - keeps games in process memory. Used by the terminal UI
// and by the server when no Redis is configured.
func NewMemoryGameRepository() GameRepository {
	return &memoryGame{
		games: make(map[string]*entity.Game),
	}
}

func (that *memoryGame) CreateOrUpdate(_ context.Context, game *entity.Game) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.games[game.ID] = cloneGame(game)

	return nil
}

func (that *memoryGame) GetByID(_ context.Context, id string) (*entity.Game, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	game, ok := that.games[id]
	if !ok {
		return nil, ErrGameNotFound
	}

	return cloneGame(game), nil
}

func (that *memoryGame) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.games[id]; !ok {
		return ErrGameNotFound
	}

	delete(that.games, id)

	return nil
}

// cloneGame - boards are arrays, so copying the slice copies every snapshot.
func cloneGame(game *entity.Game) *entity.Game {
	history := make([]entity.Board, len(game.History))
	copy(history, game.History)

	return &entity.Game{
		ID:         game.ID,
		History:    history,
		StepNumber: game.StepNumber,
	}
}
