package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-history/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
)

// Move - places the next mark on cell, starting from the snapshot the step pointer selects.
// Snapshots after the step pointer are discarded. A click on an occupied cell, or on any cell
// once the current snapshot has a winner, is ignored and the game is returned as is.
func Move(game *entity.Game, cell int) (*entity.Game, error) {
	if !entity.IsValidCell(cell) {
		return game, fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if IsIgnored(game, cell) {
		return game, nil
	}

	current := game.Current()
	history := make([]entity.Board, game.StepNumber+1, game.StepNumber+2)
	copy(history, game.History[:game.StepNumber+1])
	history = append(history, current.With(cell, game.NextMark()))

	return &entity.Game{
		ID:         game.ID,
		History:    history,
		StepNumber: len(history) - 1,
	}, nil
}

// JumpTo - selects an existing snapshot. History is left untouched.
func JumpTo(game *entity.Game, step int) (*entity.Game, error) {
	if !game.IsValidStep(step) {
		return game, fmt.Errorf("%w: step %d of %d", apperror.ErrInvalidStep, step, len(game.History))
	}

	return &entity.Game{
		ID:         game.ID,
		History:    game.History,
		StepNumber: step,
	}, nil
}

// Reset - starts the game over under the same id.
func Reset(game *entity.Game) *entity.Game {
	return entity.NewGame(game.ID)
}

// IsIgnored - reports whether Move would leave the game unchanged for cell.
func IsIgnored(game *entity.Game, cell int) bool {
	return game.HasWinner() || game.Current().IsOccupied(cell)
}
