package tictactoe

import (
	"testing"

	"github.com/rocketscienceinc/tictactoe-history/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func play(t *testing.T, game *entity.Game, cells ...int) *entity.Game {
	t.Helper()

	for _, cell := range cells {
		next, err := Move(game, cell)
		require.NoError(t, err)
		game = next
	}

	return game
}

func TestMove(t *testing.T) {
	t.Run("First move places X", func(t *testing.T) {
		// Given: a new game
		game := entity.NewGame("123")

		// When: the first cell is clicked
		next, err := Move(game, 0)
		require.NoError(t, err)

		// Then: a snapshot with X is appended and the pointer advances
		expectedGame := &entity.Game{
			ID:         "123",
			History:    []entity.Board{{}, {entity.PlayerX}},
			StepNumber: 1,
		}

		require.Equal(t, expectedGame, next)
		assert.Equal(t, entity.PlayerO, next.NextMark())
	})

	t.Run("Input game is not modified", func(t *testing.T) {
		// Given: a new game
		game := entity.NewGame("123")

		// When: a move is made
		_, err := Move(game, 4)
		require.NoError(t, err)

		// Then: the original game still holds one empty snapshot
		require.Equal(t, entity.NewGame("123"), game)
	})

	t.Run("N moves give N+1 snapshots", func(t *testing.T) {
		// Given: a new game
		game := entity.NewGame("123")

		// When: four non-winning moves are made
		game = play(t, game, 0, 4, 8, 2)

		// Then: history has five snapshots and the pointer is at the last one
		assert.Len(t, game.History, 5)
		assert.Equal(t, 4, game.StepNumber)
		assert.Equal(t, entity.Board{
			entity.PlayerX, entity.EmptyCell, entity.PlayerO,
			entity.EmptyCell, entity.PlayerO, entity.EmptyCell,
			entity.EmptyCell, entity.EmptyCell, entity.PlayerX,
		}, game.Current())
	})

	t.Run("Occupied cell is ignored", func(t *testing.T) {
		// Given: a game where X holds cell 0
		game := play(t, entity.NewGame("123"), 0)

		// When: O clicks the same cell
		next, err := Move(game, 0)

		// Then: nothing changes
		require.NoError(t, err)
		assert.Same(t, game, next)
		assert.Len(t, next.History, 2)
		assert.Equal(t, 1, next.StepNumber)
		assert.Equal(t, entity.PlayerO, next.NextMark())
	})

	t.Run("Moves after a win are ignored", func(t *testing.T) {
		// Given: X has won through the top row
		game := play(t, entity.NewGame("123"), 0, 4, 1, 3, 2)
		require.Equal(t, "Winner: X", game.Status())

		// When: another empty cell is clicked
		next, err := Move(game, 8)

		// Then: nothing changes
		require.NoError(t, err)
		assert.Same(t, game, next)
		assert.Len(t, next.History, 6)
		assert.Equal(t, 5, next.StepNumber)
	})

	t.Run("Move after a jump discards the future", func(t *testing.T) {
		// Given: a game with four moves that jumped back to move #1
		game := play(t, entity.NewGame("123"), 0, 4, 8, 2)
		jumped, err := JumpTo(game, 1)
		require.NoError(t, err)

		// When: a new move is made
		next, err := Move(jumped, 5)
		require.NoError(t, err)

		// Then: history was cut to two snapshots before the new one was added
		assert.Len(t, next.History, 3)
		assert.Equal(t, 2, next.StepNumber)
		assert.Equal(t, entity.Board{
			entity.PlayerX, entity.EmptyCell, entity.EmptyCell,
			entity.EmptyCell, entity.EmptyCell, entity.PlayerO,
		}, next.Current())

		// And: the game before the jump still has its full history
		assert.Len(t, game.History, 5)
		assert.Equal(t, entity.PlayerO, game.History[2][4])
	})

	t.Run("Invalid cell", func(t *testing.T) {
		game := entity.NewGame("123")

		_, err := Move(game, 9)
		require.ErrorIs(t, err, apperror.ErrInvalidCell)

		_, err = Move(game, -1)
		require.ErrorIs(t, err, apperror.ErrInvalidCell)
	})
}

func TestJumpTo(t *testing.T) {
	t.Run("Selects a prior snapshot", func(t *testing.T) {
		// Given: a game with three moves
		game := play(t, entity.NewGame("123"), 0, 4, 8)

		// When: jumping to move #1
		jumped, err := JumpTo(game, 1)
		require.NoError(t, err)

		// Then: history is kept and the turn is derived from the step
		assert.Len(t, jumped.History, 4)
		assert.Equal(t, 1, jumped.StepNumber)
		assert.Equal(t, entity.PlayerO, jumped.NextMark())
		assert.Equal(t, entity.Board{entity.PlayerX}, jumped.Current())

		// When: jumping to the game start
		jumped, err = JumpTo(jumped, 0)
		require.NoError(t, err)

		// Then: X is to move again
		assert.Equal(t, "Current player: X", jumped.Status())
	})

	t.Run("Jumping back past a win reopens the board", func(t *testing.T) {
		// Given: X has won
		game := play(t, entity.NewGame("123"), 0, 4, 1, 3, 2)

		// When: jumping to move #4
		jumped, err := JumpTo(game, 4)
		require.NoError(t, err)

		// Then: moves are accepted again
		next, err := Move(jumped, 5)
		require.NoError(t, err)
		assert.Equal(t, entity.PlayerX, next.Current()[5])
		assert.Len(t, next.History, 6)
	})

	t.Run("Out of range step", func(t *testing.T) {
		// Given: a game with one move
		game := play(t, entity.NewGame("123"), 0)

		// When: jumping beyond history
		next, err := JumpTo(game, 2)

		// Then: an error is returned and the game is unchanged
		require.ErrorIs(t, err, apperror.ErrInvalidStep)
		assert.Same(t, game, next)

		_, err = JumpTo(game, -1)
		require.ErrorIs(t, err, apperror.ErrInvalidStep)
	})
}

func TestReset(t *testing.T) {
	// Given: a game in progress that jumped back
	game := play(t, entity.NewGame("123"), 0, 4, 8)
	game, err := JumpTo(game, 1)
	require.NoError(t, err)

	// When: the game is reset
	reset := Reset(game)

	// Then: a single empty snapshot remains with X to move
	require.Equal(t, entity.NewGame("123"), reset)
	assert.Equal(t, entity.PlayerX, reset.NextMark())
}

func TestWinningSequence(t *testing.T) {
	// Given: a new game
	game := entity.NewGame("123")

	// When: X plays the top row while O plays the middle row
	game = play(t, game, 0, 4, 1, 3, 2)

	// Then: X wins
	assert.Equal(t, entity.PlayerX, game.Winner())
	assert.Equal(t, "Winner: X", game.Status())
}
