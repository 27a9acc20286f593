package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-history/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
	"github.com/rocketscienceinc/tictactoe-history/internal/metrics"
	"github.com/rocketscienceinc/tictactoe-history/internal/repository"
)

var errRedisDown = errors.New("redis down")

type mockGameRepo struct {
	mock.Mock
}

func (that *mockGameRepo) CreateOrUpdate(ctx context.Context, game *entity.Game) error {
	args := that.Called(ctx, game)
	return args.Error(0)
}

func (that *mockGameRepo) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	args := that.Called(ctx, id)
	game, _ := args.Get(0).(*entity.Game)
	return game, args.Error(1)
}

func newTestManager(t *testing.T) (*GameManager, *mockGameRepo) {
	t.Helper()

	repo := &mockGameRepo{}
	t.Cleanup(func() { repo.AssertExpectations(t) })

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	return NewGameManager(logger, repo, metrics.New(nil)), repo
}

func TestGameManager_GetOrCreateGame(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates a new game on first access", func(t *testing.T) {
		// Given: a session without a stored game
		manager, repo := newTestManager(t)
		repo.On("GetByID", mock.Anything, "s1").Return(nil, repository.ErrGameNotFound).Once()
		repo.On("CreateOrUpdate", mock.Anything, entity.NewGame("s1")).Return(nil).Once()

		// When: the game is requested
		game, err := manager.GetOrCreateGame(ctx, "s1")

		// Then: a fresh game is stored and returned
		require.NoError(t, err)
		assert.Equal(t, entity.NewGame("s1"), game)
	})

	t.Run("Returns the stored game", func(t *testing.T) {
		// Given: a session with a stored game
		manager, repo := newTestManager(t)
		stored := &entity.Game{ID: "s1", History: []entity.Board{{}, {entity.PlayerX}}, StepNumber: 1}
		repo.On("GetByID", mock.Anything, "s1").Return(stored, nil).Once()

		// When: the game is requested
		game, err := manager.GetOrCreateGame(ctx, "s1")

		// Then: the stored game is returned without saving
		require.NoError(t, err)
		assert.Same(t, stored, game)
	})

	t.Run("Returns storage errors", func(t *testing.T) {
		// Given: a failing repository
		manager, repo := newTestManager(t)
		repo.On("GetByID", mock.Anything, "s1").Return(nil, errRedisDown).Once()

		// When: the game is requested
		game, err := manager.GetOrCreateGame(ctx, "s1")

		// Then: the error is wrapped and returned
		require.ErrorIs(t, err, errRedisDown)
		assert.Nil(t, game)
	})

	t.Run("Returns save errors for a new game", func(t *testing.T) {
		// Given: a repository that cannot save
		manager, repo := newTestManager(t)
		repo.On("GetByID", mock.Anything, "s1").Return(nil, repository.ErrGameNotFound).Once()
		repo.On("CreateOrUpdate", mock.Anything, mock.AnythingOfType("*entity.Game")).Return(errRedisDown).Once()

		// When: the game is requested
		_, err := manager.GetOrCreateGame(ctx, "s1")

		// Then: the error is returned
		require.ErrorIs(t, err, errRedisDown)
	})
}

func TestGameManager_MakeMove(t *testing.T) {
	ctx := context.Background()

	t.Run("Saves the new snapshot", func(t *testing.T) {
		// Given: a new game
		manager, repo := newTestManager(t)
		repo.On("GetByID", mock.Anything, "s1").Return(entity.NewGame("s1"), nil).Once()

		expected := &entity.Game{ID: "s1", History: []entity.Board{{}, {entity.PlayerX}}, StepNumber: 1}
		repo.On("CreateOrUpdate", mock.Anything, expected).Return(nil).Once()

		// When: cell 0 is clicked
		game, err := manager.MakeMove(ctx, "s1", 0)

		// Then: the moved game is saved and returned
		require.NoError(t, err)
		assert.Equal(t, expected, game)
	})

	t.Run("Ignored move is not saved", func(t *testing.T) {
		// Given: a game where cell 0 is taken
		manager, repo := newTestManager(t)
		stored := &entity.Game{ID: "s1", History: []entity.Board{{}, {entity.PlayerX}}, StepNumber: 1}
		repo.On("GetByID", mock.Anything, "s1").Return(stored, nil).Once()

		// When: cell 0 is clicked again
		game, err := manager.MakeMove(ctx, "s1", 0)

		// Then: the game is returned unchanged and nothing is saved
		require.NoError(t, err)
		assert.Same(t, stored, game)
		repo.AssertNotCalled(t, "CreateOrUpdate", mock.Anything, mock.Anything)
	})

	t.Run("Invalid cell", func(t *testing.T) {
		// Given: a new game
		manager, repo := newTestManager(t)
		repo.On("GetByID", mock.Anything, "s1").Return(entity.NewGame("s1"), nil).Once()

		// When: an out of range cell is clicked
		_, err := manager.MakeMove(ctx, "s1", 42)

		// Then: ErrInvalidCell is returned
		require.ErrorIs(t, err, apperror.ErrInvalidCell)
	})

	t.Run("Save failure", func(t *testing.T) {
		// Given: a repository that cannot save
		manager, repo := newTestManager(t)
		repo.On("GetByID", mock.Anything, "s1").Return(entity.NewGame("s1"), nil).Once()
		repo.On("CreateOrUpdate", mock.Anything, mock.Anything).Return(errRedisDown).Once()

		// When: a move is made
		game, err := manager.MakeMove(ctx, "s1", 4)

		// Then: the error is returned
		require.ErrorIs(t, err, errRedisDown)
		assert.Nil(t, game)
	})
}

func TestGameManager_JumpTo(t *testing.T) {
	ctx := context.Background()

	t.Run("Saves the new step pointer", func(t *testing.T) {
		// Given: a game with two moves
		manager, repo := newTestManager(t)
		history := []entity.Board{{}, {entity.PlayerX}, {entity.PlayerX, entity.PlayerO}}
		repo.On("GetByID", mock.Anything, "s1").Return(&entity.Game{ID: "s1", History: history, StepNumber: 2}, nil).Once()

		expected := &entity.Game{ID: "s1", History: history, StepNumber: 0}
		repo.On("CreateOrUpdate", mock.Anything, expected).Return(nil).Once()

		// When: jumping to the game start
		game, err := manager.JumpTo(ctx, "s1", 0)

		// Then: history is kept and X is to move
		require.NoError(t, err)
		assert.Equal(t, expected, game)
		assert.Equal(t, entity.PlayerX, game.NextMark())
	})

	t.Run("Out of range step", func(t *testing.T) {
		// Given: a new game
		manager, repo := newTestManager(t)
		repo.On("GetByID", mock.Anything, "s1").Return(entity.NewGame("s1"), nil).Once()

		// When: jumping to a step that does not exist
		game, err := manager.JumpTo(ctx, "s1", 3)

		// Then: ErrInvalidStep is returned with the unchanged game
		require.ErrorIs(t, err, apperror.ErrInvalidStep)
		assert.Equal(t, entity.NewGame("s1"), game)
	})
}

func TestGameManager_Reset(t *testing.T) {
	ctx := context.Background()

	t.Run("Stores a fresh game", func(t *testing.T) {
		// Given: any session
		manager, repo := newTestManager(t)
		repo.On("CreateOrUpdate", mock.Anything, entity.NewGame("s1")).Return(nil).Once()

		// When: the game is reset
		game, err := manager.Reset(ctx, "s1")

		// Then: a single empty snapshot with X to move is stored
		require.NoError(t, err)
		assert.Equal(t, entity.NewGame("s1"), game)
	})

	t.Run("Save failure", func(t *testing.T) {
		manager, repo := newTestManager(t)
		repo.On("CreateOrUpdate", mock.Anything, mock.Anything).Return(errRedisDown).Once()

		_, err := manager.Reset(ctx, "s1")
		require.ErrorIs(t, err, errRedisDown)
	})
}

func TestGameManager_WithMemoryRepository(t *testing.T) {
	ctx := context.Background()
	counters := metrics.New(nil)
	manager := NewGameManager(slog.New(slog.NewJSONHandler(io.Discard, nil)), repository.NewMemoryGameRepository(), counters)

	// Given: a game played through the top row for X
	var (
		game *entity.Game
		err  error
	)
	for _, cell := range []int{0, 4, 1, 3, 2} {
		game, err = manager.MakeMove(ctx, "local", cell)
		require.NoError(t, err)
	}

	// Then: X wins and further moves are ignored
	assert.Equal(t, "Winner: X", game.Status())

	game, err = manager.MakeMove(ctx, "local", 8)
	require.NoError(t, err)
	assert.Len(t, game.History, 6)

	// When: jumping back and playing a different move
	_, err = manager.JumpTo(ctx, "local", 2)
	require.NoError(t, err)
	game, err = manager.MakeMove(ctx, "local", 8)
	require.NoError(t, err)

	// Then: the redo branch is gone
	assert.Len(t, game.History, 4)
	assert.Equal(t, 3, game.StepNumber)
	assert.Equal(t, "Current player: O", game.Status())

	// When: the game is reset
	game, err = manager.Reset(ctx, "local")
	require.NoError(t, err)

	// Then: the stored game is back to the start
	stored, err := manager.GetOrCreateGame(ctx, "local")
	require.NoError(t, err)
	assert.Equal(t, game, stored)
	assert.Len(t, stored.History, 1)

	// Then: every transition was counted once
	assert.InDelta(t, 1, testutil.ToFloat64(counters.GamesCreated), 0)
	assert.InDelta(t, 6, testutil.ToFloat64(counters.Moves.WithLabelValues(metrics.ResultApplied)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(counters.Moves.WithLabelValues(metrics.ResultIgnored)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(counters.Wins.WithLabelValues(entity.PlayerX)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(counters.Jumps.WithLabelValues(metrics.ResultApplied)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(counters.Resets), 0)
}
