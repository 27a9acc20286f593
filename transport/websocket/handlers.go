package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
)

var (
	ErrCellRequired = errors.New("cell is required")
	ErrStepRequired = errors.New("step is required")

	errInvalidPayload = errors.New("invalid payload")
)

func (that *Server) handleState(ctx context.Context, sessionID string, _ *Message) (*entity.Game, error) {
	game, err := that.gameManager.GetOrCreateGame(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

func (that *Server) handleMove(ctx context.Context, sessionID string, msg *Message) (*entity.Game, error) {
	payload, err := decodePayload(msg)
	if err != nil {
		return nil, err
	}

	if payload.Cell == nil {
		return nil, ErrCellRequired
	}

	return that.gameManager.MakeMove(ctx, sessionID, *payload.Cell)
}

func (that *Server) handleJump(ctx context.Context, sessionID string, msg *Message) (*entity.Game, error) {
	payload, err := decodePayload(msg)
	if err != nil {
		return nil, err
	}

	if payload.Step == nil {
		return nil, ErrStepRequired
	}

	return that.gameManager.JumpTo(ctx, sessionID, *payload.Step)
}

func (that *Server) handleReset(ctx context.Context, sessionID string, _ *Message) (*entity.Game, error) {
	return that.gameManager.Reset(ctx, sessionID)
}

func decodePayload(msg *Message) (*RequestPayload, error) {
	var payload RequestPayload
	if len(msg.Payload) == 0 {
		return &payload, nil
	}

	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return nil, fmt.Errorf("%w: %w", errInvalidPayload, err)
	}

	return &payload, nil
}
