package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
	"github.com/rocketscienceinc/tictactoe-history/internal/view"
)

const (
	ActionState = "game:state"
	ActionMove  = "game:move"
	ActionJump  = "game:jump"
	ActionReset = "game:reset"
	ActionError = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// RequestPayload - arguments of game:move and game:jump. Pointers tell a missing field from zero.
type RequestPayload struct {
	Cell *int `json:"cell,omitempty"`
	Step *int `json:"step,omitempty"`
}

type ResponsePayload struct {
	Game  *entity.Game `json:"game,omitempty"`
	View  *view.Page   `json:"view,omitempty"`
	Error string       `json:"error,omitempty"`
}

func newResponsePayload(game *entity.Game) ResponsePayload {
	payload := ResponsePayload{Game: game}
	if game != nil {
		page := view.Render(game)
		payload.View = &page
	}

	return payload
}
