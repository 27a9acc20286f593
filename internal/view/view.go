// Package view turns a game into what the web page and the terminal UI draw.
// Nothing here is stored: a page is rebuilt from the game on every render.
package view

import (
	"strings"

	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
)

const (
	BoardRows = 3
	BoardCols = 3

	ResetLabel = "Reset Game"

	squareClass     = "square"
	circleClass     = "circle"
	boardClass      = "game-board"
	winnerClassPart = "winner-"
)

// Square - one cell as the player sees it.
type Square struct {
	Index      int    `json:"index"`
	Value      string `json:"value"`
	ClassNames string `json:"class_names"`
}

type Board struct {
	ClassNames string                       `json:"class_names"`
	Rows       [BoardRows][BoardCols]Square `json:"rows"`
}

type MoveButton struct {
	Step        int    `json:"step"`
	Description string `json:"description"`
	Current     bool   `json:"current"`
}

type Page struct {
	Board      Board        `json:"board"`
	Status     string       `json:"status"`
	Winner     string       `json:"winner,omitempty"`
	NextPlayer string       `json:"next_player,omitempty"`
	Moves      []MoveButton `json:"moves"`
	ResetLabel string       `json:"reset_label"`
}

func Render(game *entity.Game) Page {
	winner := game.Winner()

	page := Page{
		Board:      RenderBoard(game.Current(), winner),
		Status:     game.Status(),
		Winner:     winner,
		Moves:      RenderMoves(game),
		ResetLabel: ResetLabel,
	}

	if winner == entity.EmptyCell {
		page.NextPlayer = game.NextMark()
	}

	return page
}

// RenderBoard - lays the snapshot out in rows; the board class names the winner, if any.
func RenderBoard(board entity.Board, winner string) Board {
	result := Board{ClassNames: boardClass}
	if winner != entity.EmptyCell {
		result.ClassNames += " " + winnerClassPart + strings.ToLower(winner)
	}

	for i, value := range board {
		result.Rows[i/BoardCols][i%BoardCols] = RenderSquare(i, value)
	}

	return result
}

func RenderSquare(index int, value string) Square {
	classNames := squareClass
	if value == entity.PlayerO {
		classNames += " " + circleClass
	}

	return Square{
		Index:      index,
		Value:      value,
		ClassNames: classNames,
	}
}

func RenderMoves(game *entity.Game) []MoveButton {
	moves := game.Moves()

	buttons := make([]MoveButton, 0, len(moves))
	for _, move := range moves {
		buttons = append(buttons, MoveButton{
			Step:        move.Step,
			Description: move.Description,
			Current:     move.Step == game.StepNumber,
		})
	}

	return buttons
}
