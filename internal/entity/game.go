package entity

import "strconv"

const (
	StatusWinnerPrefix  = "Winner: "
	StatusCurrentPrefix = "Current player: "

	GameStartDescription = "Go to game start"
	MoveDescriptionStart = "Go to move #"
)

// Game - the whole state of one game: every board seen so far and the step being looked at.
// Turn, winner and status are never stored; they are always derived from History and StepNumber.
type Game struct {
	ID         string  `json:"id"`
	History    []Board `json:"history"`
	StepNumber int     `json:"step_number"`
}

// Move - one entry of the move list.
type Move struct {
	Step        int    `json:"step"`
	Description string `json:"description"`
}

func NewGame(id string) *Game {
	return &Game{
		ID:         id,
		History:    []Board{{}},
		StepNumber: 0,
	}
}

// Current - the snapshot selected by the step pointer.
func (that *Game) Current() Board {
	return that.History[that.StepNumber]
}

func (that *Game) Winner() string {
	return CalculateWinner(that.Current())
}

func (that *Game) HasWinner() bool {
	return that.Winner() != EmptyCell
}

func (that *Game) XIsNext() bool {
	return that.StepNumber%2 == 0
}

// NextMark - the mark placed by the next move from the current step.
func (that *Game) NextMark() string {
	if that.XIsNext() {
		return PlayerX
	}
	return PlayerO
}

// Status - text for the status line.
func (that *Game) Status() string {
	if winner := that.Winner(); winner != EmptyCell {
		return StatusWinnerPrefix + winner
	}

	return StatusCurrentPrefix + that.NextMark()
}

// Moves - one entry per snapshot in history.
func (that *Game) Moves() []Move {
	moves := make([]Move, 0, len(that.History))
	for step := range that.History {
		moves = append(moves, Move{Step: step, Description: MoveDescription(step)})
	}

	return moves
}

func (that *Game) IsValidStep(step int) bool {
	return step >= 0 && step < len(that.History)
}

func MoveDescription(step int) string {
	if step == 0 {
		return GameStartDescription
	}
	return MoveDescriptionStart + strconv.Itoa(step)
}
