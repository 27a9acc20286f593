// Package terminal draws the game with tview and feeds keyboard and mouse input back to the game manager.
package terminal

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/rocketscienceinc/tictactoe-history/internal/entity"
	"github.com/rocketscienceinc/tictactoe-history/internal/view"
)

const (
	squareWidth  = 7
	squareHeight = 3

	hintText = "  [dimgray]1-9[-] place  [dimgray]r[-] reset  [dimgray]q[-] quit"
)

type gameManager interface {
	GetOrCreateGame(ctx context.Context, sessionID string) (*entity.Game, error)
	MakeMove(ctx context.Context, sessionID string, cell int) (*entity.Game, error)
	JumpTo(ctx context.Context, sessionID string, step int) (*entity.Game, error)
	Reset(ctx context.Context, sessionID string) (*entity.Game, error)
}

// UI - the board, the status line and the move list of one local game.
type UI struct {
	ctx         context.Context
	app         *tview.Application
	logger      *slog.Logger
	gameManager gameManager
	sessionID   string

	root    *tview.Flex
	board   *tview.Grid
	squares [entity.BoardSize]*tview.Button
	status  *tview.TextView
	moves   *tview.List
	hint    *tview.TextView
}

func New(ctx context.Context, app *tview.Application, logger *slog.Logger, gameManager gameManager, sessionID string) *UI {
	ui := &UI{
		ctx:         ctx,
		app:         app,
		logger:      logger.With("component", "terminal"),
		gameManager: gameManager,
		sessionID:   sessionID,
	}

	ui.board = tview.NewGrid().
		SetRows(squareHeight, squareHeight, squareHeight).
		SetColumns(squareWidth, squareWidth, squareWidth)
	ui.board.SetBorder(true)

	for i := range ui.squares {
		cell := i
		button := tview.NewButton("")
		button.SetSelectedFunc(func() {
			ui.makeMove(cell)
		})
		ui.squares[i] = button
		ui.board.AddItem(button, cell/view.BoardCols, cell%view.BoardCols, 1, 1, 0, 0, cell == 0)
	}

	ui.status = tview.NewTextView()
	ui.status.SetDynamicColors(true)

	ui.moves = tview.NewList()
	ui.moves.SetBorder(true)
	ui.moves.SetTitle(" Moves ")
	ui.moves.ShowSecondaryText(false)
	ui.moves.SetHighlightFullLine(true)

	ui.hint = tview.NewTextView()
	ui.hint.SetDynamicColors(true)
	ui.hint.SetText(hintText)

	info := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(ui.status, 1, 0, false).
		AddItem(ui.moves, 0, 1, false)

	game := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(ui.board, view.BoardCols*squareWidth+2, 0, true).
		AddItem(info, 0, 1, false)

	ui.root = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(game, view.BoardRows*squareHeight+2, 0, true).
		AddItem(ui.hint, 1, 0, false)

	return ui
}

// Root - the primitive to hand to the application.
func (that *UI) Root() tview.Primitive {
	return that.root
}

// Load - draws the session's game, creating it on first use.
func (that *UI) Load() error {
	game, err := that.gameManager.GetOrCreateGame(that.ctx, that.sessionID)
	if err != nil {
		return fmt.Errorf("failed to load game: %w", err)
	}

	that.render(game)

	return nil
}

// HandleInput - global key bindings.
func (that *UI) HandleInput(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyEscape:
		that.app.Stop()
		return nil
	case tcell.KeyRune:
		switch r := event.Rune(); {
		case r >= '1' && r <= '9':
			that.makeMove(int(r - '1'))
			return nil
		case r == 'r':
			that.reset()
			return nil
		case r == 'q':
			that.app.Stop()
			return nil
		}
	}

	return event
}

func (that *UI) makeMove(cell int) {
	game, err := that.gameManager.MakeMove(that.ctx, that.sessionID, cell)
	that.apply("makeMove", game, err)
}

func (that *UI) jumpTo(step int) {
	game, err := that.gameManager.JumpTo(that.ctx, that.sessionID, step)
	that.apply("jumpTo", game, err)
}

func (that *UI) reset() {
	game, err := that.gameManager.Reset(that.ctx, that.sessionID)
	that.apply("reset", game, err)
}

func (that *UI) apply(method string, game *entity.Game, err error) {
	if err != nil {
		that.logger.Error("failed to apply action", "method", method, "error", err)
		that.status.SetText("[red]" + err.Error())
		return
	}

	that.render(game)
}

// render - redraws every widget from the game. Nothing is kept between renders.
func (that *UI) render(game *entity.Game) {
	page := view.Render(game)

	that.board.SetTitle(" " + page.Board.ClassNames + " ")
	that.board.SetBorderColor(boardColor(page.Winner))

	for _, row := range page.Board.Rows {
		for _, square := range row {
			button := that.squares[square.Index]
			button.SetLabel(square.Value)
			button.SetLabelColor(markColor(square.Value))
		}
	}

	that.status.SetText(page.Status)

	that.moves.Clear()
	for _, move := range page.Moves {
		step := move.Step
		that.moves.AddItem(move.Description, "", 0, func() {
			that.jumpTo(step)
		})
	}
	that.moves.AddItem(page.ResetLabel, "", 0, that.reset)
	that.moves.SetCurrentItem(game.StepNumber)
}

func markColor(value string) tcell.Color {
	switch value {
	case entity.PlayerX:
		return tcell.ColorGreen
	case entity.PlayerO:
		return tcell.ColorRed
	default:
		return tcell.ColorWhite
	}
}

func boardColor(winner string) tcell.Color {
	if winner == entity.EmptyCell {
		return tcell.ColorWhite
	}
	return markColor(winner)
}
