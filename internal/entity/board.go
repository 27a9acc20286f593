package entity

const (
	PlayerX = "X"
	PlayerO = "O"

	EmptyCell = ""

	BoardSize = 9
)

// WinCombos - every row, column and diagonal of the board, in that order.
var WinCombos = [][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Board - one snapshot of the nine cells, indexed row by row.
type Board [BoardSize]string

// CalculateWinner - returns the mark that fills a whole line, or EmptyCell if there is none.
func CalculateWinner(board Board) string {
	for _, combo := range WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a != EmptyCell && a == b && b == c {
			return a
		}
	}

	return EmptyCell
}

// IsValidCell - reports whether cell addresses a square of the board.
func IsValidCell(cell int) bool {
	return cell >= 0 && cell < BoardSize
}

// With - returns a copy of the board with cell set to mark.
func (that Board) With(cell int, mark string) Board {
	that[cell] = mark
	return that
}

func (that Board) IsOccupied(cell int) bool {
	return that[cell] != EmptyCell
}
