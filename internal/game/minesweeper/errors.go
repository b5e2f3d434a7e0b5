package minesweeper

import "errors"

var (
	ErrOutOfBounds  = errors.New("minesweeper: cell is outside the grid")
	ErrCellRevealed = errors.New("minesweeper: cell is already revealed")
	ErrCellFlagged  = errors.New("minesweeper: cell is flagged")
	ErrGameOver     = errors.New("minesweeper: game is over")
)
