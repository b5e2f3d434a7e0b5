package checkers

import "errors"

// Move errors. None of them change the board.
var (
	ErrBadPosition  = errors.New("invalid board position")
	ErrOutOfBounds  = errors.New("position is off the board")
	ErrNotYourToken = errors.New("origin is empty or belongs to the opponent")
	ErrOccupied     = errors.New("destination is occupied")
	ErrIllegalMove  = errors.New("move is not legal")
	ErrGameOver     = errors.New("game is over")
)
