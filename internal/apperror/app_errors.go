package apperror

import "errors"

var (
	ErrCellOccupied   = errors.New("cell is already occupied")
	ErrGameAlreadyWon = errors.New("game is already won")
	ErrOutOfBounds    = errors.New("cell is out of bounds")
	ErrOutOfRange     = errors.New("move index is out of range")

	ErrInvalidBoardSize = errors.New("invalid board size")
	ErrInvalidSnapshot  = errors.New("snapshot must fill exactly one empty cell")
	ErrSessionNotFound  = errors.New("session not found")
)
