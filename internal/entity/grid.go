package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/apperror"
)

// Grid is an immutable square board snapshot stored row-major.
// The zero value is an empty 0x0 grid and is not a valid board.
type Grid struct {
	size  int
	cells []Cell
}

// NewGrid - creates an empty size x size grid.
func NewGrid(size int) (Grid, error) {
	if size < 1 {
		return Grid{}, fmt.Errorf("%w: %d", apperror.ErrInvalidBoardSize, size)
	}

	return Grid{
		size:  size,
		cells: make([]Cell, size*size),
	}, nil
}

// GridFromRows builds a grid from a square matrix. Used by tests and renderers
// that need a fixed position.
func GridFromRows(rows [][]Cell) (Grid, error) {
	grid, err := NewGrid(len(rows))
	if err != nil {
		return Grid{}, err
	}

	for r, row := range rows {
		if len(row) != grid.size {
			return Grid{}, fmt.Errorf("%w: row %d has %d cells, want %d", apperror.ErrInvalidBoardSize, r, len(row), grid.size)
		}
		copy(grid.cells[r*grid.size:], row)
	}

	return grid, nil
}

func (that Grid) Size() int { return that.size }

func (that Grid) Rows() int { return that.size }

func (that Grid) Cols() int { return that.size }

func (that Grid) InBounds(row, col int) bool {
	return row >= 0 && row < that.size && col >= 0 && col < that.size
}

// At returns the cell at row, col. Coordinates outside the grid read as Empty.
func (that Grid) At(row, col int) Cell {
	if !that.InBounds(row, col) {
		return Empty
	}
	return that.cells[row*that.size+col]
}

// With returns a new grid equal to this one except for the cell at row, col.
// The receiver is never modified.
func (that Grid) With(row, col int, cell Cell) (Grid, error) {
	if !that.InBounds(row, col) {
		return Grid{}, fmt.Errorf("%w: row %d col %d", apperror.ErrOutOfBounds, row, col)
	}

	next := Grid{
		size:  that.size,
		cells: make([]Cell, len(that.cells)),
	}
	copy(next.cells, that.cells)
	next.cells[row*that.size+col] = cell

	return next, nil
}

// Cells returns a copy of the board as a matrix.
func (that Grid) Cells() [][]Cell {
	out := make([][]Cell, that.size)
	for r := range out {
		out[r] = make([]Cell, that.size)
		copy(out[r], that.cells[r*that.size:(r+1)*that.size])
	}
	return out
}

func (that Grid) Equal(other Grid) bool {
	if that.size != other.size {
		return false
	}
	for i, cell := range that.cells {
		if other.cells[i] != cell {
			return false
		}
	}
	return true
}

// IsEmpty reports whether no cell holds a mark.
func (that Grid) IsEmpty() bool {
	for _, cell := range that.cells {
		if cell != Empty {
			return false
		}
	}
	return true
}

// diff returns the indexes at which two same-sized grids differ.
func (that Grid) diff(other Grid) []int {
	var changed []int
	for i, cell := range that.cells {
		if other.cells[i] != cell {
			changed = append(changed, i)
		}
	}
	return changed
}
