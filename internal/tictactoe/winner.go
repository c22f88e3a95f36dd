package tictactoe

import "github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"

// DetectWinner - scans rows, then columns, then the main diagonal, then the
// anti-diagonal, and returns the mark of the first line filled by one player.
func DetectWinner(grid entity.Grid) (entity.Cell, bool) {
	size := grid.Size()

	for r := 0; r < size; r++ {
		if mark, ok := checkLine(grid, r, 0, 0, 1); ok {
			return mark, true
		}
	}

	for c := 0; c < size; c++ {
		if mark, ok := checkLine(grid, 0, c, 1, 0); ok {
			return mark, true
		}
	}

	// diagonal(\)
	if mark, ok := checkLine(grid, 0, 0, 1, 1); ok {
		return mark, true
	}

	// diagonal(/)
	if mark, ok := checkLine(grid, 0, size-1, 1, -1); ok {
		return mark, true
	}

	return entity.Empty, false
}

// checkLine walks size cells from (row, col) in direction (dRow, dCol).
func checkLine(grid entity.Grid, row, col, dRow, dCol int) (entity.Cell, bool) {
	size := grid.Size()
	if size == 0 {
		return entity.Empty, false
	}

	first := grid.At(row, col)
	if first == entity.Empty {
		return entity.Empty, false
	}

	for i := 1; i < size; i++ {
		if grid.At(row+i*dRow, col+i*dCol) != first {
			return entity.Empty, false
		}
	}

	return first, true
}
