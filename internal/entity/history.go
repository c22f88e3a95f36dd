package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/apperror"
)

// GameHistory is a linear list of board snapshots with a cursor on the one
// being shown. Index 0 is the initial grid, index i the grid after move i.
type GameHistory struct {
	snapshots []Grid
	cursor    int
}

func NewGameHistory(initial Grid) *GameHistory {
	return &GameHistory{
		snapshots: []Grid{initial},
		cursor:    0,
	}
}

// Current - returns the snapshot under the cursor.
func (that *GameHistory) Current() Grid {
	return that.snapshots[that.cursor]
}

// TurnParity - returns the mark to move: X on even cursors, O on odd ones.
func (that *GameHistory) TurnParity() Cell {
	if that.cursor%2 == 0 {
		return MarkX
	}
	return MarkO
}

func (that *GameHistory) Cursor() int {
	return that.cursor
}

func (that *GameHistory) MoveCount() int {
	return len(that.snapshots)
}

// Snapshot - returns the grid stored at index.
func (that *GameHistory) Snapshot(index int) (Grid, error) {
	if index < 0 || index >= len(that.snapshots) {
		return Grid{}, fmt.Errorf("%w: %d", apperror.ErrOutOfRange, index)
	}
	return that.snapshots[index], nil
}

// JumpTo - moves the cursor. History is left untouched.
func (that *GameHistory) JumpTo(index int) error {
	if index < 0 || index >= len(that.snapshots) {
		return fmt.Errorf("%w: %d not in [0, %d)", apperror.ErrOutOfRange, index, len(that.snapshots))
	}

	that.cursor = index

	return nil
}

// Truncate - drops every snapshot from index length onwards.
// The initial snapshot is never dropped.
func (that *GameHistory) Truncate(length int) error {
	if length < 1 || length > len(that.snapshots) {
		return fmt.Errorf("%w: cannot truncate to %d", apperror.ErrOutOfRange, length)
	}

	// release dropped grids for the collector
	for i := length; i < len(that.snapshots); i++ {
		that.snapshots[i] = Grid{}
	}
	that.snapshots = that.snapshots[:length]

	if that.cursor >= length {
		that.cursor = length - 1
	}

	return nil
}

// Append - discards the snapshots after the cursor, pushes grid and moves the
// cursor onto it. The grid must differ from Current in exactly one cell, which
// goes from Empty to a mark; otherwise nothing changes.
func (that *GameHistory) Append(grid Grid) error {
	if err := that.validateNext(grid); err != nil {
		return err
	}

	if err := that.Truncate(that.cursor + 1); err != nil {
		return fmt.Errorf("failed to truncate history: %w", err)
	}

	that.snapshots = append(that.snapshots, grid)
	that.cursor = len(that.snapshots) - 1

	return nil
}

func (that *GameHistory) validateNext(grid Grid) error {
	current := that.Current()

	if grid.Size() != current.Size() {
		return fmt.Errorf("%w: size %d, want %d", apperror.ErrInvalidSnapshot, grid.Size(), current.Size())
	}

	changed := current.diff(grid)
	if len(changed) != 1 {
		return fmt.Errorf("%w: %d cells changed", apperror.ErrInvalidSnapshot, len(changed))
	}

	idx := changed[0]
	if current.cells[idx] != Empty || !grid.cells[idx].IsMark() {
		return fmt.Errorf("%w: cell %d changed from %q to %q", apperror.ErrInvalidSnapshot, idx, current.cells[idx], grid.cells[idx])
	}

	return nil
}
