// Package view turns a game into plain display data for the renderers.
package view

import (
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/tictactoe"
)

// Source is the read side of a game controller.
type Source interface {
	Current() entity.Grid
	Status() tictactoe.Status
	Moves() []tictactoe.Move
}

// Square is one rendered board cell.
type Square struct {
	Row   int
	Col   int
	Mark  string
	Empty bool
}

// Board is everything a renderer needs to draw one frame.
type Board struct {
	Size   int
	Rows   [][]Square
	Status string
	Won    bool
	Moves  []tictactoe.Move
	Cursor int
}

// Build derives the board view from source. It has no side effects.
func Build(source Source) Board {
	grid := source.Current()
	status := source.Status()
	moves := source.Moves()

	cells := grid.Cells()
	rows := make([][]Square, len(cells))
	for r, line := range cells {
		rows[r] = make([]Square, len(line))
		for c, cell := range line {
			rows[r][c] = Square{
				Row:   r,
				Col:   c,
				Mark:  cell.String(),
				Empty: cell == entity.Empty,
			}
		}
	}

	cursor := 0
	for _, move := range moves {
		if move.Current {
			cursor = move.Index
		}
	}

	return Board{
		Size:   grid.Size(),
		Rows:   rows,
		Status: status.Text(),
		Won:    status.Won,
		Moves:  moves,
		Cursor: cursor,
	}
}
