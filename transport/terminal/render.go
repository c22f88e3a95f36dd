package terminal

import (
	"github.com/gdamore/tcell/v2"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/view"
)

const (
	cellWidth  = 3
	boardTop   = 2
	emptyGlyph = '.'
)

type canvas interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
}

// render - draws status, grid, move list and help, top to bottom.
func render(screen canvas, board view.Board, selRow, selCol int) {
	statusStyle := tcell.StyleDefault
	if board.Won {
		statusStyle = statusStyle.Bold(true)
	}
	drawText(screen, 0, 0, statusStyle, board.Status)

	y := boardTop
	for r, row := range board.Rows {
		x := 0
		for c, square := range row {
			style := tcell.StyleDefault
			if r == selRow && c == selCol {
				style = style.Reverse(true)
			}

			glyph := emptyGlyph
			if !square.Empty {
				glyph = []rune(square.Mark)[0]
			}

			screen.SetContent(x, y, ' ', nil, style)
			screen.SetContent(x+1, y, glyph, nil, style)
			screen.SetContent(x+2, y, ' ', nil, style)
			x += cellWidth

			if c < len(row)-1 {
				screen.SetContent(x, y, '|', nil, tcell.StyleDefault)
				x++
			}
		}
		y++
	}

	y++
	for _, move := range board.Moves {
		prefix := "  "
		style := tcell.StyleDefault
		if move.Current {
			prefix = "> "
			style = style.Bold(true)
		}
		drawText(screen, 0, y, style, prefix+move.Label)
		y++
	}

	drawText(screen, 0, y+1, tcell.StyleDefault.Dim(true), helpLine)
}

func drawText(screen canvas, x, y int, style tcell.Style, text string) {
	for _, r := range text {
		screen.SetContent(x, y, r, nil, style)
		x++
	}
}
