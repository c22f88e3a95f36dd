// Package terminal draws the game on a tcell screen and drives it from the
// keyboard.
package terminal

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gdamore/tcell/v2"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/view"
)

const helpLine = "arrows/hjkl move  space place  [ ] back/forward  g/G start/end  r new  q quit"

// UI owns one game. All calls on the controller happen on the goroutine
// running Run.
type UI struct {
	logger *slog.Logger
	screen tcell.Screen

	boardSize int
	game      *tictactoe.GameController

	selRow int
	selCol int
}

func NewScreen() (tcell.Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("could not create screen: %w", err)
	}

	return screen, nil
}

func New(logger *slog.Logger, screen tcell.Screen, boardSize int) (*UI, error) {
	game, err := tictactoe.NewGameController(boardSize)
	if err != nil {
		return nil, fmt.Errorf("could not create game: %w", err)
	}

	return &UI{
		logger:    logger.With("component", "terminal"),
		screen:    screen,
		boardSize: boardSize,
		game:      game,
	}, nil
}

// Init - prepares the screen. Run finalizes it.
func (that *UI) Init() error {
	if err := that.screen.Init(); err != nil {
		return fmt.Errorf("could not init screen: %w", err)
	}

	that.screen.HideCursor()

	return nil
}

// Run - processes key events until the user quits or ctx is cancelled.
func (that *UI) Run(ctx context.Context) error {
	log := that.logger.With("method", "Run")

	defer that.screen.Fini()

	stop := make(chan struct{})
	defer close(stop)

	go func() {
		select {
		case <-ctx.Done():
			_ = that.screen.PostEvent(tcell.NewEventInterrupt(nil))
		case <-stop:
		}
	}()

	that.draw()

	for {
		switch event := that.screen.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventInterrupt:
			log.Info("interrupted")
			return nil
		case *tcell.EventResize:
			that.screen.Sync()
		case *tcell.EventKey:
			if that.handleKey(event) {
				log.Info("quit")
				return nil
			}
		}

		that.draw()
	}
}

// handleKey - applies one key press and reports whether the user quit.
func (that *UI) handleKey(event *tcell.EventKey) bool {
	switch event.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyUp:
		that.moveSelection(-1, 0)
	case tcell.KeyDown:
		that.moveSelection(1, 0)
	case tcell.KeyLeft:
		that.moveSelection(0, -1)
	case tcell.KeyRight:
		that.moveSelection(0, 1)
	case tcell.KeyEnter:
		that.place()
	case tcell.KeyRune:
		return that.handleRune(event.Rune())
	}

	return false
}

func (that *UI) handleRune(r rune) bool {
	switch r {
	case 'q':
		return true
	case 'k':
		that.moveSelection(-1, 0)
	case 'j':
		that.moveSelection(1, 0)
	case 'h':
		that.moveSelection(0, -1)
	case 'l':
		that.moveSelection(0, 1)
	case ' ':
		that.place()
	case '[':
		that.jump(that.game.Cursor() - 1)
	case ']':
		that.jump(that.game.Cursor() + 1)
	case 'g':
		that.jump(0)
	case 'G':
		that.jump(that.game.MoveCount() - 1)
	case 'r':
		that.reset()
	}

	return false
}

func (that *UI) moveSelection(dRow, dCol int) {
	last := that.game.Size() - 1
	that.selRow = clamp(that.selRow+dRow, 0, last)
	that.selCol = clamp(that.selCol+dCol, 0, last)
}

func (that *UI) place() {
	if _, err := that.game.AttemptMove(that.selRow, that.selCol); err != nil {
		that.ignore("place", err)
	}
}

func (that *UI) jump(index int) {
	if err := that.game.RequestJump(index); err != nil {
		that.ignore("jump", err)
	}
}

func (that *UI) reset() {
	game, err := tictactoe.NewGameController(that.boardSize)
	if err != nil {
		that.logger.Error("could not start new game", "error", err)
		return
	}

	that.game = game
}

func (that *UI) ignore(action string, err error) {
	that.logger.Debug("rejected", "action", action, "reason", err)
}

func (that *UI) draw() {
	board := view.Build(that.game)
	that.screen.Clear()

	render(that.screen, board, that.selRow, that.selCol)

	that.screen.Show()
}

func clamp(value, low, high int) int {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
