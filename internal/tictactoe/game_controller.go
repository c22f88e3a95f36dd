package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-timetravel/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-timetravel/internal/entity"
)

const DefaultBoardSize = 4

const (
	labelGameStart = "Go to game start"
	labelMove      = "Go to move #%d"
)

// State is derived from the current snapshot, never stored.
type State int

const (
	InProgress State = iota
	Won
)

func (that State) String() string {
	if that == Won {
		return "won"
	}
	return "in_progress"
}

// Status is the display data for the status line.
type Status struct {
	Won    bool
	Winner entity.Cell
	Next   entity.Cell
}

func (that Status) Text() string {
	if that.Won {
		return "Winner: " + that.Winner.String()
	}
	return "Next player: " + that.Next.String()
}

// Move is one entry of the move list.
type Move struct {
	Index   int
	Label   string
	Current bool
}

// GameController applies moves and jumps to a single game's history.
// It is not safe for concurrent use; callers serialize access.
type GameController struct {
	history *entity.GameHistory
}

// NewGameController - creates a controller for an empty size x size board.
func NewGameController(size int) (*GameController, error) {
	grid, err := entity.NewGrid(size)
	if err != nil {
		return nil, fmt.Errorf("could not create board: %w", err)
	}

	return &GameController{
		history: entity.NewGameHistory(grid),
	}, nil
}

// AttemptMove - places the mark of the player to move at row, col and returns
// the new grid. A rejected move leaves the history untouched.
func (that *GameController) AttemptMove(row, col int) (entity.Grid, error) {
	current := that.history.Current()

	if err := validateMove(current, row, col); err != nil {
		return entity.Grid{}, err
	}

	next, err := current.With(row, col, that.history.TurnParity())
	if err != nil {
		return entity.Grid{}, fmt.Errorf("could not place mark: %w", err)
	}

	if err = that.history.Append(next); err != nil {
		return entity.Grid{}, fmt.Errorf("could not record move: %w", err)
	}

	return next, nil
}

// validateMove - checks, in order, for a finished game, bounds and occupancy.
func validateMove(grid entity.Grid, row, col int) error {
	if winner, ok := DetectWinner(grid); ok {
		return fmt.Errorf("%w: winner %s", apperror.ErrGameAlreadyWon, winner)
	}

	if !grid.InBounds(row, col) {
		return fmt.Errorf("%w: row %d col %d on %dx%d board", apperror.ErrOutOfBounds, row, col, grid.Rows(), grid.Cols())
	}

	if grid.At(row, col) != entity.Empty {
		return fmt.Errorf("%w: row %d col %d", apperror.ErrCellOccupied, row, col)
	}

	return nil
}

// RequestJump - shows the snapshot at index. Allowed in any state.
func (that *GameController) RequestJump(index int) error {
	if err := that.history.JumpTo(index); err != nil {
		return fmt.Errorf("could not jump: %w", err)
	}
	return nil
}

func (that *GameController) Status() Status {
	winner, ok := DetectWinner(that.history.Current())

	return Status{
		Won:    ok,
		Winner: winner,
		Next:   that.history.TurnParity(),
	}
}

func (that *GameController) State() State {
	if _, ok := DetectWinner(that.history.Current()); ok {
		return Won
	}
	return InProgress
}

func (that *GameController) Current() entity.Grid {
	return that.history.Current()
}

func (that *GameController) Cursor() int {
	return that.history.Cursor()
}

func (that *GameController) MoveCount() int {
	return that.history.MoveCount()
}

func (that *GameController) Size() int {
	return that.history.Current().Size()
}

// Moves - returns the move list, one entry per history index.
func (that *GameController) Moves() []Move {
	moves := make([]Move, that.history.MoveCount())
	for i := range moves {
		moves[i] = Move{
			Index:   i,
			Label:   MoveLabel(i),
			Current: i == that.history.Cursor(),
		}
	}
	return moves
}

func MoveLabel(index int) string {
	if index == 0 {
		return labelGameStart
	}
	return fmt.Sprintf(labelMove, index)
}
