package entity

// Cell is the content of one board square.
type Cell uint8

const (
	Empty Cell = iota
	MarkX
	MarkO
)

const (
	PlayerX = "X"
	PlayerO = "O"
)

func (that Cell) String() string {
	switch that {
	case MarkX:
		return PlayerX
	case MarkO:
		return PlayerO
	default:
		return ""
	}
}

// IsMark reports whether the cell holds a player's mark.
func (that Cell) IsMark() bool {
	return that == MarkX || that == MarkO
}
