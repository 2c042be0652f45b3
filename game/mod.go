package game

import (
	"errors"
	"fmt"
)

// Players is the only supported player count.
const Players = 2

var (
	ErrUnsupportedConfiguration = errors.New("unsupported configuration")
	ErrOutOfBounds              = errors.New("coordinate out of bounds")
	ErrOffboard                 = errors.New("cell is off the board")
	ErrInvalidCell              = errors.New("invalid cell value")
	ErrNotOccupied              = errors.New("cell is not occupied")
	ErrIllegalMove              = errors.New("illegal move")
)

// Player identifies one side of the game. None is used for "no winner".
type Player uint8

const (
	None Player = iota
	Player1
	Player2
)

// Opponent returns the other side in a two-player game.
func (p Player) Opponent() Player {
	switch p {
	case Player1:
		return Player2
	case Player2:
		return Player1
	default:
		return None
	}
}

func (p Player) String() string {
	switch p {
	case Player1:
		return "player1"
	case Player2:
		return "player2"
	default:
		return "none"
	}
}

// Cell is the content of one lattice position: Offboard, Empty or Occupied(player).
type Cell uint8

const (
	Offboard Cell = iota
	Empty
)

// Occupied returns the cell value for a piece owned by p.
func Occupied(p Player) Cell {
	return Empty + Cell(p)
}

// Player returns the owner of the piece on the cell, or None.
func (c Cell) Player() Player {
	if c > Empty {
		return Player(c - Empty)
	}
	return None
}

// IsOccupied reports whether a piece (of either player) stands on the cell.
func (c Cell) IsOccupied() bool {
	return c > Empty
}

func (c Cell) valid() bool {
	return c <= Occupied(Player2)
}

func (c Cell) String() string {
	switch c {
	case Offboard:
		return "offboard"
	case Empty:
		return "empty"
	default:
		return c.Player().String()
	}
}

// Coord is a cartesian lattice coordinate; (0, 0) is the bottom left corner.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Valid reports whether the coordinate lies inside the grid.
func (c Coord) Valid() bool {
	return c.X >= 0 && c.X < Width && c.Y >= 0 && c.Y < Height
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

func (c Coord) index() int {
	return c.Y*Width + c.X
}

func coordOf(i int) Coord {
	return Coord{X: i % Width, Y: i / Width}
}

// Move moves the piece at From to To. A move is only meaningful when To is in
// the legal destinations of From at the time it is applied.
type Move struct {
	From Coord `json:"from"`
	To   Coord `json:"to"`
}

func (m Move) String() string {
	return m.From.String() + "->" + m.To.String()
}
