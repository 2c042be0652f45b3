package game

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Board holds the occupancy of every lattice cell. It is a fixed-size value so
// that Clone is a single copy with no shared state.
type Board struct {
	cells   [Size]Cell
	players int
}

// NewBoard returns a board with the initial layout. Only two players are supported.
func NewBoard(players int) (*Board, error) {
	if players != Players {
		return nil, fmt.Errorf("%w: %d players (only %d supported)", ErrUnsupportedConfiguration, players, Players)
	}
	b := &Board{players: players}
	b.Reset()
	return b, nil
}

// Reset restores the initial layout.
func (b *Board) Reset() {
	for i := range b.cells {
		if playable[i] {
			b.cells[i] = Empty
		} else {
			b.cells[i] = Offboard
		}
	}
	for _, p := range []Player{Player1, Player2} {
		for _, c := range Zone(p) {
			b.cells[c.index()] = Occupied(p)
		}
	}
}

func (b *Board) Players() int {
	return b.players
}

// Clone returns an independent copy of the board.
func (b *Board) Clone() *Board {
	c := *b
	return &c
}

// CellAt returns the cell at (x, y).
func (b *Board) CellAt(x, y int) (Cell, error) {
	c := Coord{x, y}
	if !c.Valid() {
		return Offboard, fmt.Errorf("%w: %v", ErrOutOfBounds, c)
	}
	return b.cells[c.index()], nil
}

// SetCell overwrites the cell at (x, y). Off-star cells can only hold Offboard
// and playable cells can never become Offboard.
func (b *Board) SetCell(x, y int, value Cell) error {
	c := Coord{x, y}
	if !c.Valid() {
		return fmt.Errorf("%w: %v", ErrOutOfBounds, c)
	}
	if !value.valid() {
		return fmt.Errorf("%w: %d", ErrInvalidCell, value)
	}
	i := c.index()
	if !playable[i] {
		if value != Offboard {
			return fmt.Errorf("%w: %v", ErrOffboard, c)
		}
		return nil
	}
	if value == Offboard {
		return fmt.Errorf("%w: cannot mark playable cell %v offboard", ErrInvalidCell, c)
	}
	b.cells[i] = value
	return nil
}

// ApplyMove moves whatever occupies m.From to m.To and empties m.From.
// Legality is not checked; callers validate against LegalMoves first.
func (b *Board) ApplyMove(m Move) error {
	for _, c := range []Coord{m.From, m.To} {
		if !c.Valid() {
			return fmt.Errorf("%w: %v", ErrOutOfBounds, c)
		}
		if !playable[c.index()] {
			return fmt.Errorf("%w: %v", ErrOffboard, c)
		}
	}
	b.play(m.From.index(), m.To.index())
	return nil
}

func (b *Board) play(from, to int) {
	b.cells[to] = b.cells[from]
	b.cells[from] = Empty
}

// PositionsOf returns the cells occupied by p in index order.
func (b *Board) PositionsOf(p Player) []Coord {
	want := Occupied(p)
	positions := make([]Coord, 0, 10)
	for i, cell := range b.cells {
		if cell == want {
			positions = append(positions, coordOf(i))
		}
	}
	return positions
}

// Export returns the whole grid flattened row by row, top row (y = Height-1) first.
func (b *Board) Export() []Cell {
	out := make([]Cell, 0, Size)
	for y := Height - 1; y >= 0; y-- {
		out = append(out, b.cells[y*Width:(y+1)*Width]...)
	}
	return out
}

// Hash returns a 64-bit hash of the cell contents.
func (b *Board) Hash() uint64 {
	var buf [Size]byte
	for i, cell := range b.cells {
		buf[i] = byte(cell)
	}
	return xxhash.Sum64(buf[:])
}

// String renders the board top row first: ' ' offboard, 'O' empty, player digit otherwise.
func (b *Board) String() string {
	var sb strings.Builder
	sb.Grow((Width + 1) * Height)
	for y := Height - 1; y >= 0; y-- {
		for x := 0; x < Width; x++ {
			switch cell := b.cells[y*Width+x]; cell {
			case Offboard:
				sb.WriteByte(' ')
			case Empty:
				sb.WriteByte('O')
			default:
				sb.WriteByte('0' + byte(cell.Player()))
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
