package game

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func newTestBoard(t *testing.T) *Board {
	t.Helper()
	b, err := NewBoard(Players)
	require.NoError(t, err)
	return b
}

// clearedBoard returns a board whose playable cells are all empty.
func clearedBoard(t *testing.T) *Board {
	t.Helper()
	b := newTestBoard(t)
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			if Playable(Coord{x, y}) {
				require.NoError(t, b.SetCell(x, y, Empty))
			}
		}
	}
	return b
}

func place(t *testing.T, b *Board, p Player, cells ...Coord) {
	t.Helper()
	for _, c := range cells {
		require.NoError(t, b.SetCell(c.X, c.Y, Occupied(p)))
	}
}

// playRandom plays n random plies alternating players and returns the board.
func playRandom(t *testing.T, b *Board, rng *rand.Rand, n int) {
	t.Helper()
	player := Player1
	for i := 0; i < n && b.IsWon() == None; i++ {
		moves := b.AllLegalMoves(player)
		if len(moves) > 0 {
			require.NoError(t, b.ApplyMove(moves[rng.Intn(len(moves))]))
		}
		player = player.Opponent()
	}
}

func TestTopology(t *testing.T) {
	t.Run("star has 121 playable cells", func(t *testing.T) {
		require.Equal(t, 121, PlayableCells())
	})

	t.Run("rows match the star footprint", func(t *testing.T) {
		for y := 0; y < Height; y++ {
			count := 0
			for x := 0; x < Width; x++ {
				if Playable(Coord{x, y}) {
					count++
				}
			}
			require.Equal(t, rowSpan[y], count, "row %d", y)
		}
	})

	t.Run("neighbours of a corner cell exclude off-star and out of grid cells", func(t *testing.T) {
		require.ElementsMatch(t, []Coord{{11, 1}, {13, 1}}, Neighbors(Coord{12, 0}))
	})

	t.Run("interior cell has six neighbours", func(t *testing.T) {
		require.Len(t, Neighbors(Coord{12, 8}), 6)
	})

	t.Run("out of grid coordinate has no neighbours", func(t *testing.T) {
		require.Empty(t, Neighbors(Coord{-1, 3}))
	})

	t.Run("off-star cell has no neighbours", func(t *testing.T) {
		require.False(t, Playable(Coord{8, 2}))
		require.True(t, Playable(Coord{9, 3}))
		require.Nil(t, Neighbors(Coord{8, 2}))
	})
}

func TestNewBoard(t *testing.T) {
	t.Run("rejecting unsupported player counts", func(t *testing.T) {
		for _, n := range []int{0, 1, 3, 6} {
			b, err := NewBoard(n)
			require.ErrorIs(t, err, ErrUnsupportedConfiguration)
			require.Nil(t, b, "No partial board should be produced")
		}
	})

	t.Run("initial layout", func(t *testing.T) {
		b := newTestBoard(t)
		zone := map[Coord]Player{}
		for _, p := range []Player{Player1, Player2} {
			for _, c := range Zone(p) {
				zone[c] = p
			}
		}
		require.Len(t, zone, 20)

		for y := 0; y < Height; y++ {
			for x := 0; x < Width; x++ {
				c := Coord{x, y}
				cell, err := b.CellAt(x, y)
				require.NoError(t, err)
				switch {
				case !Playable(c):
					require.Equal(t, Offboard, cell, "%v should be offboard", c)
				case zone[c] != None:
					require.Equal(t, Occupied(zone[c]), cell, "%v should hold its zone owner", c)
				default:
					require.Equal(t, Empty, cell, "%v should be empty", c)
				}
			}
		}
		require.Len(t, b.PositionsOf(Player1), 10)
		require.Len(t, b.PositionsOf(Player2), 10)
		require.Equal(t, None, b.IsWon())
	})

	t.Run("zones are mirrored", func(t *testing.T) {
		for i, c := range Zone(Player1) {
			require.Equal(t, Coord{c.X, Height - 1 - c.Y}, Zone(Player2)[i])
		}
	})

	t.Run("reset restores the initial layout", func(t *testing.T) {
		b := newTestBoard(t)
		initial := b.Clone()
		playRandom(t, b, rand.New(rand.NewSource(7)), 20)
		require.NotEqual(t, initial.Hash(), b.Hash())

		b.Reset()

		require.Equal(t, initial, b)
	})
}

func TestCellAccess(t *testing.T) {
	b := newTestBoard(t)

	t.Run("rejecting out of bounds reads", func(t *testing.T) {
		for _, c := range []Coord{{-1, 0}, {0, -1}, {Width, 0}, {0, Height}} {
			_, err := b.CellAt(c.X, c.Y)
			require.ErrorIs(t, err, ErrOutOfBounds, "%v", c)
		}
	})

	t.Run("rejecting out of bounds writes", func(t *testing.T) {
		require.ErrorIs(t, b.SetCell(Width, 3, Empty), ErrOutOfBounds)
		require.ErrorIs(t, b.SetCell(3, -2, Empty), ErrOutOfBounds)
	})

	t.Run("rejecting pieces on offboard cells", func(t *testing.T) {
		require.ErrorIs(t, b.SetCell(0, 0, Empty), ErrOffboard)
		require.ErrorIs(t, b.SetCell(0, 0, Occupied(Player1)), ErrOffboard)
		require.NoError(t, b.SetCell(0, 0, Offboard))
	})

	t.Run("rejecting offboard or unknown values on playable cells", func(t *testing.T) {
		require.ErrorIs(t, b.SetCell(12, 8, Offboard), ErrInvalidCell)
		require.ErrorIs(t, b.SetCell(12, 8, Cell(9)), ErrInvalidCell)
	})

	t.Run("writing a playable cell", func(t *testing.T) {
		require.NoError(t, b.SetCell(12, 8, Occupied(Player2)))
		cell, err := b.CellAt(12, 8)
		require.NoError(t, err)
		require.Equal(t, Player2, cell.Player())
	})
}

func TestApplyMove(t *testing.T) {
	t.Run("moving a piece", func(t *testing.T) {
		b := newTestBoard(t)
		require.NoError(t, b.ApplyMove(Move{From: Coord{9, 3}, To: Coord{8, 4}}))

		from, _ := b.CellAt(9, 3)
		to, _ := b.CellAt(8, 4)
		require.Equal(t, Empty, from)
		require.Equal(t, Occupied(Player1), to)
	})

	t.Run("rejecting out of bounds coordinates", func(t *testing.T) {
		b := newTestBoard(t)
		err := b.ApplyMove(Move{From: Coord{9, 3}, To: Coord{-1, 4}})
		require.ErrorIs(t, err, ErrOutOfBounds)
		require.Equal(t, newTestBoard(t), b, "Board should not change")
	})

	t.Run("rejecting offboard coordinates", func(t *testing.T) {
		b := newTestBoard(t)
		err := b.ApplyMove(Move{From: Coord{9, 3}, To: Coord{0, 0}})
		require.ErrorIs(t, err, ErrOffboard)
	})
}

func TestClone(t *testing.T) {
	t.Run("clone is independent", func(t *testing.T) {
		b := newTestBoard(t)
		c := b.Clone()
		require.NoError(t, c.ApplyMove(Move{From: Coord{9, 3}, To: Coord{8, 4}}))

		cell, _ := b.CellAt(9, 3)
		require.Equal(t, Occupied(Player1), cell, "Original should not see the clone's move")
	})

	t.Run("identical move sequences give identical boards", func(t *testing.T) {
		b := newTestBoard(t)
		c := b.Clone()
		rng := rand.New(rand.NewSource(42))
		player := Player1
		for i := 0; i < 60; i++ {
			moves := b.AllLegalMoves(player)
			require.Equal(t, moves, c.AllLegalMoves(player))
			if len(moves) > 0 {
				m := moves[rng.Intn(len(moves))]
				require.NoError(t, b.ApplyMove(m))
				require.NoError(t, c.ApplyMove(m))
			}
			player = player.Opponent()
		}
		require.Equal(t, b.Export(), c.Export())
		require.Equal(t, b.Hash(), c.Hash())
	})
}

func TestExport(t *testing.T) {
	b := newTestBoard(t)
	grid := b.Export()

	require.Len(t, grid, Size)
	require.Equal(t, Occupied(Player2), grid[12], "Top row comes first")
	require.Equal(t, Occupied(Player1), grid[(Height-1)*Width+12], "Bottom row comes last")
	require.Equal(t, Offboard, grid[0])
}

func TestString(t *testing.T) {
	lines := strings.Split(strings.TrimSuffix(newTestBoard(t).String(), "\n"), "\n")

	require.Len(t, lines, Height)
	require.Equal(t, byte('2'), lines[0][12])
	require.Equal(t, byte('1'), lines[Height-1][12])
	require.Equal(t, byte('O'), lines[8][12])
	require.Equal(t, byte(' '), lines[8][11])
}

func TestIsWon(t *testing.T) {
	t.Run("full occupation of the opposing zone wins", func(t *testing.T) {
		b := newTestBoard(t)
		place(t, b, Player1, Zone(Player2)...)

		require.Equal(t, Player1, b.IsWon())
	})

	t.Run("player2 wins by filling player1's zone", func(t *testing.T) {
		b := clearedBoard(t)
		place(t, b, Player2, Zone(Player1)...)

		require.Equal(t, Player2, b.IsWon())
	})

	t.Run("a single differing cell means no winner", func(t *testing.T) {
		b := newTestBoard(t)
		place(t, b, Player1, Zone(Player2)...)
		last := Zone(Player2)[9]
		require.NoError(t, b.SetCell(last.X, last.Y, Empty))

		require.Equal(t, None, b.IsWon())

		place(t, b, Player2, last)
		require.Equal(t, None, b.IsWon())
	})
}
