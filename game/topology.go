package game

// Grid dimensions. Only the cells of the six-pointed star are playable.
const (
	Width  = 25
	Height = 17
	Size   = Width * Height
)

const center = Width / 2

// Number of playable cells on each row, bottom to top.
var rowSpan = [Height]int{1, 2, 3, 4, 13, 12, 11, 10, 9, 10, 11, 12, 13, 4, 3, 2, 1}

// Neighbour directions: left, up-left, up-right, right, down-right, down-left.
// Horizontal neighbours are two columns apart so that doubling a direction
// vector lands on the cell behind the jumped piece.
var directions = [6]Coord{{-2, 0}, {-1, 1}, {1, 1}, {2, 0}, {1, -1}, {-1, -1}}

var (
	playable  [Size]bool
	neighbors [Size][6]int // -1 when outside the grid or off the star
	landings  [Size][6]int // cell behind the neighbour in the same direction, or -1
	cellCount int
)

func init() {
	for i := 0; i < Size; i++ {
		c := coordOf(i)
		playable[i] = onStar(c)
		if playable[i] {
			cellCount++
		}
	}
	for i := 0; i < Size; i++ {
		c := coordOf(i)
		for d, dir := range directions {
			neighbors[i][d] = starIndex(Coord{c.X + dir.X, c.Y + dir.Y})
			landings[i][d] = starIndex(Coord{c.X + 2*dir.X, c.Y + 2*dir.Y})
		}
	}
}

func onStar(c Coord) bool {
	if !c.Valid() || (c.X+c.Y)%2 != 0 {
		return false
	}
	offset := c.X - center
	if offset < 0 {
		offset = -offset
	}
	return offset <= rowSpan[c.Y]-1
}

func starIndex(c Coord) int {
	if !c.Valid() || !playable[c.index()] {
		return -1
	}
	return c.index()
}

// Playable reports whether c is one of the 121 cells of the star.
func Playable(c Coord) bool {
	return c.Valid() && playable[c.index()]
}

// PlayableCells returns the number of playable cells.
func PlayableCells() int {
	return cellCount
}

// Neighbors returns the playable cells adjacent to c. Off-star cells have none.
func Neighbors(c Coord) []Coord {
	if !Playable(c) {
		return nil
	}
	out := make([]Coord, 0, len(directions))
	for _, n := range neighbors[c.index()] {
		if n >= 0 {
			out = append(out, coordOf(n))
		}
	}
	return out
}
