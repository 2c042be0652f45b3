package game

import "fmt"

// walk is a breadth-first search over jump landings. The set of cells a chain
// can reach does not depend on the path taken (jumped pieces stay on the
// board), so one seen-set per origin is exact and every recorded parent chain
// is a simple path.
type walk struct {
	seen   [Size]bool
	parent [Size]int16
	order  []int
}

func (w *walk) run(b *Board, origin int) {
	w.seen[origin] = true
	w.parent[origin] = -1
	at := origin
	for i := -1; i < len(w.order); i++ {
		if i >= 0 {
			at = w.order[i]
		}
		for d := range directions {
			over, land := neighbors[at][d], landings[at][d]
			if over < 0 || land < 0 || w.seen[land] {
				continue
			}
			if !b.cells[over].IsOccupied() || b.cells[land] != Empty {
				continue
			}
			w.seen[land] = true
			w.parent[land] = int16(at)
			w.order = append(w.order, land)
		}
	}
}

// destinations appends every legal destination of the piece on from to dst:
// single steps to empty neighbours first, then jump chain landings.
func (b *Board) destinations(from int, dst []int) []int {
	if !b.cells[from].IsOccupied() {
		return dst
	}
	for _, n := range neighbors[from] {
		if n >= 0 && b.cells[n] == Empty {
			dst = append(dst, n)
		}
	}
	var w walk
	w.run(b, from)
	return append(dst, w.order...)
}

// LegalMoves returns the distinct destinations reachable this turn by the piece
// at (x, y). An empty or off-star cell has no moves.
func (b *Board) LegalMoves(x, y int) ([]Coord, error) {
	c := Coord{x, y}
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrOutOfBounds, c)
	}
	dst := b.destinations(c.index(), nil)
	out := make([]Coord, len(dst))
	for i, d := range dst {
		out[i] = coordOf(d)
	}
	return out, nil
}

// AllLegalMoves enumerates every move of every piece owned by p.
func (b *Board) AllLegalMoves(p Player) []Move {
	want := Occupied(p)
	var moves []Move
	var buf []int
	for i, cell := range b.cells {
		if cell != want {
			continue
		}
		buf = b.destinations(i, buf[:0])
		from := coordOf(i)
		for _, d := range buf {
			moves = append(moves, Move{From: from, To: coordOf(d)})
		}
	}
	return moves
}

// IsLegal reports whether m is a legal move for the piece standing on m.From.
func (b *Board) IsLegal(m Move) bool {
	if !m.From.Valid() || !m.To.Valid() {
		return false
	}
	to := m.To.index()
	for _, d := range b.destinations(m.From.index(), nil) {
		if d == to {
			return true
		}
	}
	return false
}

// JumpPath returns the cells visited by m, origin and destination included.
// A single step yields two cells; a chain yields every landing in order and
// never repeats a coordinate.
func (b *Board) JumpPath(m Move) ([]Coord, error) {
	if !m.From.Valid() || !m.To.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrOutOfBounds, m)
	}
	from, to := m.From.index(), m.To.index()
	if !b.cells[from].IsOccupied() {
		return nil, fmt.Errorf("%w: %v", ErrNotOccupied, m.From)
	}
	for _, n := range neighbors[from] {
		if n == to && b.cells[to] == Empty {
			return []Coord{m.From, m.To}, nil
		}
	}
	var w walk
	w.run(b, from)
	if to == from || !w.seen[to] {
		return nil, fmt.Errorf("%w: %v", ErrIllegalMove, m)
	}
	var path []Coord
	for at := to; at >= 0; at = int(w.parent[at]) {
		path = append(path, coordOf(at))
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, nil
}

// NextJumps returns the single-jump landings available from at that are not on
// the visited path. It drives a turn that is built one hop at a time: after a
// jump the player may continue with one of these or stop.
func (b *Board) NextJumps(at Coord, visited []Coord) ([]Coord, error) {
	if !at.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrOutOfBounds, at)
	}
	skip := make(map[Coord]bool, len(visited)+1)
	skip[at] = true
	for _, v := range visited {
		skip[v] = true
	}
	var out []Coord
	i := at.index()
	for d := range directions {
		over, land := neighbors[i][d], landings[i][d]
		if over < 0 || land < 0 || !b.cells[over].IsOccupied() || b.cells[land] != Empty {
			continue
		}
		if c := coordOf(land); !skip[c] {
			out = append(out, c)
		}
	}
	return out, nil
}
