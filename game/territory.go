package game

// Initial placement zones. Each player starts on one point of the star and
// wins by filling the opposite point.
var (
	player1Zone = [10]Coord{
		{12, 0},
		{11, 1}, {13, 1},
		{10, 2}, {12, 2}, {14, 2},
		{9, 3}, {11, 3}, {13, 3}, {15, 3},
	}
	player2Zone = [10]Coord{
		{12, 16},
		{11, 15}, {13, 15},
		{10, 14}, {12, 14}, {14, 14},
		{9, 13}, {11, 13}, {13, 13}, {15, 13},
	}
)

// Zone returns the initial territory of p, or nil for an unknown player.
func Zone(p Player) []Coord {
	switch p {
	case Player1:
		return player1Zone[:]
	case Player2:
		return player2Zone[:]
	default:
		return nil
	}
}

// IsWon returns the player occupying every cell of the opposing zone, or None.
func (b *Board) IsWon() Player {
	if b.occupiesZone(Player1, Player2) {
		return Player1
	}
	if b.occupiesZone(Player2, Player1) {
		return Player2
	}
	return None
}

func (b *Board) occupiesZone(player, owner Player) bool {
	want := Occupied(player)
	for _, c := range Zone(owner) {
		if b.cells[c.index()] != want {
			return false
		}
	}
	return true
}
