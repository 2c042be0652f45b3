package searcher

import (
	"github.com/Yuxi1001/IntroToAI-ChineseCheckers/game"
)

// node owns a board snapshot and the player to move on it. Its outgoing edges
// are created one per expansion; untried holds the legal moves not yet expanded.
type node struct {
	board    *game.Board
	player   game.Player
	winner   game.Player
	edges    []*edge
	untried  []game.Move
	explored bool // untried has been generated
}

func newNode(board *game.Board, player game.Player) *node {
	return &node{
		board:  board,
		player: player,
		winner: board.IsWon(),
	}
}

func (n *node) isTerminal() bool {
	return n.winner != game.None
}

// isExpandable reports whether a legal move remains without an edge.
func (n *node) isExpandable() bool {
	if !n.explored {
		n.untried = n.board.AllLegalMoves(n.player)
		n.explored = true
	}
	return len(n.untried) > 0
}

// visits is ΣN over the outgoing edges.
func (n *node) visits() int {
	total := 0
	for _, e := range n.edges {
		total += e.n
	}
	return total
}

// robustChild returns the edge with the most visits, first created on ties.
func (n *node) robustChild() *edge {
	var best *edge
	for _, e := range n.edges {
		if best == nil || e.n > best.n {
			best = e
		}
	}
	return best
}

func (n *node) policy() map[game.Move]int {
	visits := make(map[game.Move]int, len(n.edges))
	for _, e := range n.edges {
		visits[e.move] = e.n
	}
	return visits
}

// edge links a parent to the child created by move. q is recomputed as w/n on
// every update and never changed on its own.
type edge struct {
	move  game.Move
	mover game.Player
	child *node
	n     int
	w     float64
	q     float64
	p     float64
	wins  float64
}

func newEdge(parent *node, move game.Move, child *node) *edge {
	return &edge{
		move:  move,
		mover: parent.player,
		child: child,
		p:     Prior,
	}
}

func (e *edge) update(winner game.Player) {
	e.n++
	e.w += reward(e.mover, winner)
	if e.mover == winner {
		e.wins++
	}
	e.q = e.w / float64(e.n)
}
