package searcher

import (
	"testing"

	"github.com/Yuxi1001/IntroToAI-ChineseCheckers/game"

	"github.com/stretchr/testify/require"
)

func TestEdgeUpdate(t *testing.T) {
	t.Run("recording a win for the mover", func(t *testing.T) {
		e := &edge{mover: game.Player1, p: Prior}

		e.update(game.Player1)

		require.Equal(t, 1, e.n)
		require.Equal(t, Reward, e.w)
		require.Equal(t, 1.0, e.wins)
		require.Equal(t, e.w/float64(e.n), e.q)
	})

	t.Run("recording a loss for the mover", func(t *testing.T) {
		e := &edge{mover: game.Player1, n: 1, w: Reward, q: Reward, wins: 1}

		e.update(game.Player2)

		require.Equal(t, 2, e.n)
		require.Equal(t, 0.0, e.w)
		require.Equal(t, 1.0, e.wins, "A loss should not add a win")
		require.Equal(t, 0.0, e.q, "Q should be recomputed from W/N")
	})

	t.Run("mean value never drifts from W/N", func(t *testing.T) {
		e := &edge{mover: game.Player2}
		winners := []game.Player{game.Player1, game.Player2, game.Player2, game.Player1, game.Player2}
		for _, w := range winners {
			e.update(w)
			require.InDelta(t, e.w/float64(e.n), e.q, 1e-12)
		}
		require.Equal(t, len(winners), e.n)
		require.Equal(t, 3.0, e.wins)
	})
}

func TestNewEdge(t *testing.T) {
	parent := &node{player: game.Player2}
	child := &node{player: game.Player1}
	move := game.Move{From: game.Coord{X: 12, Y: 16}, To: game.Coord{X: 12, Y: 14}}

	e := newEdge(parent, move, child)

	require.Equal(t, game.Player2, e.mover, "Mover should be the parent's player")
	require.Equal(t, Prior, e.p, "Prior should be uniform")
	require.Equal(t, child, e.child)
	require.Zero(t, e.n)
}

func TestNodeRobustChild(t *testing.T) {
	t.Run("no edges", func(t *testing.T) {
		require.Nil(t, (&node{}).robustChild())
	})

	t.Run("most visited edge beats best mean value", func(t *testing.T) {
		visited := &edge{n: 10, q: 0.1}
		lucky := &edge{n: 2, q: 1}
		n := &node{edges: []*edge{lucky, visited}}

		require.Equal(t, visited, n.robustChild())
	})

	t.Run("first created edge wins ties", func(t *testing.T) {
		first := &edge{n: 4}
		second := &edge{n: 4}
		n := &node{edges: []*edge{first, second}}

		require.Equal(t, first, n.robustChild())
	})
}

func TestNodePolicy(t *testing.T) {
	a := game.Move{From: game.Coord{X: 9, Y: 3}, To: game.Coord{X: 8, Y: 4}}
	b := game.Move{From: game.Coord{X: 15, Y: 3}, To: game.Coord{X: 16, Y: 4}}
	n := &node{edges: []*edge{{move: a, n: 3}, {move: b, n: 5}}}

	require.Equal(t, map[game.Move]int{a: 3, b: 5}, n.policy())
	require.Equal(t, 8, n.visits())
}

func TestNodeExpandable(t *testing.T) {
	t.Run("legal moves are generated once", func(t *testing.T) {
		board, err := game.NewBoard(game.Players)
		require.NoError(t, err)
		n := newNode(board, game.Player1)

		require.True(t, n.isExpandable())
		require.Equal(t, board.AllLegalMoves(game.Player1), n.untried)

		n.untried = n.untried[:0]
		require.False(t, n.isExpandable(), "Exhausted moves should not be regenerated")
	})

	t.Run("terminal position records the winner", func(t *testing.T) {
		board := wonBoard(t, game.Player2)
		n := newNode(board, game.Player1)

		require.True(t, n.isTerminal())
		require.Equal(t, game.Player2, n.winner)
	})
}
