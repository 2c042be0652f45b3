package agent

import (
	"github.com/Yuxi1001/IntroToAI-ChineseCheckers/experiments/metrics"
	"github.com/Yuxi1001/IntroToAI-ChineseCheckers/game"

	"golang.org/x/exp/rand"
)

type randomAgent struct {
	rng *rand.Rand
}

// NewRandomAgent returns a baseline agent playing uniformly random legal moves.
func NewRandomAgent(rng *rand.Rand) Agent {
	return randomAgent{rng: rng}
}

func (a randomAgent) FindMove(board *game.Board, player game.Player) (game.Move, bool, metrics.SearchMetric) {
	moves := board.AllLegalMoves(player)
	if len(moves) == 0 {
		return game.Move{}, false, metrics.SearchMetric{}
	}
	return moves[a.rng.Intn(len(moves))], true, metrics.SearchMetric{}
}
