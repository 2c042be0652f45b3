package agent

import (
	"github.com/Yuxi1001/IntroToAI-ChineseCheckers/experiments/metrics"
	"github.com/Yuxi1001/IntroToAI-ChineseCheckers/game"
)

type Agent interface {
	// FindMove returns a move for player and performance metrics (if collected) from the search.
	// ok is false when the agent has no move to offer.
	FindMove(board *game.Board, player game.Player) (move game.Move, ok bool, metric metrics.SearchMetric)
}
