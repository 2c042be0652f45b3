package agent

import (
	"github.com/Yuxi1001/IntroToAI-ChineseCheckers/experiments/metrics"
	"github.com/Yuxi1001/IntroToAI-ChineseCheckers/game"
	"github.com/Yuxi1001/IntroToAI-ChineseCheckers/searcher"
)

type evaluationAgent struct {
	mcts *searcher.MCTS
}

// NewEvaluationAgent returns an agent that plays the most visited root move.
func NewEvaluationAgent(mcts *searcher.MCTS) Agent {
	return evaluationAgent{mcts: mcts}
}

func (a evaluationAgent) FindMove(board *game.Board, player game.Player) (game.Move, bool, metrics.SearchMetric) {
	return a.mcts.FindMove(board, player)
}
