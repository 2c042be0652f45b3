package engine

import (
	"github.com/Yuxi1001/IntroToAI-ChineseCheckers/experiments/metrics"
	"github.com/Yuxi1001/IntroToAI-ChineseCheckers/game"
)

const MaxTurns = 1000

type Engine interface {
	// Run starts a game till there's a winner or a max number of turns is reached
	Run() (winner game.Player, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric)
}
