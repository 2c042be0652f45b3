package agent

import (
	"cmp"
	"math"
	"slices"

	"github.com/Yuxi1001/IntroToAI-ChineseCheckers/experiments/metrics"
	"github.com/Yuxi1001/IntroToAI-ChineseCheckers/game"
	"github.com/Yuxi1001/IntroToAI-ChineseCheckers/searcher"

	"golang.org/x/exp/rand"
)

type samplingAgent struct {
	mcts        *searcher.MCTS
	temperature float64
	rng         *rand.Rand
}

// NewSamplingAgent returns an agent that samples a root move in proportion to
// visits^(1/temperature). It is used to diversify self-play openings.
func NewSamplingAgent(mcts *searcher.MCTS, temperature float64, rng *rand.Rand) Agent {
	if temperature <= 0 {
		panic("temperature must be positive")
	}
	return samplingAgent{mcts: mcts, temperature: temperature, rng: rng}
}

func (a samplingAgent) FindMove(board *game.Board, player game.Player) (game.Move, bool, metrics.SearchMetric) {
	policy, metric := a.mcts.Simulate(board, player)
	if len(policy) == 0 {
		return game.Move{}, false, metric
	}
	return sample(adjustTemperature(policy, a.temperature), a.rng.Float64()), true, metric
}

type weightedMove struct {
	move game.Move
	prob float64
}

// adjustTemperature normalises visits^(1/temperature) into probabilities,
// ordered by move so that sampling is reproducible for a given draw.
func adjustTemperature(policy map[game.Move]int, temperature float64) []weightedMove {
	exponent := 1.0 / temperature
	sum := 0.0
	adjusted := make([]weightedMove, 0, len(policy))
	for move, visits := range policy {
		prob := math.Pow(float64(visits), exponent)
		sum += prob
		adjusted = append(adjusted, weightedMove{move, prob})
	}
	slices.SortFunc(adjusted, func(a, b weightedMove) int {
		return cmp.Or(
			cmp.Compare(a.move.From.Y, b.move.From.Y),
			cmp.Compare(a.move.From.X, b.move.From.X),
			cmp.Compare(a.move.To.Y, b.move.To.Y),
			cmp.Compare(a.move.To.X, b.move.To.X),
		)
	})
	// Normalize
	for i := range adjusted {
		adjusted[i].prob /= sum
	}
	return adjusted
}

func sample(policy []weightedMove, sampled float64) game.Move {
	cumulative := 0.0
	for _, wm := range policy {
		cumulative += wm.prob
		if sampled < cumulative {
			return wm.move
		}
	}
	return policy[len(policy)-1].move // Fallback in case of rounding errors
}
