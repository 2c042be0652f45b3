package searcher

import (
	"fmt"
	"strings"

	"github.com/Yuxi1001/IntroToAI-ChineseCheckers/game"
)

// Hyperparameters for MCTS

const DefaultIterations = 800
const DefaultCutoff = 50 // Rollout plies before a random winner is declared

const DefaultCPUCT = 1.0    // Exploration constant for PUCT
const DefaultCSquared = 2.0 // Squared exploration constant for UCB1

const Reward = 1.0 // Backed up as +Reward for the winner's edges, -Reward otherwise
const Prior = 1.0  // Uniform prior, there is no move-prior model

const tieEpsilon = 1e-8

// Strategy selects the tree policy and its bookkeeping.
type Strategy int

const (
	// PUCT scores Q + c·P·sqrt(ΣN)/(1+N) over mean edge values in [-1, 1].
	PUCT Strategy = iota
	// UCB1 scores wins/N + sqrt(c²·ln ΣN / N) over win ratios.
	UCB1
)

func (s Strategy) String() string {
	switch s {
	case PUCT:
		return "puct"
	case UCB1:
		return "ucb1"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// ParseStrategy maps a configuration name to a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "puct":
		return PUCT, nil
	case "ucb1", "uct":
		return UCB1, nil
	default:
		return PUCT, fmt.Errorf("unknown search strategy %q", name)
	}
}

func reward(mover, winner game.Player) float64 {
	if mover == winner {
		return Reward
	}
	return -Reward
}
