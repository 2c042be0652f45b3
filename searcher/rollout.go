package searcher

import (
	"github.com/Yuxi1001/IntroToAI-ChineseCheckers/game"

	"golang.org/x/exp/rand"
)

// rollout plays uniformly random moves on board (which it mutates) until a
// player wins or cutoff plies have been played. full is false when the result
// was drawn at random at the cutoff. Passing turns do not count as plies.
func rollout(board *game.Board, player game.Player, cutoff int, rng *rand.Rand) (winner game.Player, full bool) {
	depth := 0
	passes := 0
	for {
		if winner := board.IsWon(); winner != game.None {
			return winner, true
		}
		if depth >= cutoff {
			return randomPlayer(rng), false
		}
		moves := board.AllLegalMoves(player)
		if len(moves) == 0 {
			passes++
			if passes >= game.Players { // Nobody can move
				return randomPlayer(rng), false
			}
			player = player.Opponent()
			continue
		}
		passes = 0
		mustApply(board, moves[rng.Intn(len(moves))])
		player = player.Opponent()
		depth++
	}
}

func randomPlayer(rng *rand.Rand) game.Player {
	if rng.Intn(game.Players) == 0 {
		return game.Player1
	}
	return game.Player2
}
