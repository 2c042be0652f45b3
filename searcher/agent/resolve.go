package agent

import (
	"github.com/Yuxi1001/IntroToAI-ChineseCheckers/game"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// Resolve checks a searched move against the legal moves of player on board.
// An invalid or missing move is replaced by a uniformly random legal move, in
// which case fallback is true. ok is false only when player has no legal move.
func Resolve(board *game.Board, player game.Player, move game.Move, found bool, rng *rand.Rand) (resolved game.Move, ok, fallback bool) {
	if found && ownedBy(board, move.From, player) && board.IsLegal(move) {
		return move, true, false
	}

	moves := board.AllLegalMoves(player)
	if len(moves) == 0 {
		log.Warn().Msgf("%v has no legal move, passing", player)
		return game.Move{}, false, false
	}
	resolved = moves[rng.Intn(len(moves))]
	if found {
		log.Warn().Msgf("Searched move %v is not legal for %v, playing random move %v", move, player, resolved)
	} else {
		log.Warn().Msgf("Search found no move for %v, playing random move %v", player, resolved)
	}
	return resolved, true, true
}

func ownedBy(board *game.Board, c game.Coord, player game.Player) bool {
	cell, err := board.CellAt(c.X, c.Y)
	return err == nil && cell.Player() == player
}
