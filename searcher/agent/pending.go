package agent

import (
	"github.com/Yuxi1001/IntroToAI-ChineseCheckers/experiments/metrics"
	"github.com/Yuxi1001/IntroToAI-ChineseCheckers/game"

	"github.com/rs/zerolog/log"
)

// Pending is the result of a search running in the background.
type Pending struct {
	done   chan struct{}
	move   game.Move
	ok     bool
	metric metrics.SearchMetric
}

// Go starts agent.FindMove on its own goroutine over a copy of board, so the
// caller may keep mutating board while the search runs.
func Go(agent Agent, board *game.Board, player game.Player) *Pending {
	p := &Pending{done: make(chan struct{})}
	snapshot := board.Clone()
	go func() {
		defer close(p.done)
		defer func() {
			if r := recover(); r != nil {
				log.Error().Msgf("Search for %v failed: %v", player, r)
				p.ok = false
			}
		}()
		p.move, p.ok, p.metric = agent.FindMove(snapshot, player)
	}()
	return p
}

// Done is closed once the result is available.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the search completes and returns its result.
func (p *Pending) Wait() (game.Move, bool, metrics.SearchMetric) {
	<-p.done
	return p.move, p.ok, p.metric
}
