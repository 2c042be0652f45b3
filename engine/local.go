package engine

import (
	"time"

	"github.com/Yuxi1001/IntroToAI-ChineseCheckers/experiments/metrics"
	"github.com/Yuxi1001/IntroToAI-ChineseCheckers/game"
	"github.com/Yuxi1001/IntroToAI-ChineseCheckers/searcher/agent"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

var _ Engine = (*Local)(nil)

// Local plays a two-player game between in-process agents.
type Local struct {
	board    *game.Board
	agents   [game.Players]agent.Agent
	starting game.Player
	maxTurns int
	rng      *rand.Rand
	updates  []Update
}

// Update records one turn. Move is the zero value when the player passed.
type Update struct {
	Move   game.Move
	Player game.Player
	Passed bool
	Hash   uint64 // Board hash after the turn
}

type Option func(e *Local)

func WithMaxTurns(turns int) Option {
	return func(e *Local) {
		if turns > 0 {
			e.maxTurns = turns
		}
	}
}

func WithStartingPlayer(player game.Player) Option {
	return func(e *Local) {
		if player == game.Player1 || player == game.Player2 {
			e.starting = player
		}
	}
}

// WithBoard starts from a copy of board instead of the initial layout.
func WithBoard(board *game.Board) Option {
	return func(e *Local) {
		e.board = board.Clone()
	}
}

// WithSeed seeds the random fallback moves.
func WithSeed(seed uint64) Option {
	return func(e *Local) {
		e.rng = rand.New(rand.NewSource(seed))
	}
}

// LocalEngine returns a game where agents[0] plays Player1 and agents[1] plays Player2.
func LocalEngine(agents [game.Players]agent.Agent, options ...Option) *Local {
	for _, a := range agents {
		if a == nil {
			panic("need an agent for every player")
		}
	}
	e := &Local{
		agents:   agents,
		starting: game.Player1,
		maxTurns: MaxTurns,
	}
	for _, option := range options {
		option(e)
	}
	if e.board == nil {
		board, err := game.NewBoard(game.Players)
		if err != nil {
			panic(err)
		}
		e.board = board
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	return e
}

func (e *Local) Board() *game.Board {
	return e.board
}

func (e *Local) Updates() []Update {
	return e.updates
}

// Run executes the entire game loop until a winner is found, the turn limit is
// reached, or neither player can move.
func (e *Local) Run() (game.Player, metrics.GameMetric, []metrics.MoveMetric) {
	gameMetric := metrics.GameMetric{
		StartingPlayer: int(e.starting),
		StartTime:      time.Now(),
	}
	var moveMetrics []metrics.MoveMetric

	log.Info().Msgf("%v is starting", e.starting)

	player := e.starting
	passes := 0
	for turn := 1; e.board.IsWon() == game.None && turn <= e.maxTurns; turn++ {
		candidate, found, search := e.agents[player-1].FindMove(e.board, player)
		move, ok, fallback := agent.Resolve(e.board, player, candidate, found, e.rng)

		moveMetric := metrics.MoveMetric{
			Step:         turn,
			Player:       int(player),
			Fallback:     fallback,
			SearchMetric: search,
		}
		update := Update{Player: player}
		if ok {
			passes = 0
			if err := e.board.ApplyMove(move); err != nil {
				panic(err) // Resolve only returns legal moves
			}
			update.Move = move
			moveMetric.Move = move.String()
			gameMetric.TotalMoves++
		} else {
			passes++
			update.Passed = true
			moveMetric.Passed = true
		}
		update.Hash = e.board.Hash()
		moveMetric.Hash = update.Hash
		e.updates = append(e.updates, update)
		moveMetrics = append(moveMetrics, moveMetric)

		if passes >= game.Players {
			log.Warn().Msgf("Neither player can move, stopping after %d turns", turn)
			break
		}
		player = player.Opponent()
	}

	winner := e.board.IsWon()
	if winner != game.None {
		log.Info().Msgf("Game ended with %v winning after %d moves", winner, gameMetric.TotalMoves)
	} else {
		log.Info().Msgf("Stopped after %d turns (no winner yet)", len(e.updates))
	}

	gameMetric.Winner = int(winner)
	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	return winner, gameMetric, moveMetrics
}
