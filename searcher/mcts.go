package searcher

import (
	"math"
	"time"

	"github.com/Yuxi1001/IntroToAI-ChineseCheckers/experiments/metrics"
	"github.com/Yuxi1001/IntroToAI-ChineseCheckers/game"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

type Option func(mcts *MCTS)

// MCTS is a single-threaded Monte Carlo tree search over one tree per call.
// It is not safe for concurrent use; run one MCTS per goroutine.
type MCTS struct {
	iterations  int
	cutoff      int
	exploration float64
	strategy    Strategy
	rng         *rand.Rand
	root        *node
	path        []*edge
	ties        []*edge
	metrics     metrics.Collector
}

// WithIterations sets the search budget. A negative budget is treated as 0.
func WithIterations(iterations int) Option {
	return func(m *MCTS) {
		m.iterations = max(iterations, 0)
	}
}

func WithCutoff(depth int) Option {
	return func(m *MCTS) {
		if depth > 0 {
			m.cutoff = depth
		}
	}
}

// WithExploration sets c. PUCT uses it directly, UCB1 uses c².
func WithExploration(c float64) Option {
	return func(m *MCTS) {
		if c > 0 {
			m.exploration = c
		}
	}
}

func WithStrategy(strategy Strategy) Option {
	return func(m *MCTS) {
		m.strategy = strategy
	}
}

// WithSeed makes tie-breaking, expansion and rollouts reproducible.
func WithSeed(seed uint64) Option {
	return func(m *MCTS) {
		m.rng = rand.New(rand.NewSource(seed))
	}
}

func WithRand(rng *rand.Rand) Option {
	return func(m *MCTS) {
		if rng != nil {
			m.rng = rng
		}
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.metrics = metrics.NewCollector()
	}
}

func NewMCTS(options ...Option) *MCTS {
	m := &MCTS{ // Default values
		iterations: DefaultIterations,
		cutoff:     DefaultCutoff,
		strategy:   PUCT,
		metrics:    metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	if m.strategy != PUCT && m.strategy != UCB1 {
		panic("unknown search strategy")
	}
	if m.exploration == 0 {
		if m.strategy == UCB1 {
			m.exploration = math.Sqrt(DefaultCSquared)
		} else {
			m.exploration = DefaultCPUCT
		}
	}
	if m.rng == nil {
		m.rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	return m
}

// Search runs iterations of MCTS from an independent copy of board and returns
// the most visited root move. ok is false when the root never gained an edge.
func Search(board *game.Board, player game.Player, iterations int, options ...Option) (game.Move, bool) {
	m := NewMCTS(append(options, WithIterations(iterations))...)
	move, ok, _ := m.FindMove(board, player)
	return move, ok
}

// FindMove builds a fresh tree for board and player and returns the robust child.
func (m *MCTS) FindMove(board *game.Board, player game.Player) (game.Move, bool, metrics.SearchMetric) {
	_, metric := m.Simulate(board, player)

	best := m.root.robustChild()
	if best == nil {
		log.Debug().Msgf("%v has no move after %d iterations", player, m.iterations)
		return game.Move{}, false, metric
	}
	log.Debug().Msgf("%v picks %v with %d of %d visits (q=%.3f)", player, best.move, best.n, m.root.visits(), best.q)
	return best.move, true, metric
}

// Simulate runs the iteration budget on a new root and returns the visit count
// of every expanded root move.
func (m *MCTS) Simulate(board *game.Board, player game.Player) (map[game.Move]int, metrics.SearchMetric) {
	m.root = newNode(board.Clone(), player)

	m.metrics.Start(m.iterations, m.cutoff, m.strategy.String())
	for i := 0; i < m.iterations; i++ {
		m.simulate()
		m.metrics.AddEpisode()
	}
	metric := m.metrics.Complete()

	return m.root.policy(), metric
}

func (m *MCTS) simulate() {
	leaf := m.selects()
	winner := m.expandThenRollout(leaf)
	backup(m.path, winner)
}

// selects descends from the root through fully expanded nodes, recording the
// traversed edges in m.path, and returns the first node that is terminal,
// expandable or without any legal move. A node with untried moves is expanded
// before any of its edges is revisited, so every iteration on a root with legal
// moves backs up through exactly one root edge and the root visit sum equals
// the iteration budget.
func (m *MCTS) selects() *node {
	m.path = m.path[:0]
	current := m.root
	for !current.isTerminal() && !current.isExpandable() && len(current.edges) > 0 {
		e := m.pickEdge(current)
		m.path = append(m.path, e)
		current = e.child
	}
	return current
}

// pickEdge returns the edge with the best tree policy score, breaking ties
// within tieEpsilon uniformly at random.
func (m *MCTS) pickEdge(n *node) *edge {
	score := newScorer(m.strategy, m.exploration, n.visits())

	maxScore := math.Inf(-1)
	m.ties = m.ties[:0]
	for _, e := range n.edges {
		s := score.evaluate(e)
		if s > maxScore {
			maxScore = s
			m.ties = append(m.ties[:0], e)
		} else if maxScore-s < tieEpsilon {
			m.ties = append(m.ties, e)
		}
	}
	return m.ties[m.rng.Intn(len(m.ties))]
}

// expandThenRollout resolves the leaf to a winner. An expandable leaf gains one
// child edge, appended to m.path, and the child is played out at random.
func (m *MCTS) expandThenRollout(leaf *node) game.Player {
	if leaf.isTerminal() {
		return leaf.winner
	}
	if !leaf.isExpandable() {
		// No legal move counts as a loss for the player to move
		return leaf.player.Opponent()
	}

	e := m.expand(leaf)
	m.path = append(m.path, e)
	m.metrics.AddExpansion()

	winner, full := rollout(e.child.board.Clone(), e.child.player, m.cutoff, m.rng)
	if full {
		m.metrics.AddFullPlayout()
	}
	return winner
}

// expand removes one untried move chosen uniformly at random and adds its edge.
func (m *MCTS) expand(leaf *node) *edge {
	i := m.rng.Intn(len(leaf.untried))
	move := leaf.untried[i]
	last := len(leaf.untried) - 1
	leaf.untried[i] = leaf.untried[last]
	leaf.untried = leaf.untried[:last]

	board := leaf.board.Clone()
	mustApply(board, move)
	e := newEdge(leaf, move, newNode(board, leaf.player.Opponent()))
	leaf.edges = append(leaf.edges, e)
	return e
}

func backup(path []*edge, winner game.Player) {
	for i := len(path) - 1; i >= 0; i-- {
		path[i].update(winner)
	}
}

func mustApply(board *game.Board, move game.Move) {
	if err := board.ApplyMove(move); err != nil {
		panic(err)
	}
}
