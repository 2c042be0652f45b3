package metrics

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Iterations   int
	Cutoff       int
	Strategy     string
	Duration     time.Duration
	Episodes     int
	Expansions   int
	FullPlayouts int // Rollouts that ended with a winner before the cutoff
}

type MoveMetric struct {
	Step     int
	Player   int // Player ID
	Move     string
	Hash     uint64 // Board hash after the move
	Passed   bool
	Fallback bool // The searched move was replaced by a random legal move
	SearchMetric
}

type GameMetric struct {
	StartingPlayer int
	Winner         int // 0 when the turn limit was reached
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
}

type Collector interface {
	Start(iterations, cutoff int, strategy string)
	AddEpisode()
	AddExpansion()
	AddFullPlayout()
	Complete() SearchMetric
}

type collector struct {
	iterations   int
	cutoff       int
	strategy     string
	startTime    time.Time
	episodes     atomic.Int32
	expansions   atomic.Int32
	fullPlayouts atomic.Int32
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(iterations, cutoff int, strategy string) {
	m.startTime = time.Now()
	m.iterations = iterations
	m.cutoff = cutoff
	m.strategy = strategy
	m.episodes.Store(0)
	m.expansions.Store(0)
	m.fullPlayouts.Store(0)
}

func (m *collector) AddEpisode() {
	m.episodes.Add(1)
}

func (m *collector) AddExpansion() {
	m.expansions.Add(1)
}

func (m *collector) AddFullPlayout() {
	m.fullPlayouts.Add(1)
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Iterations:   m.iterations,
		Cutoff:       m.cutoff,
		Strategy:     m.strategy,
		Duration:     time.Since(m.startTime),
		Episodes:     int(m.episodes.Load()),
		Expansions:   int(m.expansions.Load()),
		FullPlayouts: int(m.fullPlayouts.Load()),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(iterations, cutoff int, strategy string) {}
func (m *dummyCollector) AddEpisode()                                   {}
func (m *dummyCollector) AddExpansion()                                 {}
func (m *dummyCollector) AddFullPlayout()                               {}
func (m *dummyCollector) Complete() SearchMetric                        { return SearchMetric{} }
