package experiments

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Yuxi1001/IntroToAI-ChineseCheckers/engine"
	"github.com/Yuxi1001/IntroToAI-ChineseCheckers/experiments/metrics"
	"github.com/Yuxi1001/IntroToAI-ChineseCheckers/game"
	"github.com/Yuxi1001/IntroToAI-ChineseCheckers/searcher"
	"github.com/Yuxi1001/IntroToAI-ChineseCheckers/searcher/agent"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
)

// Settings shared by every match up of an experiment.
type Settings struct {
	Games     int // Per match up
	Parallel  int // Games played at once
	MaxTurns  int
	OutputDir string
	Seed      uint64 // Base seed for agents without their own, 0 seeds from the clock
}

// Experiment pairs agent configurations. Each match up is {player 1, player 2};
// the starting player alternates between games.
type Experiment struct {
	Name     string
	Configs  []metrics.AgentConfig
	MatchUps [][2]metrics.AgentConfig
}

type Results struct {
	Dir   string
	Games []metrics.GameRecord
	Moves []metrics.MoveRecord
}

var baseline = metrics.AgentConfig{ID: 0, Iterations: searcher.DefaultIterations, Strategy: "puct", Cutoff: searcher.DefaultCutoff}

// Baseline pits the default search against a uniformly random player.
func Baseline() Experiment {
	random := metrics.AgentConfig{ID: 1, Random: true}
	return Experiment{
		Name:     "baseline",
		Configs:  []metrics.AgentConfig{baseline, random},
		MatchUps: [][2]metrics.AgentConfig{{baseline, random}},
	}
}

// Strategies pits PUCT against UCB1 at the same budget.
func Strategies() Experiment {
	ucb1 := metrics.AgentConfig{ID: 1, Iterations: baseline.Iterations, Strategy: "ucb1", Cutoff: baseline.Cutoff}
	return Experiment{
		Name:     "strategy",
		Configs:  []metrics.AgentConfig{baseline, ucb1},
		MatchUps: [][2]metrics.AgentConfig{{baseline, ucb1}},
	}
}

// Budgets pairs the baseline against smaller and larger iteration budgets.
func Budgets() Experiment {
	configs := []metrics.AgentConfig{
		{ID: 1, Iterations: 100, Strategy: "puct", Cutoff: baseline.Cutoff},
		{ID: 2, Iterations: 400, Strategy: "puct", Cutoff: baseline.Cutoff},
		{ID: 3, Iterations: 1600, Strategy: "puct", Cutoff: baseline.Cutoff},
	}
	return pairWithBaseline("budget", configs)
}

// Cutoffs pairs the baseline against shorter and longer rollouts.
func Cutoffs() Experiment {
	configs := []metrics.AgentConfig{
		{ID: 1, Iterations: baseline.Iterations, Strategy: "puct", Cutoff: 10},
		{ID: 2, Iterations: baseline.Iterations, Strategy: "puct", Cutoff: 25},
		{ID: 3, Iterations: baseline.Iterations, Strategy: "puct", Cutoff: 100},
		{ID: 4, Iterations: baseline.Iterations, Strategy: "puct", Cutoff: 200},
	}
	return pairWithBaseline("cutoff", configs)
}

// Sampling pairs the baseline against agents that sample their root policy.
func Sampling() Experiment {
	configs := []metrics.AgentConfig{
		{ID: 1, Iterations: baseline.Iterations, Strategy: "puct", Cutoff: baseline.Cutoff, Temperature: 1.0},
		{ID: 2, Iterations: baseline.Iterations, Strategy: "puct", Cutoff: baseline.Cutoff, Temperature: 0.5},
	}
	return pairWithBaseline("sampling", configs)
}

func pairWithBaseline(name string, configs []metrics.AgentConfig) Experiment {
	matchUps := [][2]metrics.AgentConfig{}
	for _, config := range configs {
		matchUps = append(matchUps, [2]metrics.AgentConfig{baseline, config})
	}
	return Experiment{Name: name, Configs: append(configs, baseline), MatchUps: matchUps}
}

var registry = map[string]func() Experiment{
	"baseline": Baseline,
	"strategy": Strategies,
	"budget":   Budgets,
	"cutoff":   Cutoffs,
	"sampling": Sampling,
}

// ByName returns a predefined experiment.
func ByName(name string) (Experiment, error) {
	experiment, ok := registry[name]
	if !ok {
		names := make([]string, 0, len(registry))
		for n := range registry {
			names = append(names, n)
		}
		sort.Strings(names)
		return Experiment{}, fmt.Errorf("unknown experiment %q (want one of %v)", name, names)
	}
	return experiment(), nil
}

// Run plays every match up and stores the configurations and records as CSV.
func Run(ctx context.Context, experiment Experiment, settings Settings) (*Results, error) {
	if settings.Games <= 0 {
		return nil, fmt.Errorf("games per match up must be positive, got %d", settings.Games)
	}
	if err := validate(experiment.Configs); err != nil {
		return nil, err
	}
	for _, matchup := range experiment.MatchUps {
		if err := validate(matchup[:]); err != nil {
			return nil, err
		}
	}
	type job struct {
		id       int
		config1  metrics.AgentConfig
		config2  metrics.AgentConfig
		starting game.Player
	}
	jobs := []job{}
	for _, matchup := range experiment.MatchUps {
		for i := 0; i < settings.Games; i++ {
			starting := game.Player1
			if i%2 == 1 {
				starting = game.Player2
			}
			jobs = append(jobs, job{
				id:       len(jobs) + 1,
				config1:  withSeed(matchup[0], settings.Seed),
				config2:  withSeed(matchup[1], settings.Seed),
				starting: starting,
			})
		}
	}

	log.Info().Msgf("starting %s experiment with %d games...", experiment.Name, len(jobs))

	gameRecords := make([]metrics.GameRecord, len(jobs))
	moveRecords := make([][]metrics.MoveRecord, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	if settings.Parallel > 0 {
		g.SetLimit(settings.Parallel)
	}
	for i, j := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			log.Info().Msgf("starting game %d of %d between agent%d and agent%d...", j.id, len(jobs), j.config1.ID, j.config2.ID)

			winner, gameMetric, moveMetrics := runGame(j.config1, j.config2, j.starting, uint64(j.id), settings.MaxTurns)
			gameRecords[i] = metrics.GameRecord{
				ID:         j.id,
				Agent1:     j.config1.ID,
				Agent2:     j.config2.ID,
				GameMetric: gameMetric,
			}
			for _, mm := range moveMetrics {
				moveRecords[i] = append(moveRecords[i], metrics.MoveRecord{
					Game:       j.id,
					MoveMetric: mm,
				})
			}

			log.Info().Msgf("completed game %d with winner: %v", j.id, winner)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Info().Msgf("completed %s experiment", experiment.Name)

	results := &Results{Games: gameRecords}
	for _, records := range moveRecords {
		results.Moves = append(results.Moves, records...)
	}

	writer, err := metrics.NewWriter(settings.OutputDir, experiment.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to create experiment writer: %w", err)
	}
	results.Dir = writer.Dir()

	// Store experiment metadata
	if err = writer.WriteAgentConfigs(experiment.Configs); err != nil {
		return nil, fmt.Errorf("failed to store agent configs: %w", err)
	}
	log.Info().Msg("stored agent configs")

	// Store experiment results
	if err = writer.WriteGameRecords(results.Games); err != nil {
		return nil, fmt.Errorf("failed to write game records: %w", err)
	}
	log.Info().Msg("stored game records")

	if err = writer.WriteMoveRecords(results.Moves); err != nil {
		return nil, fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Msg("stored move records")

	return results, nil
}

// runGame executes a single game between two agents and returns the winner
func runGame(config1, config2 metrics.AgentConfig, starting game.Player, gameID uint64, maxTurns int) (game.Player, metrics.GameMetric, []metrics.MoveMetric) {
	agents := [game.Players]agent.Agent{
		createAgent(config1, 2*gameID),
		createAgent(config2, 2*gameID+1),
	}
	e := engine.LocalEngine(agents,
		engine.WithStartingPlayer(starting),
		engine.WithMaxTurns(maxTurns),
		engine.WithSeed(seedFor(config1.Seed, gameID)),
	)
	return e.Run()
}

func createAgent(config metrics.AgentConfig, stream uint64) agent.Agent {
	rng := rand.New(rand.NewSource(seedFor(config.Seed, stream)))
	if config.Random {
		return agent.NewRandomAgent(rng)
	}
	if config.Temperature > 0 {
		return agent.NewSamplingAgent(createMCTS(config, rng), config.Temperature, rng)
	}
	return agent.NewEvaluationAgent(createMCTS(config, rng))
}

func createMCTS(config metrics.AgentConfig, rng *rand.Rand) *searcher.MCTS {
	options := []searcher.Option{searcher.WithRand(rng)}

	if config.Iterations > 0 {
		options = append(options, searcher.WithIterations(config.Iterations))
	}
	if config.Cutoff > 0 {
		options = append(options, searcher.WithCutoff(config.Cutoff))
	}
	if config.Exploration > 0 {
		options = append(options, searcher.WithExploration(config.Exploration))
	}
	strategy, err := searcher.ParseStrategy(config.Strategy)
	if err != nil {
		panic(fmt.Sprintf("agent %d: %v", config.ID, err))
	}
	options = append(options, searcher.WithStrategy(strategy))

	options = append(options, searcher.WithMetrics())
	return searcher.NewMCTS(options...)
}

// seedFor derives a seed per random stream. A zero base seeds from the clock.
func seedFor(base, stream uint64) uint64 {
	if base == 0 {
		return uint64(time.Now().UnixNano()) + stream
	}
	return base*1_000_003 + stream
}

func withSeed(config metrics.AgentConfig, seed uint64) metrics.AgentConfig {
	if config.Seed == 0 && seed != 0 {
		config.Seed = seed + uint64(config.ID)
	}
	return config
}

func validate(configs []metrics.AgentConfig) error {
	for _, config := range configs {
		if config.Random {
			continue
		}
		if _, err := searcher.ParseStrategy(config.Strategy); err != nil {
			return fmt.Errorf("agent %d: %w", config.ID, err)
		}
		if config.Temperature < 0 {
			return fmt.Errorf("agent %d: temperature must not be negative, got %v", config.ID, config.Temperature)
		}
	}
	return nil
}
