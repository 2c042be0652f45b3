package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Yuxi1001/IntroToAI-ChineseCheckers/config"
	"github.com/Yuxi1001/IntroToAI-ChineseCheckers/engine"
	"github.com/Yuxi1001/IntroToAI-ChineseCheckers/experiments"
	"github.com/Yuxi1001/IntroToAI-ChineseCheckers/game"
	"github.com/Yuxi1001/IntroToAI-ChineseCheckers/searcher"
	"github.com/Yuxi1001/IntroToAI-ChineseCheckers/searcher/agent"
	"github.com/Yuxi1001/IntroToAI-ChineseCheckers/server"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	mode := flag.String("mode", "play", "One of play, experiment or serve")
	cfgPath := flag.String("config", "", "Path to a config file (yaml, json or toml)")
	flag.Parse()

	cfg, err := config.Setup(*cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to setup configuration")
	}
	setupLogging(cfg)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	switch *mode {
	case "play":
		play(cfg)
	case "experiment":
		runExperiment(ctx, cfg)
	case "serve":
		serve(ctx, cfg)
	default:
		log.Fatal().Msgf("Unknown mode %q", *mode)
	}
}

func setupLogging(cfg *config.Config) {
	zerolog.SetGlobalLevel(cfg.Level())
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	}
}

// play runs one self-play game with the configured search on both sides.
func play(cfg *config.Config) {
	newAgent := func(offset uint64) agent.Agent {
		options := cfg.SearchOptions()
		if cfg.Seed != 0 {
			options = append(options, searcher.WithSeed(cfg.Seed+offset))
		}
		return agent.NewEvaluationAgent(searcher.NewMCTS(append(options, searcher.WithMetrics())...))
	}
	options := []engine.Option{engine.WithMaxTurns(cfg.MaxTurns)}
	if cfg.Seed != 0 {
		options = append(options, engine.WithSeed(cfg.Seed))
	}
	e := engine.LocalEngine([game.Players]agent.Agent{newAgent(1), newAgent(2)}, options...)

	winner, gameMetric, _ := e.Run()
	log.Info().Msgf("Winner: %v after %d moves in %v", winner, gameMetric.TotalMoves, gameMetric.Duration)
	os.Stdout.WriteString(e.Board().String())
}

func runExperiment(ctx context.Context, cfg *config.Config) {
	experiment, err := experiments.ByName(cfg.Experiment)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to select experiment")
	}
	results, err := experiments.Run(ctx, experiment, experiments.Settings{
		Games:     cfg.Games,
		Parallel:  cfg.ParallelGames,
		MaxTurns:  cfg.MaxTurns,
		OutputDir: cfg.OutputDir,
		Seed:      cfg.Seed,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Experiment failed")
	}
	log.Info().Msgf("Stored %d games in %s", len(results.Games), results.Dir)
}

func serve(ctx context.Context, cfg *config.Config) {
	newAgent := func() agent.Agent {
		return agent.NewEvaluationAgent(searcher.NewMCTS(append(cfg.SearchOptions(), searcher.WithMetrics())...))
	}
	if err := server.New(newAgent, cfg.Seed).ListenAndServe(ctx, cfg.Addr); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}
}
