package experiments

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/Yuxi1001/IntroToAI-ChineseCheckers/experiments/metrics"
	"github.com/Yuxi1001/IntroToAI-ChineseCheckers/game"

	"github.com/stretchr/testify/require"
)

func countRows(t *testing.T, path string) int {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return len(rows) - 1
}

func TestByName(t *testing.T) {
	for _, name := range []string{"baseline", "strategy", "budget", "cutoff", "sampling"} {
		experiment, err := ByName(name)
		require.NoError(t, err)
		require.Equal(t, name, experiment.Name)
		require.NotEmpty(t, experiment.MatchUps)

		ids := map[int]bool{}
		for _, config := range experiment.Configs {
			ids[config.ID] = true
		}
		for _, matchup := range experiment.MatchUps {
			require.True(t, ids[matchup[0].ID], "%s: agent %d has no stored config", name, matchup[0].ID)
			require.True(t, ids[matchup[1].ID], "%s: agent %d has no stored config", name, matchup[1].ID)
		}
	}

	_, err := ByName("throughput")
	require.Error(t, err)
}

func TestCreateAgent(t *testing.T) {
	greedy := metrics.AgentConfig{ID: 1, Iterations: 10, Strategy: "puct", Seed: 1}
	sampled := greedy
	sampled.Temperature = 0.5

	require.NotEqual(t, fmt.Sprintf("%T", createAgent(greedy, 1)), fmt.Sprintf("%T", createAgent(sampled, 1)),
		"A positive temperature should build a sampling agent")

	board, err := game.NewBoard(game.Players)
	require.NoError(t, err)
	move, ok, metric := createAgent(sampled, 1).FindMove(board, game.Player1)
	require.True(t, ok)
	require.True(t, board.IsLegal(move))
	require.Equal(t, 10, metric.Episodes)
}

func TestRun(t *testing.T) {
	search := metrics.AgentConfig{ID: 1, Iterations: 10, Strategy: "ucb1", Cutoff: 5, Seed: 3}
	random := metrics.AgentConfig{ID: 2, Random: true, Seed: 4}
	experiment := Experiment{
		Name:     "smoke",
		Configs:  []metrics.AgentConfig{search, random},
		MatchUps: [][2]metrics.AgentConfig{{search, random}, {random, random}},
	}

	t.Run("records every game and move", func(t *testing.T) {
		settings := Settings{Games: 3, Parallel: 2, MaxTurns: 8, OutputDir: t.TempDir()}

		results, err := Run(context.Background(), experiment, settings)
		require.NoError(t, err)

		require.Len(t, results.Games, 6)
		require.Len(t, results.Moves, 6*8)
		for i, record := range results.Games {
			require.Equal(t, i+1, record.ID, "Records should be ordered by game")
			require.Equal(t, 8, record.TotalMoves)
			require.Equal(t, int(game.None), record.Winner)
		}
		require.Equal(t, int(game.Player1), results.Games[0].StartingPlayer)
		require.Equal(t, int(game.Player2), results.Games[1].StartingPlayer, "Starting player should alternate")
		require.Equal(t, 1, results.Games[0].Agent1)
		require.Equal(t, 2, results.Games[3].Agent1)

		require.Equal(t, 2, countRows(t, filepath.Join(results.Dir, "agent_configs.csv")))
		require.Equal(t, 6, countRows(t, filepath.Join(results.Dir, "game_records.csv")))
		require.Equal(t, 48, countRows(t, filepath.Join(results.Dir, "move_records.csv")))
	})

	t.Run("rejects an unknown strategy", func(t *testing.T) {
		bad := metrics.AgentConfig{ID: 9, Iterations: 10, Strategy: "minimax"}
		_, err := Run(context.Background(), Experiment{
			Name:     "bad",
			Configs:  []metrics.AgentConfig{bad},
			MatchUps: [][2]metrics.AgentConfig{{bad, random}},
		}, Settings{Games: 1, OutputDir: t.TempDir()})

		require.Error(t, err)
	})

	t.Run("sampling agent plays", func(t *testing.T) {
		sampled := metrics.AgentConfig{ID: 3, Iterations: 10, Strategy: "puct", Cutoff: 5, Temperature: 1.0, Seed: 5}
		results, err := Run(context.Background(), Experiment{
			Name:     "sampled",
			Configs:  []metrics.AgentConfig{sampled, random},
			MatchUps: [][2]metrics.AgentConfig{{sampled, random}},
		}, Settings{Games: 2, MaxTurns: 4, OutputDir: t.TempDir()})

		require.NoError(t, err)
		require.Len(t, results.Moves, 2*4)
		searched := 0
		for _, record := range results.Moves {
			if record.Iterations == 10 {
				searched++
			}
		}
		require.Equal(t, 2*2, searched, "Every turn of the sampling agent should come from a search")
	})

	t.Run("rejects a negative temperature", func(t *testing.T) {
		bad := metrics.AgentConfig{ID: 9, Iterations: 10, Strategy: "puct", Temperature: -1}
		_, err := Run(context.Background(), Experiment{
			Name:     "bad",
			Configs:  []metrics.AgentConfig{bad},
			MatchUps: [][2]metrics.AgentConfig{{bad, random}},
		}, Settings{Games: 1, OutputDir: t.TempDir()})

		require.Error(t, err)
	})

	t.Run("requires games", func(t *testing.T) {
		_, err := Run(context.Background(), experiment, Settings{OutputDir: t.TempDir()})

		require.Error(t, err)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := Run(ctx, experiment, Settings{Games: 1, MaxTurns: 2, OutputDir: t.TempDir()})

		require.ErrorIs(t, err, context.Canceled)
	})
}
