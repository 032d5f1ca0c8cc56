package main

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"
)

func TestRunSimulationProducesStats(t *testing.T) {
	cli := CLI{
		Hands:      25,
		Players:    3,
		SmallBlind: 10,
		BigBlind:   20,
		BuyIn:      500,
		Seed:       42,
	}
	logger := log.New(io.Discard)

	stats, simStats, err := runSimulation(cli, logger)
	require.NoError(t, err)

	require.Equal(t, 25, simStats.TotalSimulations)
	require.LessOrEqual(t, simStats.SuccessfulSimulations, simStats.TotalSimulations)
	require.Equal(t, simStats.SuccessfulSimulations, stats.Hands)
	require.GreaterOrEqual(t, simStats.SuccessRate, 0.0)
}

func TestRunSimulationStopsWhenOnlyOneSeatFilled(t *testing.T) {
	cli := CLI{
		Hands:      10,
		Players:    1, // MinPlayers is hardcoded to 2, so no hand can ever start
		SmallBlind: 10,
		BigBlind:   20,
		BuyIn:      500,
		Seed:       1,
	}
	logger := log.New(io.Discard)

	stats, simStats, err := runSimulation(cli, logger)
	require.NoError(t, err)
	require.Equal(t, 0, stats.Hands)
	require.Equal(t, 0, simStats.SuccessfulSimulations)
}
