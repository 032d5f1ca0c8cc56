// Command simulate runs a batch of hands against a table of random-action
// opponents and reports aggregate results, driving the same state machine
// interactive play uses - only the suspension discipline differs.
package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/lox/pokerforbots/internal/game"
	"github.com/lox/pokerforbots/internal/randutil"
)

type CLI struct {
	Hands      int   `default:"10000" help:"Number of hands to simulate"`
	Players    int   `default:"6" help:"Number of seats at the table"`
	SmallBlind int   `default:"10" help:"Small blind size"`
	BigBlind   int   `default:"20" help:"Big blind size"`
	BuyIn      int   `default:"2000" help:"Starting chip stack per player"`
	Seed       int64 `default:"1" help:"Deck RNG seed"`
	Parallel   bool  `help:"Run hands concurrently across independent table clones"`
	Verbose    bool  `short:"v" help:"Verbose logging"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli)

	level := log.WarnLevel
	if cli.Verbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{Level: level})

	stats, simStats, err := runSimulation(cli, logger)
	if err != nil {
		logger.Error("simulation failed", "error", err)
		os.Exit(1)
	}

	printResults(stats, simStats)
	ctx.Exit(0)
}

// Statistics aggregates pot-size results across a batch of simulated hands,
// expressed in big blinds so runs at different stakes are comparable.
type Statistics struct {
	Hands    int
	SumBB    float64
	SumBB2   float64
	Values   []float64
	bigBlind int
}

func (s *Statistics) Add(potChips int) {
	bb := float64(potChips) / float64(s.bigBlind)
	s.Hands++
	s.SumBB += bb
	s.SumBB2 += bb * bb
	s.Values = append(s.Values, bb)
}

func (s *Statistics) Mean() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.SumBB / float64(s.Hands)
}

func (s *Statistics) StdDev() float64 {
	if s.Hands < 2 {
		return 0
	}
	mean := s.Mean()
	variance := (s.SumBB2 - float64(s.Hands)*mean*mean) / float64(s.Hands-1)
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance)
}

func (s *Statistics) Median() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), s.Values...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

func runSimulation(cli CLI, logger *log.Logger) (*Statistics, game.SimulationStats, error) {
	// The table has at least two seats, so a single bot gets a valid table
	// that never starts a hand rather than a configuration error.
	config := game.TableConfig{
		SmallBlind:     cli.SmallBlind,
		BigBlind:       cli.BigBlind,
		MinPlayers:     2,
		MaxPlayers:     max(cli.Players, 2),
		InitialButton:  -1,
		SimulationMode: true,
	}

	orch, err := game.NewOrchestrator(config, cli.Seed)
	if err != nil {
		return nil, game.SimulationStats{}, fmt.Errorf("table setup: %w", err)
	}
	orch.SetLogger(logger)

	rng := randutil.New(cli.Seed)
	for i := 0; i < cli.Players; i++ {
		id := fmt.Sprintf("bot-%d", i)
		if _, err := orch.AddPlayer(id, id, cli.BuyIn, game.NewRandomAdapter(rng)); err != nil {
			return nil, game.SimulationStats{}, fmt.Errorf("seat %s: %w", id, err)
		}
	}

	stats := &Statistics{bigBlind: cli.BigBlind}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	results, err := orch.RunSimulations(ctx, cli.Hands, cli.Parallel)
	simStats := game.SummarizeSimulations(cli.Hands, results)
	if err != nil {
		return stats, simStats, err
	}

	for _, r := range results {
		potSize := 0
		for _, payout := range r.Payouts {
			potSize += payout.Amount
		}
		stats.Add(potSize)
	}

	return stats, simStats, nil
}

func printResults(stats *Statistics, simStats game.SimulationStats) {
	fmt.Printf("hands played: %d\n", stats.Hands)
	fmt.Printf("mean: %.4f bb/hand\n", stats.Mean())
	fmt.Printf("median: %.4f bb/hand\n", stats.Median())
	fmt.Printf("std dev: %.4f bb\n", stats.StdDev())
	fmt.Printf("success rate: %.2f%%\n", simStats.SuccessRate*100)
	fmt.Printf("average pot: %.2f chips\n", simStats.AveragePot)
}
