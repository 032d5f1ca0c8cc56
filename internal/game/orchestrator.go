package game

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/pokerforbots/internal/randutil"
	"github.com/lox/pokerforbots/poker"
)

// Orchestrator owns a table: its seating ring, the players' adapters and
// chip stacks, and the event bus every hand publishes to. It is the
// engine's single entry point for running hands, whether driven one at a
// time interactively or in bulk simulation.
type Orchestrator struct {
	config    TableConfig
	seating   *SeatingManager
	adapters  map[int]PlayerAdapter
	evaluator poker.Evaluator
	bus       *EventBus
	rng       int64 // seed for the next hand's deck, advanced each hand
	logger    *log.Logger

	handNumber int
}

// NewOrchestrator creates a table. seed seeds the deck RNG deterministically
// across hands (via internal/randutil); every value, 0 included, gives the
// same deck sequence each time. Logging starts out discarded; call
// SetLogger to attach one.
func NewOrchestrator(config TableConfig, seed int64) (*Orchestrator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	o := &Orchestrator{
		config:    config,
		seating:   NewSeatingManager(config.MaxPlayers),
		adapters:  make(map[int]PlayerAdapter),
		evaluator: poker.DefaultEvaluator{},
		bus:       NewEventBus(),
		rng:       seed,
		logger:    log.New(io.Discard),
	}
	o.bus.Subscribe(o.logEvent)
	return o, nil
}

// SetLogger attaches l as the destination for hand-lifecycle milestones
// (hand start, street transitions, hand end). Pass nil to go back to
// discarding output.
func (o *Orchestrator) SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard)
	}
	o.logger = l
}

// logEvent is subscribed to this orchestrator's own bus at construction; it
// logs at Debug so a caller that wants visibility into hand progression
// just needs SetLogger at an appropriate level.
func (o *Orchestrator) logEvent(ev Event) {
	switch ev.Type {
	case EventHandStarted:
		p := ev.Payload.(HandStartedPayload)
		o.logger.Debug("hand started", "hand", p.HandNumber, "button", p.Button, "sb", p.SB, "bb", p.BB, "dead_button", p.DeadButton, "dead_sb", p.DeadSB)
	case EventRoundStarted:
		p := ev.Payload.(RoundBoundaryPayload)
		o.logger.Debug("street started", "street", p.Street)
	case EventHandEnded:
		p := ev.Payload.(HandEndedPayload)
		o.logger.Debug("hand ended", "hand", p.HandNumber, "payouts", len(p.Payouts))
	}
}

// Events returns the table's event bus for subscription.
func (o *Orchestrator) Events() *EventBus { return o.bus }

// AddPlayer seats a new player with the given starting chip stack and
// registers its adapter. Returns the assigned seat.
func (o *Orchestrator) AddPlayer(id, name string, chips int, adapter PlayerAdapter) (int, error) {
	if o.config.MinBuyIn > 0 && chips < o.config.MinBuyIn {
		return -1, &ConfigurationError{Reason: "buy-in below table minimum"}
	}
	if o.config.MaxBuyIn > 0 && chips > o.config.MaxBuyIn {
		return -1, &ConfigurationError{Reason: "buy-in above table maximum"}
	}
	p := &Player{ID: id, Name: name, Chips: chips, State: Waiting}
	seat, err := o.seating.AddPlayer(p)
	if err != nil {
		return -1, err
	}
	o.adapters[seat] = adapter
	return seat, nil
}

// RemovePlayer removes a player and its adapter from the table.
func (o *Orchestrator) RemovePlayer(seat int) {
	o.seating.RemovePlayer(seat)
	delete(o.adapters, seat)
}

// SetSittingOut toggles whether the occupant of seat is dealt into future
// hands. Their seat, adapter, and chip stack are untouched either way.
func (o *Orchestrator) SetSittingOut(seat int, out bool) error {
	p := o.seating.PlayerAt(seat)
	if p == nil {
		return &ConfigurationError{Reason: "seat is empty"}
	}
	if out {
		p.SitOut()
	} else {
		p.SitIn()
	}
	return nil
}

// TryStartHand reports whether a hand can currently start, without
// mutating any state. It never debits chips on failure.
func (o *Orchestrator) TryStartHand() StartResult {
	eligible := 0
	for _, seat := range o.seating.OccupiedSeats() {
		if p := o.seating.PlayerAt(seat); p != nil && p.Chips > 0 && !p.sittingOut {
			eligible++
		}
	}
	if eligible < o.config.MinPlayers {
		return StartResult{
			Success: false,
			Reason:  "not_enough_players",
			Details: "fewer than the configured minimum players have chips",
		}
	}
	return StartResult{Success: true}
}

// RunHandToCompletion plays exactly one hand and returns its result. The
// caller must check TryStartHand first if it wants to distinguish a
// refusal-to-start from a hand-level error.
func (o *Orchestrator) RunHandToCompletion(ctx context.Context) (HandResult, error) {
	if sr := o.TryStartHand(); !sr.Success {
		return HandResult{}, &NotEnoughPlayersError{Have: len(o.seating.OccupiedSeats()), Want: o.config.MinPlayers}
	}

	players := o.handPlayers()
	o.handNumber++
	o.rng++
	deck := poker.NewShuffledDeck(randutil.New(o.rng))

	hs := NewHandState(o.handNumber, o.config, o.seating, players, o.adapters, o.evaluator, deck, o.bus)
	result, err := hs.Run(ctx)
	if err != nil {
		o.logger.Error("hand failed", "hand", o.handNumber, "error", err)
		return result, err
	}

	o.retireBustPlayers()
	return result, nil
}

// RunSimulations runs n hands back to back, stopping early if the table can
// no longer start a hand. When parallel is true, n independent clones of the
// current table configuration and seating are run concurrently, collected
// with errgroup, rather than fanning out n hands against this single shared
// table (which would race on PotManager/Player state). Cloning a table with
// live, stateful adapters behind the caller's back would be unsound, so the
// parallel path refuses to run unless TableConfig.SimulationMode is set.
func (o *Orchestrator) RunSimulations(ctx context.Context, n int, parallel bool) ([]HandResult, error) {
	if parallel && !o.config.SimulationMode {
		return nil, &ConfigurationError{Reason: "parallel simulation requires SimulationMode"}
	}
	if !parallel {
		var results []HandResult
		for i := 0; i < n; i++ {
			if sr := o.TryStartHand(); !sr.Success {
				break
			}
			r, err := o.RunHandToCompletion(ctx)
			if err != nil {
				return results, err
			}
			results = append(results, r)
		}
		return results, nil
	}

	results := make([][]HandResult, n)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			clone, err := o.cloneForSimulation(int64(i))
			if err != nil {
				return err
			}
			r, err := clone.RunHandToCompletion(gctx)
			if err != nil {
				return err
			}
			results[i] = []HandResult{r}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var flat []HandResult
	for _, r := range results {
		flat = append(flat, r...)
	}
	return flat, nil
}

// cloneForSimulation builds an independent Orchestrator with the same
// configuration, seating snapshot, and adapters, but its own seed and
// bus - so RunSimulations' parallel lanes never share PotManager/Player
// mutable state. lane distinguishes this clone's deck seed from its
// siblings' so concurrent lanes don't all draw the same deck.
func (o *Orchestrator) cloneForSimulation(lane int64) (*Orchestrator, error) {
	clone, err := NewOrchestrator(o.config, o.rng+lane*9973+1)
	if err != nil {
		return nil, err
	}
	clone.SetLogger(o.logger)
	for _, seat := range o.seating.OccupiedSeats() {
		src := o.seating.PlayerAt(seat)
		_, err := clone.AddPlayer(src.ID, src.Name, src.Chips, o.adapters[seat])
		if err != nil {
			return nil, err
		}
	}
	return clone, nil
}

func (o *Orchestrator) handPlayers() []*Player {
	var players []*Player
	for _, seat := range o.seating.OccupiedSeats() {
		if p := o.seating.PlayerAt(seat); p != nil && !p.sittingOut {
			players = append(players, p)
		}
	}
	return players
}

// SimulationStats aggregates outcome counts across a RunSimulations batch.
type SimulationStats struct {
	TotalSimulations      int
	SuccessfulSimulations int
	SuccessRate           float64
	AveragePot            float64
	PlayerWins            map[string]int // player ID -> number of pots won (ties count once per pot)
}

// SummarizeSimulations reduces a RunSimulations result slice into
// SimulationStats. requested is the hand count originally asked for; it can
// exceed len(results) when the batch stopped early because the table fell
// below MinPlayers.
func SummarizeSimulations(requested int, results []HandResult) SimulationStats {
	stats := SimulationStats{
		TotalSimulations:      requested,
		SuccessfulSimulations: len(results),
		PlayerWins:            make(map[string]int),
	}
	var potSum int
	for _, r := range results {
		for _, payout := range r.Payouts {
			potSum += payout.Amount
			stats.PlayerWins[payout.PlayerID]++
		}
	}
	if requested > 0 {
		stats.SuccessRate = float64(stats.SuccessfulSimulations) / float64(requested)
	}
	if len(results) > 0 {
		stats.AveragePot = float64(potSum) / float64(len(results))
	}
	return stats
}

func (o *Orchestrator) retireBustPlayers() {
	for _, seat := range o.seating.OccupiedSeats() {
		p := o.seating.PlayerAt(seat)
		if p != nil && p.Chips == 0 {
			o.RemovePlayer(seat)
		}
	}
}
