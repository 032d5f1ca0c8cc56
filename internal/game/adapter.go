package game

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/lox/pokerforbots/poker"
)

// ActionRequest is what the engine hands a PlayerAdapter when it is that
// player's turn to act.
type ActionRequest struct {
	Seat       int
	ToCall     int
	CurrentBet int
	MinRaise   int
	Chips      int
	Legal      []Action
	Board      []Card
}

// ActionResponse is what a PlayerAdapter returns. Amount is the new
// per-street total for Bet/Raise and, by convention, the to-call delta for
// Call, matching BettingRound.Validate: Validate recomputes the Call delta
// itself and ignores Amount for Fold, Check, and AllIn.
type ActionResponse struct {
	Action    Action
	Amount    int
	Reasoning string
}

// PlayerAdapter is the boundary between the engine and a seat's decision
// source - a human client, a bot, or a scripted test double. Act must
// honor ctx cancellation; the orchestrator treats a context deadline the
// same as AdapterTimeoutError (auto-fold facing a bet, auto-check
// otherwise).
type PlayerAdapter interface {
	Act(ctx context.Context, req ActionRequest) (ActionResponse, error)
	ReceivePrivateCards(ctx context.Context, holeCards []Card)
	ReceiveEvent(ctx context.Context, ev Event)
}

// Card aliases poker.Card so PlayerAdapter implementations in this package
// don't need a separate import for the common case of inspecting
// hole/board cards.
type Card = poker.Card

// ScriptedAdapter is a deterministic PlayerAdapter for tests: it returns
// one scripted response per call to Act, in order, and records every
// event and hole-card delivery it receives for assertions.
type ScriptedAdapter struct {
	Responses []ActionResponse
	next      int

	HoleCards []Card
	Events    []Event
}

// NewScriptedAdapter creates an adapter that plays back responses in order.
func NewScriptedAdapter(responses ...ActionResponse) *ScriptedAdapter {
	return &ScriptedAdapter{Responses: responses}
}

func (s *ScriptedAdapter) Act(ctx context.Context, req ActionRequest) (ActionResponse, error) {
	if s.next >= len(s.Responses) {
		return ActionResponse{}, fmt.Errorf("game: scripted adapter exhausted at seat %d", req.Seat)
	}
	resp := s.Responses[s.next]
	s.next++
	return resp, nil
}

func (s *ScriptedAdapter) ReceivePrivateCards(ctx context.Context, holeCards []Card) {
	s.HoleCards = holeCards
}

func (s *ScriptedAdapter) ReceiveEvent(ctx context.Context, ev Event) {
	s.Events = append(s.Events, ev)
}

// RandomAdapter picks uniformly among the legal actions it's offered each
// turn, and a uniformly random amount within the legal range for bets and
// raises. It's the simulation-mode opponent used to exercise the engine at
// volume, not a strategy worth modeling.
type RandomAdapter struct {
	rng *rand.Rand
}

// NewRandomAdapter creates a RandomAdapter driven by rng.
func NewRandomAdapter(rng *rand.Rand) *RandomAdapter {
	return &RandomAdapter{rng: rng}
}

func (r *RandomAdapter) Act(ctx context.Context, req ActionRequest) (ActionResponse, error) {
	if len(req.Legal) == 0 {
		return ActionResponse{Action: Fold, Reasoning: "random-adapter no legal actions"}, nil
	}

	action := req.Legal[r.rng.IntN(len(req.Legal))]
	playerBet := req.CurrentBet - req.ToCall

	var amount int
	switch action {
	case Call:
		amount = req.ToCall
	case Bet:
		amount = r.randBetween(req.MinRaise, req.Chips)
	case Raise:
		minTotal := req.CurrentBet + req.MinRaise
		maxTotal := req.Chips + playerBet
		amount = r.randBetween(minTotal, maxTotal)
	}

	return ActionResponse{Action: action, Amount: amount, Reasoning: "random-adapter random action"}, nil
}

// randBetween returns a uniform random value in [lo, hi], clamped to hi
// when the range is empty or inverted (a short stack facing a min-raise
// floor above its remaining chips).
func (r *RandomAdapter) randBetween(lo, hi int) int {
	if hi <= lo {
		return hi
	}
	return lo + r.rng.IntN(hi-lo+1)
}

func (r *RandomAdapter) ReceivePrivateCards(ctx context.Context, holeCards []Card) {}

func (r *RandomAdapter) ReceiveEvent(ctx context.Context, ev Event) {}
