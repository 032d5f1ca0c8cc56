package game

import "fmt"

// ConfigurationError reports an invalid TableConfig: non-positive blinds,
// min_players < 2, or a seat-capacity violation.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("game: configuration error: %s", e.Reason)
}

// NotEnoughPlayersError is returned when a hand is requested with fewer
// occupied seats than TableConfig.MinPlayers. The hand does not start and
// state is left unchanged.
type NotEnoughPlayersError struct {
	Have, Want int
}

func (e *NotEnoughPlayersError) Error() string {
	return fmt.Sprintf("game: not enough players: have %d, need %d", e.Have, e.Want)
}

// InvalidActionError reports an adapter response that is not in the legal
// action set, or a BET/RAISE amount out of range. The betting driver
// re-requests once before forcing an auto-fold/auto-check; the second
// request is identical to the first and carries no diagnostics.
type InvalidActionError struct {
	PlayerID string
	Action   Action
	Amount   int
	Reason   string
}

func (e *InvalidActionError) Error() string {
	return fmt.Sprintf("game: invalid action from %s: %s %d (%s)", e.PlayerID, e.Action, e.Amount, e.Reason)
}

// DeckExhaustedError is fatal to the hand: dealing stops, every
// contribution posted so far this hand is refunded, and the error surfaces
// to the caller immediately. It should be unreachable with a standard
// 52-card deck at any legal table size; it only fires against a rigged deck
// prepared with too few cards for the hand it's dealing.
type DeckExhaustedError struct {
	Cause error
}

func (e *DeckExhaustedError) Error() string {
	return fmt.Sprintf("game: deck exhausted: %v", e.Cause)
}

func (e *DeckExhaustedError) Unwrap() error { return e.Cause }

// AdapterTimeoutError reports that a player adapter did not respond within
// the configured deadline; it is recovered locally as an auto-fold (facing
// a bet) or auto-check (otherwise) and never surfaces to the caller.
type AdapterTimeoutError struct {
	PlayerID string
}

func (e *AdapterTimeoutError) Error() string {
	return fmt.Sprintf("game: adapter timeout: %s", e.PlayerID)
}

// EngineInvariantViolation reports chip-conservation, pot-sum, or
// eligibility corruption. It is fatal: finish refunds every contribution
// made this hand rather than credit a payout it can no longer trust, emits
// an EventError, and returns the error to the caller to decide how to
// handle a corrupted table. This must be unreachable in correct operation;
// it exists only to arrest silent corruption rather than let it propagate
// into chip balances.
type EngineInvariantViolation struct {
	Invariant string
	Detail    string
}

func (e *EngineInvariantViolation) Error() string {
	return fmt.Sprintf("game: invariant violated (%s): %s", e.Invariant, e.Detail)
}

// StartResult is the outcome of TryStartHand: { success, reason?, details? }.
// A failed TryStartHand never mutates chip balances.
type StartResult struct {
	Success bool
	Reason  string
	Details string
}
