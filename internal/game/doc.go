// Package game implements the core No-Limit Texas Hold'em hand lifecycle:
// blind posting, betting rounds, pot/side-pot accounting, showdown
// resolution, and the dealer-button rotation including tournament
// dead-button rules. It consumes a pluggable poker.Evaluator and
// poker.Deck and drives an external PlayerAdapter cooperatively, one
// decision at a time.
//
// The main type is HandState, which advances a single hand through its
// phases. Orchestrator wraps a sequence of hands across a persistent
// seating ring, owns the event stream, and exposes the synchronous
// "run to completion" and bulk-simulation entry points.
//
// # Basic Usage
//
//	cfg := game.TableConfig{SmallBlind: 5, BigBlind: 10, MinPlayers: 2, MaxPlayers: 9}
//	orch, _ := game.NewOrchestrator(cfg, time.Now().UnixNano())
//	orch.AddPlayer("alice", "Alice", 1000, aliceAdapter)
//	orch.AddPlayer("bob", "Bob", 1000, bobAdapter)
//	result, err := orch.RunHandToCompletion(context.Background())
//
// # Deterministic Testing
//
// Seed NewOrchestrator with a fixed value, or construct a HandState
// directly over a poker.NewRiggedDeck, to get bit-identical event
// sequences across runs.
//
// # Architecture
//
// HandState delegates to specialized components:
//   - SeatingManager: button rotation, SB/BB resolution, dead-button rules.
//   - BettingRound: betting legality, min-raise/reopen rules, round termination.
//   - PotManager: per-street contribution collection and side-pot partitioning.
//   - poker.Deck / poker.Evaluator: dealing and showdown ranking.
//
// Orchestrator owns the EventBus and the between-hand seating ring; it is
// the only thing that rotates the button or mutates chip balances outside
// of a hand (buy-in/cash-out). Call SetLogger to route hand-lifecycle
// milestones to a *charmbracelet/log.Logger; by default they're discarded.
package game
