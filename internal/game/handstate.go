package game

import (
	"context"
	"fmt"

	"github.com/lox/pokerforbots/poker"
)

// HandState drives one hand from blinds through showdown: it owns the
// betting-round and pot-settlement sequencing for a single hand,
// delegating the actual bookkeeping to BettingRound, PotManager,
// SeatingManager, and the poker package's Deck/Evaluator. It never loops
// forever - every street either completes via BettingRound.IsComplete or
// is skipped outright once at most one player can still act.
type HandState struct {
	handNumber int
	config     TableConfig
	seating    *SeatingManager
	players    []*Player // this hand's seated participants, seat-ascending
	adapters   map[int]PlayerAdapter
	evaluator  poker.Evaluator
	deck       *poker.Deck
	bus        *EventBus

	pot   *PotManager
	board poker.Hand
}

// NewHandState constructs a hand driver. deck must have at least 52 cards
// remaining (or be a rigged deck prepared for this exact hand).
func NewHandState(
	handNumber int,
	config TableConfig,
	seating *SeatingManager,
	players []*Player,
	adapters map[int]PlayerAdapter,
	evaluator poker.Evaluator,
	deck *poker.Deck,
	bus *EventBus,
) *HandState {
	return &HandState{
		handNumber: handNumber,
		config:     config,
		seating:    seating,
		players:    players,
		adapters:   adapters,
		evaluator:  evaluator,
		deck:       deck,
		bus:        bus,
		pot:        NewPotManager(players),
	}
}

// HandResult summarizes a completed hand.
type HandResult struct {
	HandNumber int
	Payouts    []Payout
	Eliminated []int
}

// Run plays the hand to completion: blinds, hole cards, four betting
// streets (skipping betting once at most one player can still act, but
// always dealing through the river so an all-in runout still reaches
// showdown), settlement, and payout. It returns once the hand is fully
// resolved and chips have been credited.
func (hs *HandState) Run(ctx context.Context) (HandResult, error) {
	pos, err := hs.seating.ResolvePositions(hs.config.InitialButton)
	if err != nil {
		return HandResult{}, err
	}

	for _, p := range hs.players {
		p.resetForHand()
	}
	hs.board = 0

	hs.emit(ctx, Event{Type: EventHandStarted, Payload: HandStartedPayload{
		HandNumber: hs.handNumber,
		Button:     pos.Button,
		SB:         pos.SB,
		BB:         pos.BB,
		DeadButton: pos.DeadButton,
		DeadSB:     pos.DeadSB,
	}})

	hs.postBlinds(pos)

	if err := hs.dealHoleCards(ctx); err != nil {
		hs.refundContributions()
		return HandResult{}, &DeckExhaustedError{Cause: err}
	}

	bbPlayer := hs.seating.PlayerAt(pos.BB)
	br := NewBettingRound(hs.config.BigBlind)
	br.CurrentBet = bbPlayer.Bet
	for _, p := range hs.players {
		// A short-stacked BB can post less than the SB; current_bet is the
		// highest blind actually posted.
		if p.Bet > br.CurrentBet {
			br.CurrentBet = p.Bet
		}
	}

	startSeat := hs.nextActorAfter(pos.BB)
	if startSeat != -1 {
		hs.runBettingRound(ctx, PreFlop, br, startSeat, pos.BB, true)
	}
	hs.settleAndEmit(ctx)

	if result, done, err := hs.maybeFinishEarly(ctx, pos); done {
		hs.seating.RecordHandEnd(pos)
		return result, err
	}

	streets := []Street{Flop, Turn, River}
	for _, street := range streets {
		if err := hs.dealCommunity(ctx, street); err != nil {
			hs.refundContributions()
			return HandResult{}, &DeckExhaustedError{Cause: err}
		}

		if hs.activeCount() > 1 {
			sbr := NewBettingRound(hs.config.BigBlind)
			start := hs.nextActorAfter(pos.Button)
			if start != -1 {
				hs.runBettingRound(ctx, street, sbr, start, -1, false)
			}
		}
		hs.settleAndEmit(ctx)

		if result, done, err := hs.maybeFinishEarly(ctx, pos); done {
			hs.seating.RecordHandEnd(pos)
			return result, err
		}
	}

	result, err := hs.showdown(ctx, pos)
	hs.seating.RecordHandEnd(pos)
	return result, err
}

// emit publishes ev on the bus and, for hand-scoped happenings, notifies
// every seated adapter directly - the engine is each table's single
// emitter, but adapters still need a push channel distinct from whatever
// an external observer subscribes to the bus.
func (hs *HandState) emit(ctx context.Context, ev Event) {
	hs.bus.Publish(ev)
	for _, a := range hs.adapters {
		a.ReceiveEvent(ctx, ev)
	}
}

func (hs *HandState) postBlinds(pos Positions) {
	if pos.SB != -1 {
		sb := hs.seating.PlayerAt(pos.SB)
		amt := min(hs.config.SmallBlind, sb.Chips)
		hs.pot.RecordBet(sb, amt)
		sb.LastAction = "small_blind"
	}
	bb := hs.seating.PlayerAt(pos.BB)
	amt := min(hs.config.BigBlind, bb.Chips)
	hs.pot.RecordBet(bb, amt)
	bb.LastAction = "big_blind"
}

// refundContributions credits every player's cumulative wager this hand -
// blinds plus anything posted in a betting round, tracked as Player.TotalBet
// by PotManager.RecordBet - back onto their chip stack. It's the recovery
// path for a hand that aborts before a normal payout can be computed: a
// rigged deck running out, or a detected pot-sum mismatch. Unlike a normal
// settlement it refunds folded players' dead money too, since an aborted
// hand never determines who would have won it.
func (hs *HandState) refundContributions() {
	for _, p := range hs.players {
		if p.TotalBet > 0 {
			p.Chips += p.TotalBet
			p.TotalBet = 0
			p.Bet = 0
		}
	}
}

// dealHoleCards deals in two passes around the table (card 0 to every
// player, then card 1 to every player), matching poker.RiggedAlternating's
// documented sequence so rigged-deck tests can specify hole cards directly.
func (hs *HandState) dealHoleCards(ctx context.Context) error {
	active := make([]*Player, 0, len(hs.players))
	for _, p := range hs.players {
		if p.State != SittingOut {
			active = append(active, p)
		}
	}
	for round := 0; round < 2; round++ {
		for _, p := range active {
			c, err := hs.deck.DrawOne()
			if err != nil {
				return err
			}
			p.HoleCards = p.HoleCards.Add(c)
		}
	}
	for _, p := range active {
		if adapter := hs.adapters[p.Seat]; adapter != nil {
			adapter.ReceivePrivateCards(ctx, p.HoleCards.Cards())
		}
		hs.bus.Publish(Event{Type: EventCardsDealt, Payload: CardsDealtPayload{
			Seat: p.Seat, PlayerID: p.ID,
		}})
	}
	return nil
}

func (hs *HandState) dealCommunity(ctx context.Context, street Street) error {
	var cards []poker.Card
	var err error
	switch street {
	case Flop:
		cards, err = hs.deck.DrawFlopThree()
	case Turn:
		var c poker.Card
		c, err = hs.deck.DrawTurnOne()
		cards = []poker.Card{c}
	case River:
		var c poker.Card
		c, err = hs.deck.DrawRiverOne()
		cards = []poker.Card{c}
	}
	if err != nil {
		return err
	}
	for _, c := range cards {
		hs.board = hs.board.Add(c)
	}
	hs.emit(ctx, Event{Type: EventCardsCommunity, Payload: CardsCommunityPayload{
		Street: street, Cards: cards, Board: hs.board,
	}})
	return nil
}

func (hs *HandState) contestingCount() int {
	n := 0
	for _, p := range hs.players {
		if p.InHand() {
			n++
		}
	}
	return n
}

func (hs *HandState) activeCount() int {
	n := 0
	for _, p := range hs.players {
		if p.State == ActiveState {
			n++
		}
	}
	return n
}

// maybeFinishEarly handles the fold-to-one-winner case: no showdown, no
// evaluator call, the sole remaining contestant takes every pot.
func (hs *HandState) maybeFinishEarly(ctx context.Context, pos Positions) (HandResult, bool, error) {
	if hs.contestingCount() > 1 {
		return HandResult{}, false, nil
	}
	// Pots settled on earlier streets can still list players who folded
	// later; ranking only the remaining contestant makes them the winner of
	// every such pot.
	ranks := map[int]poker.Result{}
	for _, p := range hs.players {
		if p.InHand() {
			ranks[p.Seat] = poker.Result{}
		}
	}
	payouts := hs.pot.CalculatePayouts(ranks, pos.Button)
	result, err := hs.finish(ctx, payouts)
	return result, true, err
}

func (hs *HandState) showdown(ctx context.Context, pos Positions) (HandResult, error) {
	hs.emit(ctx, Event{Type: EventRoundStarted, Payload: RoundBoundaryPayload{Street: Showdown}})

	ranks := make(map[int]poker.Result)
	for _, p := range hs.players {
		if !p.InHand() {
			continue
		}
		full := p.HoleCards
		for _, c := range hs.board.Cards() {
			full = full.Add(c)
		}
		result, err := hs.evaluator.Evaluate(full)
		if err != nil {
			continue
		}
		ranks[p.Seat] = result
	}

	payouts := hs.pot.CalculatePayouts(ranks, pos.Button)
	return hs.finish(ctx, payouts)
}

// finish credits payouts and emits the terminal event sequence every hand
// guarantees: every chips:awarded event, then every player:eliminated
// event, then exactly one hand:ended event. It first checks that payouts
// sum to exactly what was wagered - a mismatch here means pot accounting
// has silently corrupted, so finish refunds every contribution made this
// hand, emits an EventError, and returns EngineInvariantViolation instead
// of crediting a payout it can no longer trust.
func (hs *HandState) finish(ctx context.Context, payouts []Payout) (HandResult, error) {
	wagered := hs.pot.Total()
	paid := 0
	for _, payout := range payouts {
		paid += payout.Amount
	}
	if paid != wagered {
		hs.refundContributions()
		violation := &EngineInvariantViolation{
			Invariant: "pot_sum",
			Detail:    fmt.Sprintf("payouts total %d but %d chips were wagered this hand", paid, wagered),
		}
		hs.emit(ctx, Event{Type: EventError, Payload: ErrorPayload{HandNumber: hs.handNumber, Reason: violation.Error()}})
		return HandResult{}, violation
	}

	for _, payout := range payouts {
		p := hs.seating.PlayerAt(payout.Seat)
		if p != nil {
			p.Chips += payout.Amount
		}
		hs.emit(ctx, Event{Type: EventChipsAwarded, Payload: ChipsAwardedPayload{Payout: payout}})
	}

	var eliminated []int
	for _, p := range hs.players {
		if p.Chips == 0 && p.State != SittingOut {
			eliminated = append(eliminated, p.Seat)
			hs.emit(ctx, Event{Type: EventPlayerElim, Payload: PlayerEliminatedPayload{Seat: p.Seat, PlayerID: p.ID}})
		}
	}

	hs.emit(ctx, Event{Type: EventHandEnded, Payload: HandEndedPayload{HandNumber: hs.handNumber, Payouts: payouts}})

	return HandResult{HandNumber: hs.handNumber, Payouts: payouts, Eliminated: eliminated}, nil
}

func (hs *HandState) settleAndEmit(ctx context.Context) {
	before := len(hs.pot.GetPots())
	hs.pot.SettleStreet()
	pots := hs.pot.GetPots()
	for i := before; i < len(pots); i++ {
		hs.emit(ctx, Event{Type: EventSidePotCreated, Payload: SidePotCreatedPayload{PotIndex: i, Pot: pots[i]}})
	}
	hs.emit(ctx, Event{Type: EventPotUpdated, Payload: PotUpdatedPayload{Total: hs.pot.Total(), Pots: pots}})
}

// nextActorAfter finds the next seat clockwise from seat whose occupant can
// still act this street. Returns -1 if none (everyone else is folded,
// all-in, or sitting out).
func (hs *HandState) nextActorAfter(seat int) int {
	n := hs.seating.RingSize()
	for i := 1; i <= n; i++ {
		cand := (seat + i) % n
		p := hs.seating.PlayerAt(cand)
		if p != nil && p.State == ActiveState {
			return cand
		}
	}
	return -1
}

func (hs *HandState) runBettingRound(ctx context.Context, street Street, br *BettingRound, startSeat, bbSeat int, isPreflop bool) {
	hs.emit(ctx, Event{Type: EventRoundStarted, Payload: RoundBoundaryPayload{Street: street}})

	seat := startSeat
	for seat != -1 && !br.IsComplete(hs.players, isPreflop, bbSeat) {
		p := hs.seating.PlayerAt(seat)
		if p == nil || p.State != ActiveState {
			seat = hs.nextActorAfter(seat)
			continue
		}

		resp, forced := hs.requestAction(ctx, br, p)
		v, verr := br.Validate(p, resp.Action, resp.Amount)
		if verr != nil {
			resp = hs.defaultResponse(br, p)
			v, _ = br.Validate(p, resp.Action, resp.Amount)
			forced = true
		}

		if resp.Action == Fold {
			p.State = FoldedState
		}
		if v.Delta > 0 {
			hs.pot.RecordBet(p, v.Delta)
		}
		br.Apply(seat, v)
		br.MarkActed(seat)
		if isPreflop && seat == bbSeat {
			br.BBActed = true
		}
		p.LastAction = resp.Action.String()

		hs.emit(ctx, Event{Type: EventPlayerAction, Payload: PlayerActionPayload{
			Seat: seat, PlayerID: p.ID, Action: resp.Action, Amount: resp.Amount,
			Reasoning: resp.Reasoning, Forced: forced,
		}})
		hs.emit(ctx, Event{Type: EventPotUpdated, Payload: PotUpdatedPayload{Total: hs.pot.Total()}})

		if hs.contestingCount() <= 1 {
			break
		}
		seat = hs.nextActorAfter(seat)
	}

	hs.emit(ctx, Event{Type: EventRoundEnded, Payload: RoundBoundaryPayload{Street: street}})
}

// requestAction asks p's adapter to act, re-requesting once on an invalid
// response before falling back to a forced auto-fold/auto-check, the
// engine's recovery rule for an invalid action or a timed-out adapter.
func (hs *HandState) requestAction(ctx context.Context, br *BettingRound, p *Player) (ActionResponse, bool) {
	legal := br.LegalActions(p)
	req := ActionRequest{
		Seat: p.Seat, ToCall: br.CurrentBet - p.Bet, CurrentBet: br.CurrentBet,
		MinRaise: br.MinRaise, Chips: p.Chips, Legal: legal, Board: hs.board.Cards(),
	}
	hs.emit(ctx, Event{Type: EventActionRequest, Payload: ActionRequestPayload{Seat: p.Seat, ToCall: req.ToCall, Legal: legal}})

	adapter := hs.adapters[p.Seat]
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		resp, err := adapter.Act(ctx, req)
		if err != nil {
			if ctx.Err() != nil {
				lastErr = &AdapterTimeoutError{PlayerID: p.ID}
			} else {
				lastErr = err
			}
			continue
		}
		if _, verr := br.Validate(p, resp.Action, resp.Amount); verr == nil {
			return resp, false
		}
		lastErr = &InvalidActionError{PlayerID: p.ID, Action: resp.Action, Amount: resp.Amount, Reason: "not a legal response"}
	}
	resp := hs.defaultResponse(br, p)
	if lastErr != nil {
		resp.Reasoning = lastErr.Error()
	}
	return resp, true
}

// ForceFold produces the forced-fold response used when an adapter times
// out or exhausts its retries while facing a bet it must otherwise call or
// fold - the same recovery path a disconnect or protocol violation takes.
func (hs *HandState) ForceFold(p *Player) ActionResponse {
	return ActionResponse{Action: Fold, Reasoning: "forced fold"}
}

func (hs *HandState) defaultResponse(br *BettingRound, p *Player) ActionResponse {
	if br.CurrentBet-p.Bet > 0 {
		return hs.ForceFold(p)
	}
	return ActionResponse{Action: Check, Reasoning: "forced check"}
}
