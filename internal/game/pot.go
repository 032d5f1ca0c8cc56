package game

import (
	"sort"

	"github.com/lox/pokerforbots/poker"
)

// Pot is one main or side pot: an amount, the per-player contribution level
// at which it closed (Cap), and the set of seats eligible to win it.
type Pot struct {
	Amount   int
	Cap      int // contribution level this pot closed at; every pot, the most recent one included, has a finite cap
	Eligible []int
}

// PotManager owns the authoritative partitioning of a hand's wagers into
// main and side pots. It is the only component permitted to debit chips
// (RecordBet) or credit them (via the payouts CalculatePayouts returns);
// collapsing all chip movement onto this single path rules out the
// double-debit chip-loss class of bug entirely.
type PotManager struct {
	players []*Player
	pots    []Pot
}

// NewPotManager creates a pot manager over the hand's players.
func NewPotManager(players []*Player) *PotManager {
	return &PotManager{players: players}
}

// RecordBet debits amount from player's chips and adds it to their
// street-bet and cumulative hand contribution. It is the sole chip-debit
// path in the engine.
func (pm *PotManager) RecordBet(p *Player, amount int) {
	if amount <= 0 {
		return
	}
	p.Chips -= amount
	p.Bet += amount
	p.TotalBet += amount
	if p.Chips == 0 {
		p.State = AllIn
	}
}

// SettleStreet partitions all players' cumulative contributions into pots:
// distinct contribution levels among players still ACTIVE or ALL_IN are
// sorted ascending; each level's pot collects
// (level-previous)*count-of-all-contributors-at-or-above (folded players'
// money included), with eligibility restricted to non-folded contributors
// at or above the level. This derives eligibility purely from cumulative
// contribution and fold state, independent of current ACTIVE/ALL_IN flag -
// the historical bug this fixes dropped an all-in main-pot contributor
// from eligibility because it looked at "active at settle time" instead.
func (pm *PotManager) SettleStreet() {
	levels := pm.openLevels()
	previous := pm.settledCap()

	for _, level := range levels {
		var amount int
		var eligible []int
		for _, p := range pm.players {
			contribution := p.TotalBet - previous
			if contribution <= 0 {
				continue
			}
			if contribution > level-previous {
				contribution = level - previous
			}
			amount += contribution
			if !p.Folded() && p.TotalBet >= level {
				eligible = append(eligible, p.Seat)
			}
		}
		if amount > 0 {
			pm.addOrMergePot(amount, level, eligible)
		}
		previous = level
	}

	for _, p := range pm.players {
		p.resetForStreet()
	}
}

// addOrMergePot appends a new pot, or - when its eligibility set is
// identical to the most recently created pot's - merges into it. Without
// this, settling the same hand across multiple streets with no new all-in
// would spuriously fragment one logical pot into several same-eligibility
// pots just because contributions arrived in different streets.
func (pm *PotManager) addOrMergePot(amount, cap int, eligible []int) {
	if n := len(pm.pots); n > 0 && sameSeats(pm.pots[n-1].Eligible, eligible) {
		pm.pots[n-1].Amount += amount
		pm.pots[n-1].Cap = cap
		return
	}
	pm.pots = append(pm.pots, Pot{Amount: amount, Cap: cap, Eligible: eligible})
}

func sameSeats(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	as, bs := append([]int(nil), a...), append([]int(nil), b...)
	sort.Ints(as)
	sort.Ints(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

func (pm *PotManager) settledCap() int {
	cap := 0
	for _, pot := range pm.pots {
		if pot.Cap > cap {
			cap = pot.Cap
		}
	}
	return cap
}

// openLevels returns the distinct cumulative-contribution levels among
// players still ACTIVE or ALL_IN, ascending, restricted to levels not
// already settled by a previous SettleStreet call.
func (pm *PotManager) openLevels() []int {
	alreadySettled := pm.settledCap()

	seen := make(map[int]bool)
	var levels []int
	for _, p := range pm.players {
		if p.State != ActiveState && p.State != AllIn {
			continue
		}
		if p.TotalBet <= alreadySettled {
			continue
		}
		if !seen[p.TotalBet] {
			seen[p.TotalBet] = true
			levels = append(levels, p.TotalBet)
		}
	}
	sort.Ints(levels)
	return levels
}

// Total returns the sum of all settled pot amounts plus any uncollected
// street bets still sitting with players - the "pot" figure a
// game-state snapshot reports.
func (pm *PotManager) Total() int {
	total := 0
	for _, pot := range pm.pots {
		total += pot.Amount
	}
	for _, p := range pm.players {
		total += p.Bet
	}
	return total
}

// GetPots returns the settled pots. Call SettleStreet first to fold in any
// outstanding street bets.
func (pm *PotManager) GetPots() []Pot {
	out := make([]Pot, len(pm.pots))
	copy(out, pm.pots)
	return out
}

// Payout is one (player, pot, amount) payout record.
type Payout struct {
	PlayerID string
	Seat     int
	PotIndex int
	Amount   int
}

// CalculatePayouts distributes each pot, in creation order, to the
// best-ranked eligible participant(s). Ties split as evenly as possible;
// an odd-chip remainder is awarded one chip at a time starting from the
// first eligible seat left of the button among the tied winners.
func (pm *PotManager) CalculatePayouts(ranks map[int]poker.Result, button int) []Payout {
	var payouts []Payout
	for potIdx, pot := range pm.pots {
		winners := bestRankedSeats(pot.Eligible, ranks)
		if len(winners) == 0 {
			continue
		}
		payouts = append(payouts, splitPot(pot, potIdx, winners, button, pm.seatOf)...)
	}
	return payouts
}

func (pm *PotManager) seatOf(seat int) string {
	for _, p := range pm.players {
		if p.Seat == seat {
			return p.ID
		}
	}
	return ""
}

func bestRankedSeats(eligible []int, ranks map[int]poker.Result) []int {
	if len(eligible) == 0 {
		return nil
	}
	if len(eligible) == 1 {
		return eligible
	}
	var best poker.Result
	var winners []int
	for _, seat := range eligible {
		r, ok := ranks[seat]
		if !ok {
			continue
		}
		if len(winners) == 0 {
			best = r
			winners = []int{seat}
			continue
		}
		switch r.Compare(best) {
		case 1:
			best = r
			winners = []int{seat}
		case 0:
			winners = append(winners, seat)
		}
	}
	return winners
}

func splitPot(pot Pot, potIdx int, winners []int, button int, idOf func(int) string) []Payout {
	share := pot.Amount / len(winners)
	remainder := pot.Amount % len(winners)

	ordered := seatsLeftOfButton(winners, button)

	payouts := make([]Payout, 0, len(ordered))
	for i, seat := range ordered {
		amt := share
		if i < remainder {
			amt++
		}
		payouts = append(payouts, Payout{PlayerID: idOf(seat), Seat: seat, PotIndex: potIdx, Amount: amt})
	}
	return payouts
}

// seatsLeftOfButton orders seats starting with the first seat clockwise
// from the button (i.e. the first seat "left of the button"), wrapping
// around. Used to award odd-chip remainders deterministically.
func seatsLeftOfButton(seats []int, button int) []int {
	ordered := make([]int, len(seats))
	copy(ordered, seats)
	sort.Slice(ordered, func(i, j int) bool {
		return distanceFromButton(ordered[i], button) < distanceFromButton(ordered[j], button)
	})
	return ordered
}

// maxRingSize bounds legal seat numbers (TableConfig.Validate rejects more
// than 23 players); it only needs to exceed any real seat index so the
// wraparound arithmetic below preserves clockwise order.
const maxRingSize = 64

func distanceFromButton(seat, button int) int {
	d := seat - button
	if d <= 0 {
		d += maxRingSize
	}
	return d
}
