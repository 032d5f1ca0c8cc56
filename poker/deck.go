package poker

import (
	"errors"
	"math/rand/v2"
)

// ErrDeckExhausted is returned by the draw operations when no cards remain.
var ErrDeckExhausted = errors.New("poker: deck exhausted")

// BurnsEnabled is the engine-wide constant deciding whether the runtime deck
// burns a card before the flop/turn/river, matching standard casino
// procedure. It applies to rigged decks as well; RiggedAlternating lays the
// burn cards into its sequence so a rigged hand lines up with it.
const BurnsEnabled = true

// Deck is an ordered sequence of cards with a draw cursor: all 52 cards for
// a shuffled deck, exactly the supplied cards for a rigged one. Between
// Reset/Shuffle calls a Deck never returns the same card twice; Reset/Shuffle
// rewind the cursor and (for a shuffled deck) reshuffle.
type Deck struct {
	cards     [52]Card
	next      int
	rng       *rand.Rand
	rigged    bool
	sequence  []Card // only set for rigged decks
}

// NewShuffledDeck returns a full 52-card deck in a uniformly random
// permutation. A non-nil seed produces a deterministic, repeatable ordering;
// identical seeds produce identical orderings.
func NewShuffledDeck(rng *rand.Rand) *Deck {
	if rng == nil {
		rng = rand.New(rand.NewPCG(1, 1))
	}
	d := &Deck{rng: rng}
	i := 0
	for suit := uint8(0); suit < 4; suit++ {
		for rank := uint8(0); rank < 13; rank++ {
			d.cards[i] = NewCard(rank, suit)
			i++
		}
	}
	d.Shuffle()
	return d
}

// NewRiggedDeck returns a deck that yields cards in the supplied order.
// Shuffle is a no-op on a rigged deck. If alternating is true the deck is
// documented (by the caller, typically via RiggedAlternating) to already be
// laid out for two-consecutive-cards-per-player hole dealing; the flag is
// recorded for introspection but drawing behaves identically either way -
// draw_hole_pair always consumes two consecutive cards from the sequence.
func NewRiggedDeck(cards []Card, alternating bool) *Deck {
	seq := make([]Card, len(cards))
	copy(seq, cards)
	return &Deck{rigged: true, sequence: seq}
}

// Shuffle reshuffles the deck using Fisher-Yates and resets the cursor. It
// is a no-op for a rigged deck.
func (d *Deck) Shuffle() {
	if d.rigged {
		return
	}
	d.next = 0
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Reset rewinds the draw cursor to the start and, for a non-rigged deck,
// reshuffles.
func (d *Deck) Reset() {
	if d.rigged {
		d.next = 0
		return
	}
	d.Shuffle()
}

// CardsRemaining returns the number of cards left to draw.
func (d *Deck) CardsRemaining() int {
	if d.rigged {
		return len(d.sequence) - d.next
	}
	return len(d.cards) - d.next
}

func (d *Deck) draw(n int) ([]Card, error) {
	if d.CardsRemaining() < n {
		return nil, ErrDeckExhausted
	}
	var out []Card
	if d.rigged {
		out = append(out, d.sequence[d.next:d.next+n]...)
	} else {
		out = append(out, d.cards[d.next:d.next+n]...)
	}
	d.next += n
	return out, nil
}

// DrawOne draws a single card, typically used for burns.
func (d *Deck) DrawOne() (Card, error) {
	cards, err := d.draw(1)
	if err != nil {
		return 0, err
	}
	return cards[0], nil
}

// DrawHolePair draws two consecutive cards for one player's hole cards.
func (d *Deck) DrawHolePair() (Card, Card, error) {
	cards, err := d.draw(2)
	if err != nil {
		return 0, 0, err
	}
	return cards[0], cards[1], nil
}

// DrawFlopThree draws the three flop cards, burning one first if BurnsEnabled.
func (d *Deck) DrawFlopThree() ([]Card, error) {
	if BurnsEnabled {
		if _, err := d.DrawOne(); err != nil {
			return nil, err
		}
	}
	return d.draw(3)
}

// DrawTurnOne draws the turn card, burning one first if BurnsEnabled.
func (d *Deck) DrawTurnOne() (Card, error) {
	if BurnsEnabled {
		if _, err := d.DrawOne(); err != nil {
			return 0, err
		}
	}
	return d.DrawOne()
}

// DrawRiverOne draws the river card, burning one first if BurnsEnabled.
func (d *Deck) DrawRiverOne() (Card, error) {
	if BurnsEnabled {
		if _, err := d.DrawOne(); err != nil {
			return 0, err
		}
	}
	return d.DrawOne()
}

// RiggedAlternating precomputes the flat draw order a HandState will consume
// for a hand with the given per-player hole cards, burn cards, flop, turn,
// and river, so a test can specify "player 0 gets As Ah, player 1 gets Kd
// Kh, ..." directly instead of hand-laying-out the whole deck.
//
// The order matches HandState's dealing protocol: two hole-card passes
// around the table (so holesPerPlayer[0][0], holesPerPlayer[1][0], ...,
// holesPerPlayer[0][1], holesPerPlayer[1][1], ...), each interleaved with a
// burn before the flop/turn/river when BurnsEnabled, then the flop, turn,
// and river cards themselves. The caller supplies burn cards explicitly
// (burns); they are laid out only when BurnsEnabled, and supplied burns
// beyond the three used are ignored.
func RiggedAlternating(holesPerPlayer [][2]Card, burns []Card, flop [3]Card, turn, river Card) *Deck {
	var seq []Card
	burnIdx := 0
	nextBurn := func() {
		if BurnsEnabled && burnIdx < len(burns) {
			seq = append(seq, burns[burnIdx])
			burnIdx++
		}
	}

	// Two passes: round 1 gives card 0 to every player, round 2 gives card 1.
	for round := 0; round < 2; round++ {
		for _, holes := range holesPerPlayer {
			seq = append(seq, holes[round])
		}
	}

	nextBurn()
	seq = append(seq, flop[:]...)

	nextBurn()
	seq = append(seq, turn)

	nextBurn()
	seq = append(seq, river)

	return NewRiggedDeck(seq, true)
}
