package poker

import (
	"testing"

	"github.com/lox/pokerforbots/internal/randutil"
)

func TestShuffledDeckDeterministicWithSameSeed(t *testing.T) {
	t.Parallel()
	d1 := NewShuffledDeck(randutil.New(42))
	d2 := NewShuffledDeck(randutil.New(42))

	for i := 0; i < 52; i++ {
		c1, _ := d1.DrawOne()
		c2, _ := d2.DrawOne()
		if c1 != c2 {
			t.Fatalf("card %d differs across identically-seeded decks: %s vs %s", i, c1, c2)
		}
	}
}

func TestRiggedDeckYieldsSuppliedOrderAndNoOpShuffle(t *testing.T) {
	t.Parallel()
	cards := []Card{MustParseCard("As"), MustParseCard("Kh"), MustParseCard("Qd")}
	d := NewRiggedDeck(cards, false)

	d.Shuffle() // must be a no-op

	for i, want := range cards {
		got, err := d.DrawOne()
		if err != nil {
			t.Fatalf("draw %d: %v", i, err)
		}
		if got != want {
			t.Errorf("draw %d: want %s, got %s", i, want, got)
		}
	}

	if _, err := d.DrawOne(); err != ErrDeckExhausted {
		t.Errorf("expected ErrDeckExhausted, got %v", err)
	}
}

func TestRiggedAlternatingDealsHolePairsPerPlayer(t *testing.T) {
	t.Parallel()
	p0 := [2]Card{MustParseCard("As"), MustParseCard("Ah")}
	p1 := [2]Card{MustParseCard("Kd"), MustParseCard("Kh")}
	p2 := [2]Card{MustParseCard("Qc"), MustParseCard("Qh")}
	flop := [3]Card{MustParseCard("3d"), MustParseCard("5s"), MustParseCard("7h")}
	turn := MustParseCard("9h")
	river := MustParseCard("Jc")
	burns := []Card{MustParseCard("2c"), MustParseCard("2d"), MustParseCard("2h")}

	d := RiggedAlternating([][2]Card{p0, p1, p2}, burns, flop, turn, river)

	// Two passes: round 1 gives every seat its first hole card, round 2 its
	// second, matching HandState's dealing protocol.
	for _, want := range []Card{p0[0], p1[0], p2[0], p0[1], p1[1], p2[1]} {
		c, err := d.DrawOne()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c != want {
			t.Fatalf("expected %s, got %s", want, c)
		}
	}

	flopCards, err := d.DrawFlopThree()
	if err != nil {
		t.Fatalf("flop: %v", err)
	}
	for i, want := range flop {
		if flopCards[i] != want {
			t.Errorf("flop[%d]: want %s got %s", i, want, flopCards[i])
		}
	}

	turnCard, err := d.DrawTurnOne()
	if err != nil || turnCard != turn {
		t.Errorf("turn: want %s got %s (err %v)", turn, turnCard, err)
	}

	riverCard, err := d.DrawRiverOne()
	if err != nil || riverCard != river {
		t.Errorf("river: want %s got %s (err %v)", river, riverCard, err)
	}
}
