package game

import "testing"

func TestLegalActionsFacingNoBet(t *testing.T) {
	br := NewBettingRound(20)
	p := &Player{ID: "p0", Chips: 500, Bet: 0, State: ActiveState}

	got := br.LegalActions(p)
	want := map[Action]bool{Check: true, Bet: true, AllInAction: true}
	for _, a := range got {
		if !want[a] {
			t.Errorf("unexpected action %s in %v", a, got)
		}
		delete(want, a)
	}
	if len(want) != 0 {
		t.Errorf("missing actions: %v", want)
	}
}

func TestLegalActionsFacingBetWithEnoughToRaise(t *testing.T) {
	br := NewBettingRound(20)
	br.CurrentBet = 100
	br.MinRaise = 100
	p := &Player{ID: "p0", Chips: 1000, Bet: 0, State: ActiveState}

	got := br.LegalActions(p)
	seen := map[Action]bool{}
	for _, a := range got {
		seen[a] = true
	}
	for _, want := range []Action{Fold, Call, Raise, AllInAction} {
		if !seen[want] {
			t.Errorf("expected %s in legal actions, got %v", want, got)
		}
	}
	if seen[Check] {
		t.Errorf("should not be able to check facing a bet")
	}
}

func TestLegalActionsShortStackCannotRaise(t *testing.T) {
	br := NewBettingRound(20)
	br.CurrentBet = 100
	br.MinRaise = 100
	p := &Player{ID: "p0", Chips: 120, Bet: 0, State: ActiveState} // can call 100 but not raise by 100 more

	got := br.LegalActions(p)
	for _, a := range got {
		if a == Raise {
			t.Fatalf("short stack should not have Raise available: %v", got)
		}
	}
}

func TestValidateRaiseBelowMinimumRejected(t *testing.T) {
	br := NewBettingRound(20)
	br.CurrentBet = 100
	br.MinRaise = 100
	p := &Player{ID: "p0", Chips: 1000, Bet: 0, State: ActiveState}

	if _, err := br.Validate(p, Raise, 150); err == nil {
		t.Fatalf("raise to 150 (below minimum total 200) should be rejected")
	}
}

func TestApplyFullRaiseReopensAction(t *testing.T) {
	br := NewBettingRound(20)
	br.CurrentBet = 20
	br.MinRaise = 20
	br.MarkActed(0)
	br.MarkActed(1)

	v, err := br.Validate(&Player{Chips: 1000, Bet: 20}, Raise, 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	br.Apply(2, v)

	if br.hasActed(0) || br.hasActed(1) {
		t.Fatalf("a full raise must clear the acted set for players who acted before it")
	}
	if br.CurrentBet != 60 || br.MinRaise != 40 {
		t.Fatalf("current_bet/min_raise wrong after raise: %+v", br)
	}
}

func TestApplyUnderMinRaiseAllInDoesNotReopenAction(t *testing.T) {
	br := NewBettingRound(20)
	br.CurrentBet = 100
	br.MinRaise = 100
	br.MarkActed(0)

	// All-in for only 30 more than current_bet: less than a full raise.
	p := &Player{Chips: 130, Bet: 0}
	v, err := br.Validate(p, AllInAction, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.IsFullRaise {
		t.Fatalf("all-in of 130 over a current bet of 100 (min raise 100) must not count as a full raise")
	}
	br.Apply(1, v)
	if !br.hasActed(0) {
		t.Fatalf("an under-minimum all-in raise must not reopen action for players who already acted")
	}
}

func TestIsCompletePreflopGivesBBTheOption(t *testing.T) {
	br := NewBettingRound(20)
	br.CurrentBet = 20
	bb := &Player{ID: "bb", Seat: 1, Bet: 20, State: ActiveState}
	sb := &Player{ID: "sb", Seat: 0, Bet: 20, State: ActiveState}
	players := []*Player{sb, bb}

	br.MarkActed(0)
	if br.IsComplete(players, true, 1) {
		t.Fatalf("preflop round must not be complete before the BB gets its option")
	}

	br.MarkActed(1)
	br.BBActed = true
	if !br.IsComplete(players, true, 1) {
		t.Fatalf("preflop round should be complete once BB has acted and everyone matches current_bet")
	}
}

func TestIsCompleteWhenAllButOneFolded(t *testing.T) {
	br := NewBettingRound(20)
	players := []*Player{
		{Seat: 0, State: ActiveState},
		{Seat: 1, State: FoldedState},
		{Seat: 2, State: FoldedState},
	}
	if !br.IsComplete(players, false, -1) {
		t.Fatalf("round should be complete with only one contesting player left")
	}
}

func TestIsCompleteAllInShowdown(t *testing.T) {
	br := NewBettingRound(20)
	players := []*Player{
		{Seat: 0, State: AllIn},
		{Seat: 1, State: AllIn},
	}
	if !br.IsComplete(players, false, -1) {
		t.Fatalf("round should be complete once nobody remains who can still act")
	}
}
