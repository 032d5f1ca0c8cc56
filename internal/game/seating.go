package game

import "sort"

// SeatingManager owns the circular seating ring: an indexed sequence of
// optionally-occupied seats (never a linked structure with
// back-references), lowest-seat-first join assignment, and the dealer
// button / blind rotation including tournament dead-button rules.
type SeatingManager struct {
	seats      []*Player // index = seat number; nil = empty
	lastBBSeat int       // -1 until a hand has completed
	lastSBSeat int       // -1 if no live SB was posted last hand
}

// NewSeatingManager creates a ring with the given number of seats.
func NewSeatingManager(ringSize int) *SeatingManager {
	return &SeatingManager{
		seats:      make([]*Player, ringSize),
		lastBBSeat: -1,
		lastSBSeat: -1,
	}
}

// RingSize returns the number of seats in the ring.
func (sm *SeatingManager) RingSize() int { return len(sm.seats) }

// Occupied reports whether seat currently holds a player.
func (sm *SeatingManager) Occupied(seat int) bool {
	return seat >= 0 && seat < len(sm.seats) && sm.seats[seat] != nil
}

// PlayerAt returns the occupant of seat, or nil if empty.
func (sm *SeatingManager) PlayerAt(seat int) *Player {
	if !sm.Occupied(seat) {
		return nil
	}
	return sm.seats[seat]
}

// AddPlayer seats p at the lowest-numbered empty seat.
func (sm *SeatingManager) AddPlayer(p *Player) (int, error) {
	for i := range sm.seats {
		if sm.seats[i] == nil {
			p.Seat = i
			sm.seats[i] = p
			return i, nil
		}
	}
	return -1, &ConfigurationError{Reason: "no empty seats available"}
}

// RemovePlayer vacates seat.
func (sm *SeatingManager) RemovePlayer(seat int) {
	if seat >= 0 && seat < len(sm.seats) {
		sm.seats[seat] = nil
	}
}

// OccupiedSeats returns all occupied seat indices, ascending.
func (sm *SeatingManager) OccupiedSeats() []int {
	var out []int
	for i, p := range sm.seats {
		if p != nil {
			out = append(out, i)
		}
	}
	sort.Ints(out)
	return out
}

func (sm *SeatingManager) ring() int { return len(sm.seats) }

// eligible reports whether seat holds a player who can be dealt into the
// next hand: occupied and not sitting out. A sitting-out player keeps
// their seat but is invisible to position resolution.
func (sm *SeatingManager) eligible(seat int) bool {
	p := sm.PlayerAt(seat)
	return p != nil && !p.sittingOut
}

// eligibleSeats returns all seats eligible for the next hand, ascending.
func (sm *SeatingManager) eligibleSeats() []int {
	var out []int
	for i, p := range sm.seats {
		if p != nil && !p.sittingOut {
			out = append(out, i)
		}
	}
	sort.Ints(out)
	return out
}

// nextOccupiedAfter searches strictly after seat (wrapping) for the first
// hand-eligible seat, i.e. "the first non-sitting-out occupied seat
// clockwise from seat".
func (sm *SeatingManager) nextOccupiedAfter(seat int) int {
	n := sm.ring()
	for i := 1; i <= n; i++ {
		cand := (seat + i) % n
		if sm.eligible(cand) {
			return cand
		}
	}
	return -1
}

// Positions is the resolved button/blind assignment for one hand.
type Positions struct {
	Button     int
	SB         int // -1 if no small blind is posted (dead SB)
	BB         int
	DeadButton bool
	DeadSB     bool
}

// ResolvePositions computes the button, SB, and BB seats for the next hand,
// including the dead-button/dead-SB cases a mid-tournament elimination can
// produce. initialButton seeds the very first hand only (use a negative
// value to default to the lowest occupied seat).
func (sm *SeatingManager) ResolvePositions(initialButton int) (Positions, error) {
	occupied := sm.eligibleSeats()
	if len(occupied) < 2 {
		return Positions{}, &NotEnoughPlayersError{Have: len(occupied), Want: 2}
	}

	if sm.lastBBSeat == -1 {
		return sm.firstHandPositions(occupied, initialButton), nil
	}

	if len(occupied) == 2 {
		bb := sm.nextOccupiedAfter(sm.lastBBSeat)
		var sb int
		for _, s := range occupied {
			if s != bb {
				sb = s
			}
		}
		return Positions{Button: sb, SB: sb, BB: bb}, nil
	}

	n := sm.ring()
	bb := sm.nextOccupiedAfter(sm.lastBBSeat)
	sbSeat := (bb - 1 + n) % n
	buttonSeat := (sbSeat - 1 + n) % n

	deadSB := !sm.eligible(sbSeat) || sbSeat == sm.lastSBSeat
	sb := sbSeat
	if deadSB {
		sb = -1
	}
	deadButton := !sm.Occupied(buttonSeat)

	return Positions{
		Button:     buttonSeat,
		SB:         sb,
		BB:         bb,
		DeadButton: deadButton,
		DeadSB:     deadSB,
	}, nil
}

func (sm *SeatingManager) firstHandPositions(occupied []int, initialButton int) Positions {
	button := initialButton
	if button < 0 || !sm.eligible(button) {
		button = occupied[0]
	}

	if len(occupied) == 2 {
		sb := button
		bb := sm.nextOccupiedAfter(button)
		return Positions{Button: button, SB: sb, BB: bb}
	}

	sb := sm.nextOccupiedAfter(button)
	bb := sm.nextOccupiedAfter(sb)
	return Positions{Button: button, SB: sb, BB: bb}
}

// RecordHandEnd updates the rotation bookkeeping after a hand completes so
// the next ResolvePositions call honors "BB moves forward one occupied
// seat, no player posts BB twice in a row".
func (sm *SeatingManager) RecordHandEnd(pos Positions) {
	sm.lastBBSeat = pos.BB
	sm.lastSBSeat = pos.SB // -1 if this hand's SB was dead
}
