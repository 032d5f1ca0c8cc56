package game

import "github.com/lox/pokerforbots/poker"

// PlayerState is the lifecycle state of a player's participation in a hand.
type PlayerState int

const (
	Waiting PlayerState = iota
	ActiveState
	FoldedState
	AllIn
	SittingOut
)

func (s PlayerState) String() string {
	switch s {
	case Waiting:
		return "waiting"
	case ActiveState:
		return "active"
	case FoldedState:
		return "folded"
	case AllIn:
		return "all_in"
	case SittingOut:
		return "sitting_out"
	default:
		return "unknown"
	}
}

// Player is a seat's occupant for the duration of a hand. Seat is the
// player's fixed ring position; ID is a stable identifier owned by the
// caller (not reused across players at a seat).
type Player struct {
	ID    string
	Seat  int
	Name  string
	Chips int
	State PlayerState

	Bet        int // amount contributed in the current betting round (street-bet)
	TotalBet   int // cumulative contribution across all streets this hand
	LastAction string
	HoleCards  poker.Hand

	sittingOut bool
}

// Folded reports whether the player has folded this hand.
func (p *Player) Folded() bool { return p.State == FoldedState }

// IsAllIn reports whether the player is all-in this hand.
func (p *Player) IsAllIn() bool { return p.State == AllIn }

// InHand reports whether the player is still contesting the pot (not
// folded, regardless of all-in status).
func (p *Player) InHand() bool { return p.State != FoldedState && p.State != SittingOut }

// CanAct reports whether the player can still receive an action request.
func (p *Player) CanAct() bool { return p.State == ActiveState || p.State == Waiting }

// SitOut marks the player unavailable for the hands dealt after it; their
// seat and chip stack are untouched. Unless the player has folded or is
// all-in, State also becomes SittingOut at once, which takes them out of a
// hand in progress.
func (p *Player) SitOut() {
	p.sittingOut = true
	if p.State != FoldedState && p.State != AllIn {
		p.State = SittingOut
	}
}

// SitIn clears a prior SitOut, making the player eligible for the next hand.
func (p *Player) SitIn() {
	p.sittingOut = false
	if p.State == SittingOut {
		p.State = Waiting
	}
}

func (p *Player) resetForHand() {
	p.State = ActiveState
	if p.sittingOut {
		p.State = SittingOut
	}
	p.Bet = 0
	p.TotalBet = 0
	p.LastAction = ""
	p.HoleCards = 0
}

func (p *Player) resetForStreet() {
	p.Bet = 0
}
