package holdem

import (
	"fmt"

	"github.com/lox/cfrsolver/internal/errs"
)

// ApplyAction applies a to the state: validates the acting player and the
// action's legality for its type, updates stacks/bets/pot, then runs
// end-of-round detection (street transition or next-actor selection).
func (s *State) ApplyAction(a Action) error {
	if s.CurrentPlayer < 0 {
		return fmt.Errorf("holdem: apply_action on a terminated hand: %w", errs.ErrContractViolation)
	}
	p := a.PlayerIndex
	if p != s.CurrentPlayer {
		return fmt.Errorf("holdem: action from player %d, expected %d: %w", p, s.CurrentPlayer, errs.ErrContractViolation)
	}
	if s.HasFolded[p] {
		return fmt.Errorf("holdem: action from folded player %d: %w", p, errs.ErrContractViolation)
	}

	switch a.Type {
	case Fold:
		s.HasFolded[p] = true
	case Call:
		if err := s.applyCall(p, a); err != nil {
			return err
		}
	case Raise:
		if err := s.applyRaise(p, a); err != nil {
			return err
		}
	default:
		return fmt.Errorf("holdem: unknown action type %v: %w", a.Type, errs.ErrInvalidInput)
	}

	s.acted[p] = true
	s.afterAction(p)
	return nil
}

func (s *State) applyCall(p int, a Action) error {
	maxBet := s.MaxBet()
	toCall := maxBet - s.CurrentBets[p]
	if toCall < 0 {
		return fmt.Errorf("holdem: player %d already exceeds max bet: %w", p, errs.ErrContractViolation)
	}
	actual := toCall
	if actual > s.Stacks[p] {
		actual = s.Stacks[p]
	}
	newBet := s.CurrentBets[p] + actual
	if a.Amount != newBet {
		return fmt.Errorf("holdem: call amount %d does not match computed total %d for player %d: %w", a.Amount, newBet, p, errs.ErrInvalidInput)
	}
	s.Stacks[p] -= actual
	s.CurrentBets[p] = newBet
	s.Contributed[p] += actual
	s.Pot += actual
	return nil
}

func (s *State) applyRaise(p int, a Action) error {
	maxBet := s.MaxBet()
	added := a.Amount - s.CurrentBets[p]
	if added <= 0 || added > s.Stacks[p] {
		return fmt.Errorf("holdem: illegal raise amount %d for player %d (stack %d, current bet %d): %w",
			a.Amount, p, s.Stacks[p], s.CurrentBets[p], errs.ErrInvalidInput)
	}
	if a.Amount <= maxBet {
		return fmt.Errorf("holdem: raise to %d does not exceed max bet %d: %w", a.Amount, maxBet, errs.ErrContractViolation)
	}
	isAllIn := added == s.Stacks[p]
	increment := a.Amount - maxBet
	if !isAllIn && increment < s.LastRaiseSize {
		return fmt.Errorf("holdem: raise increment %d below minimum %d for player %d: %w", increment, s.LastRaiseSize, p, errs.ErrContractViolation)
	}

	s.Stacks[p] -= added
	s.CurrentBets[p] = a.Amount
	s.Contributed[p] += added
	s.Pot += added
	s.LastAggressor = p
	if !isAllIn || increment >= s.LastRaiseSize {
		s.LastRaiseSize = increment
	}
	return nil
}

// afterAction runs end-of-round detection after the action by actor has
// been applied. One live player left ends the hand outright. Otherwise the
// round is still open — someone with chips has not yet matched the
// current bet — until isBettingComplete agrees, in which case a street
// closed with at most one player still able to act (the rest folded or
// all-in) runs out the remaining board instead of dealing a next actor;
// isBettingComplete itself ignores all-in players, so a player who still
// owes a call against an all-in raise is never skipped.
func (s *State) afterAction(actor int) {
	if s.NumActive() <= 1 {
		s.CurrentStreet = Showdown
		s.CurrentPlayer = -1
		return
	}

	if !s.isBettingComplete() {
		next := s.nextActiveSeat(actor)
		if next == -1 {
			// Nobody else can act yet betting is still open: only
			// possible if every other non-folded seat is all-in and the
			// actor themself still owes a call, which cannot happen
			// immediately after the actor's own action. Guarded rather
			// than assumed.
			s.runOutRemainingStreets()
			s.CurrentPlayer = -1
			return
		}
		s.CurrentPlayer = next
		return
	}

	canAct := 0
	for seat, folded := range s.HasFolded {
		if !folded && s.Stacks[seat] > 0 {
			canAct++
		}
	}
	if canAct <= 1 {
		s.runOutRemainingStreets()
		s.CurrentPlayer = -1
		return
	}

	s.ProgressToNextStreet()
}

// isBettingComplete reports whether every player who can still act has
// matched the current bet and has acted at least once this street. Ported
// from the teacher's BettingRound.IsBettingComplete; its explicit
// "BB gets the option" special case is folded into the generic acted-check
// here, since a BB who has not yet acted already fails allActed — see
// DESIGN.md.
func (s *State) isBettingComplete() bool {
	maxBet := s.MaxBet()
	for seat, folded := range s.HasFolded {
		if folded || s.Stacks[seat] == 0 {
			continue
		}
		if s.CurrentBets[seat] != maxBet {
			return false
		}
		if !s.acted[seat] {
			return false
		}
	}
	return true
}

// nextActiveSeat returns the next seat after from (in seating order) that
// is neither folded nor all-in, or -1 if no such seat exists.
func (s *State) nextActiveSeat(from int) int {
	for i := 1; i <= s.NumPlayers; i++ {
		seat := (from + i) % s.NumPlayers
		if seat == from {
			break
		}
		if !s.HasFolded[seat] && s.Stacks[seat] > 0 {
			return seat
		}
	}
	return -1
}

// ProgressToNextStreet advances to the next street: burns one card and
// deals the street's board cards, resets per-street betting state, and
// selects the first actor. If at most one seat remains able to act, it
// terminates the hand; when exactly one seat can still act, it first runs
// out the remaining streets' board cards.
func (s *State) ProgressToNextStreet() {
	s.CurrentStreet++
	if s.CurrentStreet == Showdown {
		s.CurrentPlayer = -1
		return
	}

	s.dealStreetBoard()

	for i := range s.CurrentBets {
		s.CurrentBets[i] = 0
	}
	for i := range s.acted {
		s.acted[i] = false
	}
	s.LastRaiseSize = s.BigBlind
	s.LastAggressor = -1

	canAct := 0
	for seat, folded := range s.HasFolded {
		if !folded && s.Stacks[seat] > 0 {
			canAct++
		}
	}
	if canAct == 0 {
		s.CurrentPlayer = -1
		return
	}
	if canAct == 1 {
		s.runOutRemainingStreets()
		s.CurrentPlayer = -1
		return
	}

	first := s.firstToActPostflop()
	s.CurrentPlayer = first
}

// firstToActPostflop returns the first non-folded, non-all-in seat after
// the button.
func (s *State) firstToActPostflop() int {
	n := s.NumPlayers
	for i := 1; i <= n; i++ {
		seat := (s.ButtonPos + i) % n
		if !s.HasFolded[seat] && s.Stacks[seat] > 0 {
			return seat
		}
	}
	return -1
}

// dealStreetBoard burns one card and deals the current street's board
// cards (3 on the flop, 1 on the turn, 1 on the river).
func (s *State) dealStreetBoard() {
	var n int
	switch s.CurrentStreet {
	case Flop:
		n = 3
	case Turn, River:
		n = 1
	default:
		return
	}
	s.deck.Burn()
	for i := 0; i < n; i++ {
		c, err := s.deck.Deal()
		if err != nil {
			// The deck cannot be exhausted within a single hand for any
			// supported table size; a failure here is a contract
			// violation, not a recoverable runtime condition.
			panic(fmt.Errorf("holdem: dealing %v board card: %w", s.CurrentStreet, err))
		}
		s.Board[s.BoardCardsDealt] = c
		s.BoardCardsDealt++
	}
}

// runOutRemainingStreets deals every remaining street's board cards in
// sequence. Callers only reach this once at most one still-live player has
// chips behind (the single-non-folded-player termination is handled
// separately in afterAction and never needs a board runout).
func (s *State) runOutRemainingStreets() {
	for s.CurrentStreet != Showdown {
		s.CurrentStreet++
		if s.CurrentStreet == Showdown {
			return
		}
		s.dealStreetBoard()
	}
}
