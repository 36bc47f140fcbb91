package cfr

import (
	"github.com/lox/cfrsolver/internal/card"
	"github.com/lox/cfrsolver/internal/handrank"
	"github.com/lox/cfrsolver/internal/holdem"
)

// isTerminal reports whether s has reached a terminal node: the hand is
// over (current_player == -1) or play has reached showdown.
func isTerminal(s *holdem.State) bool {
	return s.CurrentPlayer < 0 || s.CurrentStreet == holdem.Showdown
}

// terminalUtility returns each player's net result for the hand: their
// share of the pot (0 if they folded or were out-ranked) minus their own
// total contribution this hand. The vector always sums to zero, which is
// what lets the traversal pick off a single player's component for its
// regret update regardless of how many players remain live.
func terminalUtility(s *holdem.State) []float64 {
	net := make([]float64, s.NumPlayers)
	for p := 0; p < s.NumPlayers; p++ {
		if s.HasFolded[p] {
			net[p] = -float64(s.Contributed[p])
		}
	}

	live := liveSeats(s)
	if len(live) == 1 {
		net[live[0]] = float64(s.Pot) - float64(s.Contributed[live[0]])
		return net
	}

	if s.BoardCardsDealt == 5 {
		return applyShowdown(s, live, s.Board[:5], net)
	}
	return equityEnumeration(s, live, net)
}

func liveSeats(s *holdem.State) []int {
	var live []int
	for p, folded := range s.HasFolded {
		if !folded {
			live = append(live, p)
		}
	}
	return live
}

// applyShowdown evaluates every live player's best seven-card hand against
// a complete board, splits the pot evenly among ties, and fills net for
// every live seat. net already carries folded players' -contribution.
func applyShowdown(s *holdem.State, live []int, board5 []card.Card, net []float64) []float64 {
	ranks := make(map[int]handrank.Rank, len(live))
	var best handrank.Rank
	first := true
	for _, p := range live {
		hand := s.Hand(p)
		combined := card.FromCards([]card.Card{hand[0], hand[1]}).Set(board5[0]).Set(board5[1]).Set(board5[2]).Set(board5[3]).Set(board5[4])
		r := handrank.Rank7(uint64(combined))
		ranks[p] = r
		if first || r < best {
			best = r
			first = false
		}
	}

	var winners []int
	for _, p := range live {
		if ranks[p] == best {
			winners = append(winners, p)
		}
	}
	share := float64(s.Pot) / float64(len(winners))
	winnerSet := make(map[int]bool, len(winners))
	for _, w := range winners {
		winnerSet[w] = true
	}
	for _, p := range live {
		if winnerSet[p] {
			net[p] = share - float64(s.Contributed[p])
		} else {
			net[p] = -float64(s.Contributed[p])
		}
	}
	return net
}

// equityEnumeration exhaustively enumerates every completion of the board
// from the undealt-cards set, evaluates the showdown for each, and returns
// the average per-player net result across all runouts.
func equityEnumeration(s *holdem.State, live []int, net []float64) []float64 {
	cardsNeeded := 5 - s.BoardCardsDealt
	remaining := card.ToCards(s.RemainingCards())
	dealt := s.DealtBoard()

	sum := make([]float64, s.NumPlayers)
	total := 0
	board5 := make([]card.Card, 5)
	copy(board5, dealt)

	enumerateCombinations(remaining, cardsNeeded, func(combo []card.Card) {
		copy(board5[len(dealt):], combo)
		runoutNet := make([]float64, s.NumPlayers)
		copy(runoutNet, net)
		applyShowdown(s, live, board5, runoutNet)
		for p := range sum {
			sum[p] += runoutNet[p]
		}
		total++
	})

	out := make([]float64, s.NumPlayers)
	for p := range out {
		out[p] = sum[p] / float64(total)
	}
	return out
}

// enumerateCombinations calls visit once per k-combination of cards, in
// lexicographic order of index, reusing a single backing array across
// calls; visit must not retain the slice it is given.
func enumerateCombinations(cards []card.Card, k int, visit func(combo []card.Card)) {
	n := len(cards)
	if k <= 0 || k > n {
		return
	}
	combo := make([]card.Card, k)
	var rec func(start, idx int)
	rec = func(start, idx int) {
		if idx == k {
			visit(combo)
			return
		}
		for i := start; i <= n-(k-idx); i++ {
			combo[idx] = cards[i]
			rec(i+1, idx+1)
		}
	}
	rec(0, 0)
}
