// Package infoset implements per-decision-node CFR statistics (cumulative
// regrets and strategy sums) and the canonical byte-exact key encoding an
// information set's observable history, per the persisted external
// interface. Unlike the teacher's sharded, mutex-guarded RegretTable, this
// map is mutated only by the single-threaded CFR traversal and carries no
// synchronization.
package infoset

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lox/cfrsolver/internal/card"
	"github.com/lox/cfrsolver/internal/holdem"
)

// InformationSet holds the statistics accumulated at one decision node.
// Regrets and strategy sum are sized on first visit and never resized
// thereafter for a given key; a later visit producing a different arity is
// a programming error, not a condition this type recovers from.
type InformationSet struct {
	Key                string
	CumulativeRegrets  []float64
	CumulativeStrategy []float64
	VisitCount         int
}

// Initialize allocates regrets and strategy arrays of length k, zeroed, and
// resets the visit count. Called lazily on first visit to a key.
func (e *InformationSet) Initialize(k int) {
	e.CumulativeRegrets = make([]float64, k)
	e.CumulativeStrategy = make([]float64, k)
	e.VisitCount = 0
}

// CurrentStrategy returns the regret-matching distribution over actions:
// p_i = max(0, r_i) / sum_j max(0, r_j), or uniform if that sum is zero.
func (e *InformationSet) CurrentStrategy() []float64 {
	n := len(e.CumulativeRegrets)
	strat := make([]float64, n)
	total := 0.0
	for i, r := range e.CumulativeRegrets {
		if r > 0 {
			strat[i] = r
			total += r
		}
	}
	if total <= 0 {
		uniform := 1.0 / float64(n)
		for i := range strat {
			strat[i] = uniform
		}
		return strat
	}
	for i := range strat {
		strat[i] /= total
	}
	return strat
}

// UpdateRegrets adds opp_reach*(action_values[i]-node_value) to each
// cumulative regret.
func (e *InformationSet) UpdateRegrets(actionValues []float64, nodeValue, oppReach float64) {
	for i, v := range actionValues {
		e.CumulativeRegrets[i] += oppReach * (v - nodeValue)
	}
}

// UpdateStrategySum adds weightedStrategy elementwise to the cumulative
// strategy and increments the visit count.
func (e *InformationSet) UpdateStrategySum(weightedStrategy []float64) {
	for i, v := range weightedStrategy {
		e.CumulativeStrategy[i] += v
	}
	e.VisitCount++
}

// AverageStrategy returns the normalized average strategy: cumulative
// strategy divided by its sum, or uniform if the infoset was never visited
// or the sum is zero.
func (e *InformationSet) AverageStrategy() []float64 {
	n := len(e.CumulativeStrategy)
	out := make([]float64, n)
	total := 0.0
	for _, v := range e.CumulativeStrategy {
		total += v
	}
	if total <= 0 {
		uniform := 1.0 / float64(n)
		for i := range out {
			out[i] = uniform
		}
		return out
	}
	for i, v := range e.CumulativeStrategy {
		out[i] = v / total
	}
	return out
}

// Map is a flat mapping from canonical key to InformationSet, owned
// exclusively by the CFR engine and mutated only on its owning goroutine.
type Map map[string]*InformationSet

// Get fetches or lazily creates the InformationSet for key, initializing it
// to arity k on creation. If it already exists with a different arity, that
// is a programming error and Get panics rather than silently resizing.
func (m Map) Get(key string, k int) *InformationSet {
	if e, ok := m[key]; ok {
		if len(e.CumulativeRegrets) != k {
			panic(fmt.Sprintf("infoset: key %q visited with arity %d, previously initialized with arity %d", key, k, len(e.CumulativeRegrets)))
		}
		return e
	}
	e := &InformationSet{Key: key}
	e.Initialize(k)
	m[key] = e
	return e
}

// Key builds the canonical key for player's decision node:
// "P{player};{sorted hole cards}|{sorted dealt board}|{street}|{history}".
// Hole and board cards are rendered in ascending-ID order; history is a
// comma-terminated concatenation of "A{player}{F|C|R}{amount}," tokens in
// chronological order of application.
func Key(player int, hole [2]card.Card, board []card.Card, street holdem.Street, history []holdem.Action) string {
	var b strings.Builder
	fmt.Fprintf(&b, "P%d;", player)

	holeSorted := []card.Card{hole[0], hole[1]}
	sort.Slice(holeSorted, func(i, j int) bool { return holeSorted[i] < holeSorted[j] })
	for i, c := range holeSorted {
		if i > 0 {
			b.WriteByte('-')
		}
		b.WriteString(c.String())
	}

	b.WriteByte('|')
	boardSorted := append([]card.Card(nil), board...)
	sort.Slice(boardSorted, func(i, j int) bool { return boardSorted[i] < boardSorted[j] })
	for i, c := range boardSorted {
		if i > 0 {
			b.WriteByte('-')
		}
		b.WriteString(c.String())
	}

	b.WriteByte('|')
	b.WriteString(street.String())
	b.WriteByte('|')

	for _, a := range history {
		fmt.Fprintf(&b, "A%d%s%d,", a.PlayerIndex, a.Type.String(), a.Amount)
	}

	return b.String()
}
