// Package abstraction turns a configured set of sizing rules into the
// discrete legal-action set the CFR traversal branches on at a decision
// node. It never mutates the state it inspects.
package abstraction

import (
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/lox/cfrsolver/internal/holdem"
)

// Config holds the per-street, per-position sizing rules the abstraction
// draws raise candidates from, plus the three top-level allow flags.
type Config struct {
	AllowFold      bool
	AllowCheckCall bool
	AllowAllIn     bool

	// Fractions are pot-fraction sizings: increment = round(f * (pot + to_call)).
	Fractions map[holdem.Street]map[holdem.Position][]float64
	// BBMultipliers are big-blind-multiple sizings.
	BBMultipliers map[holdem.Street]map[holdem.Position][]float64
	// ExactAmounts are absolute chip-amount sizings.
	ExactAmounts map[holdem.Street]map[holdem.Position][]int
}

// Sanitize drops non-positive sizings from every family, logging a warning
// for each one dropped. Configuration validation never hard-errors; an
// abstraction with no raise family anywhere and AllowAllIn false is legal
// and simply yields fold/call only.
func (c *Config) Sanitize(logger zerolog.Logger) {
	for street, byPos := range c.Fractions {
		for pos, vals := range byPos {
			c.Fractions[street][pos] = filterPositive(vals, func(v float64) bool { return v > 0 }, logger, "fraction", street, pos)
		}
	}
	for street, byPos := range c.BBMultipliers {
		for pos, vals := range byPos {
			c.BBMultipliers[street][pos] = filterPositive(vals, func(v float64) bool { return v > 0 }, logger, "bb_multiplier", street, pos)
		}
	}
	for street, byPos := range c.ExactAmounts {
		for pos, vals := range byPos {
			kept := make([]int, 0, len(vals))
			for _, v := range vals {
				if v > 0 {
					kept = append(kept, v)
				} else {
					logger.Warn().Str("family", "exact_amount").Str("street", street.String()).Str("position", pos.String()).Int("value", v).Msg("dropping non-positive sizing")
				}
			}
			c.ExactAmounts[street][pos] = kept
		}
	}
}

func filterPositive(vals []float64, keep func(float64) bool, logger zerolog.Logger, family string, street holdem.Street, pos holdem.Position) []float64 {
	kept := make([]float64, 0, len(vals))
	for _, v := range vals {
		if keep(v) {
			kept = append(kept, v)
		} else {
			logger.Warn().Str("family", family).Str("street", street.String()).Str("position", pos.String()).Float64("value", v).Msg("dropping non-positive sizing")
		}
	}
	return kept
}

// GetActions returns the ordered, duplicate-free set of legal discrete
// actions for the player to act in state. It returns an empty slice if the
// acting player has folded or the hand is over.
func (c *Config) GetActions(s *holdem.State, logger zerolog.Logger) []holdem.Action {
	p := s.CurrentPlayer
	if p < 0 || s.HasFolded[p] {
		return nil
	}

	maxBet := s.MaxBet()
	playerBet := s.CurrentBets[p]
	toCall := maxBet - playerBet
	stack := s.Stacks[p]

	var actions []holdem.Action

	if c.AllowFold && playerBet < maxBet {
		actions = append(actions, holdem.Action{PlayerIndex: p, Type: holdem.Fold, Amount: 0})
	}

	if c.AllowCheckCall && (toCall == 0 || stack > 0) {
		amount := playerBet + stack
		if amount > maxBet {
			amount = maxBet
		}
		actions = append(actions, holdem.Action{PlayerIndex: p, Type: holdem.Call, Amount: amount})
	}

	actions = append(actions, c.raiseActions(s, p, maxBet, playerBet, toCall, stack)...)

	if len(actions) == 0 && stack > 0 {
		logger.Warn().Int("player", p).Msg("abstraction produced no legal action; emitting fallback fold")
		return []holdem.Action{{PlayerIndex: p, Type: holdem.Fold, Amount: 0}}
	}
	return actions
}

func (c *Config) raiseActions(s *holdem.State, p, maxBet, playerBet, toCall, stack int) []holdem.Action {
	minRaiseIncrement := s.LastRaiseSize
	if s.BigBlind > minRaiseIncrement {
		minRaiseIncrement = s.BigBlind
	}
	minRaiseTotal := maxBet + minRaiseIncrement
	maxRaiseTotal := playerBet + stack

	if maxRaiseTotal <= maxBet {
		return nil
	}
	if minRaiseTotal >= maxRaiseTotal {
		if c.AllowAllIn {
			return []holdem.Action{{PlayerIndex: p, Type: holdem.Raise, Amount: maxRaiseTotal}}
		}
		return nil
	}

	pos := s.EffectivePosition(p)
	street := s.CurrentStreet
	openOpportunity := c.isOpenOpportunity(s, maxBet)

	candidates := make(map[int]struct{})

	for _, f := range c.Fractions[street][pos] {
		increment := int(math.Round(f * float64(s.Pot+toCall)))
		candidate := clamp(maxBet+increment, minRaiseTotal, maxRaiseTotal)
		if candidate > maxBet {
			candidates[candidate] = struct{}{}
		}
	}

	for _, m := range c.BBMultipliers[street][pos] {
		var candidate int
		if openOpportunity {
			candidate = int(math.Round(m * float64(s.BigBlind)))
		} else {
			candidate = maxBet + int(math.Round(m*float64(s.BigBlind)))
		}
		candidate = clamp(candidate, minRaiseTotal, maxRaiseTotal)
		if candidate > maxBet {
			candidates[candidate] = struct{}{}
		}
	}

	for _, e := range c.ExactAmounts[street][pos] {
		var candidate int
		if openOpportunity {
			candidate = e
			if candidate < minRaiseTotal {
				candidate = minRaiseTotal
			}
		} else {
			candidate = maxBet + e
			if candidate < minRaiseTotal {
				candidate = minRaiseTotal
			}
		}
		if candidate > maxRaiseTotal {
			candidate = maxRaiseTotal
		}
		if candidate > maxBet {
			candidates[candidate] = struct{}{}
		}
	}

	if c.AllowAllIn && maxRaiseTotal > maxBet {
		candidates[maxRaiseTotal] = struct{}{}
	}

	totals := make([]int, 0, len(candidates))
	for t := range candidates {
		totals = append(totals, t)
	}
	sort.Ints(totals)

	out := make([]holdem.Action, 0, len(totals))
	for _, t := range totals {
		out = append(out, holdem.Action{PlayerIndex: p, Type: holdem.Raise, Amount: t})
	}
	return out
}

// isOpenOpportunity reports whether no one has yet raised on the current
// street: preflop, only the BB's forced bet stands (max_bet == big_blind
// and last_raise_size <= big_blind); postflop, no bet stands at all.
func (c *Config) isOpenOpportunity(s *holdem.State, maxBet int) bool {
	if s.CurrentStreet == holdem.Preflop {
		return maxBet == s.BigBlind && s.LastRaiseSize <= s.BigBlind
	}
	return maxBet == 0
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
