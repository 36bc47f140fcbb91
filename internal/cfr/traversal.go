package cfr

import (
	"github.com/lox/cfrsolver/internal/holdem"
	"github.com/lox/cfrsolver/internal/infoset"
)

// traverse is the vanilla-CFR recursion: a full expectation over every
// legal action at every decision node (no sampling), returning a
// per-player net-utility vector so that regret updates for whichever
// player is acting always use their own component, rather than a single
// player-0-denominated scalar that would need an ad hoc sign flip for
// every other seat. For two-player zero-sum play this vector reduces to
// the ±symmetric scalar the literal two-player worked examples describe.
func (t *Trainer) traverse(s *holdem.State, history []holdem.Action, reach []float64) []float64 {
	if isTerminal(s) {
		return terminalUtility(s)
	}

	p := s.CurrentPlayer
	key := infoset.Key(p, s.Hand(p), s.DealtBoard(), s.CurrentStreet, history)

	actions := t.Abstraction.GetActions(s, t.Logger)
	if len(actions) == 0 {
		t.Logger.Error().Str("key", key).Int("player", p).Msg("abstraction produced no legal actions at a non-terminal node")
		return make([]float64, s.NumPlayers)
	}

	entry := t.Infosets.Get(key, len(actions))
	strategy := entry.CurrentStrategy()

	actionValues := make([][]float64, len(actions))
	nodeValue := make([]float64, s.NumPlayers)

	for i, a := range actions {
		child := s.Clone()
		if err := child.ApplyAction(a); err != nil {
			panic("cfr: abstraction produced an illegal action: " + err.Error())
		}

		history = append(history, a)
		savedReach := reach[p]
		reach[p] = savedReach * strategy[i]

		v := t.traverse(&child, history, reach)

		reach[p] = savedReach
		history = history[:len(history)-1]

		actionValues[i] = v
		for q := 0; q < s.NumPlayers; q++ {
			nodeValue[q] += strategy[i] * v[q]
		}
	}

	oppReach := 1.0
	for q := 0; q < s.NumPlayers; q++ {
		if q != p {
			oppReach *= reach[q]
		}
	}

	regretInputs := make([]float64, len(actions))
	for i := range actions {
		regretInputs[i] = actionValues[i][p]
	}
	entry.UpdateRegrets(regretInputs, nodeValue[p], oppReach)

	weightedStrategy := make([]float64, len(actions))
	for i := range actions {
		weightedStrategy[i] = reach[p] * strategy[i]
	}
	entry.UpdateStrategySum(weightedStrategy)

	return nodeValue
}
