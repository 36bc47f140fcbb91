// Package cfr implements the vanilla counterfactual-regret-minimization
// traversal over holdem.State: terminal utility computation (fold payoffs,
// showdown, and board-completion equity enumeration), the recursive
// regret/strategy-sum update, and the iteration driver that persists its
// results through an infoset.Map. Unlike the teacher's Trainer, which
// spawns parallel tables with a sharded, mutex-guarded regret table, this
// traversal is single-threaded end to end and owns its infoset.Map
// exclusively, per the single-threaded core design.
package cfr

import (
	"context"
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/lox/cfrsolver/internal/abstraction"
	"github.com/lox/cfrsolver/internal/holdem"
	"github.com/lox/cfrsolver/internal/infoset"
)

// Progress is emitted periodically during a training run.
type Progress struct {
	Iteration    int
	InfosetCount int
}

// Trainer drives the CFR iteration: one fresh hand per iteration, dealt
// from a freshly seeded deck so successive iterations sample independent
// chance outcomes, recursed to termination while accumulating regrets and
// strategy sums into Infosets.
type Trainer struct {
	NumPlayers   int
	InitialStack int
	Ante         int
	ButtonPos    int
	BigBlind     int

	Abstraction *abstraction.Config
	Infosets    infoset.Map
	Logger      zerolog.Logger

	rng       *rand.Rand
	iteration int
}

// NewTrainer builds a trainer for the given table configuration. seed
// drives the stream of per-iteration deck seeds; 0 is a valid seed like
// any other (callers wanting nondeterminism should draw one themselves).
func NewTrainer(numPlayers, initialStack, ante, buttonPos, bigBlind int, abs *abstraction.Config, infosets infoset.Map, logger zerolog.Logger, seed int64) *Trainer {
	if infosets == nil {
		infosets = infoset.Map{}
	}
	return &Trainer{
		NumPlayers:   numPlayers,
		InitialStack: initialStack,
		Ante:         ante,
		ButtonPos:    buttonPos,
		BigBlind:     bigBlind,
		Abstraction:  abs,
		Infosets:     infosets,
		Logger:       logger,
		rng:          rand.New(rand.NewSource(seed)),
	}
}

// Run executes n iterations, checking for cancellation between iterations
// only (never inside the recursion, per the core's coarse cancellation
// model). progress, if non-nil, is called after every iteration.
func (t *Trainer) Run(ctx context.Context, n int, progress func(Progress)) error {
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		seed := t.rng.Uint64()
		state, err := holdem.New(t.NumPlayers, t.InitialStack, t.Ante, t.ButtonPos, t.BigBlind, seed)
		if err != nil {
			return err
		}

		reach := make([]float64, t.NumPlayers)
		for q := range reach {
			reach[q] = 1
		}
		t.traverse(&state, nil, reach)
		t.iteration++

		if progress != nil {
			progress(Progress{Iteration: t.iteration, InfosetCount: len(t.Infosets)})
		}
	}
	return nil
}

// Iteration returns the number of completed iterations.
func (t *Trainer) Iteration() int {
	return t.iteration
}

// AverageStrategy returns the average strategy for key, or nil if key was
// never visited.
func (t *Trainer) AverageStrategy(key string) []float64 {
	e, ok := t.Infosets[key]
	if !ok {
		return nil
	}
	return e.AverageStrategy()
}
