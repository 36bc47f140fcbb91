package infoset

import (
	"math"
	"testing"

	"github.com/lox/cfrsolver/internal/card"
	"github.com/lox/cfrsolver/internal/holdem"
)

func TestKeyFormatByteExact(t *testing.T) {
	hole := [2]card.Card{card.New(card.King, card.Spades), card.New(card.Ace, card.Spades)}
	board := []card.Card{card.New(card.Ace, card.Clubs), card.New(card.King, card.Clubs)}
	history := []holdem.Action{
		{PlayerIndex: 0, Type: holdem.Call, Amount: 2},
		{PlayerIndex: 1, Type: holdem.Raise, Amount: 6},
	}

	got := Key(0, hole, board, holdem.Flop, history)
	want := "P0;Ks-As|Kc-Ac|Flop|A0C2,A1R6,"
	if got != want {
		t.Errorf("Key() = %q, want %q", got, want)
	}
}

func TestKeyEmptyBoardRendersTwoAdjacentPipes(t *testing.T) {
	hole := [2]card.Card{card.New(card.Two, card.Clubs), card.New(card.Three, card.Clubs)}
	got := Key(0, hole, nil, holdem.Preflop, nil)
	want := "P0;2c-3c||Preflop|"
	if got != want {
		t.Errorf("Key() = %q, want %q", got, want)
	}
}

func TestCurrentStrategySumsToOne(t *testing.T) {
	e := &InformationSet{}
	e.Initialize(3)
	e.CumulativeRegrets[0] = 2
	e.CumulativeRegrets[1] = -1
	e.CumulativeRegrets[2] = 4

	strat := e.CurrentStrategy()
	sum := 0.0
	for _, p := range strat {
		if p < 0 {
			t.Errorf("negative probability %v in %v", p, strat)
		}
		sum += p
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("strategy sums to %v, want 1", sum)
	}
	if strat[1] != 0 {
		t.Errorf("negative-regret action got nonzero probability: %v", strat)
	}
}

func TestCurrentStrategyUniformWhenAllRegretsNonPositive(t *testing.T) {
	e := &InformationSet{}
	e.Initialize(4)
	strat := e.CurrentStrategy()
	for _, p := range strat {
		if math.Abs(p-0.25) > 1e-9 {
			t.Errorf("strategy = %v, want uniform 0.25 each", strat)
		}
	}
}

func TestUpdateRegrets(t *testing.T) {
	e := &InformationSet{}
	e.Initialize(2)
	e.UpdateRegrets([]float64{10, -5}, 2, 0.5)
	if e.CumulativeRegrets[0] != 4 {
		t.Errorf("regret[0] = %v, want 4 (0.5*(10-2))", e.CumulativeRegrets[0])
	}
	if e.CumulativeRegrets[1] != -3.5 {
		t.Errorf("regret[1] = %v, want -3.5 (0.5*(-5-2))", e.CumulativeRegrets[1])
	}
}

func TestAverageStrategyUniformWhenUnvisited(t *testing.T) {
	e := &InformationSet{}
	e.Initialize(3)
	avg := e.AverageStrategy()
	for _, p := range avg {
		if math.Abs(p-1.0/3) > 1e-9 {
			t.Errorf("average strategy = %v, want uniform 1/3 each", avg)
		}
	}
}

func TestAverageStrategyNormalizesCumulativeSum(t *testing.T) {
	e := &InformationSet{}
	e.Initialize(2)
	e.UpdateStrategySum([]float64{3, 1})
	avg := e.AverageStrategy()
	if math.Abs(avg[0]-0.75) > 1e-9 || math.Abs(avg[1]-0.25) > 1e-9 {
		t.Errorf("average strategy = %v, want [0.75 0.25]", avg)
	}
	if e.VisitCount != 1 {
		t.Errorf("visit count = %d, want 1", e.VisitCount)
	}
}

func TestMapGetLazilyInitializes(t *testing.T) {
	m := Map{}
	e := m.Get("k1", 3)
	if len(e.CumulativeRegrets) != 3 || len(e.CumulativeStrategy) != 3 {
		t.Fatalf("expected arity 3, got %d/%d", len(e.CumulativeRegrets), len(e.CumulativeStrategy))
	}
	again := m.Get("k1", 3)
	if again != e {
		t.Error("Get should return the same entry for an existing key")
	}
}

func TestMapGetPanicsOnArityMismatch(t *testing.T) {
	m := Map{}
	m.Get("k1", 2)
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic on arity mismatch")
		}
	}()
	m.Get("k1", 3)
}
