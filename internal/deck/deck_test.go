package deck

import (
	"errors"
	"testing"

	"github.com/lox/cfrsolver/internal/card"
	"github.com/lox/cfrsolver/internal/errs"
)

func TestNewDeckHas52DistinctCards(t *testing.T) {
	d := New(42)
	var seen card.Bitboard
	for i := 0; i < card.NumCards; i++ {
		c, err := d.Deal()
		if err != nil {
			t.Fatalf("Deal() #%d: %v", i, err)
		}
		if seen.Test(c) {
			t.Fatalf("card %v dealt twice", c)
		}
		seen = seen.Set(c)
	}
	if seen.PopCount() != card.NumCards {
		t.Fatalf("saw %d distinct cards, want %d", seen.PopCount(), card.NumCards)
	}
}

func TestDealExhausted(t *testing.T) {
	d := New(1)
	for i := 0; i < card.NumCards; i++ {
		if _, err := d.Deal(); err != nil {
			t.Fatalf("unexpected error dealing card %d: %v", i, err)
		}
	}
	if _, err := d.Deal(); err == nil {
		t.Fatal("expected error dealing from exhausted deck")
	} else if !errors.Is(err, errs.ErrContractViolation) {
		t.Fatalf("expected ErrContractViolation, got %v", err)
	}
}

func TestBurnNoOpWhenExhausted(t *testing.T) {
	d := New(7)
	for i := 0; i < card.NumCards; i++ {
		d.Deal()
	}
	before := d.CardsRemaining()
	d.Burn()
	if d.CardsRemaining() != before {
		t.Fatalf("Burn on exhausted deck changed remaining count: %d -> %d", before, d.CardsRemaining())
	}
}

func TestSetFixedOrderThenDealMatchesOrder(t *testing.T) {
	order := make([]card.Card, card.NumCards)
	for i := range order {
		order[i] = card.Card(i)
	}
	d := New(99)
	if err := d.SetFixedOrder(order); err != nil {
		t.Fatalf("SetFixedOrder: %v", err)
	}
	for i, want := range order {
		got, err := d.Deal()
		if err != nil {
			t.Fatalf("Deal() #%d: %v", i, err)
		}
		if got != want {
			t.Fatalf("Deal() #%d = %v, want %v", i, got, want)
		}
	}
}

func TestSetFixedOrderRejectsWrongSize(t *testing.T) {
	d := New(1)
	if err := d.SetFixedOrder([]card.Card{0, 1, 2}); err == nil {
		t.Fatal("expected error for wrong-size order")
	} else if !errors.Is(err, errs.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSetFixedOrderRejectsDuplicates(t *testing.T) {
	order := make([]card.Card, card.NumCards)
	for i := range order {
		order[i] = 0
	}
	d := New(1)
	if err := d.SetFixedOrder(order); err == nil {
		t.Fatal("expected error for duplicate cards")
	} else if !errors.Is(err, errs.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCloneDealsIdenticalSequence(t *testing.T) {
	d := New(123)
	d.Deal()
	d.Deal()

	clone := d.Clone()

	for i := 0; i < 10; i++ {
		a, errA := d.Deal()
		b, errB := clone.Deal()
		if errA != nil || errB != nil {
			t.Fatalf("unexpected deal error: %v / %v", errA, errB)
		}
		if a != b {
			t.Fatalf("clone diverged at deal %d: %v != %v", i, a, b)
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	d := New(5)
	clone := d.Clone()

	clone.Deal()

	if d.CardsRemaining() == clone.CardsRemaining() {
		t.Fatal("mutating the clone affected the original")
	}
}
