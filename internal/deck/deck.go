// Package deck models a 52-card deck as a value type: a fixed-size array,
// a deal cursor, and an embedded value-type RNG, so that copying a Deck by
// value (struct assignment) is a full, correct clone — including the RNG
// state that determines the sequence of future deals.
package deck

import (
	"fmt"

	"github.com/lox/cfrsolver/internal/card"
	"github.com/lox/cfrsolver/internal/errs"
)

// Deck is a permutation of the 52 card IDs with a deal cursor. The zero
// value is not usable; construct with New.
type Deck struct {
	cards [card.NumCards]card.Card
	next  int
	rng   pcg32
}

// New builds a deck in identity order, seeded from seed, and immediately
// shuffles it (per the construction contract).
func New(seed uint64) Deck {
	d := Deck{rng: newPCG32(seed)}
	for s := card.Clubs; s <= card.Spades; s++ {
		for r := card.Two; r <= card.Ace; r++ {
			d.cards[uint8(s)*13+uint8(r)] = card.New(r, s)
		}
	}
	d.Shuffle()
	return d
}

// Shuffle performs an in-place Fisher-Yates shuffle using the deck's own
// RNG and resets the deal cursor to 0.
func (d *Deck) Shuffle() {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.intn(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
	d.next = 0
}

// SetFixedOrder overrides the deck's card order for deterministic tests. It
// requires exactly 52 cards, each ID present exactly once, and resets the
// cursor to 0 without shuffling.
func (d *Deck) SetFixedOrder(order []card.Card) error {
	if len(order) != card.NumCards {
		return fmt.Errorf("deck: fixed order must have %d cards, got %d: %w", card.NumCards, len(order), errs.ErrInvalidInput)
	}
	var seen card.Bitboard
	for _, c := range order {
		if c >= card.NumCards || seen.Test(c) {
			return fmt.Errorf("deck: fixed order has duplicate or invalid card %v: %w", c, errs.ErrInvalidInput)
		}
		seen = seen.Set(c)
	}
	copy(d.cards[:], order)
	d.next = 0
	return nil
}

// Deal returns the next undealt card and advances the cursor. It fails if
// the deck is exhausted.
func (d *Deck) Deal() (card.Card, error) {
	if d.next >= len(d.cards) {
		return card.Invalid, fmt.Errorf("deck: deal from exhausted deck: %w", errs.ErrContractViolation)
	}
	c := d.cards[d.next]
	d.next++
	return c, nil
}

// Burn advances the cursor by one. It is a no-op when the deck is already
// exhausted.
func (d *Deck) Burn() {
	if d.next < len(d.cards) {
		d.next++
	}
}

// Reset rewinds the cursor to 0 without reshuffling.
func (d *Deck) Reset() {
	d.next = 0
}

// CardsRemaining returns the number of undealt cards.
func (d *Deck) CardsRemaining() int {
	return len(d.cards) - d.next
}

// Remaining returns the undealt cards, in deal order.
func (d *Deck) Remaining() []card.Card {
	out := make([]card.Card, d.CardsRemaining())
	copy(out, d.cards[d.next:])
	return out
}

// Clone returns an independent copy of the deck, including RNG state: a
// clone deals the same subsequent cards as the original would have, until
// one of them is mutated further.
func (d Deck) Clone() Deck {
	return d
}
