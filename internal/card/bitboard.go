package card

import "math/bits"

// Bitboard is a 64-bit set of cards; bit ID represents card ID. Only bits
// 0..51 are ever meaningful.
type Bitboard uint64

// Set returns b with card c added.
func (b Bitboard) Set(c Card) Bitboard {
	if c >= NumCards {
		return b
	}
	return b | (1 << uint(c))
}

// Clear returns b with card c removed.
func (b Bitboard) Clear(c Card) Bitboard {
	if c >= NumCards {
		return b
	}
	return b &^ (1 << uint(c))
}

// Test reports whether card c is present in b.
func (b Bitboard) Test(c Card) bool {
	if c >= NumCards {
		return false
	}
	return b&(1<<uint(c)) != 0
}

// PopCount returns the number of cards present in b.
func (b Bitboard) PopCount() int {
	return bits.OnesCount64(uint64(b))
}

// PopLSB removes and returns the lowest-ID card present in b, along with the
// updated bitboard. If b is empty, it returns (Invalid, b) unchanged.
func (b Bitboard) PopLSB() (Card, Bitboard) {
	if b == 0 {
		return Invalid, b
	}
	idx := bits.TrailingZeros64(uint64(b))
	c := Card(idx)
	return c, b.Clear(c)
}

// FromCards builds a bitboard from a slice of cards. Duplicates collapse.
func FromCards(cards []Card) Bitboard {
	var b Bitboard
	for _, c := range cards {
		b = b.Set(c)
	}
	return b
}

// ToCards expands a bitboard into an ascending-ID slice of cards.
func ToCards(b Bitboard) []Card {
	cards := make([]Card, 0, b.PopCount())
	for b != 0 {
		var c Card
		c, b = b.PopLSB()
		cards = append(cards, c)
	}
	return cards
}

// FullDeck is the bitboard containing all 52 cards.
const FullDeck Bitboard = (1 << NumCards) - 1
