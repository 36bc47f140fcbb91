package card

import (
	"errors"
	"testing"

	"github.com/lox/cfrsolver/internal/errs"
)

func TestRoundTrip(t *testing.T) {
	for s := Clubs; s <= Spades; s++ {
		for r := Two; r <= Ace; r++ {
			c := New(r, s)
			str := c.String()
			got, err := Parse(str)
			if err != nil {
				t.Fatalf("Parse(%q) returned error: %v", str, err)
			}
			if got != c {
				t.Fatalf("round trip mismatch: New(%v,%v)=%d String=%q Parse=%d", r, s, c, str, got)
			}
		}
	}
}

func TestParseInvalid(t *testing.T) {
	cases := []string{"", "A", "Ahh", "1h", "Ax", "ah", "AH"}
	for _, c := range cases {
		if _, err := Parse(c); err == nil {
			t.Errorf("Parse(%q): expected error, got nil", c)
		} else if !errors.Is(err, errs.ErrInvalidInput) {
			t.Errorf("Parse(%q): expected ErrInvalidInput, got %v", c, err)
		}
	}
}

func TestStringKnownValues(t *testing.T) {
	cases := map[Card]string{
		New(Ace, Spades):   "As",
		New(Two, Clubs):    "2c",
		New(Ten, Diamonds): "Td",
		New(King, Hearts):  "Kh",
	}
	for c, want := range cases {
		if got := c.String(); got != want {
			t.Errorf("Card(%d).String() = %q, want %q", c, got, want)
		}
	}
}
