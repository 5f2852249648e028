package credit

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Cents is a monetary amount in integer minor currency units (kopiykas).
// All arithmetic inside this package happens in Cents; conversion to and from
// decimal display form happens only at the boundary.
type Cents int64

// roundCents converts the result of a rate multiplication back to minor units,
// rounding to the nearest cent with ties away from zero.
func roundCents(x float64) Cents {
	return Cents(math.Round(x))
}

// ParseAmount converts a decimal amount string like "1000.00" into Cents.
func ParseAmount(s string) (Cents, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid amount %q", ErrInvalidInput, s)
	}
	return FromDecimal(d)
}

// FromDecimal converts a decimal amount into Cents. Amounts with more than
// two decimal places are rejected rather than silently rounded.
func FromDecimal(d decimal.Decimal) (Cents, error) {
	shifted := d.Shift(2)
	if !shifted.IsInteger() {
		return 0, fmt.Errorf("%w: amount %s has more than two decimal places", ErrInvalidInput, d)
	}
	return Cents(shifted.IntPart()), nil
}

// Decimal returns the amount in display units.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

// String formats the amount with two decimal places.
func (c Cents) String() string {
	return c.Decimal().StringFixed(2)
}

// MarshalJSON renders the amount as a fixed two-decimal string, e.g. "1000.00".
func (c Cents) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.Decimal().StringFixed(2) + `"`), nil
}

// UnmarshalJSON accepts both quoted ("1000.00") and bare (1000.00) forms.
func (c *Cents) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	v, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*c = v
	return nil
}
