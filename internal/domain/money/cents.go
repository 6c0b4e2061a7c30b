package money

import (
	"fmt"
	"math"
)

// Cents is a euro amount in whole eurocents. All invoice arithmetic happens in
// cents so two-decimal amounts stay exact; Stripe wants minor units anyway.
type Cents int64

// FromEuros converts a euro amount (e.g. 75.50 from a JSON body) to cents.
func FromEuros(v float64) Cents {
	return Cents(math.Round(v * 100))
}

// Hours multiplies an hourly rate by a (possibly fractional) number of hours.
func Hours(uren float64, tarief Cents) Cents {
	return Cents(math.Round(uren * float64(tarief)))
}

// VAT returns the VAT amount over an exclusive amount at the given percentage.
func VAT(excl Cents, percentage float64) Cents {
	return Cents(math.Round(float64(excl) * percentage / 100))
}

// Euros returns the amount as a float, for places that need one (Stripe does not).
func (c Cents) Euros() float64 {
	return float64(c) / 100
}

func (c Cents) String() string {
	sign := ""
	v := c
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// MarshalJSON renders the amount as a plain two-decimal number (205.70), the
// shape the frontend and the existing API consumers expect.
func (c Cents) MarshalJSON() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalJSON accepts a JSON number in euros.
func (c *Cents) UnmarshalJSON(data []byte) error {
	var v float64
	if _, err := fmt.Sscanf(string(data), "%g", &v); err != nil {
		return fmt.Errorf("invalid money amount %q: %w", data, err)
	}
	*c = FromEuros(v)
	return nil
}
