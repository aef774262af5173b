package ocmf

import (
	"github.com/shopspring/decimal"
)

// Decimal is an exact decimal number as carried on the wire. Meter values
// must never pass through binary floating point, so all numeric OCMF fields
// (RV, CL, LR) use this type. It marshals as a bare JSON number.
type Decimal struct {
	decimal.Decimal
}

// NewDecimal wraps d.
func NewDecimal(d decimal.Decimal) Decimal {
	return Decimal{d}
}

// ParseDecimal parses a decimal number from its string form.
func ParseDecimal(s string) (Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Decimal{}, Wrap(KindValidation, err, "invalid decimal %q", s)
	}
	return Decimal{d}, nil
}

// MustDecimal parses a decimal number or panics. For fixed values in tests
// and tables.
func MustDecimal(s string) Decimal {
	d, err := ParseDecimal(s)
	if err != nil {
		panic(err)
	}
	return d
}

// MarshalJSON emits the value as a bare JSON number, preserving the decimal
// digits of the source.
func (d Decimal) MarshalJSON() ([]byte, error) {
	return []byte(d.String()), nil
}

// Equal reports exact numeric equality.
func (d Decimal) Equal(o Decimal) bool {
	return d.Decimal.Equal(o.Decimal)
}

// LessThan reports whether d < o.
func (d Decimal) LessThan(o Decimal) bool {
	return d.Decimal.LessThan(o.Decimal)
}
