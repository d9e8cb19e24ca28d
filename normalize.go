package unitconv

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// canonical is a value expressed in its category's canonical unit.
// Number-base categories use i, every other category uses f.
type canonical struct {
	f float64
	i *big.Int
}

// normalizer moves values of one unit to and from the canonical unit.
// Implementations are immutable and safe for concurrent use.
type normalizer interface {
	// toCanonical parses a raw input literal and normalizes it.
	toCanonical(raw string) (canonical, bool)

	// fromCanonical renders a canonical value in the unit.
	fromCanonical(c canonical) Quantity
}

// toCanonical normalizes raw into the unit's canonical value.
func (u Unit) toCanonical(raw string) (canonical, error) {
	c, ok := u.norm.toCanonical(raw)
	if !ok {
		return canonical{}, &InvalidValueError{Category: u.Category, Unit: u.Name, Value: raw}
	}
	return c, nil
}

// fromCanonical renders a canonical value of the unit's category in the unit.
func (u Unit) fromCanonical(c canonical) Quantity {
	return u.norm.fromCanonical(c)
}

// inputQuantity wraps a raw input literal of the unit. Only literals of scaled
// units that parse as decimals are numeric.
func (u Unit) inputQuantity(raw string) Quantity {
	if _, radix := u.norm.(radixNormalizer); radix {
		return textQuantity(raw)
	}
	if v, ok := parseFloat(raw); ok {
		return Quantity{text: raw, num: v, numeric: true}
	}
	return textQuantity(raw)
}

// scaleNormalizer handles physical quantities:
// canonical = (raw + offset) * factor / per.
//
// from-canonical results are rounded to precision fractional digits, which
// makes a double conversion lossy.
type scaleNormalizer struct {
	factor    float64
	per       float64
	offset    float64
	precision int
}

func (s scaleNormalizer) toCanonical(raw string) (canonical, bool) {
	v, ok := parseFloat(raw)
	if !ok {
		return canonical{}, false
	}
	return canonical{f: (v + s.offset) * s.factor / s.per}, true
}

func (s scaleNormalizer) fromCanonical(c canonical) Quantity {
	return floatQuantity(roundTo(c.f*s.per/s.factor-s.offset, s.precision))
}

// radixNormalizer handles integers written in a positional base.
type radixNormalizer struct {
	base int
}

func (r radixNormalizer) toCanonical(raw string) (canonical, bool) {
	n, ok := parseInteger(raw, r.base)
	if !ok {
		return canonical{}, false
	}
	return canonical{i: n}, true
}

func (r radixNormalizer) fromCanonical(c canonical) Quantity {
	return textQuantity(strings.ToUpper(c.i.Text(r.base)))
}

// stripSeparators removes whitespace and underscore digit separators.
func stripSeparators(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '_' || r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			return -1
		}
		return r
	}, s)
}

// parseFloat parses a decimal literal. Non-finite values are rejected.
func parseFloat(raw string) (float64, bool) {
	s := stripSeparators(raw)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// radixPrefixes lists the literal prefix accepted for each base.
var radixPrefixes = map[int]string{2: "0b", 8: "0o", 16: "0x"}

// parseInteger parses an integer in the given base. A sign and the base's
// conventional prefix are accepted.
func parseInteger(raw string, base int) (*big.Int, bool) {
	s := stripSeparators(raw)
	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg, s = true, s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	if p, ok := radixPrefixes[base]; ok && len(s) > len(p) && strings.EqualFold(s[:len(p)], p) {
		s = s[len(p):]
	}
	if s == "" || s[0] == '-' || s[0] == '+' {
		return nil, false
	}
	n, ok := new(big.Int).SetString(s, base)
	if !ok {
		return nil, false
	}
	if neg {
		n.Neg(n)
	}
	return n, true
}

// roundTo rounds v half away from zero to the given number of fractional digits.
func roundTo(v float64, digits int) float64 {
	if digits < 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return v
	}
	pow := math.Pow10(digits)
	scaled := v * pow
	if math.IsInf(scaled, 0) || math.Abs(scaled) >= 1<<53 {
		// Already finer than the requested precision.
		return v
	}
	r := math.Round(scaled) / pow
	if r == 0 {
		return 0
	}
	return r
}
