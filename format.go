package unitconv

import (
	"math"
	"strconv"
	"strings"
)

// invariantNames are display names that never take a plural form.
var invariantNames = map[string]bool{
	"Celsius":     true,
	"Fahrenheit":  true,
	"Kelvin":      true,
	"binary":      true,
	"decimal":     true,
	"hexadecimal": true,
	"octal":       true,
	"stone":       true,
	"mmHg":        true,
	"BTU":         true,
}

// irregularPlurals maps singular display names to their plural form.
var irregularPlurals = map[string]string{
	"foot": "feet",
	"inch": "inches",
}

// Pluralize returns the form of name used next to a value of the given magnitude.
// Invariant names are returned unchanged; a magnitude of exactly 1 or -1
// keeps the singular.
func Pluralize(name string, magnitude float64) string {
	if invariantNames[name] || math.Abs(magnitude) == 1 {
		return name
	}
	return plural(name)
}

// pluralizeQuantity pluralizes name for a rendered value. Quantities without
// a decimal magnitude, such as number-base digits, take the plural form.
func pluralizeQuantity(name string, q Quantity) string {
	if v, ok := q.Float64(); ok {
		return Pluralize(name, v)
	}
	if invariantNames[name] {
		return name
	}
	return plural(name)
}

// plural returns the plural form of name regardless of magnitude. Irregular
// forms also apply to the last word of compound names, e.g. "square foot".
func plural(name string) string {
	head, last := "", name
	if i := strings.LastIndexByte(name, ' '); i >= 0 {
		head, last = name[:i+1], name[i+1:]
	}
	if p, ok := irregularPlurals[last]; ok {
		return head + p
	}
	return name + "s"
}

// Format renders a result as "<value> <source> = <value> <target>".
func Format(r Result) string {
	var b strings.Builder
	b.WriteString(r.Input)
	b.WriteByte(' ')
	b.WriteString(pluralizeQuantity(r.Source.Name, r.Source.inputQuantity(r.Input)))
	b.WriteString(" = ")
	b.WriteString(r.Value.String())
	b.WriteByte(' ')
	b.WriteString(pluralizeQuantity(r.Target.Name, r.Value))
	return b.String()
}

// formatFloat renders v with the shortest digits that round-trip. Integral
// values keep one fractional digit and very large or small magnitudes use
// exponent notation, e.g. 10000.0, 6.2137, 1e+16, 1.5e-05.
func formatFloat(v float64) string {
	if abs := math.Abs(v); abs != 0 && (abs >= 1e16 || abs < 1e-4) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
