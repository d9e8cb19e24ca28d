package unitconv

// Config configures a Converter.
type Config struct {
	// RosterFile is the path of a YAML unit roster.
	// If empty, the roster compiled into the package is used.
	RosterFile string
}

// Category groups units that can be converted among each other.
type Category string

// Built-in categories of the default roster. A custom roster may declare others.
const (
	CategoryNumber      Category = "number"
	CategoryTemperature Category = "temperature"
	CategoryLength      Category = "length"
	CategoryWeight      Category = "weight"
	CategoryLiquid      Category = "liquid"
	CategoryArea        Category = "area"
	CategoryVolume      Category = "volume"
	CategoryTime        Category = "time"
	CategorySpeed       Category = "speed"
	CategoryData        Category = "data"
	CategoryPressure    Category = "pressure"
	CategoryEnergy      Category = "energy"
)

// String returns the category name.
func (c Category) String() string { return string(c) }

// Unit is one entry of a registry. Units are immutable values; two units are
// the same unit when their codes are equal.
type Unit struct {
	// Code is the short code, unique across the registry, e.g. "km".
	Code string

	// Name is the singular display name, e.g. "kilometer".
	Name string

	// Category is the group the unit converts within.
	Category Category

	// norm maps raw values to the category's canonical value and back.
	norm normalizer
}

// String returns the unit's code.
func (u Unit) String() string { return u.Code }

// Quantity is a rendered display value produced by a conversion.
type Quantity struct {
	text    string
	num     float64
	numeric bool
}

// floatQuantity renders v the way results are displayed.
func floatQuantity(v float64) Quantity {
	return Quantity{text: formatFloat(v), num: v, numeric: true}
}

// textQuantity wraps an already rendered number-base string. Digits in a
// positional base carry no decimal magnitude, so the quantity is not numeric.
func textQuantity(s string) Quantity {
	return Quantity{text: s}
}

// String returns the display text.
func (q Quantity) String() string { return q.text }

// Float64 returns the numeric magnitude and whether the quantity is numeric.
func (q Quantity) Float64() (float64, bool) { return q.num, q.numeric }

// MarshalText implements encoding.TextMarshaler.
func (q Quantity) MarshalText() ([]byte, error) { return []byte(q.text), nil }

// Request is one conversion of a value into one or more target units.
type Request struct {
	// Value is the input magnitude as typed, e.g. "10", "FF", "1_000".
	Value string `json:"value"`

	// Source is the code or display name of the source unit.
	Source string `json:"source"`

	// Targets are codes or display names of the target units, in output order.
	Targets []string `json:"targets"`
}

// Result is a successful conversion to a single target unit.
type Result struct {
	// Input is the original value as supplied by the caller.
	Input string

	// Source is the resolved source unit.
	Source Unit

	// Target is the resolved target unit.
	Target Unit

	// Value is the converted, rounded display value.
	Value Quantity
}

// Outcome is the per-target result of a conversion. Exactly one of Result
// and Err is set.
type Outcome struct {
	// Target is the identifier as requested by the caller.
	Target string

	// Result is set when the conversion succeeded.
	Result *Result

	// Err is a *UnknownUnitError or *CategoryMismatchError when the target failed.
	Err error
}

// OK reports whether the target converted successfully.
func (o Outcome) OK() bool { return o.Err == nil && o.Result != nil }
