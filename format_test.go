package unitconv

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPluralize(t *testing.T) {
	tests := []struct {
		name      string
		magnitude float64
		want      string
	}{
		{"meter", 1, "meter"},
		{"meter", -1, "meter"},
		{"meter", 2, "meters"},
		{"meter", 0, "meters"},
		{"meter", 1.5, "meters"},
		{"foot", 3, "feet"},
		{"foot", 1, "foot"},
		{"inch", 12, "inches"},
		{"square foot", 2, "square feet"},
		{"cubic inch", 2, "cubic inches"},
		{"Celsius", 37.78, "Celsius"},
		{"Fahrenheit", 100, "Fahrenheit"},
		{"hexadecimal", 255, "hexadecimal"},
		{"stone", 14, "stone"},
		{"mmHg", 760, "mmHg"},
		{"BTU", 2, "BTU"},
		{"metric ton", 2, "metric tons"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Pluralize(tt.name, tt.magnitude))
		})
	}
}

func TestPluralizeQuantity(t *testing.T) {
	assert.Equal(t, "meter", pluralizeQuantity("meter", floatQuantity(1)))
	assert.Equal(t, "meter", pluralizeQuantity("meter", floatQuantity(-1)))
	assert.Equal(t, "meters", pluralizeQuantity("meter", floatQuantity(10)))
	assert.Equal(t, "dozens", pluralizeQuantity("dozen", textQuantity("1")))
	assert.Equal(t, "bytes", pluralizeQuantity("byte", textQuantity("FF")))
	assert.Equal(t, "hexadecimal", pluralizeQuantity("hexadecimal", textQuantity("1")))
}

func TestInputQuantity(t *testing.T) {
	reg := DefaultRegistry()

	km, err := reg.Lookup("km")
	if err != nil {
		t.Fatalf("Lookup(km) error = %v", err)
	}
	v, ok := km.inputQuantity("1_000").Float64()
	assert.True(t, ok)
	assert.Equal(t, 1000.0, v)

	dec, err := reg.Lookup("dec")
	if err != nil {
		t.Fatalf("Lookup(dec) error = %v", err)
	}
	_, ok = dec.inputQuantity("1").Float64()
	assert.False(t, ok, "number-base input has no decimal magnitude")
}

func TestFormatCustomRadixUnits(t *testing.T) {
	reg, err := LoadRoster(strings.NewReader(`
categories:
  - name: count
    units:
      - {code: n, name: unit, radix: 10}
      - {code: dz, name: dozen, radix: 12}
`))
	if err != nil {
		t.Fatalf("LoadRoster() error = %v", err)
	}
	conv, err := NewConverter(Config{}, WithRegistry(reg))
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}

	tests := []struct {
		value string
		want  string
	}{
		{"1", "1 units = 1 dozens"},
		{"12", "12 units = 10 dozens"},
		{"485", "485 units = 345 dozens"},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			outcomes, err := conv.Convert(tt.value, "n", "dz")
			if err != nil {
				t.Fatalf("Convert() error = %v", err)
			}
			if !outcomes[0].OK() {
				t.Fatalf("Convert() outcome error = %v", outcomes[0].Err)
			}
			assert.Equal(t, tt.want, Format(*outcomes[0].Result))

			_, ok := outcomes[0].Result.Value.Float64()
			assert.False(t, ok, "number-base result has no decimal magnitude")
		})
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{0, "0.0"},
		{10000, "10000.0"},
		{-40, "-40.0"},
		{6.2137, "6.2137"},
		{37.78, "37.78"},
		{0.0001, "0.0001"},
		{0.000015, "1.5e-05"},
		{1e16, "1e+16"},
		{9999999999999998, "9999999999999998.0"},
		{8796093022208, "8796093022208.0"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, formatFloat(tt.v))
		})
	}
}

func TestFormat(t *testing.T) {
	reg := DefaultRegistry()
	unit := func(id string) Unit {
		u, err := reg.Lookup(id)
		if err != nil {
			t.Fatalf("Lookup(%q) error = %v", id, err)
		}
		return u
	}

	tests := []struct {
		name string
		res  Result
		want string
	}{
		{
			name: "temperature",
			res:  Result{Input: "100", Source: unit("F"), Target: unit("C"), Value: floatQuantity(37.78)},
			want: "100 Fahrenheit = 37.78 Celsius",
		},
		{
			name: "plural source and target",
			res:  Result{Input: "10", Source: unit("km"), Target: unit("m"), Value: floatQuantity(10000)},
			want: "10 kilometers = 10000.0 meters",
		},
		{
			name: "singular source",
			res:  Result{Input: "1", Source: unit("km"), Target: unit("m"), Value: floatQuantity(1000)},
			want: "1 kilometer = 1000.0 meters",
		},
		{
			name: "singular target",
			res:  Result{Input: "1000", Source: unit("m"), Target: unit("km"), Value: floatQuantity(1)},
			want: "1000 meters = 1.0 kilometer",
		},
		{
			name: "number base",
			res:  Result{Input: "255", Source: unit("dec"), Target: unit("hex"), Value: textQuantity("FF")},
			want: "255 decimal = FF hexadecimal",
		},
		{
			name: "irregular plural",
			res:  Result{Input: "1", Source: unit("ft"), Target: unit("in"), Value: floatQuantity(12)},
			want: "1 foot = 12.0 inches",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.res))
		})
	}
}

func TestQuantity(t *testing.T) {
	q := floatQuantity(2.5)
	v, ok := q.Float64()
	assert.True(t, ok)
	assert.Equal(t, 2.5, v)
	assert.Equal(t, "2.5", q.String())

	hex := textQuantity("FF")
	_, ok = hex.Float64()
	assert.False(t, ok)

	exp := textQuantity("1E5")
	_, ok = exp.Float64()
	assert.False(t, ok, "hex digits must not parse as a decimal exponent")

	text, err := hex.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "FF", string(text))
}
