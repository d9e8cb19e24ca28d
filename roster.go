package unitconv

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed units.yaml
var defaultRosterYAML []byte

// Precision limits for a roster category.
const (
	// DefaultPrecision is used when a scale category declares no precision.
	DefaultPrecision = 4

	// MaxPrecision is the largest accepted number of fractional digits.
	MaxPrecision = 15
)

// roster is the YAML document describing every category and unit.
type roster struct {
	Categories []rosterCategory `yaml:"categories"`
}

// rosterCategory is one category block of the roster.
type rosterCategory struct {
	// Name is the category name, e.g. "length".
	Name string `yaml:"name"`

	// Canonical is the code of the unit all conversions pass through.
	Canonical string `yaml:"canonical"`

	// Precision is the number of fractional digits kept by from-canonical.
	// Nil means DefaultPrecision.
	Precision *int `yaml:"precision"`

	// Units lists the category's units in display order.
	Units []rosterUnit `yaml:"units"`
}

// rosterUnit is one unit entry of the roster.
type rosterUnit struct {
	Code   string   `yaml:"code"`
	Name   string   `yaml:"name"`
	Factor *float64 `yaml:"factor"`
	Per    *float64 `yaml:"per"`
	Offset float64  `yaml:"offset"`
	Radix  int      `yaml:"radix"`
}

var (
	defaultRegistryOnce sync.Once
	defaultRegistry     *Registry
)

// DefaultRegistry returns the registry built from the roster compiled into
// the package. It is built once and shared; it panics if the compiled-in
// roster is invalid.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		reg, err := parseRoster(defaultRosterYAML)
		if err != nil {
			panic(fmt.Sprintf("unitconv: embedded roster: %v", err))
		}
		defaultRegistry = reg
	})
	return defaultRegistry
}

// LoadRoster reads a YAML roster and builds a registry from it.
func LoadRoster(r io.Reader) (*Registry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading roster: %w", err)
	}
	return parseRoster(data)
}

// LoadRosterFile reads a YAML roster from path.
func LoadRosterFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening roster: %w", err)
	}
	defer f.Close()

	reg, err := LoadRoster(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return reg, nil
}

// parseRoster decodes and validates a roster document. Keys the schema does
// not know are rejected.
func parseRoster(data []byte) (*Registry, error) {
	var doc roster
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing roster: %v: %w", err, ErrInvalidRoster)
	}
	if len(doc.Categories) == 0 {
		return nil, fmt.Errorf("roster declares no categories: %w", ErrInvalidRoster)
	}

	var units []Unit
	seen := make(map[string]bool, len(doc.Categories))
	for _, cat := range doc.Categories {
		if seen[cat.Name] {
			return nil, fmt.Errorf("category %s declared twice: %w", cat.Name, ErrInvalidRoster)
		}
		seen[cat.Name] = true

		built, err := cat.build()
		if err != nil {
			return nil, err
		}
		units = append(units, built...)
	}
	return NewRegistry(units)
}

// build validates a category block and creates its units.
func (c rosterCategory) build() ([]Unit, error) {
	if c.Name == "" {
		return nil, fmt.Errorf("category without a name: %w", ErrInvalidRoster)
	}
	if len(c.Units) == 0 {
		return nil, fmt.Errorf("category %s: no units: %w", c.Name, ErrInvalidRoster)
	}

	precision := DefaultPrecision
	if c.Precision != nil {
		precision = *c.Precision
	}
	if precision < 0 || precision > MaxPrecision {
		return nil, fmt.Errorf("category %s: precision %d out of range [0, %d]: %w",
			c.Name, precision, MaxPrecision, ErrInvalidRoster)
	}

	radix := c.Units[0].Radix != 0
	canonicalFound := false
	units := make([]Unit, 0, len(c.Units))

	for _, u := range c.Units {
		if u.Code == "" || u.Name == "" {
			return nil, fmt.Errorf("category %s: unit needs both code and name: %w", c.Name, ErrInvalidRoster)
		}
		if (u.Radix != 0) != radix {
			return nil, fmt.Errorf("category %s: unit %s mixes number bases with scaled units: %w",
				c.Name, u.Code, ErrInvalidRoster)
		}

		var norm normalizer
		if radix {
			if u.Factor != nil || u.Per != nil || u.Offset != 0 {
				return nil, fmt.Errorf("category %s: number-base unit %s cannot be scaled: %w",
					c.Name, u.Code, ErrInvalidRoster)
			}
			if u.Radix < 2 || u.Radix > 36 {
				return nil, fmt.Errorf("category %s: unit %s radix %d out of range [2, 36]: %w",
					c.Name, u.Code, u.Radix, ErrInvalidRoster)
			}
			norm = radixNormalizer{base: u.Radix}
		} else {
			factor, per := 1.0, 1.0
			if u.Factor != nil {
				factor = *u.Factor
			}
			if u.Per != nil {
				per = *u.Per
			}
			if factor == 0 || per == 0 {
				return nil, fmt.Errorf("category %s: unit %s has a zero factor: %w",
					c.Name, u.Code, ErrInvalidRoster)
			}
			norm = scaleNormalizer{factor: factor, per: per, offset: u.Offset, precision: precision}

			if u.Code == c.Canonical && (factor != per || u.Offset != 0) {
				return nil, fmt.Errorf("category %s: canonical unit %s must not be scaled: %w",
					c.Name, u.Code, ErrInvalidRoster)
			}
		}

		if u.Code == c.Canonical {
			canonicalFound = true
		}
		units = append(units, Unit{Code: u.Code, Name: u.Name, Category: Category(c.Name), norm: norm})
	}

	if c.Canonical != "" && !canonicalFound {
		return nil, fmt.Errorf("category %s: canonical unit %q is not declared: %w",
			c.Name, c.Canonical, ErrInvalidRoster)
	}
	return units, nil
}
