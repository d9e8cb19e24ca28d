package unitconv

import (
	"fmt"
	"iter"
	"strings"
)

// Registry is a read-only table of units grouped by category.
// It is safe for concurrent use; nothing mutates it after construction.
type Registry struct {
	// units holds every unit, grouped by category in declaration order.
	units []Unit

	// categories lists categories in declaration order.
	categories []Category

	// spans maps a category to its [start, end) range in units.
	spans map[Category][2]int

	// exact maps short codes and display names to an index in units.
	exact map[string]int

	// aliases maps the lower-cased display name and plural of every unit to
	// an index in units. Ambiguous aliases map to -1.
	aliases map[string]int
}

// NewRegistry builds a registry from units. Units of the same category are
// grouped together, keeping the order in which each category first appears.
// Codes must be unique, names must be unique and no code may equal the name
// of another unit; violations return ErrInvalidRoster.
func NewRegistry(units []Unit) (*Registry, error) {
	if len(units) == 0 {
		return nil, fmt.Errorf("no units: %w", ErrInvalidRoster)
	}

	var order []Category
	grouped := make(map[Category][]Unit)
	for _, u := range units {
		if u.norm == nil {
			return nil, fmt.Errorf("unit %q has no normalizer: %w", u.Code, ErrInvalidRoster)
		}
		if _, ok := grouped[u.Category]; !ok {
			order = append(order, u.Category)
		}
		grouped[u.Category] = append(grouped[u.Category], u)
	}

	r := &Registry{
		units:      make([]Unit, 0, len(units)),
		categories: order,
		spans:      make(map[Category][2]int, len(order)),
		exact:      make(map[string]int, 2*len(units)),
		aliases:    make(map[string]int, 2*len(units)),
	}
	for _, c := range order {
		start := len(r.units)
		r.units = append(r.units, grouped[c]...)
		r.spans[c] = [2]int{start, len(r.units)}
	}

	codes := make(map[string]int, len(r.units))
	for i, u := range r.units {
		if j, dup := codes[u.Code]; dup {
			return nil, fmt.Errorf("code %q used by %s and %s: %w",
				u.Code, r.units[j].Name, u.Name, ErrInvalidRoster)
		}
		codes[u.Code] = i
	}
	for i, u := range r.units {
		if j, dup := r.exact[u.Name]; dup {
			return nil, fmt.Errorf("name %q used by %s and %s: %w",
				u.Name, r.units[j].Code, u.Code, ErrInvalidRoster)
		}
		if j, ok := codes[u.Name]; ok && j != i {
			return nil, fmt.Errorf("name %q of %s shadows the code of %s: %w",
				u.Name, u.Code, r.units[j].Name, ErrInvalidRoster)
		}
		r.exact[u.Name] = i
	}
	for code, i := range codes {
		r.exact[code] = i
	}

	for i, u := range r.units {
		lower := strings.ToLower(u.Name)
		for _, alias := range []string{lower, strings.ToLower(plural(u.Name))} {
			if j, ok := r.aliases[alias]; ok && j != i {
				r.aliases[alias] = -1
				continue
			}
			r.aliases[alias] = i
		}
	}

	return r, nil
}

// Lookup resolves a short code or display name. Exact, case-sensitive
// matches win; otherwise display names and their plural forms match in any
// case, so "F", "fahrenheit", "Kilometer" and "KILOMETERS" all resolve.
// Returns an *UnknownUnitError if nothing matches.
func (r *Registry) Lookup(id string) (Unit, error) {
	if i, ok := r.exact[id]; ok {
		return r.units[i], nil
	}
	if i, ok := r.aliases[strings.ToLower(strings.TrimSpace(id))]; ok && i >= 0 {
		return r.units[i], nil
	}
	return Unit{}, &UnknownUnitError{Identifier: id}
}

// Units returns every unit grouped by category. The sequence is lazy and may
// be iterated any number of times.
func (r *Registry) Units() iter.Seq2[Category, Unit] {
	return func(yield func(Category, Unit) bool) {
		for _, u := range r.units {
			if !yield(u.Category, u) {
				return
			}
		}
	}
}

// Categories returns the categories in declaration order.
func (r *Registry) Categories() []Category {
	out := make([]Category, len(r.categories))
	copy(out, r.categories)
	return out
}

// UnitsIn returns the units of one category in declaration order, or nil if
// the category is unknown.
func (r *Registry) UnitsIn(c Category) []Unit {
	span, ok := r.spans[c]
	if !ok {
		return nil
	}
	out := make([]Unit, span[1]-span[0])
	copy(out, r.units[span[0]:span[1]])
	return out
}

// Len returns the number of units in the registry.
func (r *Registry) Len() int { return len(r.units) }
