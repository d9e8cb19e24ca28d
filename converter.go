package unitconv

import (
	"context"
	"fmt"
)

// Converter converts values between units of a registry.
// All methods are safe for concurrent use.
// For CLI integration, use NewCommand instead.
type Converter interface {
	// Convert converts value, given in the source unit, into every target.
	// Outcomes follow the order of targets. An unknown source unit or a value
	// that is invalid for the source unit fails the whole call; unknown or
	// incompatible targets are reported in their Outcome and do not stop the
	// remaining targets. Returns ErrNoTargets if targets is empty.
	Convert(value, source string, targets ...string) ([]Outcome, error)

	// ConvertBatch converts independent requests concurrently. Results follow
	// the order of reqs; per-request failures are recorded in BatchResult.Err.
	// Only context cancellation fails the whole batch.
	ConvertBatch(ctx context.Context, reqs []Request, opts ...BatchOption) ([]BatchResult, error)

	// Lookup resolves a short code or display name.
	// Returns an *UnknownUnitError if the identifier is not registered.
	Lookup(id string) (Unit, error)

	// Registry returns the registry the converter resolves units against.
	Registry() *Registry
}

// Ensure converter implements Converter interface.
var _ Converter = (*converter)(nil)

// converter is the concrete implementation of the Converter interface.
type converter struct {
	// registry resolves unit identifiers.
	registry *Registry

	// logger receives diagnostic messages. May be nil.
	logger Logger
}

// NewConverter creates a Converter with the given configuration.
// The roster in cfg.RosterFile is loaded unless WithRegistry is given; with
// neither, the compiled-in roster is used.
func NewConverter(cfg Config, opts ...ConverterOption) (Converter, error) {
	ccfg := newConverterConfig()
	for _, opt := range opts {
		opt(ccfg)
	}

	reg := ccfg.registry
	if reg == nil {
		if cfg.RosterFile != "" {
			var err error
			reg, err = LoadRosterFile(cfg.RosterFile)
			if err != nil {
				return nil, err
			}
		} else {
			reg = DefaultRegistry()
		}
	}

	if ccfg.logger != nil {
		ccfg.logger.Debug("unit registry ready", "units", reg.Len(), "categories", len(reg.categories))
	}

	return &converter{registry: reg, logger: ccfg.logger}, nil
}

func (c *converter) Convert(value, source string, targets ...string) ([]Outcome, error) {
	if len(targets) == 0 {
		return nil, ErrNoTargets
	}

	src, err := c.registry.Lookup(source)
	if err != nil {
		return nil, fmt.Errorf("source unit: %w", err)
	}

	// The source value is normalized once so every target sees the same
	// canonical value.
	canon, err := src.toCanonical(value)
	if err != nil {
		return nil, err
	}

	outcomes := make([]Outcome, 0, len(targets))
	for _, id := range targets {
		outcomes = append(outcomes, c.convertOne(value, src, canon, id))
	}
	return outcomes, nil
}

// convertOne resolves a single target and renders the canonical value in it.
// Same-unit targets still take the full canonical round trip.
func (c *converter) convertOne(value string, src Unit, canon canonical, id string) Outcome {
	dst, err := c.registry.Lookup(id)
	if err != nil {
		if c.logger != nil {
			c.logger.Debug("unknown target unit", "target", id)
		}
		return Outcome{Target: id, Err: err}
	}
	if dst.Category != src.Category {
		if c.logger != nil {
			c.logger.Debug("category mismatch",
				"source", src.Code, "source_category", src.Category,
				"target", dst.Code, "target_category", dst.Category)
		}
		return Outcome{Target: id, Err: &CategoryMismatchError{Source: src, Target: dst}}
	}

	res := &Result{
		Input:  value,
		Source: src,
		Target: dst,
		Value:  dst.fromCanonical(canon),
	}
	if c.logger != nil {
		c.logger.Debug("converted", "value", value, "source", src.Code, "target", dst.Code, "result", res.Value.String())
	}
	return Outcome{Target: id, Result: res}
}

func (c *converter) Lookup(id string) (Unit, error) {
	return c.registry.Lookup(id)
}

func (c *converter) Registry() *Registry {
	return c.registry
}
