package unitconv

import (
	"errors"
	"fmt"
)

// Sentinel errors for conversion operations.
// Use errors.Is() to check for specific error conditions.
var (
	// ErrUnknownUnit indicates an identifier matches no unit in the registry.
	ErrUnknownUnit = errors.New("unitconv: unknown unit")

	// ErrCategoryMismatch indicates a target unit belongs to a different
	// category than the source unit.
	ErrCategoryMismatch = errors.New("unitconv: category mismatch")

	// ErrInvalidValue indicates a value could not be parsed for a unit.
	ErrInvalidValue = errors.New("unitconv: invalid value")

	// ErrInvalidRoster indicates a unit roster failed validation.
	ErrInvalidRoster = errors.New("unitconv: invalid unit roster")

	// ErrNoTargets indicates a conversion was requested without target units.
	ErrNoTargets = errors.New("unitconv: no target units")

	// ErrUsage indicates the command line was incomplete or malformed.
	ErrUsage = errors.New("unitconv: invalid usage")

	// ErrConversionFailed indicates one or more per-target conversions failed.
	// The individual failures have already been reported.
	ErrConversionFailed = errors.New("unitconv: conversion failed")
)

// UnknownUnitError reports the identifier that could not be resolved.
type UnknownUnitError struct {
	Identifier string
}

func (e *UnknownUnitError) Error() string {
	return fmt.Sprintf("%v: %q", ErrUnknownUnit, e.Identifier)
}

func (e *UnknownUnitError) Unwrap() error { return ErrUnknownUnit }

// CategoryMismatchError reports a target whose category differs from the source.
type CategoryMismatchError struct {
	Source Unit
	Target Unit
}

func (e *CategoryMismatchError) Error() string {
	return fmt.Sprintf("%v: cannot convert %s (%s) to %s (%s)",
		ErrCategoryMismatch, e.Source.Name, e.Source.Category, e.Target.Name, e.Target.Category)
}

func (e *CategoryMismatchError) Unwrap() error { return ErrCategoryMismatch }

// InvalidValueError reports a value that is not a valid literal for a unit.
type InvalidValueError struct {
	Category Category
	Unit     string
	Value    string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("%v: %q is not a valid %s value (%s)", ErrInvalidValue, e.Value, e.Unit, e.Category)
}

func (e *InvalidValueError) Unwrap() error { return ErrInvalidValue }
