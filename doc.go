// Package unitconv converts values between units of measurement and between
// number bases.
//
// The package serves two primary use cases:
//
//  1. Programmatic API via the Converter interface - Applications can use
//     NewConverter to convert a value from one source unit into any number of
//     target units, or ConvertBatch to convert many requests concurrently.
//
//  2. Embeddable CLI via NewCommand - Parent CLI tools can attach the
//     conversion command to their Cobra root command, providing usage like
//     "mytool convert 10 km --m --mi" with one flag per registered unit.
//
// # Units and Categories
//
// Every unit belongs to exactly one category (length, temperature, number,
// ...). A conversion only succeeds between units of the same category. Values
// are normalized into the category's canonical unit and rendered back into
// the target, so no pairwise conversion table exists.
//
// The compiled-in roster covers twelve categories. A replacement roster can be
// loaded from YAML with LoadRosterFile or Config.RosterFile.
//
// # Thread Safety
//
// Registries are immutable after construction and the Converter interface is
// fully thread-safe. All methods can be called concurrently from multiple
// goroutines without external synchronization.
//
// # Rounding
//
// Temperature and data results are rounded to 2 decimal places, other
// physical categories to 4, half away from zero. Number-base results are exact.
package unitconv
