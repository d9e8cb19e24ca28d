package unitconv

// Concurrency constants for batch conversion.
const (
	// DefaultConcurrency is the default number of batch workers.
	DefaultConcurrency = 4

	// MaxConcurrency is the maximum allowed number of batch workers.
	MaxConcurrency = 16
)

// BatchOption configures a batch conversion.
type BatchOption func(*batchConfig)

// batchConfig holds configuration for a batch conversion.
type batchConfig struct {
	// concurrency is the number of requests converted at once.
	concurrency int

	// progressFn is called after each request completes.
	progressFn func(BatchProgress)
}

// newBatchConfig returns a batchConfig with default values.
func newBatchConfig() *batchConfig {
	return &batchConfig{
		concurrency: DefaultConcurrency,
	}
}

// WithConcurrency sets the number of concurrent batch workers.
// Values are clamped to the range [1, MaxConcurrency].
// Default is DefaultConcurrency (4).
func WithConcurrency(n int) BatchOption {
	return func(c *batchConfig) {
		if n < 1 {
			n = 1
		}
		if n > MaxConcurrency {
			n = MaxConcurrency
		}
		c.concurrency = n
	}
}

// WithProgress sets a callback for progress updates during a batch.
// The callback is invoked from worker goroutines and must be thread-safe.
func WithProgress(fn func(BatchProgress)) BatchOption {
	return func(c *batchConfig) {
		c.progressFn = fn
	}
}

// ConverterOption configures a Converter.
type ConverterOption func(*converterConfig)

// converterConfig holds configuration for Converter construction.
type converterConfig struct {
	// registry replaces the roster named by Config.
	registry *Registry

	// logger receives diagnostic log messages.
	logger Logger
}

// newConverterConfig returns a converterConfig with default values.
func newConverterConfig() *converterConfig {
	return &converterConfig{}
}

// WithRegistry makes the Converter use reg instead of loading a roster.
// Config.RosterFile is ignored when this option is set.
func WithRegistry(reg *Registry) ConverterOption {
	return func(c *converterConfig) {
		c.registry = reg
	}
}

// WithLogger sets a logger for diagnostic output.
// If not set, logging is disabled.
func WithLogger(logger Logger) ConverterOption {
	return func(c *converterConfig) {
		c.logger = logger
	}
}

// Logger is the interface for diagnostic logging.
// Compatible with slog, zap's SugaredLogger (via a thin adapter), and other
// structured loggers.
type Logger interface {
	// Debug logs a debug-level message with optional key-value pairs.
	Debug(msg string, keysAndValues ...any)

	// Info logs an info-level message with optional key-value pairs.
	Info(msg string, keysAndValues ...any)

	// Warn logs a warning-level message with optional key-value pairs.
	Warn(msg string, keysAndValues ...any)

	// Error logs an error-level message with optional key-value pairs.
	Error(msg string, keysAndValues ...any)
}
