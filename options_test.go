package unitconv

import "testing"

func TestWithConcurrency(t *testing.T) {
	tests := []struct {
		name  string
		input int
		want  int
	}{
		{
			name:  "default value",
			input: -1, // will use default
			want:  DefaultConcurrency,
		},
		{
			name:  "zero clamped to 1",
			input: 0,
			want:  1,
		},
		{
			name:  "negative clamped to 1",
			input: -5,
			want:  1,
		},
		{
			name:  "above max clamped to MaxConcurrency",
			input: 100,
			want:  MaxConcurrency,
		},
		{
			name:  "exactly MaxConcurrency",
			input: MaxConcurrency,
			want:  MaxConcurrency,
		},
		{
			name:  "valid value preserved",
			input: 8,
			want:  8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newBatchConfig()

			// For the "default value" test, don't apply any option
			if tt.name != "default value" {
				WithConcurrency(tt.input)(cfg)
			}

			if cfg.concurrency != tt.want {
				t.Errorf("concurrency = %d, want %d", cfg.concurrency, tt.want)
			}
		})
	}
}

func TestWithProgress(t *testing.T) {
	t.Run("default is nil", func(t *testing.T) {
		cfg := newBatchConfig()
		if cfg.progressFn != nil {
			t.Error("default progressFn should be nil")
		}
	})

	t.Run("sets callback", func(t *testing.T) {
		cfg := newBatchConfig()
		called := false
		WithProgress(func(BatchProgress) { called = true })(cfg)

		if cfg.progressFn == nil {
			t.Fatal("progressFn should be set")
		}
		cfg.progressFn(BatchProgress{})
		if !called {
			t.Error("progressFn was not invoked")
		}
	})
}

func TestWithRegistry(t *testing.T) {
	t.Run("default is nil", func(t *testing.T) {
		cfg := newConverterConfig()
		if cfg.registry != nil {
			t.Error("default registry should be nil")
		}
	})

	t.Run("sets registry", func(t *testing.T) {
		reg := DefaultRegistry()
		cfg := newConverterConfig()
		WithRegistry(reg)(cfg)
		if cfg.registry != reg {
			t.Error("registry was not set")
		}
	})
}

type mockLogger struct {
	debugCalls int
	infoCalls  int
	warnCalls  int
	errorCalls int
}

func (m *mockLogger) Debug(msg string, keysAndValues ...any) { m.debugCalls++ }
func (m *mockLogger) Info(msg string, keysAndValues ...any)  { m.infoCalls++ }
func (m *mockLogger) Warn(msg string, keysAndValues ...any)  { m.warnCalls++ }
func (m *mockLogger) Error(msg string, keysAndValues ...any) { m.errorCalls++ }

func TestWithLogger(t *testing.T) {
	t.Run("default is nil", func(t *testing.T) {
		cfg := newConverterConfig()
		if cfg.logger != nil {
			t.Error("default logger should be nil")
		}
	})

	t.Run("sets logger", func(t *testing.T) {
		logger := &mockLogger{}
		cfg := newConverterConfig()
		WithLogger(logger)(cfg)
		if cfg.logger != logger {
			t.Error("logger was not set")
		}
	})

	t.Run("converter logs conversions", func(t *testing.T) {
		logger := &mockLogger{}
		conv, err := NewConverter(Config{}, WithLogger(logger))
		if err != nil {
			t.Fatalf("NewConverter() error = %v", err)
		}
		if _, err := conv.Convert("1", "km", "m", "kg", "parsec"); err != nil {
			t.Fatalf("Convert() error = %v", err)
		}
		// One call for construction plus one per target.
		if logger.debugCalls != 4 {
			t.Errorf("debugCalls = %d, want 4", logger.debugCalls)
		}
	})
}
