package config

import (
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
)

func TestParseServices(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    map[ServiceMode]bool
		expectError bool
	}{
		{
			name:  "single service - http",
			input: "http",
			expected: map[ServiceMode]bool{
				ServiceModeHTTP: true,
			},
			expectError: false,
		},
		{
			name:  "single service - sweeper",
			input: "sweeper",
			expected: map[ServiceMode]bool{
				ServiceModeSweeper: true,
			},
			expectError: false,
		},
		{
			name:  "multiple services",
			input: "http,sweeper",
			expected: map[ServiceMode]bool{
				ServiceModeHTTP:    true,
				ServiceModeSweeper: true,
			},
			expectError: false,
		},
		{
			name:  "services with spaces",
			input: " http , sweeper ",
			expected: map[ServiceMode]bool{
				ServiceModeHTTP:    true,
				ServiceModeSweeper: true,
			},
			expectError: false,
		},
		{
			name:  "duplicate services",
			input: "http,http,sweeper",
			expected: map[ServiceMode]bool{
				ServiceModeHTTP:    true,
				ServiceModeSweeper: true,
			},
			expectError: false,
		},
		{
			name:        "empty string",
			input:       "",
			expected:    nil,
			expectError: true,
		},
		{
			name:        "only spaces and commas",
			input:       " , , ",
			expected:    nil,
			expectError: true,
		},
		{
			name:        "invalid service name",
			input:       "http,invalid-service",
			expected:    nil,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseServices(tt.input)

			if tt.expectError {
				if err == nil {
					t.Errorf("expected error but got none")
				}
				return
			}

			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}

			if len(result) != len(tt.expected) {
				t.Errorf("expected %d services, got %d", len(tt.expected), len(result))
				return
			}

			for service, expected := range tt.expected {
				if result[service] != expected {
					t.Errorf("expected service %s to be %v, got %v", service, expected, result[service])
				}
			}
		})
	}
}

func TestConfig_ServiceEnabledMethods(t *testing.T) {
	tests := []struct {
		name            string
		services        string
		expectedHTTP    bool
		expectedSweeper bool
	}{
		{
			name:            "default - http only",
			services:        "http",
			expectedHTTP:    true,
			expectedSweeper: false,
		},
		{
			name:            "http and sweeper",
			services:        "http,sweeper",
			expectedHTTP:    true,
			expectedSweeper: true,
		},
		{
			name:            "sweeper only",
			services:        "sweeper",
			expectedHTTP:    false,
			expectedSweeper: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := AppConfig{Services: tt.services}

			if cfg.IsHTTPServerEnabled() != tt.expectedHTTP {
				t.Errorf("IsHTTPServerEnabled(): expected %v, got %v", tt.expectedHTTP, cfg.IsHTTPServerEnabled())
			}

			if cfg.IsSweeperEnabled() != tt.expectedSweeper {
				t.Errorf("IsSweeperEnabled(): expected %v, got %v", tt.expectedSweeper, cfg.IsSweeperEnabled())
			}
		})
	}
}

func TestConfig_ServiceEnabledMethodsWithInvalidConfig(t *testing.T) {
	cfg := AppConfig{Services: "invalid-service"}

	if cfg.IsHTTPServerEnabled() {
		t.Errorf("IsHTTPServerEnabled() with invalid config: expected false, got true")
	}

	if cfg.IsSweeperEnabled() {
		t.Errorf("IsSweeperEnabled() with invalid config: expected false, got true")
	}
}

func TestValidServiceModes(t *testing.T) {
	modes := ValidServiceModes()
	expected := []ServiceMode{
		ServiceModeHTTP,
		ServiceModeSweeper,
	}

	if len(modes) != len(expected) {
		t.Errorf("expected %d service modes, got %d", len(expected), len(modes))
	}

	for i, mode := range modes {
		if mode != expected[i] {
			t.Errorf("expected service mode %s at index %d, got %s", expected[i], i, mode)
		}
	}
}

func TestAppConfig_ParseEnv(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6432")
	t.Setenv("SERVICES", "http,sweeper")
	t.Setenv("SWEEP_INTERVAL", "2m")
	t.Setenv("SWEEP_BATCH_SIZE", "250")
	t.Setenv("CACHE_APPLICATIONS_TTL", "10m")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	if cfg.Postgres.Host != "db.internal" {
		t.Fatalf("expected DB host override, got %q", cfg.Postgres.Host)
	}
	if cfg.Postgres.Port != 6432 {
		t.Fatalf("expected DB port override, got %d", cfg.Postgres.Port)
	}
	if !cfg.IsHTTPServerEnabled() || !cfg.IsSweeperEnabled() {
		t.Fatalf("expected both services enabled, got %q", cfg.Services)
	}
	if cfg.Sweeper.Interval != 2*time.Minute {
		t.Fatalf("expected sweep interval 2m, got %v", cfg.Sweeper.Interval)
	}
	if cfg.Sweeper.BatchSize != 250 {
		t.Fatalf("expected sweep batch size 250, got %d", cfg.Sweeper.BatchSize)
	}
	if cfg.Cache.ApplicationsTTL != 10*time.Minute {
		t.Fatalf("expected cache TTL 10m, got %v", cfg.Cache.ApplicationsTTL)
	}
}

func TestSweepConfig_Sanitize(t *testing.T) {
	cfg := SweepConfig{
		Interval:  time.Second,
		BatchSize: 0,
	}

	cfg.Sanitize()

	if cfg.Interval != 10*time.Second {
		t.Fatalf("expected interval clamped to 10s, got %v", cfg.Interval)
	}
	if cfg.BatchSize != 1 {
		t.Fatalf("expected batch size clamped to 1, got %d", cfg.BatchSize)
	}

	cfg = SweepConfig{
		Interval:  time.Minute,
		BatchSize: 50000,
	}
	cfg.Sanitize()

	if cfg.BatchSize != 10000 {
		t.Fatalf("expected batch size clamped to 10000, got %d", cfg.BatchSize)
	}
}

func TestObservabilityMetricsConfig_Sanitize(t *testing.T) {
	cfg := ObservabilityMetricsConfig{
		Enabled:       true,
		StatsdAddress: " ",
	}

	cfg.Sanitize()

	if cfg.Enabled {
		t.Fatalf("expected enabled to be false when address is empty")
	}

	cfg = ObservabilityMetricsConfig{
		Enabled:       true,
		StatsdAddress: " statsd:1234 ",
	}

	cfg.Sanitize()

	if !cfg.IsEnabled() {
		t.Fatalf("expected metrics to remain enabled")
	}
	if cfg.StatsdAddress != "statsd:1234" {
		t.Fatalf("expected address to be trimmed, got %q", cfg.StatsdAddress)
	}
}

func TestObservabilityNotificationsConfig_Sanitize(t *testing.T) {
	cfg := ObservabilityNotificationsConfig{
		Enabled:    true,
		Timeout:    0,
		RetryLimit: -1,
		Webhook: WebhookNotificationConfig{
			Enabled: true,
			URL:     " ",
		},
	}

	cfg.Sanitize()

	if cfg.Timeout <= 0 {
		t.Fatalf("expected timeout to fall back to default, got %v", cfg.Timeout)
	}
	if cfg.RetryLimit < 0 {
		t.Fatalf("expected retry limit to be clamped to >= 0, got %d", cfg.RetryLimit)
	}
	if cfg.Webhook.Enabled {
		t.Fatal("expected webhook to be disabled without a url")
	}

	// Disabled top-level should disable child sinks.
	cfg = ObservabilityNotificationsConfig{
		Enabled: false,
		Webhook: WebhookNotificationConfig{
			Enabled: true,
			URL:     "https://notify.example.com/hooks/interviews",
		},
	}
	cfg.Sanitize()

	if cfg.Webhook.Enabled {
		t.Fatal("expected webhook to be disabled when top-level notifications disabled")
	}
}
