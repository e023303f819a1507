package config

import (
	"fmt"
	"os"
	"testing"
	"time"

	"pgregory.net/rapid"
)

// validLogLevels are the accepted log level values.
var validLogLevels = []string{"debug", "info", "warn", "error"}

// durationEnvKeys lists all Config fields that are parsed as time.Duration.
var durationEnvKeys = []string{
	"TRADE_TIMEOUT",
	"READ_TIMEOUT",
	"WRITE_TIMEOUT",
	"IDLE_TIMEOUT",
	"SHUTDOWN_TIMEOUT",
}

// unsetAllConfigEnv clears all config env vars.
func unsetAllConfigEnv() {
	for _, key := range configEnvKeys {
		os.Unsetenv(key)
	}
}

// genDurationString generates a valid Go duration string (e.g. "3s", "500ms", "2m").
func genDurationString() *rapid.Generator[string] {
	return rapid.Custom(func(t *rapid.T) string {
		unit := rapid.SampledFrom([]string{"ms", "s", "m"}).Draw(t, "unit")
		val := rapid.IntRange(1, 600).Draw(t, "val")
		return fmt.Sprintf("%d%s", val, unit)
	})
}

// parseDurationOrDefault parses a duration string, returning the default if empty.
func parseDurationOrDefault(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, _ := time.ParseDuration(s)
	return d
}

func TestProperty_ValidConfigParsing(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		unsetAllConfigEnv()
		defer unsetAllConfigEnv()

		port := rapid.IntRange(1, 65535).Draw(t, "port")
		os.Setenv("PORT", fmt.Sprintf("%d", port))

		logLevel := rapid.SampledFrom(validLogLevels).Draw(t, "logLevel")
		os.Setenv("LOG_LEVEL", logLevel)

		want := make(map[string]string, len(durationEnvKeys))
		for _, key := range durationEnvKeys {
			if rapid.Bool().Draw(t, "set-"+key) {
				v := genDurationString().Draw(t, key)
				os.Setenv(key, v)
				want[key] = v
			}
		}

		cfg, err := Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.Port != port {
			t.Errorf("port = %d, want %d", cfg.Port, port)
		}
		if cfg.LogLevel != logLevel {
			t.Errorf("log level = %s, want %s", cfg.LogLevel, logLevel)
		}
		if got, expect := cfg.TradeTimeout, parseDurationOrDefault(want["TRADE_TIMEOUT"], 30*time.Second); got != expect {
			t.Errorf("trade timeout = %s, want %s", got, expect)
		}
		if got, expect := cfg.ReadTimeout, parseDurationOrDefault(want["READ_TIMEOUT"], 5*time.Second); got != expect {
			t.Errorf("read timeout = %s, want %s", got, expect)
		}
		if got, expect := cfg.ShutdownTimeout, parseDurationOrDefault(want["SHUTDOWN_TIMEOUT"], 10*time.Second); got != expect {
			t.Errorf("shutdown timeout = %s, want %s", got, expect)
		}
	})
}
