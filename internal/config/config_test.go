package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/memkeep/memkeep/internal/logger"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFilesReturnsDefaults(t *testing.T) {
	cfg := Load(logger.Noop(), "/nonexistent/config.yaml")
	if cfg.DuplicateThreshold != 0.92 || cfg.LSHTables != 6 {
		t.Fatalf("expected defaults to survive a missing file, got %+v", cfg)
	}
}

func TestLoadOverridesRecognisedKeys(t *testing.T) {
	path := writeTemp(t, "duplicate_threshold: 0.8\nreminder_count: 3\n")
	cfg := Load(logger.Noop(), path)
	if cfg.DuplicateThreshold != 0.8 {
		t.Fatalf("expected override, got %v", cfg.DuplicateThreshold)
	}
	if cfg.ReminderCount != 3 {
		t.Fatalf("expected override, got %v", cfg.ReminderCount)
	}
}

func TestLoadIgnoresInvalidValueFallsBackToDefault(t *testing.T) {
	path := writeTemp(t, "duplicate_threshold: 5.0\n") // out of 0-1 range
	cfg := Load(logger.Noop(), path)
	if cfg.DuplicateThreshold != 0.92 {
		t.Fatalf("expected invalid value to fall back to default, got %v", cfg.DuplicateThreshold)
	}
}

func TestLoadIgnoresUnknownKeysWithoutFailing(t *testing.T) {
	path := writeTemp(t, "totally_unknown_key: true\nduplicate_threshold: 0.5\n")
	cfg := Load(logger.Noop(), path)
	if cfg.DuplicateThreshold != 0.5 {
		t.Fatalf("expected recognised keys to still apply alongside unknown ones, got %+v", cfg)
	}
}

func TestLoadAppliesIncreasingPriority(t *testing.T) {
	low := writeTemp(t, "reminder_count: 1\n")
	high := writeTemp(t, "reminder_count: 5\n")
	cfg := Load(logger.Noop(), low, high)
	if cfg.ReminderCount != 5 {
		t.Fatalf("expected later path to win, got %v", cfg.ReminderCount)
	}
}

func TestLoadParsesInjectionTypesAndMultipliers(t *testing.T) {
	path := writeTemp(t, `
injection:
  enabled: true
  types:
    gotcha:
      enabled: true
      threshold: 0.6
      limit: 5
  hook_multipliers:
    Bash: 1.5
`)
	cfg := Load(logger.Noop(), path)
	if cfg.Injection.Types["gotcha"].Threshold != 0.6 {
		t.Fatalf("expected gotcha threshold override, got %+v", cfg.Injection.Types["gotcha"])
	}
	if cfg.Injection.Types["gotcha"].Limit != 5 {
		t.Fatalf("expected gotcha limit override, got %+v", cfg.Injection.Types["gotcha"])
	}
	if cfg.Injection.HookMultipliers["Bash"] != 1.5 {
		t.Fatalf("expected Bash multiplier override, got %+v", cfg.Injection.HookMultipliers)
	}
}
