// Package config loads memkeep's single YAML settings document (spec
// §6): recognised keys per the table there, invalid single values
// falling back to their documented default, unknown keys ignored but
// logged. Grounded on wingthing's WingConfig YAML loader (wing.go),
// generalized from config.go's ad hoc merge logic into an
// increasing-priority multi-path loader, and on agentic-research-mache's
// use of `ohler55/ojg/jp` (internal/ingest/json_walker.go) for walking a
// parsed document generically — here used to pull the dynamic
// `injection.types.<T>` and `injection.hook_multipliers.<tool>` maps out
// of the raw document without a fixed schema.
package config

import (
	"os"

	"github.com/ohler55/ojg/jp"
	"gopkg.in/yaml.v3"

	"github.com/memkeep/memkeep/internal/logger"
)

// TypePolicy is one memory type's injection policy (spec §6:
// "injection.types.<T>.{enabled,threshold,limit}").
type TypePolicy struct {
	Enabled   bool
	Threshold float64
	Limit     int
}

// Injection groups the injector's master switch, per-type policies, and
// per-tool threshold multipliers (spec §6).
type Injection struct {
	Enabled         bool
	Types           map[string]TypePolicy
	HookMultipliers map[string]float64
}

// Config is the fully resolved, defaulted settings document (spec §6's
// table).
type Config struct {
	Enabled             bool
	OllamaHost          string
	ChatModel           string
	EmbeddingModel      string
	ContextWindow       int
	HealthThreshold     float64
	SemanticThreshold   float64
	DuplicateThreshold  float64
	LSHCollectionThresh int
	LSHHashBits         int
	LSHTables           int
	ReminderCount       int
	SettingsVersion     int
	SkipHooksAfterClear bool
	Injection           Injection
	EnterprisePath      string
	PluginRoot          string
}

// Defaults returns the documented default configuration (spec §6).
func Defaults() Config {
	return Config{
		Enabled:             true,
		OllamaHost:          "http://localhost:11434",
		ContextWindow:       16384,
		HealthThreshold:     0.7,
		SemanticThreshold:   0.45,
		DuplicateThreshold:  0.92,
		LSHCollectionThresh: 200,
		LSHHashBits:         10,
		LSHTables:           6,
		ReminderCount:       1,
		SettingsVersion:     1,
		SkipHooksAfterClear: false,
		Injection: Injection{
			Enabled: true,
			Types: map[string]TypePolicy{
				"gotcha":   {Enabled: true, Threshold: 0.5, Limit: 3},
				"decision": {Enabled: true, Threshold: 0.5, Limit: 3},
				"learning": {Enabled: true, Threshold: 0.5, Limit: 3},
			},
			HookMultipliers: map[string]float64{
				"Read": 1.0, "Edit": 0.8, "Write": 0.8, "Bash": 1.2,
			},
		},
	}
}

// recognisedKeys mirrors spec §6's table; anything else found in a
// document is logged and dropped, never causing a load failure.
var recognisedKeys = map[string]bool{
	"enabled": true, "ollama_host": true, "chat_model": true,
	"embedding_model": true, "context_window": true,
	"health_threshold": true, "semantic_threshold": true,
	"duplicate_threshold": true, "lsh_collection_threshold": true,
	"lsh_hash_bits": true, "lsh_tables": true, "reminder_count": true,
	"settings_version": true, "skip_hooks_after_clear": true,
	"injection": true,
}

// Load reads each path in increasing priority order (the binaries pass
// global, then project), applying each on top of the
// documented defaults. A missing file is skipped; an unreadable or
// unparsable file is logged and skipped rather than aborting the load
// (spec §6: "never crash").
func Load(log *logger.Logger, paths ...string) Config {
	cfg := Defaults()
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		applyDocument(log, &cfg, data, p)
	}
	cfg.EnterprisePath = os.Getenv("CLAUDE_MEMORY_ENTERPRISE_PATH")
	cfg.PluginRoot = os.Getenv("CLAUDE_PLUGIN_ROOT")
	return cfg
}

func applyDocument(log *logger.Logger, cfg *Config, data []byte, sourcePath string) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		if log != nil {
			log.Warn("config: skipping unparsable file", "path", sourcePath, "error", err)
		}
		return
	}

	logUnknownKeys(log, raw, sourcePath)

	if v, ok := boolField(raw, "enabled"); ok {
		cfg.Enabled = v
	}
	if v, ok := stringField(raw, "ollama_host"); ok {
		cfg.OllamaHost = v
	}
	if v, ok := stringField(raw, "chat_model"); ok {
		cfg.ChatModel = v
	}
	if v, ok := stringField(raw, "embedding_model"); ok {
		cfg.EmbeddingModel = v
	}
	if v, ok := intField(raw, "context_window"); ok && v > 0 {
		cfg.ContextWindow = v
	}
	if v, ok := floatField(raw, "health_threshold"); ok && inUnitRange(v) {
		cfg.HealthThreshold = v
	}
	if v, ok := floatField(raw, "semantic_threshold"); ok && inUnitRange(v) {
		cfg.SemanticThreshold = v
	}
	if v, ok := floatField(raw, "duplicate_threshold"); ok && inUnitRange(v) {
		cfg.DuplicateThreshold = v
	}
	if v, ok := intField(raw, "lsh_collection_threshold"); ok && v >= 1 {
		cfg.LSHCollectionThresh = v
	}
	if v, ok := intField(raw, "lsh_hash_bits"); ok && v >= 1 {
		cfg.LSHHashBits = v
	}
	if v, ok := intField(raw, "lsh_tables"); ok && v >= 1 {
		cfg.LSHTables = v
	}
	if v, ok := intField(raw, "reminder_count"); ok && v >= 0 && v <= 10 {
		cfg.ReminderCount = v
	}
	if v, ok := intField(raw, "settings_version"); ok && v >= 1 {
		cfg.SettingsVersion = v
	}
	if v, ok := boolField(raw, "skip_hooks_after_clear"); ok {
		cfg.SkipHooksAfterClear = v
	}

	applyInjection(log, cfg, raw)
}

// applyInjection pulls the dynamic injection.types.<T> and
// injection.hook_multipliers.<tool> maps out of raw via ojg/jp path
// queries, since their key sets aren't fixed by the schema.
func applyInjection(log *logger.Logger, cfg *Config, raw map[string]any) {
	if injRaw, ok := raw["injection"].(map[string]any); ok {
		if v, ok := boolField(injRaw, "enabled"); ok {
			cfg.Injection.Enabled = v
		}
	}

	typesExpr, err := jp.ParseString("injection.types")
	if err == nil {
		for _, m := range typesExpr.Get(raw) {
			typesMap, ok := m.(map[string]any)
			if !ok {
				continue
			}
			for memType, policyRaw := range typesMap {
				policyMap, ok := policyRaw.(map[string]any)
				if !ok {
					continue
				}
				policy := cfg.Injection.Types[memType]
				if v, ok := boolField(policyMap, "enabled"); ok {
					policy.Enabled = v
				}
				if v, ok := floatField(policyMap, "threshold"); ok && inUnitRange(v) {
					policy.Threshold = v
				}
				if v, ok := intField(policyMap, "limit"); ok && v >= 0 {
					policy.Limit = v
				}
				if cfg.Injection.Types == nil {
					cfg.Injection.Types = map[string]TypePolicy{}
				}
				cfg.Injection.Types[memType] = policy
			}
		}
	} else if log != nil {
		log.Debug("config: could not parse injection.types selector", "error", err)
	}

	multExpr, err := jp.ParseString("injection.hook_multipliers")
	if err == nil {
		for _, m := range multExpr.Get(raw) {
			multMap, ok := m.(map[string]any)
			if !ok {
				continue
			}
			for tool, v := range multMap {
				if f, ok := toFloat(v); ok && f > 0 {
					if cfg.Injection.HookMultipliers == nil {
						cfg.Injection.HookMultipliers = map[string]float64{}
					}
					cfg.Injection.HookMultipliers[tool] = f
				}
			}
		}
	}
}

// logUnknownKeys walks raw's top-level keys and logs (at debug level)
// any not in recognisedKeys, per spec §6: "unknown keys must be ignored"
// — ignored for parsing purposes, but surfaced for diagnosis.
func logUnknownKeys(log *logger.Logger, raw map[string]any, sourcePath string) {
	if log == nil {
		return
	}
	for key := range raw {
		if !recognisedKeys[key] {
			log.Debug("config: ignoring unrecognised key", "key", key, "path", sourcePath)
		}
	}
}

func boolField(m map[string]any, key string) (bool, bool) {
	v, ok := m[key]
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

func stringField(m map[string]any, key string) (string, bool) {
	v, ok := m[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func intField(m map[string]any, key string) (int, bool) {
	v, ok := m[key]
	if !ok {
		return 0, false
	}
	f, ok := toFloat(v)
	if !ok {
		return 0, false
	}
	return int(f), true
}

func floatField(m map[string]any, key string) (float64, bool) {
	v, ok := m[key]
	if !ok {
		return 0, false
	}
	return toFloat(v)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	default:
		return 0, false
	}
}

func inUnitRange(f float64) bool {
	return f >= 0 && f <= 1
}
