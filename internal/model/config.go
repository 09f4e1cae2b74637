package model

import "time"

// Config holds the complete truthgate configuration.
// Hierarchy (highest to lowest priority): CLI flags, TRUTHGATE_* env vars,
// config file (~/.truthgate/config.yaml), defaults.
type Config struct {
	Mode        Mode              `yaml:"mode" mapstructure:"mode"`
	Truthpack   TruthpackConfig   `yaml:"truthpack" mapstructure:"truthpack"`
	Evidence    EvidenceConfig    `yaml:"evidence" mapstructure:"evidence"`
	Rules       RulesConfig       `yaml:"rules" mapstructure:"rules"`
	Intent      IntentConfig      `yaml:"intent" mapstructure:"intent"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
}

// TruthpackConfig locates the ground-truth snapshot
type TruthpackConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"` // Directory holding routes.json, env.json, auth.json, contracts.json
}

// EvidenceConfig controls evidence resolution
type EvidenceConfig struct {
	Timeout  time.Duration `yaml:"timeout" mapstructure:"timeout"`     // Bound on truthpack lookups per request
	FailOpen bool          `yaml:"fail_open" mapstructure:"fail_open"` // Relax fail-closed behavior on store failure
	CacheTTL time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"` // TTL for cached lookups (0 disables)
}

// RulesConfig carries per-rule configuration. Pattern lists and
// allow-lists are data, not code, so the same engine can run stricter or
// looser rule sets per project.
type RulesConfig struct {
	GhostRoute       GhostRouteConfig     `yaml:"ghost_route" mapstructure:"ghost_route"`
	GhostEnv         GhostEnvConfig       `yaml:"ghost_env" mapstructure:"ghost_env"`
	AuthDrift        RuleToggle           `yaml:"auth_drift" mapstructure:"auth_drift"`
	ContractDrift    RuleToggle           `yaml:"contract_drift" mapstructure:"contract_drift"`
	ScopeExplosion   ScopeExplosionConfig `yaml:"scope_explosion" mapstructure:"scope_explosion"`
	UnsafeSideEffect UnsafeConfig         `yaml:"unsafe_side_effect" mapstructure:"unsafe_side_effect"`
}

// RuleToggle is the minimal per-rule switch shared by simple rules
type RuleToggle struct {
	Enabled  bool     `yaml:"enabled" mapstructure:"enabled"`
	Severity Severity `yaml:"severity,omitempty" mapstructure:"severity"` // Optional override
}

// GhostRouteConfig configures the unverified-route rule
type GhostRouteConfig struct {
	RuleToggle  `yaml:",inline" mapstructure:",squash"`
	APIPrefixes []string `yaml:"api_prefixes" mapstructure:"api_prefixes"` // Only paths under these prefixes are checked
	AllowList   []string `yaml:"allow_list" mapstructure:"allow_list"`     // Glob-ish patterns exempt from the rule
}

// GhostEnvConfig configures the unverified-env rule
type GhostEnvConfig struct {
	RuleToggle `yaml:",inline" mapstructure:",squash"`
	Builtins   []string `yaml:"builtins" mapstructure:"builtins"`     // Runtime vars that never need declaring
	AllowList  []string `yaml:"allow_list" mapstructure:"allow_list"` // Project-specific exemptions
}

// ScopeExplosionConfig bounds how much surface an intent scope may touch
type ScopeExplosionConfig struct {
	RuleToggle  `yaml:",inline" mapstructure:",squash"`
	MaxSurfaces map[string]int `yaml:"max_surfaces" mapstructure:"max_surfaces"` // scope -> distinct claim values allowed
}

// UnsafeConfig configures the dangerous-construct rule
type UnsafeConfig struct {
	RuleToggle   `yaml:",inline" mapstructure:",squash"`
	TestKeywords []string `yaml:"test_keywords" mapstructure:"test_keywords"` // Contexts exempt from the rule
}

// IntentConfig controls intent validation
type IntentConfig struct {
	MinConfidence float64       `yaml:"min_confidence" mapstructure:"min_confidence"`
	MissionTTL    time.Duration `yaml:"mission_ttl" mapstructure:"mission_ttl"` // Default lifetime of declared missions
}

// ConcurrencyConfig controls batch/watch evaluation
type ConcurrencyConfig struct {
	Workers      int     `yaml:"workers" mapstructure:"workers"`
	EventsPerSec float64 `yaml:"events_per_sec" mapstructure:"events_per_sec"` // Per-path watch re-evaluation rate
	EventBurst   int     `yaml:"event_burst" mapstructure:"event_burst"`
}

// OutputConfig controls rendering
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
	JSON    bool `yaml:"json" mapstructure:"json"`
}

// LLMConfig configures the optional advisory summarizer.
// The summary never affects the decision or the violation list.
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // "openai" or "" (disabled)
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"-" mapstructure:"-"` // From OPENAI_API_KEY, never persisted
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// DefaultConfig returns the standard truthgate configuration
func DefaultConfig() *Config {
	return &Config{
		Mode: ModeEnforce,
		Truthpack: TruthpackConfig{
			Dir: ".truthgate/truthpack",
		},
		Evidence: EvidenceConfig{
			Timeout:  5 * time.Second,
			FailOpen: false,
			CacheTTL: 5 * time.Minute,
		},
		Rules: RulesConfig{
			GhostRoute: GhostRouteConfig{
				RuleToggle:  RuleToggle{Enabled: true},
				APIPrefixes: []string{"/api", "/v1", "/v2", "/graphql", "/rest"},
				AllowList:   []string{"https://*", "http://localhost*"},
			},
			GhostEnv: GhostEnvConfig{
				RuleToggle: RuleToggle{Enabled: true},
				Builtins: []string{
					"NODE_ENV", "PATH", "HOME", "PWD", "USER", "SHELL",
					"TERM", "LANG", "TZ", "CI", "PORT", "HOSTNAME", "TMPDIR",
				},
			},
			AuthDrift:     RuleToggle{Enabled: true},
			ContractDrift: RuleToggle{Enabled: true},
			ScopeExplosion: ScopeExplosionConfig{
				RuleToggle: RuleToggle{Enabled: true},
				MaxSurfaces: map[string]int{
					"function": 5,
					"class":    8,
					"file":     12,
					"module":   25,
					"project":  100,
				},
			},
			UnsafeSideEffect: UnsafeConfig{
				RuleToggle:   RuleToggle{Enabled: true},
				TestKeywords: []string{"test", "spec", "mock", "__tests__"},
			},
		},
		Intent: IntentConfig{
			MinConfidence: 0.3,
			MissionTTL:    4 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers:      4,
			EventsPerSec: 2,
			EventBurst:   5,
		},
		Output: OutputConfig{},
		LLM: LLMConfig{
			Timeout:   30,
			MaxTokens: 800,
		},
	}
}
