package domain

// Config mirrors ~/.sysq/config.yaml.
type Config struct {
	ConfigFormatVersion string          `yaml:"config_format_version"`
	Preferences         Preferences     `yaml:"preferences"`
	Safety              SafetySettings  `yaml:"safety"`
	Backend             BackendSettings `yaml:"backend"`
	History             HistorySettings `yaml:"history"`
	Logging             LoggingSettings `yaml:"logging"`
}

// Preferences captures user level toggles.
type Preferences struct {
	CommandTimeoutSeconds int  `yaml:"command_timeout"`
	ParallelProbes        bool `yaml:"parallel_probes"`
}

// SafetySettings controls the validator's rule sources.
type SafetySettings struct {
	Enabled   bool   `yaml:"enabled"`
	RulesFile string `yaml:"rules_file"`
}

// BackendSettings configures the optional reasoning backend. An empty
// endpoint disables it entirely; the pipeline behaves identically either way,
// only the richness of reasoning text changes.
type BackendSettings struct {
	Endpoint       string `yaml:"endpoint"`
	ModelID        string `yaml:"model_id"`
	AuthEnvVar     string `yaml:"auth_env_var"`
	MaxTokens      int    `yaml:"max_tokens"`
	TimeoutSeconds int    `yaml:"timeout"`
}

// HistorySettings controls trace persistence.
type HistorySettings struct {
	Enabled    bool `yaml:"enabled"`
	RetainDays int  `yaml:"retain_days"`
}

// LoggingSettings configures the structured logger.
type LoggingSettings struct {
	Level string `yaml:"level"`
}
