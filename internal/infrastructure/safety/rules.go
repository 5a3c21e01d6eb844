package safety

// Built-in shape rules. Classification is by command shape (program + flag
// patterns), not a blacklist of full strings, so novel invocations of known
// dangerous primitives are still caught.

// DangerPattern describes one regex-based rule, loadable from YAML.
type DangerPattern struct {
	Pattern string `yaml:"pattern"`
	Message string `yaml:"message"`
}

// RulesFile is the YAML schema root for ~/.sysq/safety.yaml. User rules
// extend the built-in sets; they never replace the forbidden defaults.
type RulesFile struct {
	Rules struct {
		ForbiddenPatterns    []DangerPattern `yaml:"forbidden_patterns"`
		RiskyPatterns        []DangerPattern `yaml:"risky_patterns"`
		MinimalWritePatterns []DangerPattern `yaml:"minimal_write_patterns"`
	} `yaml:"rules"`
}

func defaultForbiddenPatterns() []DangerPattern {
	return []DangerPattern{
		{Pattern: `^(sudo\s+)?(pacman|yay|paru)\s+-R`, Message: "destructive package removal"},
		{Pattern: `^(sudo\s+)?(apt|apt-get|dnf|yum)\s+(remove|purge|autoremove)\b`, Message: "destructive package removal"},
		{Pattern: `^(sudo\s+)?flatpak\s+uninstall\b`, Message: "destructive package removal"},
		{Pattern: `^(sudo\s+)?snap\s+remove\b`, Message: "destructive package removal"},
		{Pattern: `rm\s+-[a-zA-Z]*r[a-zA-Z]*\s+/\S*`, Message: "recursive delete of root-relative path"},
		{Pattern: `rm\s+-[a-zA-Z]*r[a-zA-Z]*\s+(\*|~|\$HOME)`, Message: "unconstrained recursive delete"},
		{Pattern: `\bdd\s+[^|]*of=/dev/`, Message: "raw write to block device"},
		{Pattern: `\bmkfs(\.|\s|-)`, Message: "filesystem format"},
		{Pattern: `\bwipefs\b`, Message: "filesystem signature wipe"},
		{Pattern: `\bshred\s+/dev/`, Message: "block device shred"},
		{Pattern: `>\s*/dev/(sd|nvme|hd)`, Message: "redirect into block device"},
		{Pattern: `:\(\)\s*\{\s*:\|:&\s*\};:`, Message: "fork bomb"},
	}
}

func defaultRiskyPatterns() []DangerPattern {
	return []DangerPattern{
		{Pattern: `^(sudo\s+)?(pacman|yay|paru)\s+-S($|[^c])`, Message: "package install/upgrade"},
		{Pattern: `^(sudo\s+)?(apt|apt-get|dnf|yum)\s+(install|upgrade|dist-upgrade|full-upgrade)\b`, Message: "package install/upgrade"},
		{Pattern: `^(sudo\s+)?flatpak\s+install\b`, Message: "package install"},
		{Pattern: `^(sudo\s+)?snap\s+install\b`, Message: "package install"},
		{Pattern: `^(sudo\s+)?systemctl\s+(start|stop|restart|reload|enable|disable|mask|unmask)\b`, Message: "service state change"},
		{Pattern: `^(sudo\s+)?sed\s+.*-i`, Message: "in-place file edit"},
		{Pattern: `\btee\s+(-a\s+)?/etc/`, Message: "config file write"},
		{Pattern: `^(sudo\s+)?ip\s+link\s+set\b`, Message: "network interface change"},
	}
}

func defaultMinimalWritePatterns() []DangerPattern {
	return []DangerPattern{
		{Pattern: `^(sudo\s+)?paccache\s+-r`, Message: "package cache trim"},
		{Pattern: `^(sudo\s+)?pacman\s+-Scc?\b`, Message: "package cache clean"},
		{Pattern: `^(sudo\s+)?(apt|apt-get)\s+(clean|autoclean)\b`, Message: "package cache clean"},
		{Pattern: `^(sudo\s+)?dnf\s+clean\b`, Message: "package cache clean"},
		{Pattern: `^(sudo\s+)?(apt|apt-get)\s+update\b`, Message: "package index refresh"},
		{Pattern: `^(sudo\s+)?journalctl\s+--vacuum`, Message: "journal rotation"},
		{Pattern: `^(sudo\s+)?systemctl\s+daemon-reload\b`, Message: "unit file reload"},
		{Pattern: `^sync\b`, Message: "filesystem sync"},
	}
}
