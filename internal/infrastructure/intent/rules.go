package intent

import "github.com/doeshing/sysq/internal/domain"

// ruleGroup is one ordered classification record. Groups are evaluated
// generically in priority order; the first group with at least one keyword or
// phrase hit wins. No per-question branches anywhere.
type ruleGroup struct {
	priority int
	domain   domain.Domain
	keywords []string // whole-word token matches
	phrases  []string // substring matches
}

func defaultRuleGroups() []ruleGroup {
	return []ruleGroup{
		{
			priority: 10,
			domain:   domain.DomainMemory,
			keywords: []string{"ram", "memory", "rum", "swap"},
			phrases:  []string{"free memory", "memory usage"},
		},
		{
			priority: 20,
			domain:   domain.DomainDisk,
			keywords: []string{"disk", "storage", "filesystem", "partition", "mount"},
			phrases:  []string{"disk space", "free space", "space left"},
		},
		{
			priority: 30,
			domain:   domain.DomainGUI,
			keywords: []string{"desktop", "compositor", "wayland", "x11", "gnome", "kde", "plasma", "sway", "hyprland", "i3", "xfce", "display", "monitor", "resolution"},
			phrases:  []string{"window manager", "desktop environment"},
		},
		{
			priority: 40,
			domain:   domain.DomainServices,
			keywords: []string{"service", "services", "systemd", "daemon", "unit"},
		},
		{
			priority: 50,
			domain:   domain.DomainKernel,
			keywords: []string{"kernel", "uname"},
			phrases:  []string{"linux version"},
		},
		{
			priority: 60,
			domain:   domain.DomainHardware,
			keywords: []string{"cpu", "processor", "gpu", "graphics", "hardware", "specs", "cores", "flags", "avx", "sse"},
		},
		{
			priority: 70,
			domain:   domain.DomainNetwork,
			keywords: []string{"network", "wifi", "internet", "ethernet", "dns", "connection"},
			phrases:  []string{"ip address"},
		},
		{
			priority: 80,
			domain:   domain.DomainPackages,
			keywords: []string{"package", "packages", "installed", "install", "pacman", "apt", "dnf", "flatpak", "snap", "program", "programs", "app", "apps", "software", "game", "games", "steam", "update", "updates", "upgrade"},
			phrases:  []string{"up to date", "out of date"},
		},
	}
}

// categoryTerms maps a Category constraint value to the query words that
// trigger it. The planner owns the matching regexp for each category.
var categoryTerms = map[string][]string{
	"games":    {"game", "games", "gaming", "steam"},
	"editors":  {"editor", "editors", "vim", "nvim", "emacs"},
	"browsers": {"browser", "browsers", "firefox", "chromium"},
}

// problemPhrases signal a Diagnose goal, grouped here so the goal detector
// stays a generic scan like everything else.
var problemPhrases = []string{
	"not working", "broken", "slow", "failing", "fails", "error", "crash",
	"won't", "can't", "cannot", "doesn't", "problem", "issue", "trouble",
	"disconnecting", "keeps dropping",
}
