package planner

import (
	"fmt"
	"strings"

	"github.com/doeshing/sysq/internal/domain"
)

// commandTemplate is one ranked candidate probe for a domain. Tool names the
// binary whose inventory presence gates the template; Build renders the
// concrete command for the given intent. Templates earlier in a set are
// preferred when their tool is present.
type commandTemplate struct {
	Tool  string
	Build func(intent domain.Intent) domain.PlannedCommand
}

// categoryPatterns maps a Category constraint value to the grep alternation
// used to filter package lists. Kept in sync with the classifier's category
// vocabulary.
var categoryPatterns = map[string]string{
	"games":    `(steam|game|lutris|heroic|wine|proton|gamemode|mangohud)`,
	"editors":  `(vim|nvim|neovim|emacs|nano|micro|helix|kate|gedit)`,
	"browsers": `(firefox|chromium|chrome|brave|vivaldi|epiphany|qutebrowser)`,
}

func shellPipeline(pipeline, description string) domain.PlannedCommand {
	return domain.PlannedCommand{
		Program:     "sh",
		Args:        []string{"-c", pipeline},
		Description: description,
	}
}

func plain(description, program string, args ...string) domain.PlannedCommand {
	return domain.PlannedCommand{Program: program, Args: args, Description: description}
}

func fixed(cmd domain.PlannedCommand) func(domain.Intent) domain.PlannedCommand {
	return func(domain.Intent) domain.PlannedCommand { return cmd }
}

// packagesTemplates covers installed-package listing, category filtering and
// update checks across the package managers the detector probes for.
func packagesTemplates(intent domain.Intent) []commandTemplate {
	if feature, ok := intent.Constraint(domain.ConstraintFeature); ok && feature.Value == "updates" {
		return []commandTemplate{
			{Tool: "checkupdates", Build: fixed(plain("list pending repository updates", "checkupdates"))},
			{Tool: "pacman", Build: fixed(plain("list pending updates from sync database", "pacman", "-Qu"))},
			{Tool: "apt", Build: fixed(plain("list upgradable packages", "apt", "list", "--upgradable"))},
			{Tool: "dnf", Build: fixed(plain("check for pending updates", "dnf", "check-update"))},
		}
	}

	if category, ok := intent.Constraint(domain.ConstraintCategory); ok {
		pattern, known := categoryPatterns[category.Value]
		if !known {
			pattern = "(" + category.Value + ")"
		}
		desc := fmt.Sprintf("search installed packages for %s", category.Value)
		return []commandTemplate{
			{Tool: "pacman", Build: fixed(shellPipeline(fmt.Sprintf("pacman -Qq | grep -Ei '%s'", pattern), desc))},
			{Tool: "dpkg", Build: fixed(shellPipeline(fmt.Sprintf("dpkg-query -f '${binary:Package}\\n' -W | grep -Ei '%s'", pattern), desc))},
			{Tool: "apt", Build: fixed(shellPipeline(fmt.Sprintf("apt list --installed | grep -Ei '%s'", pattern), desc))},
			{Tool: "dnf", Build: fixed(shellPipeline(fmt.Sprintf("dnf list installed | grep -Ei '%s'", pattern), desc))},
			{Tool: "flatpak", Build: fixed(shellPipeline(fmt.Sprintf("flatpak list | grep -Ei '%s'", pattern), desc))},
			{Tool: "snap", Build: fixed(shellPipeline(fmt.Sprintf("snap list | grep -Ei '%s'", pattern), desc))},
		}
	}

	// Counting queries only need the total, not the full listing.
	if intent.Goal == domain.GoalCheck || strings.Contains(strings.ToLower(intent.Query), "how many") {
		return []commandTemplate{
			{Tool: "pacman", Build: fixed(shellPipeline("pacman -Qq | wc -l", "count installed packages"))},
			{Tool: "dpkg", Build: fixed(shellPipeline("dpkg-query -f '${binary:Package}\\n' -W | wc -l", "count installed packages"))},
			{Tool: "dnf", Build: fixed(shellPipeline("dnf list installed | wc -l", "count installed packages"))},
		}
	}

	return []commandTemplate{
		{Tool: "pacman", Build: fixed(plain("list explicitly installed packages", "pacman", "-Qe"))},
		{Tool: "dpkg", Build: fixed(plain("list installed packages", "dpkg-query", "-f", "${binary:Package}\n", "-W"))},
		{Tool: "apt", Build: fixed(plain("list installed packages", "apt", "list", "--installed"))},
		{Tool: "dnf", Build: fixed(plain("list installed packages", "dnf", "list", "installed"))},
		{Tool: "flatpak", Build: fixed(plain("list flatpak applications", "flatpak", "list"))},
	}
}

func hardwareTemplates(intent domain.Intent) []commandTemplate {
	if feature, ok := intent.Constraint(domain.ConstraintFeature); ok && feature.Value == "cpuflags" {
		return []commandTemplate{
			{Tool: "lscpu", Build: fixed(plain("read CPU model and flags", "lscpu"))},
			{Tool: "cat", Build: fixed(shellPipeline("cat /proc/cpuinfo | grep -m1 -i flags", "read CPU flags from procfs"))},
		}
	}
	if containsAny(intent.Query, "gpu", "graphics") {
		return []commandTemplate{
			{Tool: "lspci", Build: fixed(shellPipeline("lspci | grep -Ei '(vga|3d|display)'", "list graphics adapters"))},
			{Tool: "lspci", Build: fixed(plain("list PCI devices", "lspci"))},
		}
	}
	return []commandTemplate{
		{Tool: "lscpu", Build: fixed(plain("read CPU details", "lscpu"))},
		{Tool: "cat", Build: fixed(plain("read raw CPU info", "cat", "/proc/cpuinfo"))},
		{Tool: "lspci", Build: fixed(plain("list PCI hardware", "lspci"))},
	}
}

// guiTemplates probes both the session environment and the process table so
// the interpreter can cross-check the two sources.
func guiTemplates(domain.Intent) []commandTemplate {
	return []commandTemplate{
		{Tool: "", Build: fixed(shellPipeline(
			`echo "desktop=${XDG_CURRENT_DESKTOP:-unset} session=${XDG_SESSION_TYPE:-unset}"`,
			"read desktop session environment"))},
		{Tool: "ps", Build: fixed(shellPipeline(
			"ps -eo comm | grep -E '(gnome-shell|plasmashell|sway|Hyprland|i3|xfce4-session|cinnamon|mutter|kwin)' | sort | uniq",
			"scan process table for desktop components"))},
	}
}

func networkTemplates(intent domain.Intent) []commandTemplate {
	if intent.Goal == domain.GoalDiagnose {
		return []commandTemplate{
			{Tool: "ip", Build: fixed(plain("show interface state", "ip", "-br", "addr"))},
			{Tool: "ip", Build: fixed(plain("show routing table", "ip", "route"))},
			{Tool: "cat", Build: fixed(plain("read DNS resolver config", "cat", "/etc/resolv.conf"))},
		}
	}
	return []commandTemplate{
		{Tool: "ip", Build: fixed(plain("show addresses per interface", "ip", "addr"))},
		{Tool: "ip", Build: fixed(plain("show brief interface summary", "ip", "-br", "addr"))},
	}
}

func memoryTemplates(domain.Intent) []commandTemplate {
	return []commandTemplate{
		{Tool: "free", Build: fixed(plain("read memory usage", "free", "-m"))},
		{Tool: "cat", Build: fixed(plain("read raw memory counters", "cat", "/proc/meminfo"))},
	}
}

func diskTemplates(intent domain.Intent) []commandTemplate {
	if path, ok := intent.Constraint(domain.ConstraintPath); ok {
		templates := []commandTemplate{
			{Tool: "du", Build: func(i domain.Intent) domain.PlannedCommand {
				if count, ok := i.Constraint(domain.ConstraintCount); ok && count.Count > 0 {
					return shellPipeline(
						fmt.Sprintf("du -sh %s/* | sort -rh | head -%d", path.Value, count.Count),
						"largest entries under "+path.Value)
				}
				return plain("directory size of "+path.Value, "du", "-sh", path.Value)
			}},
			{Tool: "df", Build: fixed(plain("filesystem usage of "+path.Value, "df", "-h", path.Value))},
		}
		return templates
	}
	return []commandTemplate{
		{Tool: "df", Build: fixed(plain("filesystem usage overview", "df", "-h"))},
		{Tool: "lsblk", Build: fixed(plain("block device layout", "lsblk"))},
	}
}

func servicesTemplates(intent domain.Intent) []commandTemplate {
	unit := serviceUnitFromQuery(intent.Query)
	if intent.Goal == domain.GoalCheck && unit != "" {
		return []commandTemplate{
			{Tool: "systemctl", Build: fixed(plain("check unit state", "systemctl", "is-active", unit))},
			{Tool: "systemctl", Build: fixed(plain("check unit enablement", "systemctl", "is-enabled", unit))},
		}
	}
	if intent.Goal == domain.GoalDiagnose || strings.Contains(strings.ToLower(intent.Query), "failed") {
		return []commandTemplate{
			{Tool: "systemctl", Build: fixed(plain("list failed units", "systemctl", "list-units", "--state=failed", "--no-pager"))},
		}
	}
	return []commandTemplate{
		{Tool: "systemctl", Build: fixed(plain("list running units", "systemctl", "list-units", "--type=service", "--state=running", "--no-pager"))},
	}
}

func kernelTemplates(domain.Intent) []commandTemplate {
	return []commandTemplate{
		{Tool: "uname", Build: fixed(plain("read kernel release", "uname", "-r"))},
		{Tool: "cat", Build: fixed(plain("read kernel version string", "cat", "/proc/version"))},
	}
}

// unknownTemplates is the generic degradation path: identify the system and
// let the interpreter report honestly that the question was not understood.
func unknownTemplates(domain.Intent) []commandTemplate {
	return []commandTemplate{
		{Tool: "uname", Build: fixed(plain("identify the system", "uname", "-a"))},
		{Tool: "cat", Build: fixed(plain("read OS release info", "cat", "/etc/os-release"))},
	}
}

func templatesFor(intent domain.Intent) []commandTemplate {
	switch intent.Domain {
	case domain.DomainPackages:
		return packagesTemplates(intent)
	case domain.DomainHardware:
		return hardwareTemplates(intent)
	case domain.DomainGUI:
		return guiTemplates(intent)
	case domain.DomainNetwork:
		return networkTemplates(intent)
	case domain.DomainMemory:
		return memoryTemplates(intent)
	case domain.DomainDisk:
		return diskTemplates(intent)
	case domain.DomainServices:
		return servicesTemplates(intent)
	case domain.DomainKernel:
		return kernelTemplates(intent)
	default:
		return unknownTemplates(intent)
	}
}

// multiProbe domains run every available template as a primary command
// instead of keeping extras as fallbacks, because their probes complement
// rather than substitute for each other.
func multiProbe(d domain.Domain) bool {
	return d == domain.DomainGUI
}

func containsAny(query string, words ...string) bool {
	lower := strings.ToLower(query)
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// serviceUnitFromQuery pulls the likely unit name out of a check question
// such as "is the sshd service enabled". It is the token before "service"
// or, failing that, the last non-stopword token.
func serviceUnitFromQuery(query string) string {
	tokens := strings.Fields(strings.ToLower(query))
	for i, tok := range tokens {
		if (tok == "service" || tok == "daemon" || tok == "unit") && i > 0 {
			candidate := tokens[i-1]
			if !stopword(candidate) {
				return candidate
			}
		}
	}
	return ""
}

func stopword(tok string) bool {
	switch tok {
	case "the", "a", "an", "my", "this", "that", "is", "are":
		return true
	}
	return false
}
