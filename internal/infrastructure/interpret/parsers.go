package interpret

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/doeshing/sysq/internal/domain"
)

// parsed is one parser's structural reading of the captured output.
type parsed struct {
	answer     string
	details    string
	confidence domain.ConfidenceLevel
	reasoning  string
}

type parserFunc func(result domain.ExecutionResult, intent domain.Intent) parsed

func defaultParsers() map[domain.Domain]parserFunc {
	return map[domain.Domain]parserFunc{
		domain.DomainPackages: parsePackages,
		domain.DomainHardware: parseHardware,
		domain.DomainGUI:      parseGUI,
		domain.DomainMemory:   parseMemory,
		domain.DomainDisk:     parseDisk,
		domain.DomainNetwork:  parseNetwork,
		domain.DomainServices: parseServices,
		domain.DomainKernel:   parseKernel,
	}
}

// outputLines returns the non-empty stdout lines of successful results, in
// command order, capped so a runaway listing cannot dominate interpretation.
func outputLines(result domain.ExecutionResult) []string {
	var lines []string
	for _, cr := range result.CommandResults {
		if !cr.Success {
			continue
		}
		for _, line := range strings.Split(cr.Stdout, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			lines = append(lines, line)
			if len(lines) >= domain.InterpreterOutputLines {
				return lines
			}
		}
	}
	return lines
}

func baseConfidence(result domain.ExecutionResult) domain.ConfidenceLevel {
	if result.Success {
		return domain.ConfidenceHigh
	}
	return domain.ConfidenceMedium
}

// packageNames normalizes one line per package across the package manager
// output formats the planner can produce.
func packageNames(lines []string) []string {
	var names []string
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "Listing..."), strings.HasPrefix(line, "WARNING"):
			continue
		case strings.HasPrefix(line, "ii "):
			fields := strings.Fields(line)
			if len(fields) > 1 {
				names = append(names, fields[1])
			}
		case strings.Contains(line, "/"): // apt list name/suite form
			names = append(names, line[:strings.Index(line, "/")])
		default:
			fields := strings.Fields(line)
			if len(fields) > 0 {
				names = append(names, fields[0])
			}
		}
	}
	return names
}

func parsePackages(result domain.ExecutionResult, intent domain.Intent) parsed {
	lines := outputLines(result)

	if feature, ok := intent.Constraint(domain.ConstraintFeature); ok && feature.Value == "updates" {
		n := len(packageNames(lines))
		p := parsed{
			confidence: baseConfidence(result),
			reasoning:  fmt.Sprintf("counted %d pending update line(s) from package manager output", n),
		}
		if n == 0 {
			p.answer = "The system is up to date; no pending updates were reported."
		} else {
			p.answer = fmt.Sprintf("%d update(s) are available.", n)
			p.details = strings.Join(head(lines, 15), "\n")
		}
		return p
	}

	names := packageNames(lines)
	if category, ok := intent.Constraint(domain.ConstraintCategory); ok {
		p := parsed{
			confidence: baseConfidence(result),
			reasoning:  fmt.Sprintf("matched %d installed package(s) against the %s filter", len(names), category.Value),
		}
		if len(names) == 0 {
			p.answer = fmt.Sprintf("No %s-related packages are installed.", category.Value)
		} else {
			p.answer = fmt.Sprintf("Yes, %d %s-related package(s) are installed: %s.",
				len(names), category.Value, strings.Join(head(names, 10), ", "))
			p.details = strings.Join(names, "\n")
		}
		return p
	}

	// Counting probes emit a single number.
	if len(lines) == 1 {
		if n, err := strconv.Atoi(strings.TrimSpace(lines[0])); err == nil {
			return parsed{
				answer:     fmt.Sprintf("%d packages are installed.", n),
				confidence: baseConfidence(result),
				reasoning:  "package manager reported a single count",
			}
		}
	}

	return parsed{
		answer:     fmt.Sprintf("%d installed package(s) found.", len(names)),
		details:    strings.Join(head(names, 25), "\n"),
		confidence: baseConfidence(result),
		reasoning:  "parsed package listing line by line",
	}
}

// cpuFlagFamilies groups raw CPU flags into the families users ask about.
func cpuFlagFamilies(flags []string) map[string][]string {
	families := map[string][]string{}
	for _, f := range flags {
		switch {
		case strings.HasPrefix(f, "sse"):
			families["SSE"] = append(families["SSE"], f)
		case strings.HasPrefix(f, "avx"):
			families["AVX"] = append(families["AVX"], f)
		case f == "svm" || f == "vmx":
			families["virtualization"] = append(families["virtualization"], f)
		case f == "aes":
			families["AES"] = append(families["AES"], f)
		}
	}
	return families
}

func parseHardware(result domain.ExecutionResult, intent domain.Intent) parsed {
	lines := outputLines(result)

	model := ""
	cores := ""
	var flags []string
	for _, line := range lines {
		lower := strings.ToLower(line)
		switch {
		case strings.HasPrefix(lower, "model name"):
			model = valueAfterColon(line)
		case strings.HasPrefix(lower, "cpu(s):") && cores == "":
			cores = valueAfterColon(line)
		case strings.HasPrefix(lower, "flags"):
			flags = strings.Fields(valueAfterColon(line))
		}
	}

	if feature, ok := intent.Constraint(domain.ConstraintFeature); ok && feature.Value == "cpuflags" {
		if len(flags) == 0 {
			return parsed{
				answer:     "CPU flags could not be read from the probe output.",
				confidence: domain.ConfidenceLow,
				reasoning:  "no flags line found in CPU probe output",
			}
		}
		families := cpuFlagFamilies(flags)
		keys := make([]string, 0, len(families))
		for k := range families {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var parts []string
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s (%s)", k, strings.Join(families[k], ", ")))
		}
		return parsed{
			answer:     "Supported instruction families: " + strings.Join(parts, "; ") + ".",
			details:    fmt.Sprintf("%d raw flags reported", len(flags)),
			confidence: baseConfidence(result),
			reasoning:  "grouped the raw flags line into instruction families",
		}
	}

	if model != "" {
		answer := "CPU: " + model
		if cores != "" {
			answer += fmt.Sprintf(" with %s logical core(s)", cores)
		}
		return parsed{
			answer:     answer + ".",
			details:    strings.Join(head(lines, 10), "\n"),
			confidence: baseConfidence(result),
			reasoning:  "read model and core count from the CPU probe",
		}
	}

	if len(lines) > 0 {
		return parsed{
			answer:     lines[0],
			details:    strings.Join(head(lines, 10), "\n"),
			confidence: domain.ConfidenceMedium,
			reasoning:  "no structured CPU fields found; reporting raw probe output",
		}
	}
	return parsed{
		answer:     "No hardware details could be read.",
		confidence: domain.ConfidenceLow,
		reasoning:  "hardware probes produced no usable output",
	}
}

// desktopProcesses maps process names seen in the ps probe to the desktop
// environment or window manager they belong to.
var desktopProcesses = map[string]string{
	"gnome-shell":   "GNOME",
	"mutter":        "GNOME",
	"plasmashell":   "KDE Plasma",
	"kwin":          "KDE Plasma",
	"kwin_wayland":  "KDE Plasma",
	"sway":          "Sway",
	"Hyprland":      "Hyprland",
	"i3":            "i3",
	"xfce4-session": "XFCE",
	"cinnamon":      "Cinnamon",
}

func parseGUI(result domain.ExecutionResult, _ domain.Intent) parsed {
	envName := ""
	session := ""
	processName := ""

	for _, cr := range result.CommandResults {
		if !cr.Success {
			continue
		}
		out := strings.TrimSpace(cr.Stdout)
		if strings.Contains(cr.FullCommand, "XDG_CURRENT_DESKTOP") {
			for _, field := range strings.Fields(out) {
				if v, ok := strings.CutPrefix(field, "desktop="); ok && v != "unset" {
					envName = v
				}
				if v, ok := strings.CutPrefix(field, "session="); ok && v != "unset" {
					session = v
				}
			}
			continue
		}
		for _, line := range strings.Split(out, "\n") {
			if name, ok := desktopProcesses[strings.TrimSpace(line)]; ok {
				processName = name
				break
			}
		}
	}

	agree := false
	if envName != "" && processName != "" {
		env := strings.ToLower(envName)
		proc := strings.ToLower(processName)
		agree = strings.Contains(proc, env) || strings.Contains(env, strings.ToLower(firstWord(processName)))
	}

	switch {
	case envName != "" && processName != "":
		answer := fmt.Sprintf("You are running %s", processName)
		if session != "" {
			answer += " on " + session
		}
		conf := domain.ConfidenceMedium
		reason := fmt.Sprintf("environment reports %q, process table reports %q", envName, processName)
		if agree {
			conf = domain.ConfidenceHigh
			reason = "session environment and process table agree"
		}
		return parsed{answer: answer + ".", confidence: conf, reasoning: reason}
	case processName != "":
		return parsed{
			answer:     fmt.Sprintf("You appear to be running %s (detected from running processes).", processName),
			confidence: domain.ConfidenceMedium,
			reasoning:  "only the process table identified a desktop component",
		}
	case envName != "":
		answer := fmt.Sprintf("Your session reports the %s desktop", envName)
		if session != "" {
			answer += " on " + session
		}
		return parsed{
			answer:     answer + ".",
			confidence: domain.ConfidenceMedium,
			reasoning:  "only the session environment named a desktop",
		}
	default:
		return parsed{
			answer:     "No desktop environment or window manager could be detected.",
			confidence: domain.ConfidenceLow,
			reasoning:  "neither session environment nor process table named a desktop",
		}
	}
}

func parseMemory(result domain.ExecutionResult, _ domain.Intent) parsed {
	lines := outputLines(result)

	// free -m layout: "Mem: total used free shared buff/cache available".
	for _, line := range lines {
		if !strings.HasPrefix(line, "Mem:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			break
		}
		total, errT := strconv.ParseUint(fields[1], 10, 64)
		used, errU := strconv.ParseUint(fields[2], 10, 64)
		if errT != nil || errU != nil || total == 0 {
			break
		}
		return parsed{
			answer:     fmt.Sprintf("%d MB of %d MB RAM in use (%.0f%%).", used, total, float64(used)/float64(total)*100),
			details:    line,
			confidence: baseConfidence(result),
			reasoning:  "read totals from the memory usage table",
		}
	}

	// /proc/meminfo fallback, values in kB.
	var totalKB, availKB uint64
	for _, line := range lines {
		if v, ok := meminfoValue(line, "MemTotal:"); ok {
			totalKB = v
		}
		if v, ok := meminfoValue(line, "MemAvailable:"); ok {
			availKB = v
		}
	}
	if totalKB > 0 {
		usedMB := (totalKB - availKB) / 1024
		return parsed{
			answer:     fmt.Sprintf("%d MB of %d MB RAM in use.", usedMB, totalKB/1024),
			confidence: baseConfidence(result),
			reasoning:  "computed usage from raw memory counters",
		}
	}

	return parsed{
		answer:     "Memory usage could not be parsed from the probe output.",
		confidence: domain.ConfidenceLow,
		reasoning:  "no recognizable memory table in output",
	}
}

func meminfoValue(line, key string) (uint64, bool) {
	if !strings.HasPrefix(line, key) {
		return 0, false
	}
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return 0, false
	}
	v, err := strconv.ParseUint(fields[1], 10, 64)
	return v, err == nil
}

func parseDisk(result domain.ExecutionResult, intent domain.Intent) parsed {
	lines := outputLines(result)
	if len(lines) == 0 {
		return parsed{
			answer:     "Disk usage could not be read.",
			confidence: domain.ConfidenceLow,
			reasoning:  "disk probes produced no output",
		}
	}

	if path, ok := intent.Constraint(domain.ConstraintPath); ok {
		// du emits "size<TAB>path" per entry.
		var entries []string
		for _, line := range lines {
			fields := strings.Fields(line)
			if len(fields) == 2 && strings.HasPrefix(fields[1], "/") {
				entries = append(entries, fields[0]+" "+fields[1])
			}
		}
		if len(entries) > 0 {
			return parsed{
				answer:     fmt.Sprintf("Largest entries under %s: %s.", path.Value, strings.Join(head(entries, 5), ", ")),
				details:    strings.Join(entries, "\n"),
				confidence: baseConfidence(result),
				reasoning:  "parsed per-entry sizes from the directory scan",
			}
		}
	}

	// df -h table: first line is the header.
	var rows []string
	for _, line := range lines {
		if strings.HasPrefix(line, "Filesystem") {
			continue
		}
		if strings.HasPrefix(line, "/") || strings.Contains(line, "% /") {
			rows = append(rows, line)
		}
	}
	if len(rows) > 0 {
		root := ""
		for _, row := range rows {
			fields := strings.Fields(row)
			if len(fields) >= 6 && fields[5] == "/" {
				root = fmt.Sprintf("root filesystem %s used of %s (%s)", fields[2], fields[1], fields[4])
				break
			}
		}
		answer := fmt.Sprintf("%d mounted filesystem(s) reported.", len(rows))
		if root != "" {
			answer = strings.ToUpper(root[:1]) + root[1:] + "."
		}
		return parsed{
			answer:     answer,
			details:    strings.Join(head(rows, 10), "\n"),
			confidence: baseConfidence(result),
			reasoning:  "parsed the filesystem usage table",
		}
	}

	return parsed{
		answer:     lines[0],
		details:    strings.Join(head(lines, 10), "\n"),
		confidence: domain.ConfidenceMedium,
		reasoning:  "no structured rows recognized; reporting raw probe output",
	}
}

func parseNetwork(result domain.ExecutionResult, _ domain.Intent) parsed {
	lines := outputLines(result)

	var interfaces []string
	var addresses []string
	for _, line := range lines {
		fields := strings.Fields(line)
		// "N: name: <FLAGS> ..." from ip addr.
		if len(fields) >= 2 && strings.HasSuffix(fields[0], ":") && strings.HasSuffix(fields[1], ":") {
			interfaces = append(interfaces, strings.TrimSuffix(fields[1], ":"))
		}
		// "name UP addr/len" from ip -br addr.
		if len(fields) >= 3 && (fields[1] == "UP" || fields[1] == "DOWN" || fields[1] == "UNKNOWN") {
			interfaces = append(interfaces, fields[0])
			if len(fields) > 2 {
				addresses = append(addresses, fields[0]+" "+fields[2])
			}
		}
		if len(fields) >= 2 && fields[0] == "inet" {
			addresses = append(addresses, fields[1])
		}
	}

	interfaces = dedupe(interfaces)
	if len(interfaces) == 0 {
		return parsed{
			answer:     "No network interfaces could be read from the probe output.",
			confidence: domain.ConfidenceLow,
			reasoning:  "no interface lines recognized",
		}
	}
	answer := fmt.Sprintf("%d network interface(s): %s.", len(interfaces), strings.Join(interfaces, ", "))
	if len(addresses) > 0 {
		answer += " Addresses: " + strings.Join(head(addresses, 5), ", ") + "."
	}
	return parsed{
		answer:     answer,
		details:    strings.Join(head(lines, 15), "\n"),
		confidence: baseConfidence(result),
		reasoning:  "parsed interface and address lines from the network probe",
	}
}

func parseServices(result domain.ExecutionResult, intent domain.Intent) parsed {
	lines := outputLines(result)

	if intent.Goal == domain.GoalCheck {
		state := ""
		for _, line := range lines {
			switch strings.TrimSpace(line) {
			case "active", "inactive", "failed", "enabled", "disabled", "static", "masked":
				if state == "" {
					state = strings.TrimSpace(line)
				} else {
					state += ", " + strings.TrimSpace(line)
				}
			}
		}
		if state != "" {
			return parsed{
				answer:     fmt.Sprintf("The service reports: %s.", state),
				confidence: baseConfidence(result),
				reasoning:  "read the unit state verbatim from systemctl",
			}
		}
	}

	var units []string
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) > 0 && strings.HasSuffix(fields[0], ".service") {
			units = append(units, fields[0])
		}
	}
	if len(units) > 0 {
		return parsed{
			answer:     fmt.Sprintf("%d unit(s) matched: %s.", len(units), strings.Join(head(units, 8), ", ")),
			details:    strings.Join(units, "\n"),
			confidence: baseConfidence(result),
			reasoning:  "collected unit names from the systemctl listing",
		}
	}
	if len(lines) > 0 && strings.Contains(strings.ToLower(strings.Join(lines, " ")), "0 loaded units") {
		return parsed{
			answer:     "No matching units were found.",
			confidence: baseConfidence(result),
			reasoning:  "systemctl reported zero loaded units",
		}
	}
	return parsed{
		answer:     "No service information could be parsed.",
		confidence: domain.ConfidenceLow,
		reasoning:  "no unit lines recognized in output",
	}
}

func parseKernel(result domain.ExecutionResult, _ domain.Intent) parsed {
	lines := outputLines(result)
	if len(lines) == 0 {
		return parsed{
			answer:     "The kernel version could not be read.",
			confidence: domain.ConfidenceLow,
			reasoning:  "kernel probes produced no output",
		}
	}
	return parsed{
		answer:     "Kernel: " + lines[0] + ".",
		confidence: baseConfidence(result),
		reasoning:  "read the kernel release string directly",
	}
}

// parseGeneric is the dispatch default, covering the unknown domain.
func parseGeneric(result domain.ExecutionResult, intent domain.Intent) parsed {
	lines := outputLines(result)
	if len(lines) == 0 {
		return parsed{
			answer:     "The question was not understood and the generic probe returned nothing.",
			confidence: domain.ConfidenceLow,
			reasoning:  "unrecognized query; generic probe had no output",
		}
	}
	p := parsed{
		details:    strings.Join(head(lines, 5), "\n"),
		confidence: domain.ConfidenceMedium,
		reasoning:  "unrecognized query; reporting generic system identification",
	}
	if intent.Domain == domain.DomainUnknown {
		p.answer = "The question could not be mapped to a known area; here is the system identification instead: " + lines[0]
		p.confidence = domain.ConfidenceLow
	} else {
		p.answer = lines[0]
	}
	return p
}

func valueAfterColon(line string) string {
	idx := strings.Index(line, ":")
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(line[idx+1:])
}

func head(s []string, n int) []string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return s
	}
	return fields[0]
}

func dedupe(s []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, v := range s {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
