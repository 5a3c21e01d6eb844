// Package planner turns a structured intent into a validated command plan.
// Commands come exclusively from the template tables in this package; a
// backend draft can reorder validated candidates but can never introduce a
// command of its own.
package planner

import (
	"fmt"
	"sort"
	"strings"

	"github.com/doeshing/sysq/internal/domain"
	"github.com/doeshing/sysq/internal/ports"
)

type Planner struct {
	validator ports.SafetyValidator
	logger    ports.Logger
}

var _ ports.CommandPlanner = (*Planner)(nil)

func New(validator ports.SafetyValidator, logger ports.Logger) *Planner {
	return &Planner{validator: validator, logger: logger}
}

type candidate struct {
	cmd   domain.PlannedCommand
	level domain.SafetyLevel
}

// Plan selects every template whose tool is present and whose shape the
// validator does not forbid, then splits them into primary commands and
// ordered fallbacks. Planning never returns an empty plan: with nothing
// available it degrades to a generic system-identification probe.
func (p *Planner) Plan(intent domain.Intent, inventory domain.ToolInventory, facts domain.SystemFacts, draft *domain.BackendDraft) domain.CommandPlan {
	candidates := p.collect(intent, inventory)

	// Telemetry knows which package manager actually owns this system;
	// prefer its template over whatever else happens to be on PATH.
	if facts.PackageManager != "" {
		candidates = reorderByPreference(candidates, managerTools(facts.PackageManager))
	}
	if draft != nil {
		candidates = reorderByPreference(candidates, draft.PreferredTools())
	}

	if len(candidates) == 0 {
		fallback := domain.PlannedCommand{
			Program:     "uname",
			Args:        []string{"-a"},
			Description: "identify the system",
		}
		return domain.CommandPlan{
			Commands:       []domain.PlannedCommand{fallback},
			SafetyLevel:    p.validator.Validate(fallback),
			ExpectedOutput: "one line of system identification",
			Reasoning:      fmt.Sprintf("no usable probe for domain %q with available tools; degrading to generic system identification", intent.Domain),
		}
	}

	var plan domain.CommandPlan
	if multiProbe(intent.Domain) {
		for _, c := range candidates {
			plan.Commands = append(plan.Commands, c.cmd)
		}
	} else {
		plan.Commands = []domain.PlannedCommand{candidates[0].cmd}
		for _, c := range candidates[1:] {
			plan.Fallbacks = append(plan.Fallbacks, c.cmd)
		}
	}

	// A plan is as dangerous as the most dangerous command it could ever
	// run, fallbacks included, so approval is requested before any
	// substitution can escalate.
	for _, c := range candidates {
		if c.level > plan.SafetyLevel {
			plan.SafetyLevel = c.level
		}
	}

	plan.ExpectedOutput = candidates[0].cmd.Description
	plan.Reasoning = p.reasoning(intent, plan, draft)
	return plan
}

func (p *Planner) collect(intent domain.Intent, inventory domain.ToolInventory) []candidate {
	var out []candidate
	for _, tpl := range templatesFor(intent) {
		if tpl.Tool != "" && !inventory.Has(tpl.Tool) {
			continue
		}
		cmd := tpl.Build(intent)
		level := p.validator.Validate(cmd)
		if level == domain.SafetyForbidden {
			p.logger.Warn("template rejected by safety validator", map[string]interface{}{
				"command": cmd.Rendered(),
			})
			continue
		}
		out = append(out, candidate{cmd: cmd, level: level})
	}
	return out
}

// managerTools maps a telemetry-reported package manager to the head
// programs its templates run as.
func managerTools(manager string) []string {
	switch manager {
	case "dpkg":
		return []string{"dpkg-query", "apt", "dpkg"}
	default:
		return []string{manager}
	}
}

// reorderByPreference stably moves candidates whose required tool the draft
// prefers ahead of the rest. Tools the draft names but no template uses are
// ignored; this is a reordering, never an expansion.
func reorderByPreference(candidates []candidate, preferred []string) []candidate {
	if len(preferred) == 0 || len(candidates) < 2 {
		return candidates
	}
	rank := make(map[string]int, len(preferred))
	for i, tool := range preferred {
		if _, seen := rank[tool]; !seen {
			rank[tool] = i
		}
	}
	keyed := make([]candidate, len(candidates))
	copy(keyed, candidates)
	sort.SliceStable(keyed, func(a, b int) bool {
		ra, oka := rank[keyed[a].cmd.RequiredTool()]
		rb, okb := rank[keyed[b].cmd.RequiredTool()]
		switch {
		case oka && okb:
			return ra < rb
		case oka:
			return true
		default:
			return false
		}
	})
	return keyed
}

func (p *Planner) reasoning(intent domain.Intent, plan domain.CommandPlan, draft *domain.BackendDraft) string {
	var b strings.Builder
	if intent.Domain == domain.DomainUnknown {
		fmt.Fprintf(&b, "domain unknown, goal %s: falling back to generic inspection with %q", intent.Goal, plan.Commands[0].Rendered())
	} else {
		fmt.Fprintf(&b, "domain %s, goal %s: running %q", intent.Domain, intent.Goal, plan.Commands[0].Rendered())
	}
	if len(plan.Commands) > 1 {
		fmt.Fprintf(&b, " plus %d companion probe(s)", len(plan.Commands)-1)
	}
	if len(plan.Fallbacks) > 0 {
		names := make([]string, 0, len(plan.Fallbacks))
		for _, f := range plan.Fallbacks {
			names = append(names, f.RequiredTool())
		}
		fmt.Fprintf(&b, "; fallbacks via %s", strings.Join(names, ", "))
	}
	if draft != nil && len(draft.PreferredTools()) > 0 {
		fmt.Fprintf(&b, "; candidate order considered backend preference %v", draft.PreferredTools())
	}
	return b.String()
}
