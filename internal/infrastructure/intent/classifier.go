// Package intent maps free-text queries to structured intents using ordered,
// generic rule groups. Deterministic: no randomness, no hidden state.
package intent

import (
	"sort"
	"strconv"
	"strings"

	"github.com/doeshing/sysq/internal/domain"
	"github.com/doeshing/sysq/internal/ports"
)

// Classifier evaluates rule groups in priority order.
type Classifier struct {
	groups []ruleGroup
}

var _ ports.IntentClassifier = (*Classifier)(nil)

// NewClassifier builds a classifier over the default rule groups.
func NewClassifier() *Classifier {
	groups := defaultRuleGroups()
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].priority < groups[j].priority
	})
	return &Classifier{groups: groups}
}

// Classify implements ports.IntentClassifier.
func (c *Classifier) Classify(query string) domain.Intent {
	lower := strings.ToLower(strings.TrimSpace(query))
	tokens := tokenize(lower)

	dom := c.matchDomain(lower, tokens)
	if dom == domain.DomainUnknown {
		// No rule matched: signal the planner to use its generic plan,
		// keeping the raw query as the sole constraint.
		return domain.Intent{
			Goal:        domain.GoalInspect,
			Domain:      domain.DomainUnknown,
			Constraints: []domain.Constraint{{Kind: domain.ConstraintRaw, Value: query}},
			Query:       query,
		}
	}

	return domain.Intent{
		Goal:        detectGoal(lower, tokens),
		Domain:      dom,
		Constraints: extractConstraints(lower, tokens),
		Query:       query,
	}
}

func (c *Classifier) matchDomain(lower string, tokens map[string]bool) domain.Domain {
	for _, group := range c.groups {
		for _, kw := range group.keywords {
			if tokens[kw] {
				return group.domain
			}
		}
		for _, phrase := range group.phrases {
			if strings.Contains(lower, phrase) {
				return group.domain
			}
		}
	}
	return domain.DomainUnknown
}

func detectGoal(lower string, tokens map[string]bool) domain.Goal {
	for _, phrase := range problemPhrases {
		if strings.Contains(lower, phrase) {
			return domain.GoalDiagnose
		}
	}
	if strings.HasPrefix(lower, "list") || strings.HasPrefix(lower, "show") ||
		strings.Contains(lower, "list all") || strings.Contains(lower, "show all") {
		return domain.GoalList
	}
	if strings.HasPrefix(lower, "is ") || strings.HasPrefix(lower, "are ") ||
		tokens["enabled"] || strings.Contains(lower, "up to date") {
		return domain.GoalCheck
	}
	return domain.GoalInspect
}

func extractConstraints(lower string, tokens map[string]bool) []domain.Constraint {
	var constraints []domain.Constraint

	for _, name := range sortedCategoryNames() {
		for _, term := range categoryTerms[name] {
			if tokens[term] {
				constraints = append(constraints, domain.Constraint{Kind: domain.ConstraintCategory, Value: name})
				break
			}
		}
	}

	if tokens["update"] || tokens["updates"] || tokens["upgrade"] ||
		strings.Contains(lower, "up to date") || strings.Contains(lower, "out of date") {
		constraints = append(constraints, domain.Constraint{Kind: domain.ConstraintFeature, Value: "updates"})
	}
	if tokens["flags"] || tokens["avx"] || tokens["sse"] {
		constraints = append(constraints, domain.Constraint{Kind: domain.ConstraintFeature, Value: "cpuflags"})
	}

	for _, field := range strings.Fields(lower) {
		if strings.HasPrefix(field, "/") || strings.HasPrefix(field, "~/") {
			constraints = append(constraints, domain.Constraint{
				Kind:  domain.ConstraintPath,
				Value: strings.TrimRight(field, "?.,!"),
			})
			break
		}
	}

	for _, field := range strings.Fields(lower) {
		if n, err := strconv.ParseUint(field, 10, 32); err == nil {
			constraints = append(constraints, domain.Constraint{Kind: domain.ConstraintCount, Count: uint(n)})
			break
		}
	}

	return constraints
}

// sortedCategoryNames keeps constraint ordering stable across runs; map
// iteration order would break the determinism contract.
func sortedCategoryNames() []string {
	names := make([]string, 0, len(categoryTerms))
	for name := range categoryTerms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func tokenize(lower string) map[string]bool {
	tokens := make(map[string]bool)
	for _, field := range strings.FieldsFunc(lower, func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9') && r != '/' && r != '~' && r != '.'
	}) {
		tokens[strings.Trim(field, ".")] = true
	}
	return tokens
}
