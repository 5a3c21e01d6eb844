// Package safety classifies planned commands into safety levels by shape.
// Classification is pure and total: the same command always yields the same
// level, and no input can make it panic or error. Anything the rules cannot
// positively recognize as safe composition is pushed toward Forbidden.
package safety

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/sysq/internal/domain"
	"github.com/doeshing/sysq/internal/ports"
)

type compiledRule struct {
	re      *regexp.Regexp
	message string
}

// Validator is the single authority on command safety. The planner consults
// it to set the plan level and the executor re-consults it immediately
// before spawning; both see identical answers because the rule set is
// immutable after construction.
type Validator struct {
	forbidden []compiledRule
	risky     []compiledRule
	minimal   []compiledRule
	pipelines []pipelineShape
}

var _ ports.SafetyValidator = (*Validator)(nil)

// NewValidator builds a validator from the built-in rules plus, when
// rulesPath names a readable YAML file, the user's extra patterns. User
// patterns extend the defaults; they cannot remove them.
func NewValidator(rulesPath string) (*Validator, error) {
	forbidden := defaultForbiddenPatterns()
	risky := defaultRiskyPatterns()
	minimal := defaultMinimalWritePatterns()

	if rulesPath != "" {
		data, err := os.ReadFile(rulesPath)
		if err == nil {
			var file RulesFile
			if err := yaml.Unmarshal(data, &file); err != nil {
				return nil, fmt.Errorf("parse safety rules %s: %w", rulesPath, err)
			}
			forbidden = append(forbidden, file.Rules.ForbiddenPatterns...)
			risky = append(risky, file.Rules.RiskyPatterns...)
			minimal = append(minimal, file.Rules.MinimalWritePatterns...)
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read safety rules %s: %w", rulesPath, err)
		}
	}

	v := &Validator{pipelines: defaultPipelineShapes()}
	var err error
	if v.forbidden, err = compileRules(forbidden); err != nil {
		return nil, err
	}
	if v.risky, err = compileRules(risky); err != nil {
		return nil, err
	}
	if v.minimal, err = compileRules(minimal); err != nil {
		return nil, err
	}
	return v, nil
}

// MustValidator builds a validator from built-in rules only. It is for
// wiring and tests where no user rules file exists.
func MustValidator() *Validator {
	v, err := NewValidator("")
	if err != nil {
		panic(err)
	}
	return v
}

func compileRules(patterns []DangerPattern) ([]compiledRule, error) {
	rules := make([]compiledRule, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(`(?i)` + p.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compile safety pattern %q: %w", p.Pattern, err)
		}
		rules = append(rules, compiledRule{re: re, message: p.Message})
	}
	return rules, nil
}

// Validate classifies one planned command. Precedence is strict:
// Forbidden > Risky > MinimalWrite > ReadOnly.
func (v *Validator) Validate(cmd domain.PlannedCommand) domain.SafetyLevel {
	rendered := strings.TrimSpace(cmd.Rendered())
	if rendered == "" {
		return domain.SafetyForbidden
	}

	// Chaining metacharacters can smuggle a second command past shape
	// rules, so they are forbidden outright. Single "|" is handled by
	// the pipeline allowlist below.
	if containsChaining(rendered) {
		return domain.SafetyForbidden
	}

	if hasUnquotedPipe(rendered) {
		return v.validatePipeline(rendered)
	}
	return v.classifySegment(rendered)
}

// Explain reports the rule message behind a Forbidden or Risky verdict, for
// user-facing refusals. It returns "" for commands those rules do not match.
func (v *Validator) Explain(cmd domain.PlannedCommand) string {
	rendered := strings.TrimSpace(cmd.Rendered())
	for _, r := range v.forbidden {
		if r.re.MatchString(rendered) {
			return r.message
		}
	}
	for _, r := range v.risky {
		if r.re.MatchString(rendered) {
			return r.message
		}
	}
	return ""
}

func containsChaining(rendered string) bool {
	bare := unquoted(rendered)
	for _, marker := range []string{";", "&&", "||", "$(", "`"} {
		if strings.Contains(bare, marker) {
			return true
		}
	}
	// Trailing & backgrounds the command; "&&" was caught above.
	return strings.HasSuffix(strings.TrimSpace(bare), "&")
}

// validatePipeline admits only closed-form pipelines: an allowlisted
// read-only head followed exclusively by pure text filters. Everything
// else composes commands in ways the shape rules cannot reason about,
// so it is Forbidden, never merely Risky.
func (v *Validator) validatePipeline(rendered string) domain.SafetyLevel {
	segments := splitPipeline(rendered)
	if len(segments) < 2 {
		return domain.SafetyForbidden
	}
	for _, seg := range segments {
		if seg == "" {
			return domain.SafetyForbidden
		}
		if v.matchAny(v.forbidden, seg) || v.matchAny(v.risky, seg) {
			return domain.SafetyForbidden
		}
		// Redirection inside a pipeline writes somewhere the allowlist
		// cannot see.
		if strings.ContainsAny(unquoted(seg), "<>") {
			return domain.SafetyForbidden
		}
	}

	head := segments[0]
	matched := false
	for _, shape := range v.pipelines {
		if shape.head.MatchString(head) {
			matched = true
			break
		}
	}
	if !matched {
		return domain.SafetyForbidden
	}

	for _, seg := range segments[1:] {
		if !filterPrograms[segmentProgram(seg)] {
			return domain.SafetyForbidden
		}
	}
	return domain.SafetyReadOnly
}

func (v *Validator) classifySegment(rendered string) domain.SafetyLevel {
	if v.matchAny(v.forbidden, rendered) {
		return domain.SafetyForbidden
	}
	if v.matchAny(v.risky, rendered) {
		return domain.SafetyRisky
	}
	if v.matchAny(v.minimal, rendered) {
		return domain.SafetyMinimalWrite
	}
	// Bare redirection writes a file the rules above did not recognize.
	if strings.ContainsAny(unquoted(rendered), "<>") {
		return domain.SafetyRisky
	}
	return domain.SafetyReadOnly
}

func (v *Validator) matchAny(rules []compiledRule, s string) bool {
	for _, r := range rules {
		if r.re.MatchString(s) {
			return true
		}
	}
	return false
}

// PlanLevel returns the maximum level over all commands in the plan. A plan
// is exactly as dangerous as its most dangerous command.
func (v *Validator) PlanLevel(commands []domain.PlannedCommand) domain.SafetyLevel {
	level := domain.SafetyReadOnly
	for _, cmd := range commands {
		if l := v.Validate(cmd); l > level {
			level = l
		}
	}
	return level
}
