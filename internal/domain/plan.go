package domain

import "strings"

// SafetyLevel classifies the impact of a command or plan. Ordering matters:
// a plan's level is the maximum over its commands.
type SafetyLevel int

const (
	SafetyReadOnly SafetyLevel = iota
	SafetyMinimalWrite
	SafetyRisky
	SafetyForbidden
)

func (s SafetyLevel) String() string {
	switch s {
	case SafetyReadOnly:
		return "read-only"
	case SafetyMinimalWrite:
		return "minimal-write"
	case SafetyRisky:
		return "risky"
	case SafetyForbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// PlannedCommand is one candidate command. A shell pipeline is expressed as
// Program "sh" with Args ["-c", pipeline]; everything else runs directly.
type PlannedCommand struct {
	Program     string
	Args        []string
	Description string
}

// Rendered returns the command line as the safety validator and trace see it.
func (c PlannedCommand) Rendered() string {
	if c.IsShellPipeline() {
		return c.Args[1]
	}
	if len(c.Args) == 0 {
		return c.Program
	}
	return c.Program + " " + strings.Join(c.Args, " ")
}

// IsShellPipeline reports whether the command is a closed-form shell string.
func (c PlannedCommand) IsShellPipeline() bool {
	return c.Program == "sh" && len(c.Args) == 2 && c.Args[0] == "-c"
}

// RequiredTool is the binary whose presence gates this command. For shell
// pipelines it is the first segment's program.
func (c PlannedCommand) RequiredTool() string {
	if c.IsShellPipeline() {
		fields := strings.Fields(c.Args[1])
		if len(fields) > 0 {
			return fields[0]
		}
	}
	return c.Program
}

// CommandPlan is an ordered set of candidate commands plus safety
// classification and pre-validated fallbacks, produced before any execution.
type CommandPlan struct {
	Commands       []PlannedCommand
	SafetyLevel    SafetyLevel
	Fallbacks      []PlannedCommand
	ExpectedOutput string
	Reasoning      string
}
