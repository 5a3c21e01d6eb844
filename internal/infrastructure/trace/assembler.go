// Package trace composes pipeline outputs into the final ordered record and
// renders it for the terminal or as JSON. Assembly is pure composition; no
// field is recomputed and none is dropped.
package trace

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/doeshing/sysq/internal/domain"
	"github.com/doeshing/sysq/internal/ports"
)

type Assembler struct {
	now func() time.Time
}

var _ ports.TraceAssembler = (*Assembler)(nil)

func NewAssembler() *Assembler {
	return &Assembler{now: time.Now}
}

func (a *Assembler) Assemble(intent domain.Intent, plan domain.CommandPlan, result domain.ExecutionResult, answer domain.InterpretedAnswer) domain.Trace {
	commands := make([]domain.TraceCommand, 0, len(result.CommandResults))
	for _, cr := range result.CommandResults {
		commands = append(commands, domain.TraceCommand{
			FullCommand:   cr.FullCommand,
			ExitCode:      cr.ExitCode,
			Success:       cr.Success,
			OutputExcerpt: excerpt(cr),
			TimeMS:        cr.TimeMS,
		})
	}

	return domain.Trace{
		ID:          uuid.NewString(),
		Query:       intent.Query,
		Goal:        intent.Goal,
		Domain:      intent.Domain,
		Constraints: intent.Constraints,
		SafetyLevel: plan.SafetyLevel.String(),
		PlanReason:  plan.Reasoning,
		Commands:    commands,
		Answer:      answer.Answer,
		Details:     answer.Details,
		Confidence:  answer.Confidence,
		Reasoning:   answer.Reasoning,
		Source:      answer.Source,
		Success:     result.Success,
		ElapsedMS:   result.ExecutionTimeMS,
		CreatedAt:   a.now().UTC(),
	}
}

// excerpt keeps the head of the interesting stream: stdout for successes,
// stderr for failures.
func excerpt(cr domain.CommandResult) string {
	stream := cr.Stdout
	if !cr.Success && strings.TrimSpace(cr.Stderr) != "" {
		stream = cr.Stderr
	}
	lines := strings.Split(strings.TrimRight(stream, "\n"), "\n")
	if len(lines) > domain.TraceExcerptLines {
		lines = lines[:domain.TraceExcerptLines]
		lines = append(lines, "...")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
