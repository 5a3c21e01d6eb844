// Package interpret converts captured command output into answers with an
// explicit confidence level. Structural parsers are the only source of facts;
// backend narration may improve phrasing after verification, and anything it
// touches is capped at medium confidence.
package interpret

import (
	"fmt"
	"strings"

	"github.com/doeshing/sysq/internal/domain"
	"github.com/doeshing/sysq/internal/ports"
)

const (
	sourceStructural = "structural parser"
	sourceEnriched   = "structural parser + verified backend narration"
)

type Interpreter struct {
	parsers map[domain.Domain]parserFunc
	logger  ports.Logger
}

var _ ports.ResultInterpreter = (*Interpreter)(nil)

func New(logger ports.Logger) *Interpreter {
	return &Interpreter{parsers: defaultParsers(), logger: logger}
}

func (in *Interpreter) Interpret(result domain.ExecutionResult, intent domain.Intent, draft *domain.BackendDraft) domain.InterpretedAnswer {
	if result.AllFailed() {
		return honestFailure(result)
	}

	parser, ok := in.parsers[intent.Domain]
	if !ok {
		parser = parseGeneric
	}
	p := parser(result, intent)

	answer := domain.InterpretedAnswer{
		Answer:     p.answer,
		Details:    p.details,
		Confidence: p.confidence,
		Reasoning:  p.reasoning,
		Source:     sourceStructural,
	}

	if draft == nil || draft.Narrative() == "" {
		return answer
	}
	return in.enrich(answer, result, draft)
}

// enrich merges verified backend narration into the structural answer. Any
// adoption, full or partial, caps confidence at medium: high is reserved for
// answers no narration touched.
func (in *Interpreter) enrich(answer domain.InterpretedAnswer, result domain.ExecutionResult, draft *domain.BackendDraft) domain.InterpretedAnswer {
	corpus := answer.Answer + "\n" + answer.Details
	for _, cr := range result.CommandResults {
		if cr.Success {
			corpus += "\n" + cr.Stdout
		}
	}

	kept, droppedAny := filterNarrative(draft.Narrative(), corpus)
	switch {
	case kept == "":
		answer.Reasoning += "; backend narration discarded, none of its claims matched command output"
		in.logger.Debug("backend narration fully discarded", nil)
	case droppedAny:
		answer.Details = joinDetails(answer.Details, kept)
		answer.Source = sourceEnriched
		answer.Reasoning += "; backend narration partially adopted, unverifiable sentences dropped"
	default:
		answer.Details = joinDetails(answer.Details, kept)
		answer.Source = sourceEnriched
		answer.Reasoning += "; backend narration adopted after verification"
	}
	if answer.Confidence == domain.ConfidenceHigh {
		answer.Confidence = domain.ConfidenceMedium
	}
	return answer
}

// honestFailure reports that nothing was learned. No answer text is invented
// when every probe failed; the user sees what failed and why.
func honestFailure(result domain.ExecutionResult) domain.InterpretedAnswer {
	var failures []string
	for _, cr := range result.CommandResults {
		reason := strings.TrimSpace(cr.Stderr)
		if reason == "" {
			reason = fmt.Sprintf("exit code %d", cr.ExitCode)
		}
		failures = append(failures, fmt.Sprintf("%s: %s", cr.FullCommand, firstLine(reason)))
	}
	details := strings.Join(failures, "\n")
	if details == "" {
		details = "no commands were executed"
	}
	return domain.InterpretedAnswer{
		Answer:     "All commands failed; nothing could be determined about the system.",
		Details:    details,
		Confidence: domain.ConfidenceLow,
		Reasoning:  "no successful probes to interpret",
		Source:     sourceStructural,
	}
}

func joinDetails(existing, extra string) string {
	if existing == "" {
		return extra
	}
	return existing + "\n\n" + extra
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}
