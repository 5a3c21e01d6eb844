// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// These interfaces establish the contract between the pipeline core and
// external adapters (infrastructure). The application depends on the
// abstractions here, never on concrete implementations.
package ports

import (
	"context"

	"github.com/doeshing/sysq/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.sysq/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// ToolDetector probes the host for available system utilities. Detect returns
// the session cache (built lazily, single-init); Refresh re-probes.
type ToolDetector interface {
	Detect() domain.ToolInventory
	Refresh() domain.ToolInventory
}

// IntentClassifier maps a free-text query to a structured Intent.
// Deterministic: the same query always yields the same Intent.
type IntentClassifier interface {
	Classify(query string) domain.Intent
}

// CommandPlanner produces a CommandPlan from an Intent, the tool inventory,
// system facts, and an optional backend draft. Planning never fails outright;
// the absence of a good plan degrades to a generic read-only fallback.
type CommandPlanner interface {
	Plan(intent domain.Intent, inventory domain.ToolInventory, facts domain.SystemFacts, draft *domain.BackendDraft) domain.CommandPlan
}

// SafetyValidator classifies any candidate command by shape. Pure and total:
// no I/O, no hidden state, same input always yields the same level. It is the
// single authoritative safety gate, consulted at plan time and again
// immediately before execution.
type SafetyValidator interface {
	Validate(command domain.PlannedCommand) domain.SafetyLevel
}

// PlanExecutor runs a plan's commands in order under timeout, substituting
// fallbacks on failure or missing tools.
type PlanExecutor interface {
	Execute(ctx context.Context, plan domain.CommandPlan, inventory domain.ToolInventory, approvalToken string) domain.ExecutionResult
}

// ResultInterpreter converts captured command results into an answer with an
// explicit confidence level. Structural parsers are the default and only
// source of facts; a backend draft may enrich phrasing, never authorize.
type ResultInterpreter interface {
	Interpret(result domain.ExecutionResult, intent domain.Intent, draft *domain.BackendDraft) domain.InterpretedAnswer
}

// TraceAssembler composes the pipeline's outputs into a single ordered trace.
// Pure composition, no new computation.
type TraceAssembler interface {
	Assemble(intent domain.Intent, plan domain.CommandPlan, result domain.ExecutionResult, answer domain.InterpretedAnswer) domain.Trace
}

// TelemetrySource supplies a read-only system-facts snapshot. Collection
// failures degrade to zero values, never errors.
type TelemetrySource interface {
	Snapshot(ctx context.Context) domain.SystemFacts
}

// ReasoningBackend turns an intent and telemetry summary into an unstructured
// draft. Optional: a nil backend, or any error here, only reduces the
// richness of reasoning text, never the pipeline's command choices.
type ReasoningBackend interface {
	Name() string
	Draft(ctx context.Context, intent domain.Intent, telemetrySummary string) (domain.BackendDraft, error)
}

// TraceStore persists completed traces for the history command.
type TraceStore interface {
	Save(trace domain.Trace) error
	List(limit int) ([]domain.Trace, error)
	Prune(retainDays int) (int, error)
	Close() error
}

// Logger provides structured logging abstraction for the application layer.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
