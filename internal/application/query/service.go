// Package query implements the use case at the heart of sysq: one question
// in, one trace out. The pipeline is linear and total; every failure mode
// ends in a well-formed trace rather than an error, with the single worst
// case being a trace that says nothing was run and why.
package query

import (
	"context"
	"time"

	"github.com/doeshing/sysq/internal/domain"
	"github.com/doeshing/sysq/internal/ports"
)

// Service wires the pipeline stages together. All collaborators are ports;
// the service owns only the ordering and the degradation decisions.
type Service struct {
	config      ports.ConfigProvider
	detector    ports.ToolDetector
	classifier  ports.IntentClassifier
	planner     ports.CommandPlanner
	executor    ports.PlanExecutor
	interpreter ports.ResultInterpreter
	assembler   ports.TraceAssembler
	telemetry   ports.TelemetrySource
	backend     ports.ReasoningBackend // nil means offline mode
	store       ports.TraceStore       // nil disables history
	logger      ports.Logger
}

var _ domain.QueryService = (*Service)(nil)

type Deps struct {
	Config      ports.ConfigProvider
	Detector    ports.ToolDetector
	Classifier  ports.IntentClassifier
	Planner     ports.CommandPlanner
	Executor    ports.PlanExecutor
	Interpreter ports.ResultInterpreter
	Assembler   ports.TraceAssembler
	Telemetry   ports.TelemetrySource
	Backend     ports.ReasoningBackend
	Store       ports.TraceStore
	Logger      ports.Logger
}

func NewService(deps Deps) *Service {
	return &Service{
		config:      deps.Config,
		detector:    deps.Detector,
		classifier:  deps.Classifier,
		planner:     deps.Planner,
		executor:    deps.Executor,
		interpreter: deps.Interpreter,
		assembler:   deps.Assembler,
		telemetry:   deps.Telemetry,
		backend:     deps.Backend,
		store:       deps.Store,
		logger:      deps.Logger,
	}
}

// Run executes the full pipeline for one query. Cancellation is honored
// between stages; a cancelled context short-circuits to a trace explaining
// how far the pipeline got.
func (s *Service) Run(req domain.QueryRequest) (domain.Trace, error) {
	ctx := req.Context
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()

	cfg, err := s.config.Load(ctx)
	if err != nil {
		return domain.Trace{}, err
	}

	intent := s.classifier.Classify(req.Query)
	s.logger.Debug("intent classified", map[string]interface{}{
		"goal":   string(intent.Goal),
		"domain": string(intent.Domain),
	})

	if err := ctx.Err(); err != nil {
		return s.abortedTrace(intent, "cancelled before planning", start), nil
	}

	var inventory domain.ToolInventory
	if req.RefreshInventory {
		inventory = s.detector.Refresh()
	} else {
		inventory = s.detector.Detect()
	}

	facts := s.telemetry.Snapshot(ctx)

	draft := s.draft(ctx, intent, facts)

	if err := ctx.Err(); err != nil {
		return s.abortedTrace(intent, "cancelled before planning", start), nil
	}

	plan := s.planner.Plan(intent, inventory, facts, draft)
	s.logger.Info("plan produced", map[string]interface{}{
		"commands": len(plan.Commands),
		"safety":   plan.SafetyLevel.String(),
	})
	if req.Debug {
		for _, cmd := range plan.Commands {
			s.logger.Debug("planned command", map[string]interface{}{
				"command":     cmd.Rendered(),
				"description": cmd.Description,
			})
		}
	}

	if err := ctx.Err(); err != nil {
		return s.abortedTrace(intent, "cancelled before execution", start), nil
	}

	result := s.executor.Execute(ctx, plan, inventory, req.ApprovalToken)
	answer := s.interpreter.Interpret(result, intent, draft)
	tr := s.assembler.Assemble(intent, plan, result, answer)

	s.persist(cfg, tr)
	return tr, nil
}

// draft consults the optional reasoning backend. Absence and failure look
// identical downstream: a nil draft and a purely structural answer.
func (s *Service) draft(ctx context.Context, intent domain.Intent, facts domain.SystemFacts) *domain.BackendDraft {
	if s.backend == nil {
		return nil
	}
	d, err := s.backend.Draft(ctx, intent, facts.Summary())
	if err != nil {
		s.logger.Warn("reasoning backend unavailable, continuing offline", map[string]interface{}{
			"backend": s.backend.Name(),
			"error":   err.Error(),
		})
		return nil
	}
	if d.Empty() {
		return nil
	}
	return &d
}

func (s *Service) persist(cfg domain.Config, tr domain.Trace) {
	if s.store == nil || !cfg.History.Enabled {
		return
	}
	if err := s.store.Save(tr); err != nil {
		s.logger.Warn("trace not persisted", map[string]interface{}{"error": err.Error()})
	}
	if _, err := s.store.Prune(cfg.History.RetainDays); err != nil {
		s.logger.Warn("history prune failed", map[string]interface{}{"error": err.Error()})
	}
}

// abortedTrace is the well-formed record for a run cancelled between stages:
// what was asked, how it was understood, and the fact that nothing ran.
func (s *Service) abortedTrace(intent domain.Intent, reason string, start time.Time) domain.Trace {
	plan := domain.CommandPlan{Reasoning: reason}
	result := domain.ExecutionResult{
		Plan:            plan,
		Success:         false,
		ExecutionTimeMS: uint64(time.Since(start).Milliseconds()),
	}
	answer := domain.InterpretedAnswer{
		Answer:     "The query was cancelled; no commands were run.",
		Confidence: domain.ConfidenceLow,
		Reasoning:  reason,
		Source:     "structural parser",
	}
	return s.assembler.Assemble(intent, plan, result, answer)
}
