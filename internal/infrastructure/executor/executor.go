// Package executor runs command plans under the safety gate. It re-validates
// every command immediately before spawning, enforces the approval gate for
// risky plans, and substitutes at most one fallback per failed step.
package executor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/doeshing/sysq/internal/domain"
	"github.com/doeshing/sysq/internal/ports"
)

type Executor struct {
	validator ports.SafetyValidator
	runner    CommandRunner
	logger    ports.Logger
	timeout   time.Duration
	parallel  bool
}

var _ ports.PlanExecutor = (*Executor)(nil)

func New(validator ports.SafetyValidator, runner CommandRunner, logger ports.Logger, timeout time.Duration, parallel bool) *Executor {
	if timeout <= 0 {
		timeout = domain.DefaultCommandTimeout
	}
	return &Executor{
		validator: validator,
		runner:    runner,
		logger:    logger,
		timeout:   timeout,
		parallel:  parallel,
	}
}

// Execute runs the plan. The order of CommandResults always matches the order
// of plan.Commands regardless of how steps were scheduled. Nothing is spawned
// when any command re-validates Forbidden or when a risky plan lacks an
// approval token.
func (e *Executor) Execute(ctx context.Context, plan domain.CommandPlan, inventory domain.ToolInventory, approvalToken string) domain.ExecutionResult {
	start := time.Now()

	if len(plan.Commands) == 0 {
		return domain.ExecutionResult{Plan: plan, Success: false}
	}

	// Re-validation before any spawn. The plan-time verdict is not
	// trusted across the planner/executor boundary.
	effective := domain.SafetyReadOnly
	for _, cmd := range plan.Commands {
		level := e.validator.Validate(cmd)
		if level == domain.SafetyForbidden {
			return e.refuse(plan, cmd, start, fmt.Sprintf("%v: %q classified forbidden, nothing was executed", domain.ErrCommandBlocked, cmd.Rendered()))
		}
		if level > effective {
			effective = level
		}
	}

	if effective >= domain.SafetyRisky && approvalToken == "" {
		return e.refuse(plan, plan.Commands[0], start, fmt.Sprintf("%v: plan classified %s, nothing was executed", domain.ErrApprovalRequired, effective))
	}

	pool := e.fallbackPool(plan.Fallbacks, effective)

	results := make([]domain.CommandResult, len(plan.Commands))
	if e.parallel && len(plan.Commands) > 1 && effective == domain.SafetyReadOnly {
		var g errgroup.Group
		for i, cmd := range plan.Commands {
			i, cmd := i, cmd
			g.Go(func() error {
				results[i] = e.runStep(ctx, cmd, inventory, pool)
				return nil
			})
		}
		g.Wait()
	} else {
		for i, cmd := range plan.Commands {
			if err := ctx.Err(); err != nil {
				results[i] = syntheticResult(cmd, "cancelled before start: "+err.Error())
				continue
			}
			results[i] = e.runStep(ctx, cmd, inventory, pool)
		}
	}

	success := true
	for _, r := range results {
		if !r.Success {
			success = false
			break
		}
	}

	return domain.ExecutionResult{
		Plan:            plan,
		CommandResults:  results,
		Success:         success,
		ExecutionTimeMS: uint64(time.Since(start).Milliseconds()),
	}
}

// runStep runs one planned command, substituting at most one fallback when
// the tool is missing or the command fails. The substitute's result occupies
// the step's slot.
func (e *Executor) runStep(ctx context.Context, cmd domain.PlannedCommand, inventory domain.ToolInventory, pool *fallbackPool) domain.CommandResult {
	var primary domain.CommandResult
	if !e.toolPresent(cmd.RequiredTool(), inventory) {
		primary = syntheticResult(cmd, "tool not available: "+cmd.RequiredTool())
	} else {
		primary = e.runner.Run(ctx, cmd, e.timeout)
	}
	if primary.Success {
		return primary
	}

	fallback, ok := pool.take(e.runner)
	if !ok {
		return primary
	}
	e.logger.Debug("substituting fallback", map[string]interface{}{
		"failed":   cmd.Rendered(),
		"fallback": fallback.Rendered(),
	})
	if err := ctx.Err(); err != nil {
		return primary
	}
	return e.runner.Run(ctx, fallback, e.timeout)
}

// toolPresent answers from the session inventory when it probed the tool,
// and falls back to a live lookup for tools outside the probe list.
func (e *Executor) toolPresent(tool string, inventory domain.ToolInventory) bool {
	if present, probed := inventory[tool]; probed {
		return present
	}
	return e.runner.Available(tool)
}

func (e *Executor) refuse(plan domain.CommandPlan, cmd domain.PlannedCommand, start time.Time, reason string) domain.ExecutionResult {
	e.logger.Warn("plan refused", map[string]interface{}{
		"command": cmd.Rendered(),
		"reason":  reason,
	})
	return domain.ExecutionResult{
		Plan:            plan,
		CommandResults:  []domain.CommandResult{syntheticResult(cmd, reason)},
		Success:         false,
		ExecutionTimeMS: uint64(time.Since(start).Milliseconds()),
	}
}

// fallbackPool hands out unused fallbacks one at a time. Concurrent steps
// contend for the same pool, so selection is mutex guarded; the lowest-index
// unused available fallback wins.
type fallbackPool struct {
	mu        sync.Mutex
	fallbacks []domain.PlannedCommand
	used      []bool
}

func (e *Executor) fallbackPool(fallbacks []domain.PlannedCommand, effective domain.SafetyLevel) *fallbackPool {
	pool := &fallbackPool{}
	for _, f := range fallbacks {
		// A fallback may never exceed the level the approval gate was
		// applied to.
		if e.validator.Validate(f) > effective {
			continue
		}
		pool.fallbacks = append(pool.fallbacks, f)
	}
	pool.used = make([]bool, len(pool.fallbacks))
	return pool
}

func (p *fallbackPool) take(runner CommandRunner) (domain.PlannedCommand, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, f := range p.fallbacks {
		if p.used[i] {
			continue
		}
		if !runner.Available(f.RequiredTool()) {
			p.used[i] = true
			continue
		}
		p.used[i] = true
		return f, true
	}
	return domain.PlannedCommand{}, false
}

func syntheticResult(cmd domain.PlannedCommand, stderr string) domain.CommandResult {
	return domain.CommandResult{
		Command:     cmd.RequiredTool(),
		FullCommand: cmd.Rendered(),
		ExitCode:    -1,
		Stderr:      stderr,
		Success:     false,
	}
}
