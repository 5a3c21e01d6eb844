package executor

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/doeshing/sysq/internal/domain"
)

// CommandRunner spawns one planned command and reports on tool presence.
// Abstracted so tests can count and fake subprocess activity.
type CommandRunner interface {
	Run(ctx context.Context, cmd domain.PlannedCommand, timeout time.Duration) domain.CommandResult
	Available(program string) bool
}

// LocalRunner executes commands on the host via os/exec.
type LocalRunner struct{}

var _ CommandRunner = LocalRunner{}

func (LocalRunner) Available(program string) bool {
	_, err := exec.LookPath(program)
	return err == nil
}

// Run spawns the command under a deadline and captures both streams. It never
// returns an error: failures of any kind become a CommandResult with
// Success false, so the pipeline always has something to interpret.
func (LocalRunner) Run(ctx context.Context, cmd domain.PlannedCommand, timeout time.Duration) domain.CommandResult {
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	proc := exec.CommandContext(runCtx, cmd.Program, cmd.Args...)
	var stdout, stderr bytes.Buffer
	proc.Stdout = &stdout
	proc.Stderr = &stderr

	start := time.Now()
	err := proc.Run()

	result := domain.CommandResult{
		Command:     cmd.RequiredTool(),
		FullCommand: cmd.Rendered(),
		Stdout:      stdout.String(),
		Stderr:      stderr.String(),
		TimeMS:      uint64(time.Since(start).Milliseconds()),
	}

	switch {
	case runCtx.Err() == context.DeadlineExceeded:
		result.ExitCode = -1
		result.Stderr = strings.TrimSpace(result.Stderr + "\ntimeout after " + timeout.String())
	case err == nil:
		result.Success = true
	default:
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
		} else {
			// Spawn failure, e.g. binary vanished after detection.
			result.ExitCode = -1
			result.Stderr = strings.TrimSpace(result.Stderr + "\n" + err.Error())
		}
	}
	return result
}
