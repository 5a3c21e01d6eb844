package domain

// CommandResult captures one command's outcome verbatim. Write-once: never
// rewritten after capture.
type CommandResult struct {
	Command     string
	FullCommand string
	ExitCode    int
	Stdout      string
	Stderr      string
	Success     bool
	TimeMS      uint64
}

// ExecutionResult wraps the outcome of running a whole plan. Success is the
// AND of per-step outcomes; a skipped or blocked step counts as failed.
type ExecutionResult struct {
	Plan            CommandPlan
	CommandResults  []CommandResult
	Success         bool
	ExecutionTimeMS uint64
}

// AllFailed reports whether no step produced a successful result.
func (r ExecutionResult) AllFailed() bool {
	for _, cr := range r.CommandResults {
		if cr.Success {
			return false
		}
	}
	return true
}
