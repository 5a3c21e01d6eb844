package domain

import "time"

// TraceCommand is the per-command slice of a Trace.
type TraceCommand struct {
	FullCommand   string `json:"full_command"`
	ExitCode      int    `json:"exit_code"`
	Success       bool   `json:"success"`
	OutputExcerpt string `json:"output_excerpt,omitempty"`
	TimeMS        uint64 `json:"time_ms"`
}

// Trace is the final, ordered record of intent, commands run, outputs, and
// interpretation. It is the pipeline's only externally consumed artifact; its
// field set is fixed and never silently drops a field present in its inputs.
type Trace struct {
	ID          string          `json:"id"`
	Query       string          `json:"query"`
	Goal        Goal            `json:"goal"`
	Domain      Domain          `json:"domain"`
	Constraints []Constraint    `json:"constraints,omitempty"`
	SafetyLevel string          `json:"safety_level"`
	PlanReason  string          `json:"plan_reasoning,omitempty"`
	Commands    []TraceCommand  `json:"commands"`
	Answer      string          `json:"answer"`
	Details     string          `json:"details,omitempty"`
	Confidence  ConfidenceLevel `json:"confidence"`
	Reasoning   string          `json:"reasoning"`
	Source      string          `json:"source"`
	Success     bool            `json:"success"`
	ElapsedMS   uint64          `json:"elapsed_ms"`
	CreatedAt   time.Time       `json:"created_at"`
}
