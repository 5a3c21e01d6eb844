package domain

import "errors"

// Sentinel errors for the pipeline's surfaced failure modes. Everything else
// is recovered locally and ends in a well-formed Trace.
var (
	// ErrCommandBlocked means the safety validator returned Forbidden for a
	// command in the plan. Fatal for that plan, never silently downgraded.
	ErrCommandBlocked = errors.New("command blocked by safety validator")

	// ErrApprovalRequired means a Risky-tier plan was submitted without an
	// approval token. The plan is not executed.
	ErrApprovalRequired = errors.New("approval required for risky command")
)
