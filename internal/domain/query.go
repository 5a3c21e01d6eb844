package domain

import "context"

// QueryRequest captures one user question entering the pipeline.
type QueryRequest struct {
	Context context.Context
	Query   string
	// ApprovalToken is an opaque caller-supplied confirmation for Risky-tier
	// plans. The executor only checks presence; issuing and validating it is
	// the CLI layer's concern.
	ApprovalToken string
	// RefreshInventory forces a fresh tool probe instead of the session cache.
	RefreshInventory bool
	Debug            bool
}

// QueryService exposes the use-case boundary for handling a query.
type QueryService interface {
	Run(QueryRequest) (Trace, error)
}
