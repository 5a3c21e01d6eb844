package domain

// ConfidenceLevel states how strongly an answer is grounded in captured
// command output. High is reserved for answers derived entirely from
// structural parsing; anything touched by backend narration is at most Medium.
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

// InterpretedAnswer is the interpreter's final output for one query.
// Details is empty when there is nothing beyond the direct answer.
type InterpretedAnswer struct {
	Answer     string
	Details    string
	Confidence ConfidenceLevel
	Reasoning  string
	Source     string
}
