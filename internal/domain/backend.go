package domain

// BackendDraft is the opaque, untrusted suggestion produced by the reasoning
// backend. Its fields are unexported on purpose: planner and interpreter can
// only consume it through the narrow accessors below, so a draft can never be
// deserialized directly into a PlannedCommand or an InterpretedAnswer.
type BackendDraft struct {
	narrative      string
	preferredTools []string
}

// NewBackendDraft wraps raw backend output into a draft.
func NewBackendDraft(narrative string, preferredTools []string) BackendDraft {
	return BackendDraft{narrative: narrative, preferredTools: preferredTools}
}

// Narrative returns the free-text draft. Phrasing only; never a fact source.
func (d BackendDraft) Narrative() string {
	return d.narrative
}

// PreferredTools returns tool names the backend suggests prioritizing. The
// planner only uses these to reorder already-validated templates.
func (d BackendDraft) PreferredTools() []string {
	return append([]string(nil), d.preferredTools...)
}

// Empty reports whether the draft carries nothing usable.
func (d BackendDraft) Empty() bool {
	return d.narrative == "" && len(d.preferredTools) == 0
}
