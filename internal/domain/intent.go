// Package domain defines core business entities and value objects for sysq.
//
// The domain layer is independent of infrastructure concerns and represents
// pure data structures passed forward through the query pipeline. Values are
// created fresh per query and never mutated after a component returns them.
package domain

// Goal describes what the user wants done with the answer.
type Goal string

const (
	GoalInspect  Goal = "inspect"
	GoalDiagnose Goal = "diagnose"
	GoalList     Goal = "list"
	GoalCheck    Goal = "check"
)

// Domain is the subject area a query is about. The set is open: adding a new
// domain means adding a rule group and a template set, not new branches.
type Domain string

const (
	DomainPackages Domain = "packages"
	DomainHardware Domain = "hardware"
	DomainGUI      Domain = "gui"
	DomainNetwork  Domain = "network"
	DomainMemory   Domain = "memory"
	DomainDisk     Domain = "disk"
	DomainServices Domain = "services"
	DomainKernel   Domain = "kernel"
	DomainUnknown  Domain = "unknown"
)

// ConstraintKind tags a Constraint value.
type ConstraintKind string

const (
	ConstraintPath     ConstraintKind = "path"
	ConstraintCount    ConstraintKind = "count"
	ConstraintFeature  ConstraintKind = "feature"
	ConstraintCategory ConstraintKind = "category"
	// ConstraintRaw carries the unclassified query text when no rule matched.
	ConstraintRaw ConstraintKind = "raw"
)

// Constraint is a tagged value extracted from the query. Value holds the
// payload for every kind except Count, which uses the numeric field.
type Constraint struct {
	Kind  ConstraintKind
	Value string
	Count uint
}

// Intent is the structured interpretation of a free-text query. Immutable
// once produced by the classifier.
type Intent struct {
	Goal        Goal
	Domain      Domain
	Constraints []Constraint
	Query       string
}

// Constraint returns the first constraint of the given kind, if any.
func (i Intent) Constraint(kind ConstraintKind) (Constraint, bool) {
	for _, c := range i.Constraints {
		if c.Kind == kind {
			return c, true
		}
	}
	return Constraint{}, false
}
