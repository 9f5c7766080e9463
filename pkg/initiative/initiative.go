package initiative

type Status string

const (
	// StatusExploration is bootstrap-only: it marks the default bucket.
	StatusExploration Status = "exploration"
	StatusProposed    Status = "proposed"
	StatusApproved    Status = "approved"
	StatusPaused      Status = "paused"
	StatusStopped     Status = "stopped"
)

// Initiative is a named stream of experimentation work. Every organization
// has exactly one default bucket ("AI Experimentation") that catches
// unstructured exploration time and can never be paused.
type Initiative struct {
	Id              int
	OrganizationId  int
	Name            string
	Description     string
	Status          Status
	IsDefaultBucket bool
	ProposedById    string
	ApprovedById    string
}

// Terminal reports whether the initiative is excluded from staleness
// detection.
func (i Initiative) Terminal() bool {
	return i.Status == StatusStopped || i.Status == StatusPaused
}

// DisplayStatus maps the domain status to the label set the dashboard uses.
// The domain enum stays canonical; this mapping exists only at the DTO
// boundary.
func DisplayStatus(s Status) string {
	switch s {
	case StatusExploration, StatusApproved:
		return "active"
	case StatusProposed:
		return "pending"
	case StatusStopped:
		return "rejected"
	case StatusPaused:
		return "paused"
	default:
		return string(s)
	}
}
