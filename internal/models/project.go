package models

// ProjectType is public (shared spending) or private (individual spending).
type ProjectType string

const (
	ProjectPublic  ProjectType = "public"
	ProjectPrivate ProjectType = "private"
)

// Role is a participant's role inside a project.
type Role string

const (
	RoleHost  Role = "host"
	RoleGuest Role = "guest"
)

// Project is a named ledger scope ("daily", "travel").
type Project struct {
	// ID is the unique identifier for the project (UUID format).
	ID string

	// Name is the display name.
	Name string

	// Type is public or private. Private projects make every participant
	// fully liable for each transaction.
	Type ProjectType

	// Rates maps currency code to the factor converting it into
	// ReportingCurrency. The reporting currency itself is never stored.
	Rates map[string]float64

	// CreatedAt is the Unix timestamp when the project was created.
	CreatedAt int64
}

// IsPrivate reports whether the project forces individual liability.
func (p Project) IsPrivate() bool {
	return p.Type == ProjectPrivate
}

// Member binds a user to a project with a role.
type Member struct {
	ProjectID   string
	UserID      string
	Role        Role
	DisplayName string
}

// Roles builds the uid -> role map the calculator consumes.
func Roles(members []Member) map[string]Role {
	roles := make(map[string]Role, len(members))
	for _, m := range members {
		roles[m.UserID] = m.Role
	}
	return roles
}
