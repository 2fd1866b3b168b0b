package domain

const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleEmployee = "employee"
)

// Actor is the authenticated employee performing an operation. Services take
// it explicitly instead of reading ambient request state.
type Actor struct {
	EmployeeID string
	Role       string
}

// Privileged reports whether the actor may bypass approval sequencing,
// restriction windows and past-date checks.
func (a Actor) Privileged() bool {
	return a.Role == RoleAdmin
}

// Manager reports whether the actor may act on other employees' requests.
func (a Actor) Manager() bool {
	return a.Role == RoleAdmin || a.Role == RoleManager
}
