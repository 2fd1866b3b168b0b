package events

import "time"

const TypeEmployeeCreated = "employee.created"

// EmployeeCreatedEvent is consumed from the employee directory's lifecycle
// topic to assign default leave types to new hires.
type EmployeeCreatedEvent struct {
	EventType  string    `json:"event_type"`
	EmployeeID string    `json:"employee_id"`
	CompanyID  string    `json:"company_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
