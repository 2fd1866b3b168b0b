package events

import "time"

const (
	LeaveLifecycleTopic    = "hr.leave.lifecycle.v1"
	EmployeeLifecycleTopic = "hr.employee.lifecycle.v1"
)

const (
	TypeLeaveRequestCreated   = "leave_request.created"
	TypeLeaveRequestUpdated   = "leave_request.updated"
	TypeLeaveRequestApproved  = "leave_request.approved"
	TypeLeaveRequestRejected  = "leave_request.rejected"
	TypeLeaveRequestCancelled = "leave_request.cancelled"

	TypeAllocationCreated  = "leave_allocation.created"
	TypeAllocationApproved = "leave_allocation.approved"
	TypeAllocationRejected = "leave_allocation.rejected"

	TypeCompensatoryCreated  = "compensatory_leave.created"
	TypeCompensatoryApproved = "compensatory_leave.approved"
	TypeCompensatoryRejected = "compensatory_leave.rejected"

	TypeLeaveTypeAssigned = "leave_type.assigned"
)

// LeaveLifecycleEvent is the notification payload published for every leave
// workflow transition. Delivery is fire-and-forget.
type LeaveLifecycleEvent struct {
	EventType  string    `json:"event_type"`
	CompanyID  string    `json:"company_id"`
	EmployeeID string    `json:"employee_id"`
	ResourceID string    `json:"resource_id"`
	ActorID    string    `json:"actor_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
