package ledger

type AssignRequest struct {
	EmployeeID  string `json:"employee_id" binding:"required,uuid"`
	LeaveTypeID string `json:"leave_type_id" binding:"required,uuid"`
}

type BulkAssignRequest struct {
	EmployeeIDs []string `json:"employee_ids" binding:"required,min=1,dive,uuid"`
	LeaveTypeID string   `json:"leave_type_id" binding:"required,uuid"`
}

type AssignmentResponse struct {
	ID               string  `json:"id"`
	CompanyID        string  `json:"company_id"`
	EmployeeID       string  `json:"employee_id"`
	LeaveTypeID      string  `json:"leave_type_id"`
	AvailableDays    string  `json:"available_days"`
	CarryforwardDays string  `json:"carryforward_days"`
	TotalLeaveDays   string  `json:"total_leave_days"`
	AssignedDate     string  `json:"assigned_date"`
	ResetDate        *string `json:"reset_date,omitempty"`
	ExpiredDate      *string `json:"expired_date,omitempty"`
}

type BulkAssignResult struct {
	EmployeeID string `json:"employee_id"`
	Assigned   bool   `json:"assigned"`
	Reason     string `json:"reason,omitempty"`
}

type BulkAssignResponse struct {
	Results []BulkAssignResult `json:"results"`
}

// ForecastPoint is one projected balance snapshot, taken immediately after
// the event on its date is applied.
type ForecastPoint struct {
	Date             string `json:"date"`
	Event            string `json:"event"`
	AvailableDays    string `json:"available_days"`
	CarryforwardDays string `json:"carryforward_days"`
	TotalLeaveDays   string `json:"total_leave_days"`
}
