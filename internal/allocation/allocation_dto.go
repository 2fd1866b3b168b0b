package allocation

type CreateAllocationRequest struct {
	EmployeeID    string `json:"employee_id" binding:"omitempty,uuid"`
	LeaveTypeID   string `json:"leave_type_id" binding:"required,uuid"`
	RequestedDays string `json:"requested_days" binding:"required"`
	Description   string `json:"description" binding:"omitempty,max=500"`
}

type UpdateAllocationRequest struct {
	LeaveTypeID   string `json:"leave_type_id" binding:"required,uuid"`
	RequestedDays string `json:"requested_days" binding:"required"`
	Description   string `json:"description" binding:"omitempty,max=500"`
}

type RejectAllocationRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

type AllocationResponse struct {
	ID            string `json:"id"`
	CompanyID     string `json:"company_id"`
	EmployeeID    string `json:"employee_id"`
	LeaveTypeID   string `json:"leave_type_id"`
	RequestedDays string `json:"requested_days"`
	Status        string `json:"status"`
	Description   string `json:"description,omitempty"`
	RejectReason  string `json:"reject_reason,omitempty"`
	CreatedAt     string `json:"created_at"`
}
