package compensatory

type CreateCompensatoryRequest struct {
	EmployeeID    string   `json:"employee_id" binding:"omitempty,uuid"`
	AttendanceIDs []string `json:"attendance_ids" binding:"required,min=1,dive,uuid"`
	Description   string   `json:"description" binding:"omitempty,max=500"`
}

type UpdateCompensatoryRequest struct {
	AttendanceIDs []string `json:"attendance_ids" binding:"required,min=1,dive,uuid"`
	Description   string   `json:"description" binding:"omitempty,max=500"`
}

type RejectCompensatoryRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

type CompensatoryResponse struct {
	ID            string   `json:"id"`
	CompanyID     string   `json:"company_id"`
	EmployeeID    string   `json:"employee_id"`
	LeaveTypeID   string   `json:"leave_type_id"`
	AttendanceIDs []string `json:"attendance_ids"`
	RequestedDays string   `json:"requested_days"`
	Status        string   `json:"status"`
	Description   string   `json:"description,omitempty"`
	RejectReason  string   `json:"reject_reason,omitempty"`
	CreatedAt     string   `json:"created_at"`
}
