package leaverequest

type CreateLeaveRequestRequest struct {
	// EmployeeID defaults to the acting employee; managers may set it to
	// file on someone else's behalf.
	EmployeeID  string `json:"employee_id" binding:"omitempty,uuid"`
	LeaveTypeID string `json:"leave_type_id" binding:"required,uuid"`
	StartDate   string `json:"start_date" binding:"required"`
	EndDate     string `json:"end_date" binding:"required"`
	StartHalf   string `json:"start_half" binding:"omitempty,oneof=full_day first_half second_half"`
	EndHalf     string `json:"end_half" binding:"omitempty,oneof=full_day first_half second_half"`
	Description string `json:"description"`
}

type UpdateLeaveRequestRequest struct {
	LeaveTypeID string `json:"leave_type_id" binding:"required,uuid"`
	StartDate   string `json:"start_date" binding:"required"`
	EndDate     string `json:"end_date" binding:"required"`
	StartHalf   string `json:"start_half" binding:"omitempty,oneof=full_day first_half second_half"`
	EndHalf     string `json:"end_half" binding:"omitempty,oneof=full_day first_half second_half"`
	Description string `json:"description"`
}

type RejectRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type BulkActionRequest struct {
	IDs []string `json:"ids" binding:"required,min=1,dive,uuid"`
	// Reason is used by bulk reject and ignored elsewhere.
	Reason string `json:"reason"`
}

type BulkActionResult struct {
	ID     string `json:"id"`
	Ok     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
}

type BulkActionResponse struct {
	Results []BulkActionResult `json:"results"`
}

type LeaveRequestResponse struct {
	ID            string `json:"id"`
	CompanyID     string `json:"company_id"`
	EmployeeID    string `json:"employee_id"`
	LeaveTypeID   string `json:"leave_type_id"`
	RequestNumber string `json:"request_number"`

	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	StartHalf string `json:"start_half"`
	EndHalf   string `json:"end_half"`

	RequestedDays string `json:"requested_days"`
	Status        string `json:"status"`
	Description   string `json:"description,omitempty"`

	ApprovedAvailableDays    string `json:"approved_available_days"`
	ApprovedCarryforwardDays string `json:"approved_carryforward_days"`

	LeaveClashesCount int    `json:"leave_clashes_count"`
	RejectReason      string `json:"reject_reason,omitempty"`

	CreatedAt string `json:"created_at"`
}

type ListLeaveRequestsQuery struct {
	Status      string `form:"status" binding:"omitempty,oneof=requested approved cancelled rejected"`
	EmployeeID  string `form:"employee_id" binding:"omitempty,uuid"`
	LeaveTypeID string `form:"leave_type_id" binding:"omitempty,uuid"`
	From        string `form:"from"`
	To          string `form:"to"`
	Page        int    `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize    int    `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
}
