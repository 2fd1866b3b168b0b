package approval

type ConditionManagerRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
	Sequence   int    `json:"sequence" binding:"required,min=1"`
}

type CreateConditionRequest struct {
	DepartmentID string  `json:"department_id" binding:"required,uuid"`
	Operator     string  `json:"operator" binding:"required,oneof=equal not_equal less_than greater_than less_equal greater_equal range"`
	Value        *string `json:"value"`
	RangeStart   *string `json:"range_start"`
	RangeEnd     *string `json:"range_end"`

	Managers []ConditionManagerRequest `json:"managers" binding:"required,min=1,dive"`
}

type UpdateConditionRequest = CreateConditionRequest

type ConditionManagerResponse struct {
	EmployeeID string `json:"employee_id"`
	Sequence   int    `json:"sequence"`
}

type ConditionResponse struct {
	ID           string  `json:"id"`
	CompanyID    string  `json:"company_id"`
	DepartmentID string  `json:"department_id"`
	Operator     string  `json:"operator"`
	Value        *string `json:"value,omitempty"`
	RangeStart   *string `json:"range_start,omitempty"`
	RangeEnd     *string `json:"range_end,omitempty"`

	Managers []ConditionManagerResponse `json:"managers"`
}

type ChainStepResponse struct {
	ID             string `json:"id"`
	LeaveRequestID string `json:"leave_request_id"`
	ManagerID      string `json:"manager_id"`
	Sequence       int    `json:"sequence"`
	Status         string `json:"status"`
}
