package leavetype

type CreateLeaveTypeRequest struct {
	Name      string `json:"name" binding:"required"`
	Count     string `json:"count" binding:"required"`
	PeriodIn  string `json:"period_in" binding:"required,oneof=day month year"`
	TotalDays string `json:"total_days" binding:"required"`

	Reset        bool   `json:"reset"`
	ResetBased   string `json:"reset_based" binding:"omitempty,oneof=yearly monthly weekly"`
	ResetMonth   int    `json:"reset_month" binding:"omitempty,min=1,max=12"`
	ResetDay     int    `json:"reset_day" binding:"omitempty,min=-1,max=31"`
	ResetWeekday int    `json:"reset_weekday" binding:"omitempty,min=0,max=6"`

	CarryforwardType       string  `json:"carryforward_type" binding:"omitempty,oneof=no_carryforward carryforward carryforward_expire"`
	CarryforwardMax        *string `json:"carryforward_max"`
	CarryforwardExpireIn   int     `json:"carryforward_expire_in" binding:"omitempty,min=0"`
	CarryforwardExpireUnit string  `json:"carryforward_expire_unit" binding:"omitempty,oneof=day month year"`

	RequireApproval     *bool `json:"require_approval"`
	ExcludeCompanyLeave bool  `json:"exclude_company_leave"`
	ExcludeHoliday      bool  `json:"exclude_holiday"`
	IsCompensatory      bool  `json:"is_compensatory"`
	AssignOnJoin        bool  `json:"assign_on_join"`
}

type UpdateLeaveTypeRequest struct {
	Name      string `json:"name" binding:"required"`
	Count     string `json:"count" binding:"required"`
	PeriodIn  string `json:"period_in" binding:"required,oneof=day month year"`
	TotalDays string `json:"total_days" binding:"required"`

	Reset        bool   `json:"reset"`
	ResetBased   string `json:"reset_based" binding:"omitempty,oneof=yearly monthly weekly"`
	ResetMonth   int    `json:"reset_month" binding:"omitempty,min=1,max=12"`
	ResetDay     int    `json:"reset_day" binding:"omitempty,min=-1,max=31"`
	ResetWeekday int    `json:"reset_weekday" binding:"omitempty,min=0,max=6"`

	CarryforwardType       string  `json:"carryforward_type" binding:"omitempty,oneof=no_carryforward carryforward carryforward_expire"`
	CarryforwardMax        *string `json:"carryforward_max"`
	CarryforwardExpireIn   int     `json:"carryforward_expire_in" binding:"omitempty,min=0"`
	CarryforwardExpireUnit string  `json:"carryforward_expire_unit" binding:"omitempty,oneof=day month year"`

	RequireApproval     *bool `json:"require_approval"`
	ExcludeCompanyLeave bool  `json:"exclude_company_leave"`
	ExcludeHoliday      bool  `json:"exclude_holiday"`
	IsCompensatory      bool  `json:"is_compensatory"`
	AssignOnJoin        bool  `json:"assign_on_join"`
}

type LeaveTypeResponse struct {
	ID        string `json:"id"`
	CompanyID string `json:"company_id"`
	Name      string `json:"name"`
	Count     string `json:"count"`
	PeriodIn  string `json:"period_in"`
	TotalDays string `json:"total_days"`

	Reset        bool   `json:"reset"`
	ResetBased   string `json:"reset_based,omitempty"`
	ResetMonth   int    `json:"reset_month,omitempty"`
	ResetDay     int    `json:"reset_day,omitempty"`
	ResetWeekday int    `json:"reset_weekday,omitempty"`

	CarryforwardType       string  `json:"carryforward_type"`
	CarryforwardMax        *string `json:"carryforward_max,omitempty"`
	CarryforwardExpireIn   int     `json:"carryforward_expire_in,omitempty"`
	CarryforwardExpireUnit string  `json:"carryforward_expire_unit,omitempty"`

	RequireApproval     bool `json:"require_approval"`
	ExcludeCompanyLeave bool `json:"exclude_company_leave"`
	ExcludeHoliday      bool `json:"exclude_holiday"`
	IsCompensatory      bool `json:"is_compensatory"`
	AssignOnJoin        bool `json:"assign_on_join"`
}
