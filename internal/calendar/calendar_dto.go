package calendar

type CreateHolidayRequest struct {
	Name      string `json:"name" binding:"required"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Recurring bool   `json:"recurring"`
}

type UpdateHolidayRequest struct {
	Name      string `json:"name" binding:"required"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Recurring bool   `json:"recurring"`
}

type HolidayResponse struct {
	ID        string `json:"id"`
	CompanyID string `json:"company_id"`
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Recurring bool   `json:"recurring"`
}

type CreateCompanyLeaveRequest struct {
	BasedOnWeek    *int `json:"based_on_week"`
	BasedOnWeekday int  `json:"based_on_weekday"`
}

type CompanyLeaveResponse struct {
	ID             string `json:"id"`
	CompanyID      string `json:"company_id"`
	BasedOnWeek    *int   `json:"based_on_week,omitempty"`
	BasedOnWeekday int    `json:"based_on_weekday"`
}
