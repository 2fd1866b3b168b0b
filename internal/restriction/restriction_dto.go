package restriction

type CreateRestrictionRequest struct {
	DepartmentID string   `json:"department_id" binding:"required,uuid"`
	Title        string   `json:"title" binding:"required"`
	Description  string   `json:"description"`
	StartDate    string   `json:"start_date" binding:"required"`
	EndDate      string   `json:"end_date" binding:"required"`
	PositionIDs  []string `json:"position_ids" binding:"omitempty,dive,uuid"`
}

type UpdateRestrictionRequest = CreateRestrictionRequest

type RestrictionResponse struct {
	ID           string   `json:"id"`
	CompanyID    string   `json:"company_id"`
	DepartmentID string   `json:"department_id"`
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	StartDate    string   `json:"start_date"`
	EndDate      string   `json:"end_date"`
	PositionIDs  []string `json:"position_ids"`
}
