package attendance

import (
	"context"

	"go-leave/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	FindByIDsAndEmployee(ctx context.Context, companyID, employeeID string, ids []string) ([]Attendance, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByIDsAndEmployee(ctx context.Context, companyID, employeeID string, ids []string) ([]Attendance, error) {
	var records []Attendance
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("id IN ?", ids).
		Order("attendance_date ASC").
		Find(&records).Error
	return records, err
}
