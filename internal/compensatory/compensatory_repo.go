package compensatory

import (
	"context"

	"go-leave/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=compensatory_repo.go -destination=mock/compensatory_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, req *CompensatoryLeaveRequest) error
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*CompensatoryLeaveRequest, error)
	FindAllByCompany(ctx context.Context, companyID string) ([]CompensatoryLeaveRequest, error)
	FindByEmployee(ctx context.Context, companyID, employeeID string) ([]CompensatoryLeaveRequest, error)
	Update(ctx context.Context, req *CompensatoryLeaveRequest) error
	ReplaceAttendances(ctx context.Context, req *CompensatoryLeaveRequest, attendances []CompensatoryAttendance) error
	Delete(ctx context.Context, companyID, id string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, req *CompensatoryLeaveRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*CompensatoryLeaveRequest, error) {
	var req CompensatoryLeaveRequest
	err := r.db.WithContext(ctx).
		Preload("Attendances").
		Where("id = ? AND company_id = ?", id, companyID).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]CompensatoryLeaveRequest, error) {
	var reqs []CompensatoryLeaveRequest
	err := r.db.WithContext(ctx).
		Preload("Attendances").
		Scopes(tenant.Scope(companyID)).
		Order("created_at DESC").
		Find(&reqs).Error
	return reqs, err
}

func (r *repository) FindByEmployee(ctx context.Context, companyID, employeeID string) ([]CompensatoryLeaveRequest, error) {
	var reqs []CompensatoryLeaveRequest
	err := r.db.WithContext(ctx).
		Preload("Attendances").
		Where("company_id = ? AND employee_id = ?", companyID, employeeID).
		Order("created_at DESC").
		Find(&reqs).Error
	return reqs, err
}

func (r *repository) Update(ctx context.Context, req *CompensatoryLeaveRequest) error {
	return r.db.WithContext(ctx).Omit("Attendances").Save(req).Error
}

func (r *repository) ReplaceAttendances(ctx context.Context, req *CompensatoryLeaveRequest, attendances []CompensatoryAttendance) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("compensatory_id = ?", req.ID).Delete(&CompensatoryAttendance{}).Error; err != nil {
			return err
		}
		if len(attendances) > 0 {
			if err := tx.Create(&attendances).Error; err != nil {
				return err
			}
		}
		return tx.Omit("Attendances").Save(req).Error
	})
}

func (r *repository) Delete(ctx context.Context, companyID, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var req CompensatoryLeaveRequest
		if err := tx.Where("id = ? AND company_id = ?", id, companyID).First(&req).Error; err != nil {
			return err
		}
		if err := tx.Where("compensatory_id = ?", req.ID).Delete(&CompensatoryAttendance{}).Error; err != nil {
			return err
		}
		return tx.Delete(&req).Error
	})
}
