package allocation

import (
	"context"

	"go-leave/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=allocation_repo.go -destination=mock/allocation_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, req *LeaveAllocationRequest) error
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*LeaveAllocationRequest, error)
	FindAllByCompany(ctx context.Context, companyID string) ([]LeaveAllocationRequest, error)
	FindByEmployee(ctx context.Context, companyID, employeeID string) ([]LeaveAllocationRequest, error)
	Update(ctx context.Context, req *LeaveAllocationRequest) error
	Delete(ctx context.Context, companyID, id string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, req *LeaveAllocationRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*LeaveAllocationRequest, error) {
	var req LeaveAllocationRequest
	err := r.db.WithContext(ctx).
		Where("id = ? AND company_id = ?", id, companyID).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]LeaveAllocationRequest, error) {
	var reqs []LeaveAllocationRequest
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("created_at DESC").
		Find(&reqs).Error
	return reqs, err
}

func (r *repository) FindByEmployee(ctx context.Context, companyID, employeeID string) ([]LeaveAllocationRequest, error) {
	var reqs []LeaveAllocationRequest
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND employee_id = ?", companyID, employeeID).
		Order("created_at DESC").
		Find(&reqs).Error
	return reqs, err
}

func (r *repository) Update(ctx context.Context, req *LeaveAllocationRequest) error {
	return r.db.WithContext(ctx).Save(req).Error
}

func (r *repository) Delete(ctx context.Context, companyID, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND company_id = ?", id, companyID).
		Delete(&LeaveAllocationRequest{}).Error
}
