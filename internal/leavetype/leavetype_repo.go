package leavetype

import (
	"context"

	"go-leave/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leavetype_repo.go -destination=mock/leavetype_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, lt *LeaveType) error
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*LeaveType, error)
	FindAllByCompany(ctx context.Context, companyID string) ([]LeaveType, error)
	FindCompensatoryByCompany(ctx context.Context, companyID string) (*LeaveType, error)
	FindAssignOnJoinByCompany(ctx context.Context, companyID string) ([]LeaveType, error)
	Update(ctx context.Context, lt *LeaveType) error
	Delete(ctx context.Context, companyID, id string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, lt *LeaveType) error {
	return r.db.WithContext(ctx).Create(lt).Error
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*LeaveType, error) {
	var lt LeaveType
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&lt, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &lt, nil
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]LeaveType, error) {
	var types []LeaveType
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("name ASC").
		Find(&types).Error
	return types, err
}

func (r *repository) FindCompensatoryByCompany(ctx context.Context, companyID string) (*LeaveType, error) {
	var lt LeaveType
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND is_compensatory = true", companyID).
		First(&lt).Error
	if err != nil {
		return nil, err
	}
	return &lt, nil
}

func (r *repository) FindAssignOnJoinByCompany(ctx context.Context, companyID string) ([]LeaveType, error) {
	var types []LeaveType
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND assign_on_join = true", companyID).
		Find(&types).Error
	return types, err
}

func (r *repository) Update(ctx context.Context, lt *LeaveType) error {
	return r.db.WithContext(ctx).Save(lt).Error
}

func (r *repository) Delete(ctx context.Context, companyID, id string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Delete(&LeaveType{}, "id = ?", id).Error
}
