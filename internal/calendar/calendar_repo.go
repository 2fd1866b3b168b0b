package calendar

import (
	"context"

	"go-leave/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=calendar_repo.go -destination=mock/calendar_repo_mock.go -package=mock
type Repository interface {
	CreateHoliday(ctx context.Context, h *Holiday) error
	FindHolidaysByCompany(ctx context.Context, companyID string) ([]Holiday, error)
	FindHolidayByIDAndCompany(ctx context.Context, companyID, id string) (*Holiday, error)
	UpdateHoliday(ctx context.Context, h *Holiday) error
	DeleteHoliday(ctx context.Context, companyID, id string) error

	CreateCompanyLeave(ctx context.Context, cl *CompanyLeave) error
	FindCompanyLeavesByCompany(ctx context.Context, companyID string) ([]CompanyLeave, error)
	FindCompanyLeaveByIDAndCompany(ctx context.Context, companyID, id string) (*CompanyLeave, error)
	DeleteCompanyLeave(ctx context.Context, companyID, id string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateHoliday(ctx context.Context, h *Holiday) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *repository) FindHolidaysByCompany(ctx context.Context, companyID string) ([]Holiday, error) {
	var holidays []Holiday
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("start_date ASC").
		Find(&holidays).Error
	return holidays, err
}

func (r *repository) FindHolidayByIDAndCompany(ctx context.Context, companyID, id string) (*Holiday, error) {
	var h Holiday
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&h, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *repository) UpdateHoliday(ctx context.Context, h *Holiday) error {
	return r.db.WithContext(ctx).Save(h).Error
}

func (r *repository) DeleteHoliday(ctx context.Context, companyID, id string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Delete(&Holiday{}, "id = ?", id).Error
}

func (r *repository) CreateCompanyLeave(ctx context.Context, cl *CompanyLeave) error {
	return r.db.WithContext(ctx).Create(cl).Error
}

func (r *repository) FindCompanyLeavesByCompany(ctx context.Context, companyID string) ([]CompanyLeave, error) {
	var leaves []CompanyLeave
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindCompanyLeaveByIDAndCompany(ctx context.Context, companyID, id string) (*CompanyLeave, error) {
	var cl CompanyLeave
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&cl, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &cl, nil
}

func (r *repository) DeleteCompanyLeave(ctx context.Context, companyID, id string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Delete(&CompanyLeave{}, "id = ?", id).Error
}
