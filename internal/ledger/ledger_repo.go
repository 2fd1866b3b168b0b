package ledger

import (
	"context"
	"time"

	"go-leave/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=ledger_repo.go -destination=mock/ledger_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, al *AvailableLeave) error
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*AvailableLeave, error)
	FindByEmployeeAndType(ctx context.Context, companyID, employeeID, leaveTypeID string) (*AvailableLeave, error)
	FindAllByEmployee(ctx context.Context, companyID, employeeID string) ([]AvailableLeave, error)
	FindAllByCompany(ctx context.Context, companyID string) ([]AvailableLeave, error)

	// UpdateVersioned persists al only if the stored version still matches
	// al.Version, bumping it by one. Returns gorm.ErrRecordNotFound style
	// zero-rows as a conflict signaled through the bool.
	UpdateVersioned(ctx context.Context, al *AvailableLeave) (bool, error)

	Delete(ctx context.Context, companyID, id string) error

	FindMissingResetDate(ctx context.Context) ([]AvailableLeave, error)
	FindDueResets(ctx context.Context, asOf time.Time) ([]AvailableLeave, error)
	FindDueExpiries(ctx context.Context, asOf time.Time) ([]AvailableLeave, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, al *AvailableLeave) error {
	return r.db.WithContext(ctx).Create(al).Error
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*AvailableLeave, error) {
	var al AvailableLeave
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&al, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &al, nil
}

func (r *repository) FindByEmployeeAndType(ctx context.Context, companyID, employeeID, leaveTypeID string) (*AvailableLeave, error) {
	var al AvailableLeave
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND employee_id = ? AND leave_type_id = ?", companyID, employeeID, leaveTypeID).
		First(&al).Error
	if err != nil {
		return nil, err
	}
	return &al, nil
}

func (r *repository) FindAllByEmployee(ctx context.Context, companyID, employeeID string) ([]AvailableLeave, error) {
	var rows []AvailableLeave
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND employee_id = ?", companyID, employeeID).
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]AvailableLeave, error) {
	var rows []AvailableLeave
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Find(&rows).Error
	return rows, err
}

func (r *repository) UpdateVersioned(ctx context.Context, al *AvailableLeave) (bool, error) {
	readVersion := al.Version
	al.Version = readVersion + 1

	res := r.db.WithContext(ctx).
		Model(&AvailableLeave{}).
		Where("id = ? AND version = ?", al.ID, readVersion).
		Updates(map[string]interface{}{
			"available_days":    al.AvailableDays,
			"carryforward_days": al.CarryforwardDays,
			"total_leave_days":  al.TotalLeaveDays,
			"reset_date":        al.ResetDate,
			"expired_date":      al.ExpiredDate,
			"version":           al.Version,
		})
	if res.Error != nil {
		al.Version = readVersion
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		al.Version = readVersion
		return false, nil
	}
	return true, nil
}

func (r *repository) Delete(ctx context.Context, companyID, id string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Delete(&AvailableLeave{}, "id = ?", id).Error
}

func (r *repository) FindMissingResetDate(ctx context.Context) ([]AvailableLeave, error) {
	var rows []AvailableLeave
	err := r.db.WithContext(ctx).
		Where("reset_date IS NULL").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindDueResets(ctx context.Context, asOf time.Time) ([]AvailableLeave, error) {
	var rows []AvailableLeave
	err := r.db.WithContext(ctx).
		Where("reset_date IS NOT NULL AND reset_date <= ?", asOf).
		Order("reset_date ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindDueExpiries(ctx context.Context, asOf time.Time) ([]AvailableLeave, error) {
	var rows []AvailableLeave
	err := r.db.WithContext(ctx).
		Where("expired_date IS NOT NULL AND expired_date <= ?", asOf).
		Order("expired_date ASC").
		Find(&rows).Error
	return rows, err
}
