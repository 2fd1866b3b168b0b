package restriction

import (
	"context"
	"time"

	"go-leave/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=restriction_repo.go -destination=mock/restriction_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, r *RestrictLeave) error
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*RestrictLeave, error)
	FindAllByCompany(ctx context.Context, companyID string) ([]RestrictLeave, error)

	// FindActive returns the department's blocks intersecting the inclusive
	// date range.
	FindActive(ctx context.Context, companyID, departmentID string, start, end time.Time) ([]RestrictLeave, error)

	Update(ctx context.Context, r *RestrictLeave) error
	ReplacePositions(ctx context.Context, restrictLeaveID string, positions []RestrictLeavePosition) error
	Delete(ctx context.Context, companyID, id string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, rl *RestrictLeave) error {
	return r.db.WithContext(ctx).Create(rl).Error
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*RestrictLeave, error) {
	var rl RestrictLeave
	err := r.db.WithContext(ctx).
		Preload("Positions").
		Scopes(tenant.Scope(companyID)).
		First(&rl, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &rl, nil
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]RestrictLeave, error) {
	var rows []RestrictLeave
	err := r.db.WithContext(ctx).
		Preload("Positions").
		Scopes(tenant.Scope(companyID)).
		Order("start_date ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindActive(ctx context.Context, companyID, departmentID string, start, end time.Time) ([]RestrictLeave, error) {
	var rows []RestrictLeave
	err := r.db.WithContext(ctx).
		Preload("Positions").
		Where("company_id = ? AND department_id = ? AND start_date <= ? AND end_date >= ?", companyID, departmentID, end, start).
		Find(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, rl *RestrictLeave) error {
	return r.db.WithContext(ctx).
		Omit("Positions").
		Save(rl).Error
}

func (r *repository) ReplacePositions(ctx context.Context, restrictLeaveID string, positions []RestrictLeavePosition) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&RestrictLeavePosition{}, "restrict_leave_id = ?", restrictLeaveID).Error; err != nil {
			return err
		}
		if len(positions) == 0 {
			return nil
		}
		return tx.Create(&positions).Error
	})
}

func (r *repository) Delete(ctx context.Context, companyID, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&RestrictLeavePosition{}, "restrict_leave_id = ?", id).Error; err != nil {
			return err
		}
		return tx.
			Scopes(tenant.Scope(companyID)).
			Delete(&RestrictLeave{}, "id = ?", id).Error
	})
}
