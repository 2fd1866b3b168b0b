package approval

import (
	"context"

	"go-leave/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=approval_repo.go -destination=mock/approval_repo_mock.go -package=mock
type Repository interface {
	CreateCondition(ctx context.Context, c *Condition) error
	FindConditionByIDAndCompany(ctx context.Context, companyID, id string) (*Condition, error)
	FindConditionsByCompany(ctx context.Context, companyID string) ([]Condition, error)
	FindConditionsByDepartment(ctx context.Context, companyID, departmentID string) ([]Condition, error)
	UpdateCondition(ctx context.Context, c *Condition) error
	ReplaceConditionManagers(ctx context.Context, conditionID string, managers []ConditionManager) error
	DeleteCondition(ctx context.Context, companyID, id string) error

	CreateChainSteps(ctx context.Context, steps []ChainStep) error
	FindChainByRequest(ctx context.Context, companyID, leaveRequestID string) ([]ChainStep, error)
	UpdateChainStep(ctx context.Context, step *ChainStep) error
	UpdateChainStatusByRequest(ctx context.Context, companyID, leaveRequestID, status string) error
	DeleteChainByRequest(ctx context.Context, companyID, leaveRequestID string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateCondition(ctx context.Context, c *Condition) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *repository) FindConditionByIDAndCompany(ctx context.Context, companyID, id string) (*Condition, error) {
	var c Condition
	err := r.db.WithContext(ctx).
		Preload("Managers", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence ASC")
		}).
		Scopes(tenant.Scope(companyID)).
		First(&c, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) FindConditionsByCompany(ctx context.Context, companyID string) ([]Condition, error) {
	var conditions []Condition
	err := r.db.WithContext(ctx).
		Preload("Managers", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence ASC")
		}).
		Scopes(tenant.Scope(companyID)).
		Find(&conditions).Error
	return conditions, err
}

func (r *repository) FindConditionsByDepartment(ctx context.Context, companyID, departmentID string) ([]Condition, error) {
	var conditions []Condition
	err := r.db.WithContext(ctx).
		Preload("Managers", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence ASC")
		}).
		Where("company_id = ? AND department_id = ?", companyID, departmentID).
		Find(&conditions).Error
	return conditions, err
}

func (r *repository) UpdateCondition(ctx context.Context, c *Condition) error {
	return r.db.WithContext(ctx).
		Omit("Managers").
		Save(c).Error
}

func (r *repository) ReplaceConditionManagers(ctx context.Context, conditionID string, managers []ConditionManager) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&ConditionManager{}, "condition_id = ?", conditionID).Error; err != nil {
			return err
		}
		if len(managers) == 0 {
			return nil
		}
		return tx.Create(&managers).Error
	})
}

func (r *repository) DeleteCondition(ctx context.Context, companyID, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&ConditionManager{}, "condition_id = ?", id).Error; err != nil {
			return err
		}
		return tx.
			Scopes(tenant.Scope(companyID)).
			Delete(&Condition{}, "id = ?", id).Error
	})
}

func (r *repository) CreateChainSteps(ctx context.Context, steps []ChainStep) error {
	if len(steps) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&steps).Error
}

func (r *repository) FindChainByRequest(ctx context.Context, companyID, leaveRequestID string) ([]ChainStep, error) {
	var steps []ChainStep
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND leave_request_id = ?", companyID, leaveRequestID).
		Order("sequence ASC").
		Find(&steps).Error
	return steps, err
}

func (r *repository) UpdateChainStep(ctx context.Context, step *ChainStep) error {
	return r.db.WithContext(ctx).Save(step).Error
}

func (r *repository) UpdateChainStatusByRequest(ctx context.Context, companyID, leaveRequestID, status string) error {
	return r.db.WithContext(ctx).
		Model(&ChainStep{}).
		Where("company_id = ? AND leave_request_id = ? AND status = ?", companyID, leaveRequestID, StepRequested).
		Update("status", status).Error
}

func (r *repository) DeleteChainByRequest(ctx context.Context, companyID, leaveRequestID string) error {
	return r.db.WithContext(ctx).
		Where("company_id = ? AND leave_request_id = ?", companyID, leaveRequestID).
		Delete(&ChainStep{}).Error
}
