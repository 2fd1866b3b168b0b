package leaverequest

import (
	"context"
	"time"

	"go-leave/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leaverequest_repo.go -destination=mock/leaverequest_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, lr *LeaveRequest) error
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*LeaveRequest, error)
	FindAllByCompany(ctx context.Context, companyID string, filter ListFilter) ([]LeaveRequest, int64, error)
	FindByEmployee(ctx context.Context, companyID, employeeID string) ([]LeaveRequest, error)

	// FindOverlapping returns the employee's non-terminal requests that
	// intersect the inclusive range, excluding excludeID when non-empty.
	FindOverlapping(ctx context.Context, companyID, employeeID string, start, end time.Time, excludeID string) ([]LeaveRequest, error)

	Update(ctx context.Context, lr *LeaveRequest) error
	Delete(ctx context.Context, companyID, id string) error

	// RecountClashes recomputes clash counts for every row touching the
	// given window, including the named request itself. The window is passed
	// explicitly so peers can be refreshed after the row turns terminal or
	// is deleted.
	RecountClashes(ctx context.Context, companyID, requestID string, start, end time.Time) error
}

// ListFilter narrows and pages the company listing.
type ListFilter struct {
	Status      string
	EmployeeID  string
	LeaveTypeID string
	From        *time.Time
	To          *time.Time
	Page        int
	PageSize    int
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, lr *LeaveRequest) error {
	return r.db.WithContext(ctx).Create(lr).Error
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*LeaveRequest, error) {
	var lr LeaveRequest
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&lr, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &lr, nil
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string, filter ListFilter) ([]LeaveRequest, int64, error) {
	q := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Scopes(tenant.Scope(companyID))

	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.EmployeeID != "" {
		q = q.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.LeaveTypeID != "" {
		q = q.Where("leave_type_id = ?", filter.LeaveTypeID)
	}
	if filter.From != nil {
		q = q.Where("end_date >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("start_date <= ?", *filter.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var rows []LeaveRequest
	err := q.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&rows).Error
	return rows, total, err
}

func (r *repository) FindByEmployee(ctx context.Context, companyID, employeeID string) ([]LeaveRequest, error) {
	var rows []LeaveRequest
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND employee_id = ?", companyID, employeeID).
		Order("start_date DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindOverlapping(ctx context.Context, companyID, employeeID string, start, end time.Time, excludeID string) ([]LeaveRequest, error) {
	q := r.db.WithContext(ctx).
		Where("company_id = ? AND employee_id = ?", companyID, employeeID).
		Where("status NOT IN ?", []string{StatusCancelled, StatusRejected}).
		Where("start_date <= ? AND end_date >= ?", end, start)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}

	var rows []LeaveRequest
	err := q.Find(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, lr *LeaveRequest) error {
	return r.db.WithContext(ctx).Save(lr).Error
}

func (r *repository) Delete(ctx context.Context, companyID, id string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Delete(&LeaveRequest{}, "id = ?", id).Error
}

// Two requests clash when their ranges intersect, both are non-terminal, and
// the employees share a department or a position. The count is recomputed
// only for rows touching the changed window instead of the whole table.
func (r *repository) RecountClashes(ctx context.Context, companyID, requestID string, start, end time.Time) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE leave_requests lr
		SET leave_clashes_count = (
			SELECT COUNT(*)
			FROM leave_requests peer
			JOIN employees pe ON pe.id = peer.employee_id
			JOIN employees le ON le.id = lr.employee_id
			WHERE peer.company_id = lr.company_id
			  AND peer.id <> lr.id
			  AND peer.deleted_at IS NULL
			  AND peer.status NOT IN ('cancelled', 'rejected')
			  AND lr.status NOT IN ('cancelled', 'rejected')
			  AND peer.start_date <= lr.end_date
			  AND peer.end_date >= lr.start_date
			  AND (pe.department_id = le.department_id OR pe.position_id = le.position_id)
		)
		WHERE lr.company_id = ?
		  AND lr.deleted_at IS NULL
		  AND (lr.id = ? OR (lr.start_date <= ? AND lr.end_date >= ?))
	`, companyID, requestID, end, start).Error
}
