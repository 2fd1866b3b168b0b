package allocation

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	StatusRequested = "requested"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
)

// LeaveAllocationRequest asks for extra days on an existing assignment.
// Approval credits available_days directly; nothing is reserved before that,
// so rejection leaves the ledger untouched.
type LeaveAllocationRequest struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID     uuid.UUID       `gorm:"column:company_id;type:uuid;not null;index"`
	EmployeeID    uuid.UUID       `gorm:"column:employee_id;type:uuid;not null;index"`
	LeaveTypeID   uuid.UUID       `gorm:"column:leave_type_id;type:uuid;not null"`
	RequestedDays decimal.Decimal `gorm:"column:requested_days;type:numeric(8,2);not null"`
	Status        string          `gorm:"column:status;type:varchar(20);not null;default:requested;index"`
	Description   string          `gorm:"column:description;type:text"`
	RejectReason  string          `gorm:"column:reject_reason;type:text"`
	CreatedAt     time.Time       `gorm:"column:created_at"`
	UpdatedAt     time.Time       `gorm:"column:updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"column:deleted_at;index"`
}

func (LeaveAllocationRequest) TableName() string {
	return "leave_allocation_requests"
}

func (a *LeaveAllocationRequest) Terminal() bool {
	return a.Status == StatusApproved || a.Status == StatusRejected
}
