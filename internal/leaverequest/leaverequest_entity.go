package leaverequest

import (
	"time"

	"go-leave/internal/daycount"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	StatusRequested = "requested"
	StatusApproved  = "approved"
	StatusCancelled = "cancelled"
	StatusRejected  = "rejected"
)

// LeaveRequest is one employee's request for a date range of one leave type.
// ApprovedAvailableDays and ApprovedCarryforwardDays record the exact debit
// split taken at approval so cancellation can restore it.
type LeaveRequest struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID   uuid.UUID `gorm:"type:uuid;not null;index"`
	EmployeeID  uuid.UUID `gorm:"type:uuid;not null;index"`
	LeaveTypeID uuid.UUID `gorm:"type:uuid;not null;index"`

	RequestNumber string `gorm:"type:varchar(20);not null;uniqueIndex"`

	StartDate time.Time     `gorm:"type:date;not null;index"`
	EndDate   time.Time     `gorm:"type:date;not null;index"`
	StartHalf daycount.Half `gorm:"type:varchar(20);not null;default:'full_day'"`
	EndHalf   daycount.Half `gorm:"type:varchar(20);not null;default:'full_day'"`

	RequestedDays decimal.Decimal `gorm:"type:numeric(8,2);not null"`

	Status      string `gorm:"type:varchar(20);not null;default:'requested';index"`
	Description string `gorm:"type:text"`

	ApprovedAvailableDays    decimal.Decimal `gorm:"type:numeric(8,2);not null;default:0"`
	ApprovedCarryforwardDays decimal.Decimal `gorm:"type:numeric(8,2);not null;default:0"`

	LeaveClashesCount int `gorm:"not null;default:0"`

	RejectReason string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

// Terminal reports whether the request reached a final state.
func (lr *LeaveRequest) Terminal() bool {
	return lr.Status == StatusCancelled || lr.Status == StatusRejected
}
