package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AvailableLeave is one employee's balance row for one leave type. Writes go
// through optimistic versioning: every mutation bumps Version and the update
// predicate includes the version read.
type AvailableLeave struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID   uuid.UUID `gorm:"type:uuid;not null;index"`
	EmployeeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_available_employee_type"`
	LeaveTypeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_available_employee_type"`

	AvailableDays    decimal.Decimal `gorm:"type:numeric(8,2);not null;default:0"`
	CarryforwardDays decimal.Decimal `gorm:"type:numeric(8,2);not null;default:0"`
	TotalLeaveDays   decimal.Decimal `gorm:"type:numeric(8,2);not null;default:0"`

	AssignedDate time.Time  `gorm:"type:date;not null"`
	ResetDate    *time.Time `gorm:"type:date;index"`
	ExpiredDate  *time.Time `gorm:"type:date;index"`

	Version int64 `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (AvailableLeave) TableName() string {
	return "available_leaves"
}

// RecomputeTotal keeps the derived total in step with its parts. The total
// never goes below zero even when a component does.
func (al *AvailableLeave) RecomputeTotal() {
	total := al.AvailableDays.Add(al.CarryforwardDays)
	if total.IsNegative() {
		total = decimal.Zero
	}
	al.TotalLeaveDays = total
}

// DebitSplit records how a debit was taken from the two balance buckets.
type DebitSplit struct {
	Available    decimal.Decimal
	Carryforward decimal.Decimal
}

func (s DebitSplit) Total() decimal.Decimal {
	return s.Available.Add(s.Carryforward)
}
