package leavetype

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	PeriodDay   = "day"
	PeriodMonth = "month"
	PeriodYear  = "year"
)

const (
	ResetYearly  = "yearly"
	ResetMonthly = "monthly"
	ResetWeekly  = "weekly"
)

const (
	CarryforwardNone       = "no_carryforward"
	CarryforwardKeep       = "carryforward"
	CarryforwardWithExpiry = "carryforward_expire"
)

// ResetDayLast is the sentinel for "last day of the month" in ResetDay.
const ResetDayLast = -1

type LeaveType struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"type:varchar(100);not null"`

	// Accrual quantum: Count days granted per PeriodIn.
	Count    decimal.Decimal `gorm:"type:numeric(6,2);not null;default:1"`
	PeriodIn string          `gorm:"type:varchar(10);not null;default:'year'"`

	// Days granted on each assignment and restored on reset.
	TotalDays decimal.Decimal `gorm:"type:numeric(6,2);not null;default:1"`

	Reset        bool   `gorm:"not null;default:false"`
	ResetBased   string `gorm:"type:varchar(10)"`
	ResetMonth   int    `gorm:"type:int;default:1"`
	ResetDay     int    `gorm:"type:int;default:1"` // -1 = last day of month
	ResetWeekday int    `gorm:"type:int;default:1"` // time.Weekday numbering

	CarryforwardType       string           `gorm:"type:varchar(20);not null;default:'no_carryforward'"`
	CarryforwardMax        *decimal.Decimal `gorm:"type:numeric(6,2)"` // nil = unbounded
	CarryforwardExpireIn   int              `gorm:"type:int;default:0"`
	CarryforwardExpireUnit string           `gorm:"type:varchar(10);default:'month'"`

	RequireApproval     bool `gorm:"not null;default:true"`
	ExcludeCompanyLeave bool `gorm:"not null;default:false"`
	ExcludeHoliday      bool `gorm:"not null;default:false"`

	// At most one compensatory type may exist per company; enforced by a
	// partial unique index and re-checked on save.
	IsCompensatory bool `gorm:"not null;default:false;index"`

	// AssignOnJoin types are granted automatically to new employees.
	AssignOnJoin bool `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// CarryforwardEnabled reports whether balance survives a reset.
func (lt *LeaveType) CarryforwardEnabled() bool {
	return lt.CarryforwardType == CarryforwardKeep || lt.CarryforwardType == CarryforwardWithExpiry
}
