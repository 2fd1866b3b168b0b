package compensatory

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

// Worked-hours buckets for converting an attendance record into leave credit.
const (
	fullDayHours = 8.0
	halfDayHours = 4.0
)

// CompensatoryLeaveRequest converts days worked on excluded calendar days
// into credit on the company's single compensatory leave type.
type CompensatoryLeaveRequest struct {
	ID            uuid.UUID                `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID     uuid.UUID                `gorm:"column:company_id;type:uuid;not null;index"`
	EmployeeID    uuid.UUID                `gorm:"column:employee_id;type:uuid;not null;index"`
	LeaveTypeID   uuid.UUID                `gorm:"column:leave_type_id;type:uuid;not null"`
	RequestedDays decimal.Decimal          `gorm:"column:requested_days;type:numeric(8,2);not null"`
	Status        string                   `gorm:"column:status;type:varchar(20);not null;default:requested;index"`
	Description   string                   `gorm:"column:description;type:text"`
	RejectReason  string                   `gorm:"column:reject_reason;type:text"`
	Attendances   []CompensatoryAttendance `gorm:"foreignKey:CompensatoryID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time                `gorm:"column:created_at"`
	UpdatedAt     time.Time                `gorm:"column:updated_at"`
	DeletedAt     gorm.DeletedAt           `gorm:"column:deleted_at;index"`
}

func (CompensatoryLeaveRequest) TableName() string {
	return "compensatory_leave_requests"
}

// CompensatoryAttendance links a request to the attendance records it claims.
type CompensatoryAttendance struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	CompensatoryID uuid.UUID `gorm:"column:compensatory_id;type:uuid;not null;index"`
	AttendanceID   uuid.UUID `gorm:"column:attendance_id;type:uuid;not null"`
}

func (CompensatoryAttendance) TableName() string {
	return "compensatory_attendances"
}

// CreditForHours buckets worked hours into leave days: a full working day
// earns 1.0, at least half a day earns 0.5, anything less earns nothing.
func CreditForHours(workedHours float64) decimal.Decimal {
	switch {
	case workedHours >= fullDayHours:
		return decimal.NewFromInt(1)
	case workedHours >= halfDayHours:
		return decimal.NewFromFloat(0.5)
	default:
		return decimal.Zero
	}
}
