package attendance

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Attendance is the worked-day record surface consumed by the compensatory
// leave workflow. Attendance capture is owned by an external collaborator.
type Attendance struct {
	ID             uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID      uuid.UUID      `gorm:"column:company_id;type:uuid;not null;index"`
	EmployeeID     uuid.UUID      `gorm:"column:employee_id;type:uuid;not null;index"`
	AttendanceDate time.Time      `gorm:"column:attendance_date;type:date;not null;index"`
	WorkedHours    float64        `gorm:"column:worked_hours;not null;default:0"`
	Status         string         `gorm:"column:status;type:varchar(20);not null;default:PRESENT"`
	CreatedAt      time.Time      `gorm:"column:created_at"`
	UpdatedAt      time.Time      `gorm:"column:updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (Attendance) TableName() string {
	return "attendances"
}
