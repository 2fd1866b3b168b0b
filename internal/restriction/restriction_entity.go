package restriction

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RestrictLeave blocks leave requests of one department over a date window.
// An empty position list applies the block to the whole department.
type RestrictLeave struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID    uuid.UUID `gorm:"type:uuid;not null;index"`
	DepartmentID uuid.UUID `gorm:"type:uuid;not null;index"`

	Title       string    `gorm:"type:varchar(150);not null"`
	Description string    `gorm:"type:text"`
	StartDate   time.Time `gorm:"type:date;not null"`
	EndDate     time.Time `gorm:"type:date;not null"`

	Positions []RestrictLeavePosition `gorm:"foreignKey:RestrictLeaveID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (RestrictLeave) TableName() string {
	return "restrict_leaves"
}

type RestrictLeavePosition struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RestrictLeaveID uuid.UUID `gorm:"type:uuid;not null;index"`
	PositionID      uuid.UUID `gorm:"type:uuid;not null"`
}

func (RestrictLeavePosition) TableName() string {
	return "restrict_leave_positions"
}

// AppliesTo reports whether the block covers an employee in the given
// position requesting the inclusive date range.
func (r *RestrictLeave) AppliesTo(positionID *uuid.UUID, start, end time.Time) bool {
	if start.After(r.EndDate) || end.Before(r.StartDate) {
		return false
	}
	if len(r.Positions) == 0 {
		return true
	}
	if positionID == nil {
		return false
	}
	for _, p := range r.Positions {
		if p.PositionID == *positionID {
			return true
		}
	}
	return false
}
