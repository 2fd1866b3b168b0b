package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Employee is the read-only directory surface this service consumes. The
// directory itself is owned by an external collaborator; only the fields the
// leave workflows need are mapped here.
type Employee struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CompanyID    uuid.UUID  `gorm:"type:uuid;index"`
	DepartmentID *uuid.UUID `gorm:"type:uuid"`
	PositionID   *uuid.UUID `gorm:"type:uuid"`
	ManagerID    *uuid.UUID `gorm:"type:uuid"`
	FullName     string
	Email        string `gorm:"uniqueIndex"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}
