package calendar

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Holiday is a dated company holiday. A recurring holiday is reinterpreted
// into every calendar year using its month and day.
type Holiday struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"type:varchar(100);not null"`
	StartDate time.Time `gorm:"type:date;not null"`
	EndDate   time.Time `gorm:"type:date;not null"`
	Recurring bool      `gorm:"not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// CompanyLeave is a recurring weekly-off rule: the Nth occurrence of a
// weekday in every month, or every occurrence when BasedOnWeek is nil.
type CompanyLeave struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID      uuid.UUID `gorm:"type:uuid;not null;index"`
	BasedOnWeek    *int      `gorm:"type:int"` // 1..5, nil = every occurrence
	BasedOnWeekday int       `gorm:"type:int;not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}
