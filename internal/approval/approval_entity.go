package approval

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	OpEqual        = "equal"
	OpNotEqual     = "not_equal"
	OpLessThan     = "less_than"
	OpGreaterThan  = "greater_than"
	OpLessEqual    = "less_equal"
	OpGreaterEqual = "greater_equal"
	OpRange        = "range"
)

const (
	StepRequested = "requested"
	StepApproved  = "approved"
	StepRejected  = "rejected"
)

// Condition selects leave requests of one department whose requested days
// satisfy the operator, and routes them through its manager sequence.
type Condition struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID    uuid.UUID `gorm:"type:uuid;not null;index"`
	DepartmentID uuid.UUID `gorm:"type:uuid;not null;index"`

	Operator   string           `gorm:"type:varchar(20);not null"`
	Value      *decimal.Decimal `gorm:"type:numeric(8,2)"`
	RangeStart *decimal.Decimal `gorm:"type:numeric(8,2)"`
	RangeEnd   *decimal.Decimal `gorm:"type:numeric(8,2)"`

	Managers []ConditionManager `gorm:"foreignKey:ConditionID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Condition) TableName() string {
	return "approval_conditions"
}

// Matches evaluates the condition against a requested day amount.
func (c *Condition) Matches(days decimal.Decimal) bool {
	switch c.Operator {
	case OpRange:
		if c.RangeStart == nil || c.RangeEnd == nil {
			return false
		}
		return days.GreaterThanOrEqual(*c.RangeStart) && days.LessThanOrEqual(*c.RangeEnd)
	case OpEqual:
		return c.Value != nil && days.Equal(*c.Value)
	case OpNotEqual:
		return c.Value != nil && !days.Equal(*c.Value)
	case OpLessThan:
		return c.Value != nil && days.LessThan(*c.Value)
	case OpGreaterThan:
		return c.Value != nil && days.GreaterThan(*c.Value)
	case OpLessEqual:
		return c.Value != nil && days.LessThanOrEqual(*c.Value)
	case OpGreaterEqual:
		return c.Value != nil && days.GreaterThanOrEqual(*c.Value)
	default:
		return false
	}
}

// SortValue orders overlapping conditions so the lowest threshold wins.
func (c *Condition) SortValue() decimal.Decimal {
	if c.Operator == OpRange {
		if c.RangeStart != nil {
			return *c.RangeStart
		}
		return decimal.Zero
	}
	if c.Value != nil {
		return *c.Value
	}
	return decimal.Zero
}

// ConditionManager is one approver slot in a condition's sequence, starting
// at sequence 1.
type ConditionManager struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ConditionID uuid.UUID `gorm:"type:uuid;not null;index"`
	EmployeeID  uuid.UUID `gorm:"type:uuid;not null"`
	Sequence    int       `gorm:"not null"`

	CreatedAt time.Time
}

func (ConditionManager) TableName() string {
	return "approval_condition_managers"
}

// ChainStep is one manager's pending or settled decision on one leave
// request. Steps are acted on in sequence order.
type ChainStep struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID      uuid.UUID `gorm:"type:uuid;not null;index"`
	LeaveRequestID uuid.UUID `gorm:"type:uuid;not null;index"`
	ManagerID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Sequence       int       `gorm:"not null"`
	Status         string    `gorm:"type:varchar(20);not null;default:'requested'"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ChainStep) TableName() string {
	return "approval_chain_steps"
}
