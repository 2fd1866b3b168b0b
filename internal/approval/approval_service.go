package approval

import (
	"context"
	"errors"
	"sort"

	approvalerrors "go-leave/internal/approval/errors"
	"go-leave/internal/domain"
	"go-leave/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=approval_service.go -destination=mock/approval_service_mock.go -package=mock
type Service interface {
	CreateCondition(ctx context.Context, companyID string, req CreateConditionRequest) (ConditionResponse, error)
	GetConditions(ctx context.Context, companyID string) ([]ConditionResponse, error)
	GetCondition(ctx context.Context, companyID, id string) (ConditionResponse, error)
	UpdateCondition(ctx context.Context, companyID, id string, req UpdateConditionRequest) (ConditionResponse, error)
	DeleteCondition(ctx context.Context, companyID, id string) error

	// ResolveChain finds the matching condition for a request and creates its
	// pending steps. It reports false when no condition matches, which sends
	// the request down the direct approval path.
	ResolveChain(ctx context.Context, companyID, departmentID, leaveRequestID string, days decimal.Decimal) (bool, error)

	// RebuildChain discards any existing steps and resolves again, used when
	// an edit changes the requested days.
	RebuildChain(ctx context.Context, companyID, departmentID, leaveRequestID string, days decimal.Decimal) (bool, error)

	// Approve settles the actor's pending step. It reports true when the
	// whole chain is now approved. A privileged actor settles every pending
	// step at once.
	Approve(ctx context.Context, companyID, leaveRequestID string, actor domain.Actor) (bool, error)

	// CloseChain force-settles all pending steps, used on reject and cancel.
	CloseChain(ctx context.Context, companyID, leaveRequestID, status string) error

	GetChain(ctx context.Context, companyID, leaveRequestID string) ([]ChainStepResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("approval.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("approval.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) CreateCondition(ctx context.Context, companyID string, req CreateConditionRequest) (ConditionResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return ConditionResponse{}, apperror.InvalidField("company_id")
	}

	c, err := buildCondition(req)
	if err != nil {
		return ConditionResponse{}, err
	}
	c.ID = uuid.New()
	c.CompanyID = companyUUID
	for i := range c.Managers {
		c.Managers[i].ID = uuid.New()
		c.Managers[i].ConditionID = c.ID
	}

	if err := s.repo.CreateCondition(ctx, c); err != nil {
		s.logger.Error("create condition persist failed", zap.Error(err))
		return ConditionResponse{}, err
	}
	return mapCondition(*c), nil
}

func (s *service) GetConditions(ctx context.Context, companyID string) ([]ConditionResponse, error) {
	conditions, err := s.repo.FindConditionsByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	resp := make([]ConditionResponse, len(conditions))
	for i, c := range conditions {
		resp[i] = mapCondition(c)
	}
	return resp, nil
}

func (s *service) GetCondition(ctx context.Context, companyID, id string) (ConditionResponse, error) {
	c, err := s.repo.FindConditionByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ConditionResponse{}, approvalerrors.ConditionNotFound
		}
		return ConditionResponse{}, err
	}
	return mapCondition(*c), nil
}

func (s *service) UpdateCondition(ctx context.Context, companyID, id string, req UpdateConditionRequest) (ConditionResponse, error) {
	existing, err := s.repo.FindConditionByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ConditionResponse{}, approvalerrors.ConditionNotFound
		}
		return ConditionResponse{}, err
	}

	updated, err := buildCondition(req)
	if err != nil {
		return ConditionResponse{}, err
	}
	updated.ID = existing.ID
	updated.CompanyID = existing.CompanyID
	updated.CreatedAt = existing.CreatedAt
	for i := range updated.Managers {
		updated.Managers[i].ID = uuid.New()
		updated.Managers[i].ConditionID = existing.ID
	}

	if err := s.repo.UpdateCondition(ctx, updated); err != nil {
		s.logger.Error("update condition persist failed", zap.String("condition_id", id), zap.Error(err))
		return ConditionResponse{}, err
	}
	if err := s.repo.ReplaceConditionManagers(ctx, id, updated.Managers); err != nil {
		s.logger.Error("replace condition managers failed", zap.String("condition_id", id), zap.Error(err))
		return ConditionResponse{}, err
	}
	return mapCondition(*updated), nil
}

func (s *service) DeleteCondition(ctx context.Context, companyID, id string) error {
	if _, err := s.repo.FindConditionByIDAndCompany(ctx, companyID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return approvalerrors.ConditionNotFound
		}
		return err
	}
	return s.repo.DeleteCondition(ctx, companyID, id)
}

func (s *service) ResolveChain(ctx context.Context, companyID, departmentID, leaveRequestID string, days decimal.Decimal) (bool, error) {
	conditions, err := s.repo.FindConditionsByDepartment(ctx, companyID, departmentID)
	if err != nil {
		return false, err
	}

	matched := matchCondition(conditions, days)
	if matched == nil {
		return false, nil
	}
	if len(matched.Managers) == 0 {
		s.logger.Warn("matched condition has no managers, falling back to direct approval",
			zap.String("condition_id", matched.ID.String()),
		)
		return false, nil
	}

	steps := make([]ChainStep, len(matched.Managers))
	for i, m := range matched.Managers {
		steps[i] = ChainStep{
			ID:             uuid.New(),
			CompanyID:      matched.CompanyID,
			LeaveRequestID: uuid.MustParse(leaveRequestID),
			ManagerID:      m.EmployeeID,
			Sequence:       m.Sequence,
			Status:         StepRequested,
		}
	}
	if err := s.repo.CreateChainSteps(ctx, steps); err != nil {
		s.logger.Error("create chain steps failed", zap.String("leave_request_id", leaveRequestID), zap.Error(err))
		return false, err
	}
	return true, nil
}

func (s *service) RebuildChain(ctx context.Context, companyID, departmentID, leaveRequestID string, days decimal.Decimal) (bool, error) {
	if err := s.repo.DeleteChainByRequest(ctx, companyID, leaveRequestID); err != nil {
		return false, err
	}
	return s.ResolveChain(ctx, companyID, departmentID, leaveRequestID, days)
}

func (s *service) Approve(ctx context.Context, companyID, leaveRequestID string, actor domain.Actor) (bool, error) {
	steps, err := s.repo.FindChainByRequest(ctx, companyID, leaveRequestID)
	if err != nil {
		return false, err
	}
	if len(steps) == 0 {
		// No chain means the direct path: resolution decided at creation.
		return true, nil
	}

	if actor.Privileged() {
		if err := s.repo.UpdateChainStatusByRequest(ctx, companyID, leaveRequestID, StepApproved); err != nil {
			return false, err
		}
		return true, nil
	}

	// A manager may settle their own pending row at any point in the
	// sequence; order only matters for completion, not for recording.
	var own *ChainStep
	for i := range steps {
		step := &steps[i]
		if step.Status == StepRequested && step.ManagerID.String() == actor.EmployeeID {
			own = step
			break
		}
	}
	if own == nil {
		return false, approvalerrors.NotYourStep
	}

	own.Status = StepApproved
	if err := s.repo.UpdateChainStep(ctx, own); err != nil {
		return false, err
	}

	for i := range steps {
		if steps[i].Status == StepRequested {
			return false, nil
		}
	}
	return true, nil
}

func (s *service) CloseChain(ctx context.Context, companyID, leaveRequestID, status string) error {
	return s.repo.UpdateChainStatusByRequest(ctx, companyID, leaveRequestID, status)
}

func (s *service) GetChain(ctx context.Context, companyID, leaveRequestID string) ([]ChainStepResponse, error) {
	steps, err := s.repo.FindChainByRequest(ctx, companyID, leaveRequestID)
	if err != nil {
		return nil, err
	}
	resp := make([]ChainStepResponse, len(steps))
	for i, step := range steps {
		resp[i] = ChainStepResponse{
			ID:             step.ID.String(),
			LeaveRequestID: step.LeaveRequestID.String(),
			ManagerID:      step.ManagerID.String(),
			Sequence:       step.Sequence,
			Status:         step.Status,
		}
	}
	return resp, nil
}

// matchCondition picks the matching condition with the lowest threshold so
// overlapping rules resolve deterministically.
func matchCondition(conditions []Condition, days decimal.Decimal) *Condition {
	matched := make([]*Condition, 0, len(conditions))
	for i := range conditions {
		if conditions[i].Matches(days) {
			matched = append(matched, &conditions[i])
		}
	}
	if len(matched) == 0 {
		return nil
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].SortValue().LessThan(matched[j].SortValue())
	})
	return matched[0]
}

func buildCondition(req CreateConditionRequest) (*Condition, error) {
	c := &Condition{
		DepartmentID: uuid.MustParse(req.DepartmentID),
		Operator:     req.Operator,
	}

	parse := func(s *string) (*decimal.Decimal, error) {
		if s == nil {
			return nil, nil
		}
		d, err := decimal.NewFromString(*s)
		if err != nil {
			return nil, approvalerrors.InvalidCondition
		}
		return &d, nil
	}

	var err error
	if c.Value, err = parse(req.Value); err != nil {
		return nil, err
	}
	if c.RangeStart, err = parse(req.RangeStart); err != nil {
		return nil, err
	}
	if c.RangeEnd, err = parse(req.RangeEnd); err != nil {
		return nil, err
	}

	if req.Operator == OpRange {
		if c.RangeStart == nil || c.RangeEnd == nil || c.RangeEnd.LessThan(*c.RangeStart) {
			return nil, approvalerrors.InvalidCondition
		}
	} else if c.Value == nil {
		return nil, approvalerrors.InvalidCondition
	}

	if len(req.Managers) == 0 {
		return nil, approvalerrors.NoManagers
	}
	managers := make([]ConditionManager, len(req.Managers))
	seen := map[int]bool{}
	for i, m := range req.Managers {
		if seen[m.Sequence] {
			return nil, approvalerrors.InvalidCondition
		}
		seen[m.Sequence] = true
		managers[i] = ConditionManager{
			EmployeeID: uuid.MustParse(m.EmployeeID),
			Sequence:   m.Sequence,
		}
	}
	sort.Slice(managers, func(i, j int) bool { return managers[i].Sequence < managers[j].Sequence })
	c.Managers = managers

	return c, nil
}

func mapCondition(c Condition) ConditionResponse {
	resp := ConditionResponse{
		ID:           c.ID.String(),
		CompanyID:    c.CompanyID.String(),
		DepartmentID: c.DepartmentID.String(),
		Operator:     c.Operator,
		Managers:     make([]ConditionManagerResponse, len(c.Managers)),
	}
	str := func(d *decimal.Decimal) *string {
		if d == nil {
			return nil
		}
		s := d.String()
		return &s
	}
	resp.Value = str(c.Value)
	resp.RangeStart = str(c.RangeStart)
	resp.RangeEnd = str(c.RangeEnd)
	for i, m := range c.Managers {
		resp.Managers[i] = ConditionManagerResponse{
			EmployeeID: m.EmployeeID.String(),
			Sequence:   m.Sequence,
		}
	}
	return resp
}
