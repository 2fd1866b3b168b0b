package restriction

import (
	"context"
	"errors"
	"time"

	"go-leave/internal/domain"
	restrictionerrors "go-leave/internal/restriction/errors"
	"go-leave/internal/shared/apperror"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=restriction_service.go -destination=mock/restriction_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, req CreateRestrictionRequest) (RestrictionResponse, error)
	GetAll(ctx context.Context, companyID string) ([]RestrictionResponse, error)
	GetByID(ctx context.Context, companyID, id string) (RestrictionResponse, error)
	Update(ctx context.Context, companyID, id string, req UpdateRestrictionRequest) (RestrictionResponse, error)
	Delete(ctx context.Context, companyID, id string) error

	// Check fails with LeaveRestricted when an active block covers the
	// employee's department and position over the requested range. Privileged
	// actors bypass the check.
	Check(ctx context.Context, companyID string, departmentID, positionID *uuid.UUID, start, end time.Time, actor domain.Actor) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("restriction.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("restriction.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, companyID string, req CreateRestrictionRequest) (RestrictionResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return RestrictionResponse{}, apperror.InvalidField("company_id")
	}

	rl, err := buildRestriction(req)
	if err != nil {
		return RestrictionResponse{}, err
	}
	rl.ID = uuid.New()
	rl.CompanyID = companyUUID
	for i := range rl.Positions {
		rl.Positions[i].ID = uuid.New()
		rl.Positions[i].RestrictLeaveID = rl.ID
	}

	if err := s.repo.Create(ctx, rl); err != nil {
		s.logger.Error("create restriction persist failed", zap.Error(err))
		return RestrictionResponse{}, err
	}
	return mapRestriction(*rl), nil
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]RestrictionResponse, error) {
	rows, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	resp := make([]RestrictionResponse, len(rows))
	for i, rl := range rows {
		resp[i] = mapRestriction(rl)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (RestrictionResponse, error) {
	rl, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RestrictionResponse{}, restrictionerrors.RestrictionNotFound
		}
		return RestrictionResponse{}, err
	}
	return mapRestriction(*rl), nil
}

func (s *service) Update(ctx context.Context, companyID, id string, req UpdateRestrictionRequest) (RestrictionResponse, error) {
	existing, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RestrictionResponse{}, restrictionerrors.RestrictionNotFound
		}
		return RestrictionResponse{}, err
	}

	updated, err := buildRestriction(req)
	if err != nil {
		return RestrictionResponse{}, err
	}
	updated.ID = existing.ID
	updated.CompanyID = existing.CompanyID
	updated.CreatedAt = existing.CreatedAt
	for i := range updated.Positions {
		updated.Positions[i].ID = uuid.New()
		updated.Positions[i].RestrictLeaveID = existing.ID
	}

	if err := s.repo.Update(ctx, updated); err != nil {
		s.logger.Error("update restriction persist failed", zap.String("restriction_id", id), zap.Error(err))
		return RestrictionResponse{}, err
	}
	if err := s.repo.ReplacePositions(ctx, id, updated.Positions); err != nil {
		s.logger.Error("replace restriction positions failed", zap.String("restriction_id", id), zap.Error(err))
		return RestrictionResponse{}, err
	}
	return mapRestriction(*updated), nil
}

func (s *service) Delete(ctx context.Context, companyID, id string) error {
	if _, err := s.repo.FindByIDAndCompany(ctx, companyID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return restrictionerrors.RestrictionNotFound
		}
		return err
	}
	return s.repo.Delete(ctx, companyID, id)
}

func (s *service) Check(ctx context.Context, companyID string, departmentID, positionID *uuid.UUID, start, end time.Time, actor domain.Actor) error {
	if actor.Privileged() {
		return nil
	}
	if departmentID == nil {
		return nil
	}

	blocks, err := s.repo.FindActive(ctx, companyID, departmentID.String(), start, end)
	if err != nil {
		return err
	}
	for i := range blocks {
		if blocks[i].AppliesTo(positionID, start, end) {
			s.logger.Debug("leave blocked by restriction",
				zap.String("restriction_id", blocks[i].ID.String()),
				zap.String("department_id", departmentID.String()),
			)
			return restrictionerrors.LeaveRestricted
		}
	}
	return nil
}

func buildRestriction(req CreateRestrictionRequest) (*RestrictLeave, error) {
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, apperror.InvalidField("start_date")
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, apperror.InvalidField("end_date")
	}
	if start.After(end) {
		return nil, apperror.InvalidField("end_date")
	}

	rl := &RestrictLeave{
		DepartmentID: uuid.MustParse(req.DepartmentID),
		Title:        req.Title,
		Description:  req.Description,
		StartDate:    start,
		EndDate:      end,
		Positions:    make([]RestrictLeavePosition, len(req.PositionIDs)),
	}
	for i, pid := range req.PositionIDs {
		rl.Positions[i] = RestrictLeavePosition{PositionID: uuid.MustParse(pid)}
	}
	return rl, nil
}

func mapRestriction(rl RestrictLeave) RestrictionResponse {
	positions := make([]string, len(rl.Positions))
	for i, p := range rl.Positions {
		positions[i] = p.PositionID.String()
	}
	return RestrictionResponse{
		ID:           rl.ID.String(),
		CompanyID:    rl.CompanyID.String(),
		DepartmentID: rl.DepartmentID.String(),
		Title:        rl.Title,
		Description:  rl.Description,
		StartDate:    rl.StartDate.Format("2006-01-02"),
		EndDate:      rl.EndDate.Format("2006-01-02"),
		PositionIDs:  positions,
	}
}
