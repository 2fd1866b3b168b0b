package leavetype

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	lterrors "go-leave/internal/leavetype/errors"
	"go-leave/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const optionsKeyPrefix = "leavetype:options:"

func optionsKey(companyID string) string {
	return fmt.Sprintf("%s%s", optionsKeyPrefix, companyID)
}

//go:generate mockgen -source=leavetype_service.go -destination=mock/leavetype_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, req CreateLeaveTypeRequest) (LeaveTypeResponse, error)
	GetAll(ctx context.Context, companyID string) ([]LeaveTypeResponse, error)
	GetByID(ctx context.Context, companyID, id string) (LeaveTypeResponse, error)
	Update(ctx context.Context, companyID, id string, req UpdateLeaveTypeRequest) (LeaveTypeResponse, error)
	Delete(ctx context.Context, companyID, id string) error
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("leavetype.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavetype.service")
	}
	return &service{repo: repo, rdb: rdb, logger: l}
}

func (s *service) Create(ctx context.Context, companyID string, req CreateLeaveTypeRequest) (LeaveTypeResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return LeaveTypeResponse{}, apperror.InvalidField("company_id")
	}

	lt, err := buildLeaveType(req)
	if err != nil {
		return LeaveTypeResponse{}, err
	}
	lt.ID = uuid.New()
	lt.CompanyID = companyUUID

	if lt.IsCompensatory {
		if err := s.checkCompensatoryUnique(ctx, companyID, ""); err != nil {
			return LeaveTypeResponse{}, err
		}
	}

	if err := s.repo.Create(ctx, lt); err != nil {
		if isUniqueViolation(err) {
			return LeaveTypeResponse{}, lterrors.CompensatoryTypeExists
		}
		s.logger.Error("create leave type persist failed", zap.Error(err))
		return LeaveTypeResponse{}, err
	}

	s.invalidateOptions(ctx, companyID)
	return mapLeaveType(*lt), nil
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]LeaveTypeResponse, error) {
	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, optionsKey(companyID)).Result()
		if err == nil {
			var resp []LeaveTypeResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return resp, nil
			}
		}
	}

	types, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	resp := make([]LeaveTypeResponse, len(types))
	for i, lt := range types {
		resp[i] = mapLeaveType(lt)
	}

	if s.rdb != nil {
		if jsonData, err := json.Marshal(resp); err == nil {
			s.rdb.Set(ctx, optionsKey(companyID), jsonData, 10*time.Minute)
		}
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (LeaveTypeResponse, error) {
	lt, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveTypeResponse{}, lterrors.LeaveTypeNotFound
		}
		return LeaveTypeResponse{}, err
	}
	return mapLeaveType(*lt), nil
}

func (s *service) Update(ctx context.Context, companyID, id string, req UpdateLeaveTypeRequest) (LeaveTypeResponse, error) {
	existing, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveTypeResponse{}, lterrors.LeaveTypeNotFound
		}
		return LeaveTypeResponse{}, err
	}

	updated, err := buildLeaveType(CreateLeaveTypeRequest(req))
	if err != nil {
		return LeaveTypeResponse{}, err
	}
	updated.ID = existing.ID
	updated.CompanyID = existing.CompanyID
	updated.CreatedAt = existing.CreatedAt

	if updated.IsCompensatory && !existing.IsCompensatory {
		if err := s.checkCompensatoryUnique(ctx, companyID, id); err != nil {
			return LeaveTypeResponse{}, err
		}
	}

	if err := s.repo.Update(ctx, updated); err != nil {
		if isUniqueViolation(err) {
			return LeaveTypeResponse{}, lterrors.CompensatoryTypeExists
		}
		s.logger.Error("update leave type persist failed", zap.String("leave_type_id", id), zap.Error(err))
		return LeaveTypeResponse{}, err
	}

	s.invalidateOptions(ctx, companyID)
	return mapLeaveType(*updated), nil
}

func (s *service) Delete(ctx context.Context, companyID, id string) error {
	if _, err := s.repo.FindByIDAndCompany(ctx, companyID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return lterrors.LeaveTypeNotFound
		}
		return err
	}

	if err := s.repo.Delete(ctx, companyID, id); err != nil {
		if isForeignKeyViolation(err) {
			return lterrors.LeaveTypeInUse
		}
		s.logger.Error("delete leave type failed", zap.String("leave_type_id", id), zap.Error(err))
		return err
	}

	s.invalidateOptions(ctx, companyID)
	return nil
}

// checkCompensatoryUnique rejects a second compensatory type; selfID allows
// updates to keep the flag on the current holder.
func (s *service) checkCompensatoryUnique(ctx context.Context, companyID, selfID string) error {
	existing, err := s.repo.FindCompensatoryByCompany(ctx, companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if existing.ID.String() == selfID {
		return nil
	}
	return lterrors.CompensatoryTypeExists
}

func (s *service) invalidateOptions(ctx context.Context, companyID string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, optionsKey(companyID)).Err(); err != nil {
		s.logger.Warn("invalidate leave type cache failed", zap.String("company_id", companyID), zap.Error(err))
	}
}

func buildLeaveType(req CreateLeaveTypeRequest) (*LeaveType, error) {
	count, err := decimal.NewFromString(req.Count)
	if err != nil || count.IsNegative() {
		return nil, apperror.InvalidField("count")
	}
	totalDays, err := decimal.NewFromString(req.TotalDays)
	if err != nil || totalDays.IsNegative() {
		return nil, apperror.InvalidField("total_days")
	}

	lt := &LeaveType{
		Name:                req.Name,
		Count:               count,
		PeriodIn:            req.PeriodIn,
		TotalDays:           totalDays,
		Reset:               req.Reset,
		RequireApproval:     true,
		ExcludeCompanyLeave: req.ExcludeCompanyLeave,
		ExcludeHoliday:      req.ExcludeHoliday,
		IsCompensatory:      req.IsCompensatory,
		AssignOnJoin:        req.AssignOnJoin,
	}
	if req.RequireApproval != nil {
		lt.RequireApproval = *req.RequireApproval
	}

	if req.Reset {
		if req.ResetBased == "" {
			return nil, lterrors.InvalidResetPolicy
		}
		lt.ResetBased = req.ResetBased
		switch req.ResetBased {
		case ResetYearly:
			if req.ResetMonth < 1 || req.ResetMonth > 12 {
				return nil, lterrors.InvalidResetPolicy
			}
			lt.ResetMonth = req.ResetMonth
			lt.ResetDay = req.ResetDay
		case ResetMonthly:
			lt.ResetDay = req.ResetDay
		case ResetWeekly:
			lt.ResetWeekday = req.ResetWeekday
		}
		if lt.ResetBased != ResetWeekly {
			if lt.ResetDay == 0 || lt.ResetDay < ResetDayLast || lt.ResetDay > 31 {
				return nil, lterrors.InvalidResetPolicy
			}
		}
	}

	lt.CarryforwardType = req.CarryforwardType
	if lt.CarryforwardType == "" {
		lt.CarryforwardType = CarryforwardNone
	}
	if req.CarryforwardMax != nil {
		maxDays, err := decimal.NewFromString(*req.CarryforwardMax)
		if err != nil || maxDays.IsNegative() {
			return nil, lterrors.InvalidCarryforward
		}
		lt.CarryforwardMax = &maxDays
	}
	if lt.CarryforwardType == CarryforwardWithExpiry {
		if req.CarryforwardExpireIn <= 0 {
			return nil, lterrors.InvalidCarryforward
		}
		lt.CarryforwardExpireIn = req.CarryforwardExpireIn
		lt.CarryforwardExpireUnit = req.CarryforwardExpireUnit
		if lt.CarryforwardExpireUnit == "" {
			lt.CarryforwardExpireUnit = PeriodMonth
		}
	}

	return lt, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

func mapLeaveType(lt LeaveType) LeaveTypeResponse {
	resp := LeaveTypeResponse{
		ID:                     lt.ID.String(),
		CompanyID:              lt.CompanyID.String(),
		Name:                   lt.Name,
		Count:                  lt.Count.String(),
		PeriodIn:               lt.PeriodIn,
		TotalDays:              lt.TotalDays.String(),
		Reset:                  lt.Reset,
		ResetBased:             lt.ResetBased,
		ResetMonth:             lt.ResetMonth,
		ResetDay:               lt.ResetDay,
		ResetWeekday:           lt.ResetWeekday,
		CarryforwardType:       lt.CarryforwardType,
		CarryforwardExpireIn:   lt.CarryforwardExpireIn,
		CarryforwardExpireUnit: lt.CarryforwardExpireUnit,
		RequireApproval:        lt.RequireApproval,
		ExcludeCompanyLeave:    lt.ExcludeCompanyLeave,
		ExcludeHoliday:         lt.ExcludeHoliday,
		IsCompensatory:         lt.IsCompensatory,
		AssignOnJoin:           lt.AssignOnJoin,
	}
	if lt.CarryforwardMax != nil {
		maxStr := lt.CarryforwardMax.String()
		resp.CarryforwardMax = &maxStr
	}
	return resp
}
