package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	calendarerrors "go-leave/internal/calendar/errors"
	"go-leave/internal/daycount"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const yearIndexKeyPrefix = "calendar:year:"

func yearIndexKey(companyID string, year int) string {
	return fmt.Sprintf("%s%s:%d", yearIndexKeyPrefix, companyID, year)
}

//go:generate mockgen -source=calendar_service.go -destination=mock/calendar_service_mock.go -package=mock
type Service interface {
	CreateHoliday(ctx context.Context, companyID string, req CreateHolidayRequest) (HolidayResponse, error)
	GetHolidays(ctx context.Context, companyID string) ([]HolidayResponse, error)
	UpdateHoliday(ctx context.Context, companyID, id string, req UpdateHolidayRequest) (HolidayResponse, error)
	DeleteHoliday(ctx context.Context, companyID, id string) error

	CreateCompanyLeave(ctx context.Context, companyID string, req CreateCompanyLeaveRequest) (CompanyLeaveResponse, error)
	GetCompanyLeaves(ctx context.Context, companyID string) ([]CompanyLeaveResponse, error)
	DeleteCompanyLeave(ctx context.Context, companyID, id string) error

	// YearIndexFor returns the expanded excluded-date index of one year,
	// cached per (company, year).
	YearIndexFor(ctx context.Context, companyID string, year int) (*YearIndex, error)

	// ExcludedCount counts the calendar days of the inclusive range excluded
	// under the given flags. Dates present as both holiday and company-off
	// are counted once.
	ExcludedCount(ctx context.Context, companyID string, start, end time.Time, excludeHoliday, excludeCompany bool) (int, error)
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("calendar.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("calendar.service")
	}
	return &service{repo: repo, rdb: rdb, sf: &singleflight.Group{}, logger: l}
}

func (s *service) CreateHoliday(ctx context.Context, companyID string, req CreateHolidayRequest) (HolidayResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return HolidayResponse{}, calendarerrors.ErrInvalidCompanyID
	}
	start, end, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		return HolidayResponse{}, err
	}

	h := &Holiday{
		ID:        uuid.New(),
		CompanyID: companyUUID,
		Name:      req.Name,
		StartDate: start,
		EndDate:   end,
		Recurring: req.Recurring,
	}
	if err := s.repo.CreateHoliday(ctx, h); err != nil {
		s.logger.Error("create holiday persist failed", zap.Error(err))
		return HolidayResponse{}, err
	}

	s.invalidateYearCache(ctx, companyID)
	return mapHoliday(*h), nil
}

func (s *service) GetHolidays(ctx context.Context, companyID string) ([]HolidayResponse, error) {
	holidays, err := s.repo.FindHolidaysByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	resp := make([]HolidayResponse, len(holidays))
	for i, h := range holidays {
		resp[i] = mapHoliday(h)
	}
	return resp, nil
}

func (s *service) UpdateHoliday(ctx context.Context, companyID, id string, req UpdateHolidayRequest) (HolidayResponse, error) {
	start, end, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		return HolidayResponse{}, err
	}

	h, err := s.repo.FindHolidayByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return HolidayResponse{}, calendarerrors.ErrHolidayNotFound
		}
		return HolidayResponse{}, err
	}

	h.Name = req.Name
	h.StartDate = start
	h.EndDate = end
	h.Recurring = req.Recurring

	if err := s.repo.UpdateHoliday(ctx, h); err != nil {
		s.logger.Error("update holiday persist failed", zap.String("holiday_id", id), zap.Error(err))
		return HolidayResponse{}, err
	}

	s.invalidateYearCache(ctx, companyID)
	return mapHoliday(*h), nil
}

func (s *service) DeleteHoliday(ctx context.Context, companyID, id string) error {
	if _, err := s.repo.FindHolidayByIDAndCompany(ctx, companyID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return calendarerrors.ErrHolidayNotFound
		}
		return err
	}
	if err := s.repo.DeleteHoliday(ctx, companyID, id); err != nil {
		return err
	}
	s.invalidateYearCache(ctx, companyID)
	return nil
}

func (s *service) CreateCompanyLeave(ctx context.Context, companyID string, req CreateCompanyLeaveRequest) (CompanyLeaveResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return CompanyLeaveResponse{}, calendarerrors.ErrInvalidCompanyID
	}
	if req.BasedOnWeek != nil && (*req.BasedOnWeek < 1 || *req.BasedOnWeek > 5) {
		return CompanyLeaveResponse{}, calendarerrors.ErrInvalidWeek
	}
	if req.BasedOnWeekday < 0 || req.BasedOnWeekday > 6 {
		return CompanyLeaveResponse{}, calendarerrors.ErrInvalidWeekday
	}

	cl := &CompanyLeave{
		ID:             uuid.New(),
		CompanyID:      companyUUID,
		BasedOnWeek:    req.BasedOnWeek,
		BasedOnWeekday: req.BasedOnWeekday,
	}
	if err := s.repo.CreateCompanyLeave(ctx, cl); err != nil {
		s.logger.Error("create company leave persist failed", zap.Error(err))
		return CompanyLeaveResponse{}, err
	}

	s.invalidateYearCache(ctx, companyID)
	return mapCompanyLeave(*cl), nil
}

func (s *service) GetCompanyLeaves(ctx context.Context, companyID string) ([]CompanyLeaveResponse, error) {
	leaves, err := s.repo.FindCompanyLeavesByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	resp := make([]CompanyLeaveResponse, len(leaves))
	for i, cl := range leaves {
		resp[i] = mapCompanyLeave(cl)
	}
	return resp, nil
}

func (s *service) DeleteCompanyLeave(ctx context.Context, companyID, id string) error {
	if _, err := s.repo.FindCompanyLeaveByIDAndCompany(ctx, companyID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return calendarerrors.ErrCompanyLeaveNotFound
		}
		return err
	}
	if err := s.repo.DeleteCompanyLeave(ctx, companyID, id); err != nil {
		return err
	}
	s.invalidateYearCache(ctx, companyID)
	return nil
}

func (s *service) YearIndexFor(ctx context.Context, companyID string, year int) (*YearIndex, error) {
	cacheKey := yearIndexKey(companyID, year)

	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, cacheKey).Result()
		if err == nil {
			var idx YearIndex
			if err := json.Unmarshal([]byte(cached), &idx); err == nil {
				return &idx, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		holidays, err := s.repo.FindHolidaysByCompany(ctx, companyID)
		if err != nil {
			return nil, err
		}
		companyLeaves, err := s.repo.FindCompanyLeavesByCompany(ctx, companyID)
		if err != nil {
			return nil, err
		}

		idx := BuildYearIndex(year, holidays, companyLeaves)

		if s.rdb != nil {
			if jsonData, err := json.Marshal(idx); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, 6*time.Hour)
			}
		}
		return idx, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*YearIndex), nil
}

func (s *service) ExcludedCount(ctx context.Context, companyID string, start, end time.Time, excludeHoliday, excludeCompany bool) (int, error) {
	if !excludeHoliday && !excludeCompany {
		return 0, nil
	}

	indexes := make(map[int]*YearIndex)
	count := 0
	for _, d := range daycount.Dates(start, end) {
		idx, ok := indexes[d.Year()]
		if !ok {
			var err error
			idx, err = s.YearIndexFor(ctx, companyID, d.Year())
			if err != nil {
				return 0, err
			}
			indexes[d.Year()] = idx
		}
		if idx.Excluded(d, excludeHoliday, excludeCompany) {
			count++
		}
	}
	return count, nil
}

// invalidateYearCache drops the cached indexes of the years around now.
// Recurring rules make the affected years unbounded, but a short window is
// all anyone queries; older entries age out via TTL.
func (s *service) invalidateYearCache(ctx context.Context, companyID string) {
	if s.rdb == nil {
		return
	}
	thisYear := time.Now().UTC().Year()
	for year := thisYear - 1; year <= thisYear+2; year++ {
		cacheKey := yearIndexKey(companyID, year)
		if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
			s.logger.Warn("invalidate calendar cache failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}
}

func parseRange(startStr, endStr string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01-02", startStr)
	if err != nil {
		return time.Time{}, time.Time{}, calendarerrors.ErrInvalidDateFormat
	}
	end, err := time.Parse("2006-01-02", endStr)
	if err != nil {
		return time.Time{}, time.Time{}, calendarerrors.ErrInvalidDateFormat
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, calendarerrors.ErrInvalidDateRange
	}
	return start, end, nil
}

func mapHoliday(h Holiday) HolidayResponse {
	return HolidayResponse{
		ID:        h.ID.String(),
		CompanyID: h.CompanyID.String(),
		Name:      h.Name,
		StartDate: h.StartDate.Format("2006-01-02"),
		EndDate:   h.EndDate.Format("2006-01-02"),
		Recurring: h.Recurring,
	}
}

func mapCompanyLeave(cl CompanyLeave) CompanyLeaveResponse {
	return CompanyLeaveResponse{
		ID:             cl.ID.String(),
		CompanyID:      cl.CompanyID.String(),
		BasedOnWeek:    cl.BasedOnWeek,
		BasedOnWeekday: cl.BasedOnWeekday,
	}
}
