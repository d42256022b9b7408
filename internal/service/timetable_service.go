package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/timetable"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

type timetableRepository interface {
	ListDayConfigs(ctx context.Context, tenant models.TenantContext) ([]models.DayConfig, error)
	ResultExists(ctx context.Context, tenant models.TenantContext, resultID string) (bool, error)
	ListScheduleEntries(ctx context.Context, tenant models.TenantContext, resultID string) ([]models.ScheduleEntry, error)
}

// TimetableService serves calendar axes and timetable projections.
type TimetableService struct {
	repo      timetableRepository
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
	opts      timetable.ProjectionOptions
}

// NewTimetableService constructs a TimetableService.
func NewTimetableService(repo timetableRepository, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService, opts timetable.ProjectionOptions) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableService{repo: repo, validator: validate, logger: logger, metrics: metrics, opts: opts}
}

// ResolveCalendar resolves inline day configurations.
func (s *TimetableService) ResolveCalendar(ctx context.Context, req dto.CalendarRequest) (dto.CalendarAxis, error) {
	if err := s.validator.StructCtx(ctx, req); err != nil {
		return dto.CalendarAxis{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid calendar payload")
	}
	return timetable.ResolveCalendar(req.Days), nil
}

// StoredCalendar resolves the tenant's stored calendar.
func (s *TimetableService) StoredCalendar(ctx context.Context, tenant models.TenantContext) (dto.CalendarAxis, error) {
	days, err := s.dayConfigs(ctx, tenant)
	if err != nil {
		return dto.CalendarAxis{}, err
	}
	return timetable.ResolveCalendar(days), nil
}

// ProjectInline projects an inline result set.
func (s *TimetableService) ProjectInline(ctx context.Context, view timetable.View, shape timetable.Shape, req dto.ProjectionRequest) (*dto.ProjectionResponse, error) {
	if err := s.validator.StructCtx(ctx, req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid projection payload")
	}
	resp := s.project(view, shape, req.Entries, timetable.ResolveCalendar(req.Days))
	return &resp, nil
}

// ProjectResult projects a stored result set against the tenant's calendar.
func (s *TimetableService) ProjectResult(ctx context.Context, tenant models.TenantContext, resultID string, view timetable.View, shape timetable.Shape) (*dto.ProjectionResponse, error) {
	if resultID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "resultId is required")
	}

	var (
		days    []models.DayConfig
		entries []models.ScheduleEntry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		days, err = s.dayConfigs(gctx, tenant)
		return err
	})
	g.Go(func() error {
		var err error
		entries, err = s.scheduleEntries(gctx, tenant, resultID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	resp := s.project(view, shape, entries, timetable.ResolveCalendar(days))
	return &resp, nil
}

func (s *TimetableService) project(view timetable.View, shape timetable.Shape, entries []models.ScheduleEntry, axis dto.CalendarAxis) dto.ProjectionResponse {
	start := time.Now()
	resp := timetable.Project(view, entries, axis, shape, s.opts)
	s.metrics.ObserveProjection(resp.View, resp.Shape, time.Since(start))
	return resp
}

func (s *TimetableService) dayConfigs(ctx context.Context, tenant models.TenantContext) ([]models.DayConfig, error) {
	start := time.Now()
	days, err := s.repo.ListDayConfigs(ctx, tenant)
	s.metrics.ObserveDBQuery("day_configs", time.Since(start))
	if err != nil {
		s.logger.Error("load day configs", zap.String("tenant", tenant.TenantID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load calendar")
	}
	return days, nil
}

func (s *TimetableService) scheduleEntries(ctx context.Context, tenant models.TenantContext, resultID string) ([]models.ScheduleEntry, error) {
	exists, err := s.repo.ResultExists(ctx, tenant, resultID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable result")
	}
	if !exists {
		return nil, appErrors.ErrResultNotFound
	}

	start := time.Now()
	entries, err := s.repo.ListScheduleEntries(ctx, tenant, resultID)
	s.metrics.ObserveDBQuery("schedule_entries", time.Since(start))
	if err != nil {
		s.logger.Error("load schedule entries", zap.String("tenant", tenant.TenantID), zap.String("result", resultID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule entries")
	}
	return entries, nil
}
