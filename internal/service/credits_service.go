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

type creditsRepository interface {
	ListCurriculum(ctx context.Context, tenant models.TenantContext) ([]models.CurriculumHomeroom, error)
	ListDayConfigs(ctx context.Context, tenant models.TenantContext) ([]models.DayConfig, error)
	ListHomeroomCalendars(ctx context.Context, tenant models.TenantContext) ([]models.HomeroomCalendar, error)
}

// CreditsService validates curriculum credit loads against scheduled periods.
type CreditsService struct {
	repo      creditsRepository
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
}

// NewCreditsService constructs a CreditsService.
func NewCreditsService(repo creditsRepository, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService) *CreditsService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CreditsService{repo: repo, validator: validate, logger: logger, metrics: metrics}
}

// ValidateInline validates a curriculum supplied by the caller.
func (s *CreditsService) ValidateInline(ctx context.Context, req dto.CreditsRequest) (dto.CreditsReport, error) {
	if err := s.validator.StructCtx(ctx, req); err != nil {
		return dto.CreditsReport{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid credits payload")
	}
	return timetable.SummarizeCredits(timetable.ValidateCredits(req.Homerooms)), nil
}

// ValidateStored validates the tenant's stored curriculum. A homeroom's scheduled periods
// come from its own attendance calendar, or from the school calendar when it has none.
func (s *CreditsService) ValidateStored(ctx context.Context, tenant models.TenantContext) (dto.CreditsReport, error) {
	var (
		curriculum []models.CurriculumHomeroom
		days       []models.DayConfig
		calendars  []models.HomeroomCalendar
	)

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		curriculum, err = s.repo.ListCurriculum(gctx, tenant)
		return err
	})
	g.Go(func() error {
		var err error
		days, err = s.repo.ListDayConfigs(gctx, tenant)
		return err
	})
	g.Go(func() error {
		var err error
		calendars, err = s.repo.ListHomeroomCalendars(gctx, tenant)
		return err
	})
	err := g.Wait()
	s.metrics.ObserveDBQuery("curriculum", time.Since(start))
	if err != nil {
		s.logger.Error("load curriculum", zap.String("tenant", tenant.TenantID), zap.Error(err))
		return dto.CreditsReport{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load curriculum")
	}

	schoolTotal := timetable.PeriodsTotal(days)
	homeroomTotals := make(map[string]int, len(calendars))
	for _, calendar := range calendars {
		configs := make([]models.DayConfig, 0, len(calendar.Days))
		for _, day := range calendar.Days {
			configs = append(configs, day.DayConfig())
		}
		homeroomTotals[calendar.HomeroomID] = timetable.PeriodsTotal(configs)
	}
	for i := range curriculum {
		total, ok := homeroomTotals[curriculum[i].Homeroom.ID]
		if !ok {
			total = schoolTotal
		}
		curriculum[i].ScheduledPeriodsTotal = total
	}

	report := timetable.SummarizeCredits(timetable.ValidateCredits(curriculum))
	if !report.AllValid {
		s.logger.Info("credits shortfall", zap.String("tenant", tenant.TenantID), zap.Int("invalid", report.InvalidCount))
	}
	return report, nil
}
