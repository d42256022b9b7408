package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/solverbridge"
	"github.com/noah-isme/sma-timetable-api/internal/timetable"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
	"github.com/noah-isme/sma-timetable-api/pkg/middleware/requestid"
)

type solverRepository interface {
	ListDayConfigs(ctx context.Context, tenant models.TenantContext) ([]models.DayConfig, error)
	ListHomeroomCalendars(ctx context.Context, tenant models.TenantContext) ([]models.HomeroomCalendar, error)
	ListInstructorCalendars(ctx context.Context, tenant models.TenantContext) ([]models.InstructorCalendar, error)
	ListSubjects(ctx context.Context, tenant models.TenantContext) ([]models.Subject, error)
	ListConstraints(ctx context.Context, tenant models.TenantContext) ([]models.ConstraintDefinition, error)
}

type creditsGate interface {
	ValidateStored(ctx context.Context, tenant models.TenantContext) (dto.CreditsReport, error)
}

type solverClient interface {
	Solve(ctx context.Context, req dto.SolverRequest) (*dto.SolverResponse, error)
}

// InvalidCreditsError blocks a solve while some homerooms lack credits.
type InvalidCreditsError struct {
	Records []dto.CreditsValidation
}

func (e *InvalidCreditsError) Error() string {
	return fmt.Sprintf("%d homerooms have fewer credits than scheduled periods", len(e.Records))
}

func (e *InvalidCreditsError) Unwrap() error {
	return appErrors.ErrCreditsShortfall
}

// SolverConfig toggles solve requests.
type SolverConfig struct {
	Enabled bool
}

// SolverService builds solver requests and forwards them to the solver.
type SolverService struct {
	repo      solverRepository
	credits   creditsGate
	client    solverClient
	bridge    *solverbridge.Bridge
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
	cfg       SolverConfig
}

// NewSolverService constructs a SolverService.
func NewSolverService(repo solverRepository, credits creditsGate, client solverClient, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService, cfg SolverConfig) *SolverService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SolverService{
		repo:      repo,
		credits:   credits,
		client:    client,
		bridge:    solverbridge.New(logger),
		validator: validate,
		logger:    logger,
		metrics:   metrics,
		cfg:       cfg,
	}
}

// PreviewInline builds the request for an inline domain graph without sending it.
func (s *SolverService) PreviewInline(ctx context.Context, tenant models.TenantContext, input models.SolverInput) (dto.SolverRequest, error) {
	if err := s.validator.StructCtx(ctx, input); err != nil {
		return dto.SolverRequest{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid solver input")
	}
	return s.bridge.Build(tenant, input), nil
}

// PreviewStored builds the request for the tenant's stored domain graph.
func (s *SolverService) PreviewStored(ctx context.Context, tenant models.TenantContext) (dto.SolverRequest, error) {
	input, err := s.loadInput(ctx, tenant)
	if err != nil {
		return dto.SolverRequest{}, err
	}
	return s.bridge.Build(tenant, input), nil
}

// Solve checks credits, builds the request from stored data and returns the solver's answer.
func (s *SolverService) Solve(ctx context.Context, tenant models.TenantContext) (*dto.SolveResult, error) {
	if !s.cfg.Enabled || s.client == nil {
		return nil, appErrors.ErrSolverDisabled
	}

	report, err := s.credits.ValidateStored(ctx, tenant)
	if err != nil {
		return nil, err
	}
	if !report.AllValid {
		return nil, &InvalidCreditsError{Records: timetable.InvalidCredits(report.Records)}
	}

	req, err := s.PreviewStored(ctx, tenant)
	if err != nil {
		return nil, err
	}
	req.RequestID = requestid.FromContext(ctx)
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}

	start := time.Now()
	resp, err := s.client.Solve(ctx, req)
	if err != nil {
		s.metrics.ObserveSolverRequest("error", time.Since(start))
		s.logger.Error("solver request failed",
			zap.String("tenant", tenant.TenantID),
			zap.String("request_id", req.RequestID),
			zap.Error(err),
		)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, appErrors.WrapAs(appErrors.ErrSolverTimeout, err, "")
		}
		return nil, appErrors.WrapAs(appErrors.ErrSolverFailed, err, "")
	}
	s.metrics.ObserveSolverRequest("ok", time.Since(start))

	return &dto.SolveResult{
		RequestID:  req.RequestID,
		Schedule:   resp.Schedule,
		Violations: resp.Violations,
	}, nil
}

func (s *SolverService) loadInput(ctx context.Context, tenant models.TenantContext) (models.SolverInput, error) {
	var input models.SolverInput

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		input.Calendar, err = s.repo.ListDayConfigs(gctx, tenant)
		return err
	})
	g.Go(func() error {
		var err error
		input.Homerooms, err = s.repo.ListHomeroomCalendars(gctx, tenant)
		return err
	})
	g.Go(func() error {
		var err error
		input.Instructors, err = s.repo.ListInstructorCalendars(gctx, tenant)
		return err
	})
	g.Go(func() error {
		var err error
		input.Subjects, err = s.repo.ListSubjects(gctx, tenant)
		return err
	})
	g.Go(func() error {
		var err error
		input.Constraints, err = s.repo.ListConstraints(gctx, tenant)
		return err
	})
	err := g.Wait()
	s.metrics.ObserveDBQuery("solver_input", time.Since(start))
	if err != nil {
		s.logger.Error("load solver input", zap.String("tenant", tenant.TenantID), zap.Error(err))
		return models.SolverInput{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load solver input")
	}
	return input, nil
}
