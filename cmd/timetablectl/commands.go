package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/service"
	"github.com/noah-isme/sma-timetable-api/internal/solverbridge"
	"github.com/noah-isme/sma-timetable-api/internal/timetable"
	"github.com/noah-isme/sma-timetable-api/pkg/config"
	"github.com/noah-isme/sma-timetable-api/pkg/export"
	"github.com/noah-isme/sma-timetable-api/pkg/logger"
)

type rootOptions struct {
	input  string
	output string
	cfg    *config.Config
	log    *zap.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "timetablectl",
		Short:         "Resolve calendars, project timetables and build solver requests offline",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if opts.cfg != nil {
				return nil
			}
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			log, err := logger.New(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			opts.cfg, opts.log = cfg, log
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&opts.input, "file", "f", "-", "JSON or YAML input file, - for stdin")
	root.PersistentFlags().StringVarP(&opts.output, "output", "o", "-", "output file, - for stdout")

	root.AddCommand(
		newCalendarCmd(opts),
		newProjectCmd(opts),
		newCreditsCmd(opts),
		newSolverRequestCmd(opts),
		newTokenCmd(opts),
	)
	return root
}

func newCalendarCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "calendar",
		Short: "Resolve the available days and period count of a calendar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var req dto.CalendarRequest
			if err := decodeInput(opts.input, cmd.InOrStdin(), &req); err != nil {
				return err
			}
			return opts.writeJSON(cmd, timetable.ResolveCalendar(req.Days))
		},
	}
}

func newProjectCmd(opts *rootOptions) *cobra.Command {
	var shape, format string
	cmd := &cobra.Command{
		Use:       "project homerooms|instructors",
		Short:     "Project schedule entries into pivots",
		Long:      "Project schedule entries per homeroom or per instructor. csv and pdf formats always use the list shape.",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{string(timetable.ViewHomerooms), string(timetable.ViewInstructors)},
		RunE: func(cmd *cobra.Command, args []string) error {
			view, ok := timetable.ParseView(args[0])
			if !ok {
				return fmt.Errorf("unknown view %q", args[0])
			}
			parsedShape, ok := timetable.ParseShape(shape)
			if !ok {
				return fmt.Errorf("unknown shape %q", shape)
			}

			var req dto.ProjectionRequest
			if err := decodeInput(opts.input, cmd.InOrStdin(), &req); err != nil {
				return err
			}
			projectionOpts := timetable.ProjectionOptions{
				NameBudget:     opts.cfg.Projection.NameBudget,
				TitleBudget:    opts.cfg.Projection.TitleBudget,
				HomeroomBudget: opts.cfg.Projection.HomeroomBudget,
			}
			axis := timetable.ResolveCalendar(req.Days)

			switch format {
			case "json":
				return opts.writeJSON(cmd, timetable.Project(view, req.Entries, axis, parsedShape, projectionOpts))
			case service.ExportFormatCSV, service.ExportFormatPDF:
				projection := timetable.Project(view, req.Entries, axis, timetable.ShapeList, projectionOpts)
				dataset := service.PivotDataset(*projection.List)
				var (
					payload []byte
					err     error
				)
				if format == service.ExportFormatPDF {
					payload, err = export.NewPDFExporter(opts.cfg.Export.PDFFontPath).Render(dataset)
				} else {
					payload, err = export.NewCSVExporter(opts.cfg.Export.CSVWithBOM).Render(dataset)
				}
				if err != nil {
					return fmt.Errorf("render %s: %w", format, err)
				}
				return opts.write(cmd, payload)
			default:
				return fmt.Errorf("unknown format %q", format)
			}
		},
	}
	cmd.Flags().StringVar(&shape, "shape", string(timetable.ShapeGrid), "grid or list")
	cmd.Flags().StringVar(&format, "format", "json", "json, csv or pdf")
	return cmd
}

func newCreditsCmd(opts *rootOptions) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "credits",
		Short: "Check that curriculum credits cover the scheduled periods of each homeroom",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var req dto.CreditsRequest
			if err := decodeInput(opts.input, cmd.InOrStdin(), &req); err != nil {
				return err
			}
			report := timetable.SummarizeCredits(timetable.ValidateCredits(req.Homerooms))
			if err := opts.writeJSON(cmd, report); err != nil {
				return err
			}
			if strict && !report.AllValid {
				return fmt.Errorf("%d homerooms have fewer credits than scheduled periods", report.InvalidCount)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when any homeroom is short of credits")
	return cmd
}

func newSolverRequestCmd(opts *rootOptions) *cobra.Command {
	var tenant string
	cmd := &cobra.Command{
		Use:   "solver-request",
		Short: "Build the flat solver request for a curriculum and constraint graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var input models.SolverInput
			if err := decodeInput(opts.input, cmd.InOrStdin(), &input); err != nil {
				return err
			}
			if tenant == "" {
				tenant = opts.cfg.Tenant.DefaultID
			}
			req := solverbridge.New(opts.log).Build(models.TenantContext{TenantID: tenant}, input)
			return opts.writeJSON(cmd, req)
		},
	}
	cmd.Flags().StringVar(&tenant, "tenant", "", "tenant id placed in the request (defaults to TENANT_DEFAULT_ID)")
	return cmd
}

func newTokenCmd(opts *rootOptions) *cobra.Command {
	var (
		tenant  string
		subject string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign a tenant bearer token with JWT_SECRET",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if tenant == "" {
				return fmt.Errorf("--tenant is required")
			}
			tenants := service.NewTenantService(service.TenantConfig{Secret: opts.cfg.JWT.Secret})
			now := time.Now()
			token, err := tenants.IssueToken(models.TenantContext{TenantID: tenant, Subject: subject}, jwt.RegisteredClaims{
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			})
			if err != nil {
				return fmt.Errorf("sign token: %w", err)
			}
			return opts.write(cmd, []byte(token+"\n"))
		},
	}
	cmd.Flags().StringVar(&tenant, "tenant", "", "tenant id")
	cmd.Flags().StringVar(&subject, "subject", "", "token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}

func (o *rootOptions) writeJSON(cmd *cobra.Command, value interface{}) error {
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return o.write(cmd, append(payload, '\n'))
}

func (o *rootOptions) write(cmd *cobra.Command, payload []byte) error {
	var out io.Writer = cmd.OutOrStdout()
	if o.output != "" && o.output != "-" {
		file, err := os.Create(o.output)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer file.Close() //nolint:errcheck
		out = file
	}
	_, err := out.Write(payload)
	return err
}
