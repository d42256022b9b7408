package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/timetable"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
	"github.com/noah-isme/sma-timetable-api/pkg/export"
)

// Export formats.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

const (
	exportLabelHeader = "Name"
	exportGroupHeader = "Grade"
	maxFilenameRunes  = 100
)

type projectionSource interface {
	ProjectResult(ctx context.Context, tenant models.TenantContext, resultID string, view timetable.View, shape timetable.Shape) (*dto.ProjectionResponse, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// ExportFile is a rendered export ready to be streamed.
type ExportFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders list-shape projections of stored results as CSV or PDF.
type ExportService struct {
	projections projectionSource
	csv         csvRenderer
	pdf         pdfRenderer
	logger      *zap.Logger
	now         func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(projections projectionSource, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter(true)
	}
	if pdf == nil {
		pdf = export.NewPDFExporter("")
	}
	return &ExportService{
		projections: projections,
		csv:         csv,
		pdf:         pdf,
		logger:      logger,
		now:         time.Now,
	}
}

// Export renders one view of a stored result in the requested format.
func (s *ExportService) Export(ctx context.Context, tenant models.TenantContext, resultID string, view timetable.View, format string) (*ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ExportFormatCSV
	}
	if format != ExportFormatCSV && format != ExportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrUnsupportedExport, fmt.Sprintf("unsupported export format %q", format))
	}

	projection, err := s.projections.ProjectResult(ctx, tenant, resultID, view, timetable.ShapeList)
	if err != nil {
		return nil, err
	}
	if projection.List == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "projection has no list")
	}

	dataset := PivotDataset(*projection.List)
	var (
		payload     []byte
		contentType string
	)
	switch format {
	case ExportFormatPDF:
		payload, err = s.pdf.Render(dataset)
		contentType = "application/pdf"
	default:
		payload, err = s.csv.Render(dataset)
		contentType = "text/csv; charset=utf-8"
	}
	if err != nil {
		s.logger.Error("render export", zap.String("format", format), zap.String("result", resultID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	return &ExportFile{
		Filename:    s.buildFilename(resultID, view, format),
		ContentType: contentType,
		Payload:     payload,
	}, nil
}

// PivotDataset flattens a list-shape pivot into a table: a label column, a grade column when any
// row has a grade, and one column per slot. Each cell reads "primary / secondary..." with empty
// parts dropped.
func PivotDataset(grid dto.PivotGrid) export.Dataset {
	headers := make([]string, 0, len(grid.ColumnHeaders)+2)
	headers = append(headers, exportLabelHeader)
	if hasGroups(grid.Rows) {
		headers = append(headers, exportGroupHeader)
	}
	for _, column := range grid.ColumnHeaders {
		headers = append(headers, column.Label)
	}

	rows := make([]map[string]string, 0, len(grid.Rows))
	for _, row := range grid.Rows {
		record := map[string]string{
			exportLabelHeader: row.Label,
			exportGroupHeader: row.Group,
		}
		for _, column := range grid.ColumnHeaders {
			if cell, ok := row.Cells[column.Key]; ok {
				record[column.Label] = cellText(cell)
			}
		}
		rows = append(rows, record)
	}
	return export.Dataset{Title: grid.Title, Headers: headers, Rows: rows}
}

func hasGroups(rows []dto.PivotRow) bool {
	for _, row := range rows {
		if row.Group != "" {
			return true
		}
	}
	return false
}

func cellText(cell dto.CellView) string {
	parts := make([]string, 0, len(cell.SecondaryTexts)+1)
	for _, text := range append([]string{cell.PrimaryText}, cell.SecondaryTexts...) {
		if text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " / ")
}

func (s *ExportService) buildFilename(resultID string, view timetable.View, format string) string {
	timestamp := s.now().UTC().Format("20060102_150405")
	return fmt.Sprintf("timetable_%s_%s_%s.%s", sanitizeFilename(resultID), view, timestamp, format)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_", `"`, "")
	result := replacer.Replace(raw)
	if runes := []rune(result); len(runes) > maxFilenameRunes {
		return string(runes[:maxFilenameRunes])
	}
	return result
}
