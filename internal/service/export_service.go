package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/edt-api/internal/dto"
	"github.com/noah-isme/edt-api/internal/models"
	appErrors "github.com/noah-isme/edt-api/pkg/errors"
	"github.com/noah-isme/edt-api/pkg/export"
)

// Export formats.
const (
	FormatPDF = "pdf"
	FormatCSV = "csv"
)

type scheduleViewer interface {
	Get(ctx context.Context, id string) (*dto.ScheduleView, error)
}

type gridRenderer interface {
	Render(grid export.Grid) ([]byte, error)
}

// ExportFile is a rendered timetable ready to be sent as an attachment.
type ExportFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders schedules as a fixed six-day by three-slot grid. It never writes.
type ExportService struct {
	schedules scheduleViewer
	csv       gridRenderer
	pdf       gridRenderer
	logger    *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(schedules scheduleViewer, logger *zap.Logger, csv, pdf gridRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{schedules: schedules, csv: csv, pdf: pdf, logger: logger}
}

// Export renders the schedule in the requested format, defaulting to PDF.
func (s *ExportService) Export(ctx context.Context, scheduleID, format string) (*ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatPDF
	}
	if format != FormatPDF && format != FormatCSV {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be pdf or csv")
	}

	view, err := s.schedules.Get(ctx, scheduleID)
	if err != nil {
		return nil, err
	}

	grid := BuildGrid(*view)
	var (
		payload     []byte
		contentType string
	)
	switch format {
	case FormatCSV:
		payload, err = s.csv.Render(grid)
		contentType = "text/csv"
	default:
		payload, err = s.pdf.Render(grid)
		contentType = "application/pdf"
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render timetable")
	}

	s.logger.Debug("timetable exported",
		zap.String("schedule_id", scheduleID),
		zap.String("format", format),
		zap.Int("bytes", len(payload)),
	)
	return &ExportFile{
		Filename:    buildFilename(*view, format),
		ContentType: contentType,
		Payload:     payload,
	}, nil
}

// BuildGrid lays out sessions with days as rows and timeslots as columns. Each filled
// cell holds the course, professor and room names on separate lines.
func BuildGrid(view dto.ScheduleView) export.Grid {
	columns := make([]string, 0, len(models.TimeSlots))
	for _, slot := range models.TimeSlots {
		columns = append(columns, string(slot))
	}

	cells := make(map[models.SlotKey]dto.SessionView, len(view.Sessions))
	for _, session := range view.Sessions {
		cells[models.SlotKey{Day: session.Day, TimeSlot: session.TimeSlot}] = session
	}

	rows := make([]export.GridRow, 0, len(models.Days))
	for _, day := range models.Days {
		row := export.GridRow{Label: string(day), Cells: make([][]string, 0, len(models.TimeSlots))}
		for _, slot := range models.TimeSlots {
			session, ok := cells[models.SlotKey{Day: day, TimeSlot: slot}]
			if !ok {
				row.Cells = append(row.Cells, nil)
				continue
			}
			row.Cells = append(row.Cells, []string{
				session.Course.Name,
				session.Professor.Name,
				roomLabel(session.Room),
			})
		}
		rows = append(rows, row)
	}

	title := fmt.Sprintf("%s - Groupe %d", view.ProgramName, view.Group)
	if view.ProgramName == "" {
		title = fmt.Sprintf("Groupe %d", view.Group)
	}
	return export.Grid{Title: title, Corner: "Jour", Columns: columns, Rows: rows}
}

func roomLabel(room dto.RoomRef) string {
	if room.Type == "" {
		return room.Name
	}
	return fmt.Sprintf("%s (%s)", room.Name, room.Type)
}

func buildFilename(view dto.ScheduleView, format string) string {
	timestamp := time.Now().UTC().Format("20060102_150405")
	return fmt.Sprintf("edt_%s_g%d_%s.%s", sanitizeFilename(view.ProgramName), view.Group, timestamp, format)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_", "\"", "")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}
