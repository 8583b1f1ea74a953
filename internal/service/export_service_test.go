package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edt-api/internal/dto"
	"github.com/noah-isme/edt-api/internal/models"
	appErrors "github.com/noah-isme/edt-api/pkg/errors"
)

type scheduleViewerStub struct {
	view *dto.ScheduleView
}

func (s scheduleViewerStub) Get(ctx context.Context, id string) (*dto.ScheduleView, error) {
	if s.view == nil || s.view.ID != id {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
	}
	return s.view, nil
}

func sampleScheduleView() *dto.ScheduleView {
	return &dto.ScheduleView{
		ID:          "s1",
		ProgramName: "GIT",
		Group:       2,
		Sessions: []dto.SessionView{
			{
				Day:       models.Lundi,
				TimeSlot:  models.SlotMorning,
				Course:    dto.ResourceRef{ID: "c1", Name: "Algorithmique"},
				Professor: dto.ResourceRef{ID: "p1", Name: "Awa Diop"},
				Room:      dto.RoomRef{ID: "r1", Name: "A101", Type: models.RoomOrdinaire},
			},
			{
				Day:       models.Samedi,
				TimeSlot:  models.SlotAfternoon,
				Course:    dto.ResourceRef{ID: "c2", Name: "TP Réseaux"},
				Professor: dto.ResourceRef{ID: "p2", Name: "Moussa Fall"},
				Room:      dto.RoomRef{ID: "r2", Name: "Lab 1", Type: models.RoomMachine},
			},
		},
	}
}

func TestBuildGridFixedLayout(t *testing.T) {
	grid := BuildGrid(*sampleScheduleView())

	assert.Equal(t, "GIT - Groupe 2", grid.Title)
	assert.Len(t, grid.Columns, 3)
	require.Len(t, grid.Rows, 6)
	assert.Equal(t, "Lundi", grid.Rows[0].Label)
	assert.Equal(t, []string{"Algorithmique", "Awa Diop", "A101 (Ordinaire)"}, grid.Rows[0].Cells[0])
	assert.Nil(t, grid.Rows[0].Cells[1])
	assert.Equal(t, "TP Réseaux", grid.Rows[5].Cells[2][0])
}

func TestExportServiceCSV(t *testing.T) {
	svc := NewExportService(scheduleViewerStub{view: sampleScheduleView()}, nil, nil, nil)

	file, err := svc.Export(context.Background(), "s1", "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", file.ContentType)
	assert.True(t, strings.HasPrefix(file.Filename, "edt_GIT_g2_"))
	assert.True(t, strings.HasSuffix(file.Filename, ".csv"))

	records, err := csv.NewReader(bytes.NewReader(file.Payload)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 7)
	assert.Equal(t, []string{"Jour", "08h30 - 11h30", "12h00 - 15h00", "15h30 - 18h30"}, records[0])
	assert.Equal(t, "Algorithmique | Awa Diop | A101 (Ordinaire)", records[1][1])
}

func TestExportServicePDFDefault(t *testing.T) {
	svc := NewExportService(scheduleViewerStub{view: sampleScheduleView()}, nil, nil, nil)

	file, err := svc.Export(context.Background(), "s1", "")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, bytes.HasPrefix(file.Payload, []byte("%PDF")))
}

func TestExportServiceErrors(t *testing.T) {
	svc := NewExportService(scheduleViewerStub{view: sampleScheduleView()}, nil, nil, nil)

	_, err := svc.Export(context.Background(), "s1", "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.Export(context.Background(), "missing", "pdf")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "na", sanitizeFilename(""))
	assert.Equal(t, "Licence_GL-3", sanitizeFilename("Licence GL/3"))
}
