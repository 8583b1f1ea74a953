package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edt-api/internal/dto"
	"github.com/noah-isme/edt-api/internal/models"
	appErrors "github.com/noah-isme/edt-api/pkg/errors"
)

type catalogMock struct {
	courseQuery dto.CourseQuery
	professor   dto.CreateProfessorRequest
	err         error
}

func (m *catalogMock) CreateProfessor(ctx context.Context, req dto.CreateProfessorRequest) (*models.Professor, error) {
	m.professor = req
	if m.err != nil {
		return nil, m.err
	}
	return &models.Professor{ID: "pr1", FirstName: req.FirstName, LastName: req.LastName}, nil
}

func (m *catalogMock) ListProfessors(ctx context.Context) ([]models.Professor, error) {
	return []models.Professor{{ID: "pr1"}, {ID: "pr2"}}, m.err
}

func (m *catalogMock) GetProfessor(ctx context.Context, id string) (*models.Professor, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &models.Professor{ID: id}, nil
}

func (m *catalogMock) CreateRoom(ctx context.Context, req dto.CreateRoomRequest) (*models.Room, error) {
	return &models.Room{ID: "r1", Name: req.Name}, m.err
}

func (m *catalogMock) ListRooms(ctx context.Context) ([]models.Room, error) {
	return []models.Room{{ID: "r1"}}, m.err
}

func (m *catalogMock) GetRoom(ctx context.Context, id string) (*models.Room, error) {
	return &models.Room{ID: id}, m.err
}

func (m *catalogMock) CreateCourse(ctx context.Context, req dto.CreateCourseRequest) (*models.Course, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &models.Course{ID: "c1", Name: req.Name}, nil
}

func (m *catalogMock) ListCourses(ctx context.Context, query dto.CourseQuery) ([]models.Course, error) {
	m.courseQuery = query
	return []models.Course{{ID: "c1", ProgramID: query.ProgramID}}, m.err
}

func (m *catalogMock) GetCourse(ctx context.Context, id string) (*models.Course, error) {
	return &models.Course{ID: id}, m.err
}

func (m *catalogMock) CreateProgram(ctx context.Context, req dto.CreateProgramRequest) (*models.Program, error) {
	return &models.Program{ID: "p1", Name: req.Name, GroupCount: req.GroupCount}, m.err
}

func (m *catalogMock) ListPrograms(ctx context.Context) ([]models.Program, error) {
	return []models.Program{{ID: "p1"}}, m.err
}

func (m *catalogMock) GetProgram(ctx context.Context, id string) (*models.Program, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &models.Program{ID: id}, nil
}

func TestCatalogCreateProfessor(t *testing.T) {
	svc := &catalogMock{}
	h := &CatalogHandler{service: svc}
	c, w := newTestContext(http.MethodPost, "/professors", []byte(`{"firstName":"Ada","lastName":"Lovelace","email":"ada@example.com"}`))

	h.CreateProfessor(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Ada", svc.professor.FirstName)
	var professor models.Professor
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &professor))
	assert.Equal(t, "pr1", professor.ID)
}

func TestCatalogCreateProfessorValidationError(t *testing.T) {
	h := &CatalogHandler{service: &catalogMock{err: appErrors.Clone(appErrors.ErrValidation, "invalid professor payload")}}
	c, w := newTestContext(http.MethodPost, "/professors", []byte(`{"firstName":"Ada"}`))

	h.CreateProfessor(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCatalogListProfessors(t *testing.T) {
	h := &CatalogHandler{service: &catalogMock{}}
	c, w := newTestContext(http.MethodGet, "/professors", nil)

	h.ListProfessors(c)

	require.Equal(t, http.StatusOK, w.Code)
	var professors []models.Professor
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &professors))
	assert.Len(t, professors, 2)
}

func TestCatalogGetProgramNotFound(t *testing.T) {
	h := &CatalogHandler{service: &catalogMock{err: appErrors.Clone(appErrors.ErrNotFound, "program not found")}}
	c, w := newTestContext(http.MethodGet, "/programs/x", nil, gin.Param{Key: "id", Value: "x"})

	h.GetProgram(c)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, appErrors.ErrNotFound.Code, decodeEnvelope(t, w).Error.Code)
}

func TestCatalogListCoursesByProgram(t *testing.T) {
	svc := &catalogMock{}
	h := &CatalogHandler{service: svc}
	c, w := newTestContext(http.MethodGet, "/courses?programId=p7", nil)

	h.ListCourses(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "p7", svc.courseQuery.ProgramID)
}

func TestCatalogCreateCourseMalformed(t *testing.T) {
	h := &CatalogHandler{service: &catalogMock{}}
	c, w := newTestContext(http.MethodPost, "/courses", []byte(`[`))

	h.CreateCourse(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCatalogCreateRoomAndProgram(t *testing.T) {
	h := &CatalogHandler{service: &catalogMock{}}

	c, w := newTestContext(http.MethodPost, "/rooms", []byte(`{"name":"A101","type":"Ordinaire","capacity":30}`))
	h.CreateRoom(c)
	require.Equal(t, http.StatusCreated, w.Code)

	c, w = newTestContext(http.MethodPost, "/programs", []byte(`{"name":"L1 Info","groupCount":2}`))
	h.CreateProgram(c)
	require.Equal(t, http.StatusCreated, w.Code)
	var program models.Program
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &program))
	assert.Equal(t, 2, program.GroupCount)
}
