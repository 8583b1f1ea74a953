package service

import (
	"context"
	"database/sql"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/edt-api/internal/models"
	appErrors "github.com/noah-isme/edt-api/pkg/errors"
)

type programReader interface {
	FindByID(ctx context.Context, id string) (*models.Program, error)
}

type programCourseLister interface {
	ListByProgram(ctx context.Context, programID string) ([]models.Course, error)
}

type professorLister interface {
	List(ctx context.Context) ([]models.Professor, error)
}

type roomLister interface {
	List(ctx context.Context) ([]models.Room, error)
}

// GenerationInputs is everything one generation run reads. Courses keep catalog order.
type GenerationInputs struct {
	Program    models.Program
	Courses    []models.Course
	Professors []models.Professor
	Rooms      []models.Room
}

// CatalogLoader fetches generation inputs. It only reads and never filters by group.
type CatalogLoader struct {
	programs   programReader
	courses    programCourseLister
	professors professorLister
	rooms      roomLister
}

// NewCatalogLoader constructs a CatalogLoader.
func NewCatalogLoader(programs programReader, courses programCourseLister, professors professorLister, rooms roomLister) *CatalogLoader {
	return &CatalogLoader{programs: programs, courses: courses, professors: professors, rooms: rooms}
}

// Load returns the program's courses plus the full professor and room catalogs.
func (l *CatalogLoader) Load(ctx context.Context, programID string) (*GenerationInputs, error) {
	program, err := l.programs.FindByID(ctx, programID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "program not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load program")
	}

	inputs := &GenerationInputs{Program: *program}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		courses, err := l.courses.ListByProgram(gctx, programID)
		inputs.Courses = courses
		return err
	})
	g.Go(func() error {
		professors, err := l.professors.List(gctx)
		inputs.Professors = professors
		return err
	})
	g.Go(func() error {
		rooms, err := l.rooms.List(gctx)
		inputs.Rooms = rooms
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load catalog")
	}
	return inputs, nil
}
