package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/edt-api/internal/models"
)

const professorColumns = "id, first_name, last_name, email, availability, created_at, updated_at"

// ProfessorRepository manages persistence for professors.
type ProfessorRepository struct {
	db *sqlx.DB
}

// NewProfessorRepository constructs a ProfessorRepository.
func NewProfessorRepository(db *sqlx.DB) *ProfessorRepository {
	return &ProfessorRepository{db: db}
}

// List returns every professor in creation order.
func (r *ProfessorRepository) List(ctx context.Context) ([]models.Professor, error) {
	query := "SELECT " + professorColumns + " FROM professors ORDER BY created_at, id"
	var professors []models.Professor
	if err := r.db.SelectContext(ctx, &professors, query); err != nil {
		return nil, fmt.Errorf("list professors: %w", err)
	}
	return professors, nil
}

// FindByID fetches a professor by ID.
func (r *ProfessorRepository) FindByID(ctx context.Context, id string) (*models.Professor, error) {
	query := "SELECT " + professorColumns + " FROM professors WHERE id = $1"
	var professor models.Professor
	if err := r.db.GetContext(ctx, &professor, query, id); err != nil {
		return nil, err
	}
	return &professor, nil
}

// Create inserts a professor.
func (r *ProfessorRepository) Create(ctx context.Context, professor *models.Professor) error {
	if professor.ID == "" {
		professor.ID = uuid.NewString()
	}
	if professor.Availability == nil {
		professor.Availability = models.Availability{}
	}
	now := time.Now().UTC()
	professor.CreatedAt = now
	professor.UpdatedAt = now

	const query = `INSERT INTO professors (id, first_name, last_name, email, availability, created_at, updated_at)
VALUES (:id, :first_name, :last_name, :email, :availability, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, professor); err != nil {
		return fmt.Errorf("create professor: %w", err)
	}
	return nil
}

// UpdateAvailability overwrites the professor's availability.
func (r *ProfessorRepository) UpdateAvailability(ctx context.Context, id string, availability models.Availability) error {
	const query = `UPDATE professors SET availability = $2, updated_at = $3 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, availability, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update professor availability: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("professor availability rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
