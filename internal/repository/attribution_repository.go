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

const attributionColumns = "id, professor_id, room_id, course_id, program_id, group_number, day, time_slot, expires_at, created_at"

// AttributionRepository persists temporary attributions.
type AttributionRepository struct {
	db *sqlx.DB
}

// NewAttributionRepository constructs an AttributionRepository.
func NewAttributionRepository(db *sqlx.DB) *AttributionRepository {
	return &AttributionRepository{db: db}
}

// Create inserts an attribution.
func (r *AttributionRepository) Create(ctx context.Context, attribution *models.TemporaryAttribution) error {
	if attribution.ID == "" {
		attribution.ID = uuid.NewString()
	}
	if attribution.CreatedAt.IsZero() {
		attribution.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO temporary_attributions (id, professor_id, room_id, course_id, program_id, group_number, day, time_slot, expires_at, created_at)
VALUES (:id, :professor_id, :room_id, :course_id, :program_id, :group_number, :day, :time_slot, :expires_at, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, attribution); err != nil {
		return fmt.Errorf("create temporary attribution: %w", err)
	}
	return nil
}

// List returns every stored attribution, expired or not, newest first.
func (r *AttributionRepository) List(ctx context.Context) ([]models.TemporaryAttribution, error) {
	query := "SELECT " + attributionColumns + " FROM temporary_attributions ORDER BY created_at DESC, id"
	var attributions []models.TemporaryAttribution
	if err := r.db.SelectContext(ctx, &attributions, query); err != nil {
		return nil, fmt.Errorf("list temporary attributions: %w", err)
	}
	return attributions, nil
}

// FindByID fetches an attribution by ID.
func (r *AttributionRepository) FindByID(ctx context.Context, id string) (*models.TemporaryAttribution, error) {
	query := "SELECT " + attributionColumns + " FROM temporary_attributions WHERE id = $1"
	var attribution models.TemporaryAttribution
	if err := r.db.GetContext(ctx, &attribution, query, id); err != nil {
		return nil, err
	}
	return &attribution, nil
}

// Delete removes an attribution regardless of expiry.
func (r *AttributionRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM temporary_attributions WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete temporary attribution: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("temporary attribution rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteExpired purges attributions whose expiry is before now.
func (r *AttributionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	const query = `DELETE FROM temporary_attributions WHERE expires_at < $1`
	result, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired temporary attributions: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("expired attribution rows affected: %w", err)
	}
	return affected, nil
}
