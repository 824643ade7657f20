package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/unseriousprof/edgi-vid-library/models"
	"github.com/unseriousprof/edgi-vid-library/ports"

	"github.com/jmoiron/sqlx"
)

// CreatorRepositoryImpl implements CreatorRepository for PostgreSQL
type CreatorRepositoryImpl struct {
	db *sqlx.DB
}

// NewCreatorRepository creates a new PostgreSQL creator repository
func NewCreatorRepository(db *sqlx.DB) ports.CreatorRepository {
	return &CreatorRepositoryImpl{db: db}
}

// GetCreatorByUsername retrieves a creator by exact username
func (r *CreatorRepositoryImpl) GetCreatorByUsername(ctx context.Context, username string) (*models.Creator, error) {
	var creator models.Creator
	err := r.db.GetContext(ctx, &creator,
		`SELECT id, username, username_length FROM creators WHERE username = $1`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("creator %q not found", username)
	}
	if err != nil {
		return nil, err
	}
	return &creator, nil
}

// CountCreators returns the number of deduplicated creator rows
func (r *CreatorRepositoryImpl) CountCreators(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM creators`)
	return count, err
}

// ListCreators returns all creators ordered by username
func (r *CreatorRepositoryImpl) ListCreators(ctx context.Context) ([]*models.Creator, error) {
	var creators []*models.Creator
	err := r.db.SelectContext(ctx, &creators,
		`SELECT id, username, username_length FROM creators ORDER BY username`)
	return creators, err
}
