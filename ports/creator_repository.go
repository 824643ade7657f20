package ports

import (
	"context"

	"github.com/unseriousprof/edgi-vid-library/models"
)

// CreatorRepository defines the interface for deduplicated creator rows
type CreatorRepository interface {
	// GetCreatorByUsername retrieves a creator by exact username
	GetCreatorByUsername(ctx context.Context, username string) (*models.Creator, error)

	// CountCreators returns the number of creator rows
	CountCreators(ctx context.Context) (int, error)

	// ListCreators returns all creators ordered by username
	ListCreators(ctx context.Context) ([]*models.Creator, error)
}
