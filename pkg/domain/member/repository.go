package member

import (
	"context"

	"github.com/google/uuid"
)

// Repository reads member records. Account management lives in the
// surrounding platform; this service only ever looks members up.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Member, error)
}
