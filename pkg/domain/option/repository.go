package option

import "context"

type Repository interface {
	GetByName(ctx context.Context, name string) (*Option, error)
}
