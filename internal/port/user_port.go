package port

import (
	"context"

	"github.com/nikolayk812/notesmarket/internal/domain"
)

type UserRepository interface {
	GetUser(ctx context.Context) (domain.User, error)
	SaveUser(ctx context.Context, user domain.User) error
	DeleteUser(ctx context.Context) error
}
