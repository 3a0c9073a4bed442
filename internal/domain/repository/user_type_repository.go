package repository

import (
	"context"

	"github.com/adiwidodo/member-portal/internal/domain/entity"
)

// UserTypeRepository defines the interface for user type persistence.
// Delete detaches the type from all members before removing it; members
// themselves are untouched.
type UserTypeRepository interface {
	Create(ctx context.Context, t *entity.UserType) error
	GetByID(ctx context.Context, id int64) (*entity.UserType, error)
	List(ctx context.Context) ([]entity.UserType, error)
	Update(ctx context.Context, t *entity.UserType) error
	Delete(ctx context.Context, id int64) error
	Assign(ctx context.Context, userID, typeID int64) error
}
