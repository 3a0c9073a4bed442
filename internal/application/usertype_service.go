package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/adiwidodo/member-portal/internal/domain/entity"
	"github.com/adiwidodo/member-portal/internal/domain/repository"
)

// UserTypeService manages the user type records and their membership.
// Names are not unique; the schema carries no constraint.
type UserTypeService struct {
	Types  repository.UserTypeRepository
	Users  repository.UserRepository
	Logger *logrus.Logger
}

func NewUserTypeService(types repository.UserTypeRepository, users repository.UserRepository, logger *logrus.Logger) *UserTypeService {
	return &UserTypeService{Types: types, Users: users, Logger: logger}
}

func (s *UserTypeService) Create(ctx context.Context, name string) (*entity.UserType, error) {
	t := &entity.UserType{Name: name}
	if err := s.Types.Create(ctx, t); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user_type_id": t.ID, "name": t.Name}).Info("user type created")
	}
	return t, nil
}

func (s *UserTypeService) Get(ctx context.Context, id int64) (*entity.UserType, error) {
	t, err := s.Types.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserTypeNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *UserTypeService) List(ctx context.Context) ([]entity.UserType, error) {
	return s.Types.List(ctx)
}

func (s *UserTypeService) Rename(ctx context.Context, id int64, name string) (*entity.UserType, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Name = name
	if err := s.Types.Update(ctx, t); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserTypeNotFound
		}
		return nil, err
	}
	return t, nil
}

// Delete removes the type and detaches it from every member; the members
// themselves persist.
func (s *UserTypeService) Delete(ctx context.Context, id int64) error {
	if err := s.Types.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserTypeNotFound
		}
		return err
	}
	if s.Logger != nil {
		s.Logger.WithField("user_type_id", id).Info("user type deleted")
	}
	return nil
}

func (s *UserTypeService) Assign(ctx context.Context, userID, typeID int64) error {
	if _, err := s.Get(ctx, typeID); err != nil {
		return err
	}
	return s.Types.Assign(ctx, userID, typeID)
}

// HasType reports whether the account belongs to the named user type.
func (s *UserTypeService) HasType(ctx context.Context, userID int64, name string) (bool, error) {
	types, err := s.Users.TypesFor(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, t := range types {
		if t.Name == name {
			return true, nil
		}
	}
	return false, nil
}
