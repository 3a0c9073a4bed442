package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/adiwidodo/member-portal/internal/domain/entity"
	"github.com/adiwidodo/member-portal/internal/domain/repository"
	"github.com/adiwidodo/member-portal/pkg/helpers"
	"github.com/adiwidodo/member-portal/pkg/mailer"
)

// MailQueue publishes email jobs for asynchronous delivery. Satisfied by
// helpers.RabbitPublisher; nil disables delivery entirely.
type MailQueue interface {
	PublishJSON(ctx context.Context, body any) error
}

// AccountService orchestrates registration, login, account update, and the
// password-reset lifecycle.
type AccountService struct {
	Users   repository.UserRepository
	Tokens  *helpers.TokenManager
	Mail    MailQueue
	Logger  *logrus.Logger
	BaseURL string
}

func NewAccountService(users repository.UserRepository, tokens *helpers.TokenManager, mail MailQueue, logger *logrus.Logger, baseURL string) *AccountService {
	return &AccountService{
		Users:   users,
		Tokens:  tokens,
		Mail:    mail,
		Logger:  logger,
		BaseURL: baseURL,
	}
}

// Register creates a new account. Username and email availability are
// checked before the insert so the caller gets a field-specific message;
// a lost race against a concurrent registration surfaces as the same
// FieldErrors, never as an internal failure.
func (s *AccountService) Register(ctx context.Context, username, email, password string) (*entity.User, error) {
	fieldErrs := FieldErrors{}
	if _, err := s.Users.GetByUsername(ctx, username); err == nil {
		fieldErrs["username"] = MsgUsernameTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if _, err := s.Users.GetByEmail(ctx, email); err == nil {
		fieldErrs["email"] = MsgEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if len(fieldErrs) > 0 {
		return nil, fieldErrs
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{Username: username, Email: email, PasswordHash: hash}
	if err := s.Users.Create(ctx, u); err != nil {
		if fe := duplicateToFieldErrors(err); fe != nil {
			return nil, fe
		}
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "username": u.Username}).Info("account registered")
	}
	return u, nil
}

// Authenticate validates email/password. Both an unknown email and a hash
// mismatch return ErrInvalidCredentials so nothing about the account leaks.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil || u == nil {
		return nil, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *AccountService) GetAccount(ctx context.Context, id int64) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, id)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *AccountService) ListUsers(ctx context.Context) ([]entity.User, error) {
	return s.Users.List(ctx)
}

// DeleteUser removes an account entirely; its user type memberships go
// with it via the join table cascade.
func (s *AccountService) DeleteUser(ctx context.Context, id int64) error {
	if err := s.Users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if s.Logger != nil {
		s.Logger.WithField("user_id", id).Info("account deleted")
	}
	return nil
}

// UpdateAccount changes username and email. Unchanged values pass; changed
// values must still be unique.
func (s *AccountService) UpdateAccount(ctx context.Context, id int64, username, email string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, id)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}

	fieldErrs := FieldErrors{}
	if username != u.Username {
		if _, err := s.Users.GetByUsername(ctx, username); err == nil {
			fieldErrs["username"] = MsgUsernameTaken
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}
	if email != u.Email {
		if _, err := s.Users.GetByEmail(ctx, email); err == nil {
			fieldErrs["email"] = MsgEmailTaken
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}
	if len(fieldErrs) > 0 {
		return nil, fieldErrs
	}

	u.Username = username
	u.Email = email
	if err := s.Users.Update(ctx, u); err != nil {
		if fe := duplicateToFieldErrors(err); fe != nil {
			return nil, fe
		}
		return nil, err
	}
	return u, nil
}

// RequestPasswordReset issues a reset token for the account behind email
// and enqueues the reset email. Delivery is fire and forget: a publish
// failure is logged, never surfaced to the requester.
func (s *AccountService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil || u == nil {
		return "", ErrUserNotFound
	}
	token, err := s.Tokens.IssueReset(u.ID, 0)
	if err != nil {
		return "", err
	}

	if s.Mail != nil {
		link := s.BaseURL + "/reset_password/" + token
		job := mailer.EmailJob{
			To:      u.Email,
			Subject: "Password Reset Request",
			Text: "To reset your password, visit the following link:\n" + link +
				"\n\nIf you did not make this request then simply ignore this email and no changes will be made.\n",
		}
		if perr := s.Mail.PublishJSON(ctx, job); perr != nil && s.Logger != nil {
			s.Logger.WithError(perr).WithField("user_id", u.ID).Warn("enqueue reset email failed")
		}
	}
	return token, nil
}

// VerifyResetToken returns the account the token belongs to, or
// ErrTokenInvalid for anything expired, tampered, or unknown.
func (s *AccountService) VerifyResetToken(ctx context.Context, token string) (*entity.User, error) {
	uid := s.Tokens.VerifyReset(token)
	if uid == 0 {
		return nil, ErrTokenInvalid
	}
	u, err := s.Users.GetByID(ctx, uid)
	if err != nil || u == nil {
		return nil, ErrTokenInvalid
	}
	return u, nil
}

// ResetPassword consumes a reset token and stores the new password hash.
func (s *AccountService) ResetPassword(ctx context.Context, token, newPassword string) error {
	u, err := s.VerifyResetToken(ctx, token)
	if err != nil {
		return err
	}
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.Users.UpdatePassword(ctx, u.ID, hash); err != nil {
		return err
	}
	if s.Logger != nil {
		s.Logger.WithField("user_id", u.ID).Info("password reset")
	}
	return nil
}

func duplicateToFieldErrors(err error) FieldErrors {
	switch {
	case errors.Is(err, repository.ErrDuplicateUsername):
		return FieldErrors{"username": MsgUsernameTaken}
	case errors.Is(err, repository.ErrDuplicateEmail):
		return FieldErrors{"email": MsgEmailTaken}
	}
	return nil
}
