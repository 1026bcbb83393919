package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/users/internal/users/credential"
	"github.com/aussiebroadwan/users/internal/users/domain"
	"github.com/aussiebroadwan/users/internal/users/metrics"
	"github.com/aussiebroadwan/users/internal/users/store"
	"github.com/aussiebroadwan/users/pkg/idx"
	"github.com/aussiebroadwan/users/pkg/slogx"
)

type UserService struct {
	Store   store.Store
	Policy  *credential.Policy
	Metrics metrics.Recorder
}

// CreateUserInput is a registration request. Role defaults to
// domain.DefaultRole when empty.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
	Profile  domain.ProfilePatch
}

// UpdateUserInput is a partial update; nil fields are left unchanged.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
	Role     *domain.Role
	Profile  domain.ProfilePatch
}

func (s *UserService) metrics() metrics.Recorder { return metrics.OrNoop(s.Metrics) }

// ListUsers returns every user, oldest first.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.Store.Users().ListUsers(ctx)
}

// GetUser fetches a user by id. Ids that are not valid ULIDs cannot exist
// and report ErrUserNotFound without a lookup.
func (s *UserService) GetUser(ctx context.Context, id string) (domain.User, error) {
	if _, err := idx.Parse(id); err != nil {
		return domain.User{}, ErrUserNotFound
	}
	u, err := s.Store.Users().GetUserByID(ctx, id)
	if err != nil {
		return domain.User{}, mapStoreErr(err)
	}
	return u, nil
}

// CreateUser validates and stores a new user. The initial password is
// recorded in the history like any later change.
func (s *UserService) CreateUser(ctx context.Context, in CreateUserInput) (domain.User, error) {
	l := slogx.FromContext(ctx)

	role := in.Role
	if role == "" {
		role = domain.DefaultRole
	}

	u := domain.User{
		Email:   domain.NormalizeEmail(in.Email),
		Name:    domain.NormalizeName(in.Name),
		Role:    role,
		Profile: domain.DefaultProfile(),
	}

	if err := domain.Validate(
		domain.ValidateUser(u),
		domain.ValidatePassword(in.Password),
		in.Profile.Validate(),
	); err != nil {
		return domain.User{}, err
	}
	u.Profile = in.Profile.Apply(u.Profile)

	if err := s.Policy.RecordPasswordChange(&u, in.Password); err != nil {
		return domain.User{}, err
	}

	created, err := s.Store.Users().CreateUser(ctx, u)
	if err != nil {
		return domain.User{}, mapStoreErr(err)
	}

	s.metrics().RecordUserOperation("create")
	s.metrics().RecordPasswordChange(false)
	l.Info("user created", slog.String("user_id", created.ID), slog.String("role", string(created.Role)))
	return created, nil
}

// UpdateUser applies a partial update. A new password goes through the
// history check and fails with credential.ErrPasswordReused on reuse.
func (s *UserService) UpdateUser(ctx context.Context, id string, in UpdateUserInput) (domain.User, error) {
	l := slogx.FromContext(ctx)

	if _, err := idx.Parse(id); err != nil {
		return domain.User{}, ErrUserNotFound
	}

	var updated domain.User
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		u, err := tx.Users().GetUserByID(ctx, id)
		if err != nil {
			return mapStoreErr(err)
		}

		if in.Name != nil {
			u.Name = domain.NormalizeName(*in.Name)
		}
		if in.Email != nil {
			u.Email = domain.NormalizeEmail(*in.Email)
		}
		if in.Role != nil {
			u.Role = *in.Role
		}

		checks := []error{domain.ValidateUser(u), in.Profile.Validate()}
		if in.Password != nil {
			checks = append(checks, domain.ValidatePassword(*in.Password))
		}
		if err := domain.Validate(checks...); err != nil {
			return err
		}
		u.Profile = in.Profile.Apply(u.Profile)

		if in.Password != nil {
			if err := s.Policy.RecordPasswordChange(&u, *in.Password); err != nil {
				if errors.Is(err, credential.ErrPasswordReused) {
					s.metrics().RecordPasswordChange(true)
					l.Info("password reuse rejected", slog.String("user_id", id))
				}
				return err
			}
			s.metrics().RecordPasswordChange(false)
		}

		updated, err = tx.Users().UpdateUser(ctx, u)
		if err != nil {
			return mapStoreErr(err)
		}
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}

	s.metrics().RecordUserOperation("update")
	l.Info("user updated", slog.String("user_id", id), slog.Bool("password_changed", in.Password != nil))
	return updated, nil
}

// DeleteUser hard-deletes a user and returns the removed record.
func (s *UserService) DeleteUser(ctx context.Context, id string) (domain.User, error) {
	if _, err := idx.Parse(id); err != nil {
		return domain.User{}, ErrUserNotFound
	}

	deleted, err := s.Store.Users().DeleteUser(ctx, id)
	if err != nil {
		return domain.User{}, mapStoreErr(err)
	}

	s.metrics().RecordUserOperation("delete")
	slogx.FromContext(ctx).Info("user deleted", slog.String("user_id", id))
	return deleted, nil
}

func wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
