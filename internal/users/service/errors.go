package service

import (
	"errors"

	"github.com/aussiebroadwan/users/internal/users/credential"
	"github.com/aussiebroadwan/users/internal/users/store"
)

var (
	ErrUserNotFound = errors.New("not_found")
	ErrEmailTaken   = errors.New("email_taken")

	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password so callers cannot tell which.
	ErrInvalidCredentials = credential.ErrInvalidCredentials
)

func mapStoreErr(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ErrUserNotFound
	case errors.Is(err, store.ErrAlreadyExists):
		return ErrEmailTaken
	}
	return err
}
