package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/studyhall/studyhall-lms/internal/access"
	"github.com/studyhall/studyhall-lms/internal/catalog"
)

// EnsureAdmin creates the first admin account if the username is absent, so
// a fresh database is loginable. Existing accounts are left untouched.
// Returns true when the account was created.
func EnsureAdmin(ctx context.Context, store catalog.Store, username, password string) (bool, error) {
	if username == "" || password == "" {
		return false, nil
	}
	_, err := store.GetUserByUsername(ctx, username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, catalog.ErrNotFound) {
		return false, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}
	_, err = store.CreateUser(ctx, catalog.User{
		Username: username,
		FullName: "Administrator",
		Role:     access.RoleAdmin,
	}, string(hash))
	if errors.Is(err, catalog.ErrConflict) {
		// lost a race with another instance, the account exists
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
