package orchestrators

import (
	"context"
	"log/slog"

	"adventcal/internal/domain/admin"
)

// LoginInput carries the supplied shared secret.
type LoginInput struct {
	Password string
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	Secret admin.Secret
}

// ExecuteLogin verifies the shared admin secret. On success the caller
// mints a session; holding that session is what authorizes every later
// admin action.
// POST: Returns nil on a correct password, admin.ErrWrongPassword otherwise
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) error {
	if err := deps.Secret.Check(input.Password); err != nil {
		slog.Info("auth_event", "event", "login_failed")
		return err
	}
	slog.Info("auth_event", "event", "login_success")
	return nil
}
