package cli

import (
	"errors"

	"github.com/xabinapal/bugz/internal/auth"
	"github.com/xabinapal/bugz/internal/bugzilla"
	"github.com/xabinapal/bugz/internal/l10n"
	"github.com/xabinapal/bugz/internal/profile"
)

// localizedError replaces the message of a known error with its
// translated user text. errors.Is still sees the wrapped error.
type localizedError struct {
	msg string
	err error
}

func (e *localizedError) Error() string { return e.msg }
func (e *localizedError) Unwrap() error { return e.err }

// userError maps errors the user can act on to their fixed messages.
func userError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, profile.ErrNoBase):
		return &localizedError{msg: l10n.T("No base URL specified"), err: err}
	case errors.Is(err, auth.ErrNoAuth):
		return &localizedError{msg: l10n.T("failed to get auth"), err: err}
	case errors.Is(err, ErrAborted):
		return &localizedError{msg: l10n.T("Submission aborted"), err: err}
	case errors.Is(err, bugzilla.ErrNoChanges):
		return &localizedError{msg: l10n.T("No changes were specified"), err: err}
	}
	return err
}
