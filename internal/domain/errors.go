package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Specific errors wrap one of these so callers can classify them with errors.Is.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrConflict        = errors.New("conflict")
)

var (
	// ErrQuestionNotFound indicates a referenced question ID does not exist.
	ErrQuestionNotFound = fmt.Errorf("%w: no question with that id exists", ErrNotFound)
	// ErrQuizNotFound indicates the quiz could not be loaded.
	ErrQuizNotFound = fmt.Errorf("%w: no quiz with that id exists", ErrNotFound)
	// ErrScoreNotFound indicates a referenced score ID does not exist.
	ErrScoreNotFound = fmt.Errorf("%w: no score with that id exists", ErrNotFound)
	// ErrUserNotFound is returned when no user matches the id, e-mail or username.
	ErrUserNotFound = fmt.Errorf("%w: no user with that email or username exists", ErrNotFound)
	// ErrTokenNotFound is returned for unknown confirmation tokens.
	ErrTokenNotFound = fmt.Errorf("%w: invalid token", ErrInvalidInput)

	// ErrEmptySubmission rejects a score submission without answers.
	ErrEmptySubmission = fmt.Errorf("%w: at least one answer is required", ErrInvalidInput)
	// ErrNegativeElapsed rejects submissions whose end date precedes the start date.
	ErrNegativeElapsed = fmt.Errorf("%w: end date must not be before start date", ErrInvalidInput)
	// ErrTokenExpired is returned for confirmation tokens past their expiration date.
	ErrTokenExpired = fmt.Errorf("%w: token have expired", ErrInvalidInput)
	// ErrPasswordMismatch is returned when a password confirmation differs from the password.
	ErrPasswordMismatch = fmt.Errorf("%w: the password confirmation must match password", ErrInvalidInput)
	// ErrWrongPassword is returned when the current password does not verify.
	ErrWrongPassword = fmt.Errorf("%w: wrong password", ErrInvalidInput)
	// ErrQuestionInUse rejects content changes to a question already graded in a score.
	ErrQuestionInUse = fmt.Errorf("%w: question is referenced by a score and cannot be changed", ErrInvalidInput)
	// ErrUnknownField is returned when a projection names a field the view does not have.
	ErrUnknownField = fmt.Errorf("%w: unknown field", ErrInvalidInput)

	// ErrEmailTaken and ErrUsernameTaken guard registration uniqueness.
	ErrEmailTaken    = fmt.Errorf("%w: user with this email already exists", ErrConflict)
	ErrUsernameTaken = fmt.Errorf("%w: user with this username already exists", ErrConflict)

	// ErrMissingIdentity is returned when an operation requires an authenticated caller.
	ErrMissingIdentity = fmt.Errorf("%w: authentication required", ErrUnauthenticated)
	// ErrBadCredentials is returned on failed logins.
	ErrBadCredentials = fmt.Errorf("%w: bad credentials", ErrUnauthenticated)
	// ErrAccountDisabled is returned when an unconfirmed account tries to log in.
	ErrAccountDisabled = fmt.Errorf("%w: user account is locked", ErrUnauthenticated)

	// ErrNotAuthor is returned when a caller modifies a quiz or question they do not own.
	ErrNotAuthor = fmt.Errorf("%w: only the author can modify this resource", ErrForbidden)
	// ErrAdminOnly guards administrative listings.
	ErrAdminOnly = fmt.Errorf("%w: admin role required", ErrForbidden)

	// ErrMailDelivery indicates the mail transport rejected a message.
	ErrMailDelivery = errors.New("email cannot be sent")
)
