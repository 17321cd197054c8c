package account

import "errors"

var (
	// ErrNotFound means the user does not exist.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateEmail means the email is already registered.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrInvalidLinkingCode means no student carries the presented code.
	ErrInvalidLinkingCode = errors.New("invalid linking code")
	// ErrInvalidCredentials covers both unknown email and wrong password;
	// callers must not distinguish the two.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidOldPassword means the current password check failed on a
	// password change.
	ErrInvalidOldPassword = errors.New("old password is incorrect")
)
