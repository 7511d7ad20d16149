package store

import (
	apperrors "github.com/vedantlahane/myblog-sub000/internal/errors"
)

// Sentinel errors returned by store operations.
// These are the shared application error values so callers can test with
// errors.Is regardless of which layer produced the failure.
var (
	ErrNotFound      = apperrors.ErrNotFound
	ErrAlreadyExists = apperrors.ErrAlreadyExists
)
