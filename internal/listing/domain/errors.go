package domain

import "errors"

var (
	// ErrNotFound covers both a missing listing and a listing owned by
	// someone else. The two cases are deliberately indistinguishable so
	// callers cannot probe which listings exist.
	ErrNotFound = errors.New("listing not found")

	// ErrUnauthenticated means the request carried no broker identity.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrInvalidInput means the request was structurally malformed, e.g.
	// an update without a listing id.
	ErrInvalidInput = errors.New("invalid input")

	// ErrImageUpload means object storage rejected or failed the upload.
	ErrImageUpload = errors.New("image upload failed")

	// ErrStoreUnavailable wraps any transport or storage failure from the
	// persistent store.
	ErrStoreUnavailable = errors.New("store unavailable")
)
