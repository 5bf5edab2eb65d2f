package services

import "errors"

// Error taxonomy for the likes core. Controllers map these to HTTP statuses;
// everything else is logged and surfaced as a generic server error.
var (
	// ErrSelfLike rejects like requests where actor == target.
	ErrSelfLike = errors.New("cannot like yourself")

	// ErrUserNotFound means the like target does not resolve to a profile.
	ErrUserNotFound = errors.New("user not found")

	// ErrLikeNotFound means no edge exists for the given like id.
	ErrLikeNotFound = errors.New("like not found")

	// ErrForbidden means the edge is not addressed to the acting user.
	ErrForbidden = errors.New("forbidden")

	// ErrDuplicateLike is the storage-layer uniqueness constraint firing.
	// It never leaves the match engine: a duplicate create always collapses
	// into the idempotent "already liked" success path.
	ErrDuplicateLike = errors.New("like already exists")

	// ErrLikeConflict means a transactional status transition lost a race
	// with a concurrent writer. Callers re-read and settle on whatever
	// state won.
	ErrLikeConflict = errors.New("like transition conflict")
)
