package graph

import (
	"context"
	"time"

	"github.com/moodz/moodzapi/internal/models"
)

// Store is the transactional view of the user record store that the
// mutator operates on. Implementations must guarantee that every
// write issued inside Transaction is committed atomically or not at
// all; a write that matches no row must return an error so the
// transaction rolls back.
type Store interface {
	// GetUser returns nil, nil when the user does not exist.
	GetUser(ctx context.Context, id string) (*models.User, error)

	// EdgeExists reports whether follower already follows following.
	EdgeExists(ctx context.Context, followerID, followingID string) (bool, error)

	// RequestExists reports whether a pending follow request from
	// fromID to toID exists.
	RequestExists(ctx context.Context, fromID, toID string) (bool, error)

	// CreateEdge inserts the follow edge row.
	CreateEdge(ctx context.Context, followerID, followingID string, at time.Time) error

	// DeleteEdge removes the follow edge row. Returns false when the
	// edge was not present.
	DeleteEdge(ctx context.Context, followerID, followingID string) (bool, error)

	// CreateRequest inserts a pending follow request row.
	CreateRequest(ctx context.Context, fromID, toID string, at time.Time) error

	// DeleteRequest removes the pending request row. Returns false
	// when no matching request was present.
	DeleteRequest(ctx context.Context, fromID, toID string) (bool, error)

	// BumpFollowing adjusts the user's following counter. Errors when
	// the user row is missing so the enclosing transaction aborts.
	BumpFollowing(ctx context.Context, userID string, delta int64) error

	// BumpFollowers adjusts the user's followers counter.
	BumpFollowers(ctx context.Context, userID string, delta int64) error

	// Transaction runs fn against a transactional store. Any error
	// from fn aborts the transaction and leaves storage unchanged.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}
