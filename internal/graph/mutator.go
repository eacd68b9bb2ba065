package graph

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/moodz/moodzapi/pkg/logging"
)

// errPrecondition aborts a transaction for an expected reason: the
// state the operation requires is already gone or already in place.
// Surfaced to callers as a plain false, never as an error.
var errPrecondition = errors.New("precondition not met")

// FeedInvalidator discards a viewer's cached feed. Implementations
// must treat their own failures as non-fatal; the mutator never
// rolls back a committed mutation over a failed invalidation.
type FeedInvalidator interface {
	Invalidate(ctx context.Context, viewerID string)
}

// Mutator implements the four follow-graph state transitions. Every
// transition commits its two per-user writes in a single storage
// transaction: a concurrent reader never observes one side updated
// without the other.
//
// The boolean result means "state changed". Precondition failures
// (target missing, edge already present, no matching request) return
// false with a nil error since they are expected outcomes of racing
// clients; a false with a non-nil error means the transaction was
// aborted and storage is unchanged.
type Mutator struct {
	store       Store
	invalidator FeedInvalidator
	logger      *zap.Logger
	now         func() time.Time
}

// NewMutator creates a new graph mutator
func NewMutator(store Store, invalidator FeedInvalidator) *Mutator {
	return &Mutator{
		store:       store,
		invalidator: invalidator,
		logger:      logging.GetLogger().With(zap.String("component", "graph-mutator")),
		now:         time.Now,
	}
}

// Follow requests or establishes a follow edge from fromID to toID.
// Private targets get a pending follow request instead of an edge.
func (m *Mutator) Follow(ctx context.Context, fromID, toID string) (bool, error) {
	if fromID == "" || toID == "" || fromID == toID {
		return false, nil
	}

	var followed bool
	err := m.store.Transaction(ctx, func(tx Store) error {
		target, err := tx.GetUser(ctx, toID)
		if err != nil {
			return err
		}
		if target == nil {
			return errPrecondition
		}
		if err := m.requireUser(ctx, tx, fromID); err != nil {
			return err
		}

		exists, err := tx.EdgeExists(ctx, fromID, toID)
		if err != nil {
			return err
		}
		if exists {
			return errPrecondition
		}

		pending, err := tx.RequestExists(ctx, fromID, toID)
		if err != nil {
			return err
		}
		if pending {
			return errPrecondition
		}

		if target.IsPrivate {
			// No edge yet; the target decides later.
			return tx.CreateRequest(ctx, fromID, toID, m.now())
		}

		if err := tx.CreateEdge(ctx, fromID, toID, m.now()); err != nil {
			return err
		}
		if err := tx.BumpFollowing(ctx, fromID, 1); err != nil {
			return err
		}
		if err := tx.BumpFollowers(ctx, toID, 1); err != nil {
			return err
		}
		followed = true
		return nil
	})
	if err != nil {
		return false, m.mutationError("follow", fromID, toID, err)
	}

	if followed {
		// The follower's following set changed, not the target's.
		m.invalidator.Invalidate(ctx, fromID)
	}
	return true, nil
}

// Unfollow removes the follow edge from fromID to toID.
func (m *Mutator) Unfollow(ctx context.Context, fromID, toID string) (bool, error) {
	err := m.store.Transaction(ctx, func(tx Store) error {
		removed, err := tx.DeleteEdge(ctx, fromID, toID)
		if err != nil {
			return err
		}
		if !removed {
			return errPrecondition
		}
		if err := tx.BumpFollowing(ctx, fromID, -1); err != nil {
			return err
		}
		return tx.BumpFollowers(ctx, toID, -1)
	})
	if err != nil {
		return false, m.mutationError("unfollow", fromID, toID, err)
	}

	m.invalidator.Invalidate(ctx, fromID)
	return true, nil
}

// AcceptFollowRequest converts the pending request from fromID into a
// follow edge. Called on behalf of toID, the request's recipient.
func (m *Mutator) AcceptFollowRequest(ctx context.Context, fromID, toID string) (bool, error) {
	err := m.store.Transaction(ctx, func(tx Store) error {
		removed, err := tx.DeleteRequest(ctx, fromID, toID)
		if err != nil {
			return err
		}
		if !removed {
			return errPrecondition
		}
		if err := tx.CreateEdge(ctx, fromID, toID, m.now()); err != nil {
			return err
		}
		if err := tx.BumpFollowing(ctx, fromID, 1); err != nil {
			return err
		}
		return tx.BumpFollowers(ctx, toID, 1)
	})
	if err != nil {
		return false, m.mutationError("accept-request", fromID, toID, err)
	}

	// The requester gained a source; their feed is stale now.
	m.invalidator.Invalidate(ctx, fromID)
	return true, nil
}

// DeclineFollowRequest removes the pending request from fromID to
// toID without creating an edge. The same primitive serves the
// recipient declining and the requester cancelling; callers pass the
// pair in the orientation the request was stored with.
func (m *Mutator) DeclineFollowRequest(ctx context.Context, fromID, toID string) (bool, error) {
	var removed bool
	err := m.store.Transaction(ctx, func(tx Store) error {
		var err error
		removed, err = tx.DeleteRequest(ctx, fromID, toID)
		if err != nil {
			return err
		}
		if !removed {
			return errPrecondition
		}
		return nil
	})
	if err != nil {
		return false, m.mutationError("decline-request", fromID, toID, err)
	}
	return removed, nil
}

func (m *Mutator) requireUser(ctx context.Context, tx Store, id string) error {
	user, err := tx.GetUser(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return errPrecondition
	}
	return nil
}

// mutationError separates expected precondition misses from aborted
// transactions. Both leave storage unchanged; only the latter is an
// error to the caller.
func (m *Mutator) mutationError(op, fromID, toID string, err error) error {
	if err == errPrecondition {
		return nil
	}
	m.logger.Error("graph mutation aborted",
		zap.String("op", op),
		zap.String("from", fromID),
		zap.String("to", toID),
		zap.Error(err))
	return err
}
