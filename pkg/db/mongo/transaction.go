package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "staybook/pkg/errors"
	"staybook/pkg/logger"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

type TransactionFunc func(ctx mongo.SessionContext) error

// TransactionManager runs a function as one atomic unit against the store.
// Snapshot reads plus majority writes make overlapping transactions on the
// same inventory rows conflict instead of silently interleaving; disjoint
// rows commit fully in parallel.
type TransactionManager interface {
	ExecuteTransaction(ctx context.Context, fn TransactionFunc) error
	ExecuteWithRetry(ctx context.Context, fn TransactionFunc) error
}

type mongoTransactionManager struct {
	client       *mongo.Client
	maxAttempts  int
	retryBackoff time.Duration
	log          *logger.Logger
}

func NewTransactionManager(client *mongo.Client, maxAttempts int, retryBackoff time.Duration, log *logger.Logger) TransactionManager {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	return &mongoTransactionManager{
		client:       client,
		maxAttempts:  maxAttempts,
		retryBackoff: retryBackoff,
		log:          log,
	}
}

// ExecuteTransaction runs fn in a single transaction attempt. A write-write
// conflict with a concurrently committing transaction surfaces as a CONFLICT
// AppError; everything else propagates untouched.
func (m *mongoTransactionManager) ExecuteTransaction(ctx context.Context, fn TransactionFunc) error {
	session, err := m.client.StartSession()
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeUnavailable, "failed to start store session", 503)
	}
	defer session.EndSession(ctx)

	txOpts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())

	err = mongo.WithSession(ctx, session, func(sessCtx mongo.SessionContext) error {
		if err := session.StartTransaction(txOpts); err != nil {
			return fmt.Errorf("failed to start transaction: %w", err)
		}

		if err := fn(sessCtx); err != nil {
			if abortErr := session.AbortTransaction(sessCtx); abortErr != nil {
				m.log.Warn("Failed to abort transaction", "error", abortErr)
			}
			return err
		}

		return session.CommitTransaction(sessCtx)
	})

	if err != nil {
		if apperrors.IsAppError(err) {
			return err
		}
		if isWriteConflict(err) {
			return apperrors.Conflict("concurrent write conflict on overlapping inventory rows")
		}
		return apperrors.Internal("transaction failed", err)
	}

	return nil
}

// ExecuteWithRetry retries conflicted transactions with exponential backoff
// up to the configured attempt budget. Deterministic failures (validation,
// capacity, not-found) are never retried.
func (m *mongoTransactionManager) ExecuteWithRetry(ctx context.Context, fn TransactionFunc) error {
	var lastErr error

	for attempt := 0; attempt < m.maxAttempts; attempt++ {
		if attempt > 0 {
			backoff := m.retryBackoff << (attempt - 1)
			m.log.Debug("Retrying conflicted transaction",
				"attempt", attempt+1,
				"max_attempts", m.maxAttempts,
				"backoff", backoff,
			)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return apperrors.Timeout("transaction cancelled while waiting to retry")
			}
		}

		lastErr = m.ExecuteTransaction(ctx, fn)
		if lastErr == nil {
			return nil
		}
		if !apperrors.IsCode(lastErr, apperrors.CodeConflict) {
			return lastErr
		}
	}

	m.log.Warn("Transaction conflict retry budget exhausted", "attempts", m.maxAttempts)
	return lastErr
}

// isWriteConflict recognizes the store's optimistic concurrency failures:
// the WriteConflict server code and the transient-transaction label the
// server attaches when overlapping read/write sets collide.
func isWriteConflict(err error) bool {
	const writeConflictCode = 112

	var serverErr mongo.ServerError
	if errors.As(err, &serverErr) {
		if serverErr.HasErrorCode(writeConflictCode) {
			return true
		}
		if serverErr.HasErrorLabel("TransientTransactionError") {
			return true
		}
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.HasErrorLabel("TransientTransactionError")
	}

	return false
}
