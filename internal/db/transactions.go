package db

import (
	"context"
	"errors"
	"time"

	"github.com/Spikeyfun/prediction/internal/utils"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	defaultMaxAttempts    = 4 // max attempt INCLUDES the first execution
	defaultInitialBackoff = 100 * time.Millisecond
	defaultBackoffFactor  = 2
)

// txWithRetries runs txnFunc inside a mongo session transaction, retrying on
// transient errors (network, timeout, write conflict, transaction aborted)
// with exponential backoff. Non-transient errors such as duplicate keys abort
// immediately and the transaction is rolled back in full.
func (db *Database) txWithRetries(
	ctx context.Context,
	txnFunc func(sessCtx mongo.SessionContext) (interface{}, error),
) (interface{}, error) {
	var (
		result  interface{}
		err     error
		backoff = time.Duration(defaultInitialBackoff)
	)

	for attempt := 1; attempt <= defaultMaxAttempts; attempt++ {
		session, sessionErr := db.Client.StartSession()
		if sessionErr != nil {
			return nil, sessionErr
		}

		result, err = session.WithTransaction(ctx, txnFunc)
		session.EndSession(ctx)

		if err != nil {
			if shouldRetry(err) && attempt < defaultMaxAttempts {
				log.Ctx(ctx).Warn().Err(err).Int("attempt", attempt).
					Msg("transaction failed with retryable error, retrying")
				utils.Sleep(backoff)
				backoff *= defaultBackoffFactor
				continue
			}
			return nil, err
		}
		break
	}
	return result, nil
}

// Error code references: https://www.mongodb.com/docs/manual/reference/error-codes/
func isWriteConflictError(err error) bool {
	var cmdErr *mongo.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr != nil && cmdErr.Code == 112
	}
	return false
}

func isTransactionAbortedError(err error) bool {
	var cmdErr *mongo.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr != nil && cmdErr.Code == 251
	}
	return false
}

func shouldRetry(err error) bool {
	if mongo.IsNetworkError(err) {
		return true
	}
	if mongo.IsTimeout(err) {
		return true
	}
	if isWriteConflictError(err) {
		return true
	}
	if isTransactionAbortedError(err) {
		return true
	}
	return false
}
