package mongo

import (
	"context"
	"errors"
	"fmt"
	"roomres/pkg/db"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

const (
	transientTransactionLabel = "TransientTransactionError"
	unknownCommitResultLabel  = "UnknownTransactionCommitResult"
)

// TransactionFunc runs inside a transaction. The context it receives is a
// mongo.SessionContext, so collection calls made with it join the transaction.
type TransactionFunc func(ctx context.Context) error

type TransactionManager interface {
	ExecuteTransaction(ctx context.Context, fn TransactionFunc) error
}

type mongoTransactionManager struct {
	client *mongo.Client
	policy db.RetryPolicy
}

func NewTransactionManager(client *mongo.Client, policy db.RetryPolicy) TransactionManager {
	return &mongoTransactionManager{
		client: client,
		policy: policy,
	}
}

// ExecuteTransaction runs fn in a snapshot transaction and retries the whole
// attempt on transient transaction errors. Errors returned by fn itself are
// passed through unchanged unless they are transient.
func (m *mongoTransactionManager) ExecuteTransaction(ctx context.Context, fn TransactionFunc) error {
	return db.Retry(ctx, m.policy, IsTransient, func(ctx context.Context) error {
		return m.runOnce(ctx, fn)
	})
}

func (m *mongoTransactionManager) runOnce(ctx context.Context, fn TransactionFunc) error {
	session, err := m.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(context.Background())

	txnOpts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())

	return mongo.WithSession(ctx, session, func(sessCtx mongo.SessionContext) error {
		if err := sessCtx.StartTransaction(txnOpts); err != nil {
			return fmt.Errorf("failed to start transaction: %w", err)
		}

		if err := fn(sessCtx); err != nil {
			_ = sessCtx.AbortTransaction(context.Background())
			return err
		}

		return commitWithRetry(sessCtx, m.policy.MaxRetries)
	})
}

func commitWithRetry(sessCtx mongo.SessionContext, maxRetries int) error {
	for attempt := 0; ; attempt++ {
		err := sessCtx.CommitTransaction(sessCtx)
		if err == nil {
			return nil
		}
		if hasLabel(err, unknownCommitResultLabel) && attempt < maxRetries {
			continue
		}
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
}

// IsTransient reports whether a transaction failure is worth retrying:
// write conflicts between concurrent slot writers and duplicate keys from
// racing upserts.
func IsTransient(err error) bool {
	return hasLabel(err, transientTransactionLabel) || mongo.IsDuplicateKeyError(err)
}

func hasLabel(err error, label string) bool {
	var serverErr mongo.ServerError
	return errors.As(err, &serverErr) && serverErr.HasErrorLabel(label)
}
