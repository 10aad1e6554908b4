package mongodb

import (
	"context"
	"fmt"

	"smoketrack/internal/repositories/interfaces"

	"go.mongodb.org/mongo-driver/mongo"
)

type transactionManager struct {
	client *mongo.Client
}

func NewTransactionManager(client *mongo.Client) interfaces.TransactionManager {
	return &transactionManager{client: client}
}

func (m *transactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := m.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, fn(sessCtx)
	})
	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}

	return nil
}
