package repomanager

import (
	"context"
	"fmt"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/dmitrijs2005/wanttogo/internal/server/repositories/accounts"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoRepositoryManager holds the client of the document store.
type MongoRepositoryManager struct {
	client   *mongo.Client
	accounts *accounts.MongoRepository
}

// OpenMongo connects to uri and prepares the users collection.
func OpenMongo(ctx context.Context, uri, database, collection string) (m *MongoRepositoryManager, err error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongo: %w", err)
	}

	defer func() {
		if err != nil {
			err = errors.WithDeferred(err, client.Disconnect(ctx))
		}
	}()

	if err = client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("pinging mongo: %w", err)
	}

	repo := accounts.NewMongoRepository(client.Database(database).Collection(collection))
	if err = repo.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("creating indexes: %w", err)
	}

	return &MongoRepositoryManager{client: client, accounts: repo}, nil
}

// Accounts implements the [RepositoryManager] interface.
func (m *MongoRepositoryManager) Accounts() accounts.Repository {
	return m.accounts
}

// Close implements the [RepositoryManager] interface.
func (m *MongoRepositoryManager) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
