package db

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Spikeyfun/prediction/internal/db/model"
)

// InitLedgerRoot inserts the singleton root document binding the administrator
// identity. If a root already exists it is returned as-is; a deployment only
// ever binds its administrator once.
func (db *Database) InitLedgerRoot(
	ctx context.Context, adminIdentity string, createdAt int64,
) (*model.LedgerRootDocument, error) {
	client := db.collection(model.LedgerRootCollection)
	document := model.LedgerRootDocument{
		ID:            model.LedgerRootID,
		AdminIdentity: adminIdentity,
		CreatedAt:     createdAt,
	}
	_, err := client.InsertOne(ctx, document)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return db.findLedgerRoot(ctx)
		}
		return nil, err
	}
	return &document, nil
}

func (db *Database) findLedgerRoot(ctx context.Context) (*model.LedgerRootDocument, error) {
	client := db.collection(model.LedgerRootCollection)
	var root model.LedgerRootDocument
	err := client.FindOne(ctx, bson.M{"_id": model.LedgerRootID}).Decode(&root)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{
				Key:     model.LedgerRootID,
				Message: "Ledger root not found",
			}
		}
		return nil, err
	}
	return &root, nil
}
