package db

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Spikeyfun/prediction/internal/db/model"
)

func upsert() *options.UpdateOptions {
	return options.Update().SetUpsert(true)
}

// depositToVault merges an amount into the pooled escrow balance. Deposits
// have no failure path of their own; upstream insufficient-funds is surfaced
// by the account debit before this is reached.
func (db *Database) depositToVault(ctx context.Context, amount uint64) error {
	client := db.collection(model.VaultCollection)
	_, err := client.UpdateOne(
		ctx,
		bson.M{"_id": model.VaultDocumentID},
		bson.M{"$inc": bson.M{"balance": int64(amount)}},
		upsert(),
	)
	return err
}

// withdrawFromVault removes exactly amount from the pooled balance. The
// balance filter turns an overdraw into an InsufficientVaultBalanceError
// instead of a negative balance; correct per-slot accounting never hits it.
func (db *Database) withdrawFromVault(ctx context.Context, amount uint64) error {
	client := db.collection(model.VaultCollection)
	result, err := client.UpdateOne(
		ctx,
		bson.M{"_id": model.VaultDocumentID, "balance": bson.M{"$gte": int64(amount)}},
		bson.M{"$inc": bson.M{"balance": -int64(amount)}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return &InsufficientVaultBalanceError{
			Message: "Vault balance cannot cover the requested withdrawal",
		}
	}
	return nil
}

func (db *Database) VaultBalance(ctx context.Context) (uint64, error) {
	client := db.collection(model.VaultCollection)
	var vault model.VaultDocument
	err := client.FindOne(ctx, bson.M{"_id": model.VaultDocumentID}).Decode(&vault)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, nil
		}
		return 0, err
	}
	return vault.Balance, nil
}
