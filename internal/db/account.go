package db

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Spikeyfun/prediction/internal/db/model"
)

// The accounts collection is the external asset ledger collaborator, co-located
// with the core tables so that debit and credit take part in the same
// transactions as the escrow vault.

func (db *Database) debitAccount(ctx context.Context, identity string, amount uint64) error {
	client := db.collection(model.AccountCollection)
	result, err := client.UpdateOne(
		ctx,
		bson.M{"_id": identity, "balance": bson.M{"$gte": int64(amount)}},
		bson.M{"$inc": bson.M{"balance": -int64(amount)}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return &InsufficientFundsError{
			Identity: identity,
			Message:  "Account balance cannot cover the requested debit",
		}
	}
	return nil
}

func (db *Database) creditAccount(ctx context.Context, identity string, amount uint64) error {
	client := db.collection(model.AccountCollection)
	_, err := client.UpdateOne(
		ctx,
		bson.M{"_id": identity},
		bson.M{"$inc": bson.M{"balance": int64(amount)}},
		upsert(),
	)
	return err
}

func (db *Database) AccountBalance(ctx context.Context, identity string) (uint64, error) {
	client := db.collection(model.AccountCollection)
	var account model.AccountDocument
	err := client.FindOne(ctx, bson.M{"_id": identity}).Decode(&account)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, nil
		}
		return 0, err
	}
	return account.Balance, nil
}

func (db *Database) FundAccount(ctx context.Context, identity string, amount uint64) error {
	return db.creditAccount(ctx, identity, amount)
}
