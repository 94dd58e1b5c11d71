package db

import (
	"context"
	"errors"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Spikeyfun/prediction/internal/db/model"
	"github.com/Spikeyfun/prediction/internal/types"
)

func (db *Database) SaveSlot(
	ctx context.Context, slotID uint64, openTime, closeTime int64,
	anchor string, options []string,
) error {
	client := db.collection(model.SlotCollection)
	document := model.SlotDocument{
		SlotID:    slotID, // Primary key of db collection
		OpenTime:  openTime,
		CloseTime: closeTime,
		Anchor:    anchor,
		Options:   options,
		State:     types.SlotOpen,
		TotalPool: 0,
	}
	_, err := client.InsertOne(ctx, document)
	if err != nil {
		var writeErr mongo.WriteException
		if errors.As(err, &writeErr) {
			for _, e := range writeErr.WriteErrors {
				if mongo.IsDuplicateKeyError(e) {
					// Return the custom error type so that we can return 4xx errors to client
					return &DuplicateKeyError{
						Key:     strconv.FormatUint(slotID, 10),
						Message: "Slot already exists",
					}
				}
			}
		}
		return err
	}
	return nil
}

func (db *Database) FindSlotByID(ctx context.Context, slotID uint64) (*model.SlotDocument, error) {
	client := db.collection(model.SlotCollection)
	filter := bson.M{"_id": slotID}
	var slot model.SlotDocument
	err := client.FindOne(ctx, filter).Decode(&slot)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{
				Key:     strconv.FormatUint(slotID, 10),
				Message: "Slot not found",
			}
		}
		return nil, err
	}
	return &slot, nil
}

// ResolveSlot transitions a slot from open to resolved, writing the winning
// option and the recomputed winners pool. The filter on state makes the
// transition one-shot: a concurrent or repeated resolution matches nothing and
// returns a NotFoundError.
func (db *Database) ResolveSlot(ctx context.Context, slotID uint64, winningOption, winnersPool uint64) error {
	client := db.collection(model.SlotCollection)
	filter := bson.M{"_id": slotID, "state": types.SlotOpen}
	update := bson.M{"$set": bson.M{
		"state":          types.SlotResolved,
		"winning_option": winningOption,
		"winners_pool":   winnersPool,
	}}
	result, err := client.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return &NotFoundError{
			Key:     strconv.FormatUint(slotID, 10),
			Message: "Slot not found or no longer open",
		}
	}
	return nil
}
