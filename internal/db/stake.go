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

// PlaceStake applies the full staking effect as a single transaction: debit
// the participant's account, deposit into the vault, insert the stake record,
// append the participant to the slot's participant index and increment the
// slot's total pool. Any failure rolls the whole set back.
func (db *Database) PlaceStake(
	ctx context.Context, participant string, slotID uint64, amount, option uint64,
) error {
	stakeKey := model.BuildStakeKey(participant, slotID)
	_, err := db.txWithRetries(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		if err := db.debitAccount(sessCtx, participant, amount); err != nil {
			return nil, err
		}
		if err := db.depositToVault(sessCtx, amount); err != nil {
			return nil, err
		}

		stakes := db.collection(model.StakeCollection)
		document := model.StakeDocument{
			StakeKey:    stakeKey, // Primary key of db collection
			Participant: participant,
			SlotID:      slotID,
			Amount:      amount,
			Option:      option,
			Claimed:     false,
		}
		if _, err := stakes.InsertOne(sessCtx, document); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				// Return the custom error type so that we can return 4xx errors to client
				return nil, &DuplicateKeyError{
					Key:     stakeKey,
					Message: "Stake already exists for this participant and slot",
				}
			}
			return nil, err
		}

		participants := db.collection(model.SlotParticipantsCollection)
		_, err := participants.UpdateOne(
			sessCtx,
			bson.M{"_id": slotID},
			bson.M{"$push": bson.M{"participants": participant}},
			upsert(),
		)
		if err != nil {
			return nil, err
		}

		// The state filter matches the one ResolveSlot uses, so a stake racing a
		// concurrent resolution rolls back instead of inflating total_pool after
		// the winners pool was frozen.
		slots := db.collection(model.SlotCollection)
		result, err := slots.UpdateOne(
			sessCtx,
			bson.M{"_id": slotID, "state": types.SlotOpen},
			bson.M{"$inc": bson.M{"total_pool": int64(amount)}},
		)
		if err != nil {
			return nil, err
		}
		if result.MatchedCount == 0 {
			return nil, &NotFoundError{
				Key:     strconv.FormatUint(slotID, 10),
				Message: "Slot not found or no longer open",
			}
		}
		return nil, nil
	})
	return err
}

func (db *Database) FindStake(ctx context.Context, participant string, slotID uint64) (*model.StakeDocument, error) {
	client := db.collection(model.StakeCollection)
	stakeKey := model.BuildStakeKey(participant, slotID)
	var stake model.StakeDocument
	err := client.FindOne(ctx, bson.M{"_id": stakeKey}).Decode(&stake)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{
				Key:     stakeKey,
				Message: "Stake not found",
			}
		}
		return nil, err
	}
	return &stake, nil
}

func (db *Database) FindSlotParticipants(ctx context.Context, slotID uint64) ([]string, error) {
	client := db.collection(model.SlotParticipantsCollection)
	var index model.SlotParticipantsDocument
	err := client.FindOne(ctx, bson.M{"_id": slotID}).Decode(&index)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// A slot nobody staked in has no index entry; that is not an error.
			return nil, nil
		}
		return nil, err
	}
	return index.Participants, nil
}

func (db *Database) FindStakesForParticipants(
	ctx context.Context, slotID uint64, participants []string,
) ([]model.StakeDocument, error) {
	if len(participants) == 0 {
		return nil, nil
	}
	client := db.collection(model.StakeCollection)
	filter := bson.M{"slot_id": slotID, "participant": bson.M{"$in": participants}}
	cursor, err := client.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var stakes []model.StakeDocument
	if err = cursor.All(ctx, &stakes); err != nil {
		return nil, err
	}
	return stakes, nil
}

// ClaimReward pays a winner exactly once: the conditional flip of the claimed
// flag, the vault withdrawal and the account credit all commit together or not
// at all.
func (db *Database) ClaimReward(
	ctx context.Context, participant string, slotID uint64, reward uint64,
) error {
	stakeKey := model.BuildStakeKey(participant, slotID)
	_, err := db.txWithRetries(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		stakes := db.collection(model.StakeCollection)
		result, err := stakes.UpdateOne(
			sessCtx,
			bson.M{"_id": stakeKey, "claimed": false},
			bson.M{"$set": bson.M{"claimed": true}},
		)
		if err != nil {
			return nil, err
		}
		if result.MatchedCount == 0 {
			return nil, &AlreadyClaimedError{
				Key:     stakeKey,
				Message: "Reward already claimed",
			}
		}

		if err := db.withdrawFromVault(sessCtx, reward); err != nil {
			return nil, err
		}
		if err := db.creditAccount(sessCtx, participant, reward); err != nil {
			return nil, err
		}
		return nil, nil
	})
	return err
}
