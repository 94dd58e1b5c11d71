package model

import (
	"github.com/Spikeyfun/prediction/internal/types"
)

const SlotCollection = "slots"

type SlotDocument struct {
	SlotID    uint64          `bson:"_id"` // Primary key
	OpenTime  int64           `bson:"open_time"`
	CloseTime int64           `bson:"close_time"`
	Anchor    string          `bson:"anchor"` // opaque reference value, e.g. an anchor price
	Options   []string        `bson:"options"`
	State     types.SlotState `bson:"state"`
	// WinningOption and WinnersPool are only meaningful once State is resolved.
	WinningOption uint64 `bson:"winning_option"`
	TotalPool     uint64 `bson:"total_pool"`
	WinnersPool   uint64 `bson:"winners_pool"`
}

func (s *SlotDocument) IsResolved() bool {
	return s.State == types.SlotResolved
}
