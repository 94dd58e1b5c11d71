package client

const (
	StakeEventsQueueName      string = "stake_events_queue"
	ResolutionEventsQueueName string = "resolution_events_queue"
	PayoutEventsQueueName     string = "payout_events_queue"
)

type EventType int

const (
	StakePlacedEventType   EventType = 1
	SlotResolvedEventType  EventType = 2
	RewardClaimedEventType EventType = 3
)

type StakePlacedEvent struct {
	EventType   EventType `json:"event_type"` // always 1
	Participant string    `json:"participant"`
	SlotID      uint64    `json:"slot_id"`
	Amount      uint64    `json:"amount"`
	Option      uint64    `json:"option"`
}

type SlotResolvedEvent struct {
	EventType     EventType `json:"event_type"` // always 2
	SlotID        uint64    `json:"slot_id"`
	WinningOption uint64    `json:"winning_option"`
	TotalPool     uint64    `json:"total_pool"`
	WinnersPool   uint64    `json:"winners_pool"`
}

type RewardClaimedEvent struct {
	EventType   EventType `json:"event_type"` // always 3
	Participant string    `json:"participant"`
	SlotID      uint64    `json:"slot_id"`
	Reward      uint64    `json:"reward"`
}

func NewStakePlacedEvent(participant string, slotID, amount, option uint64) StakePlacedEvent {
	return StakePlacedEvent{
		EventType:   StakePlacedEventType,
		Participant: participant,
		SlotID:      slotID,
		Amount:      amount,
		Option:      option,
	}
}

func NewSlotResolvedEvent(slotID, winningOption, totalPool, winnersPool uint64) SlotResolvedEvent {
	return SlotResolvedEvent{
		EventType:     SlotResolvedEventType,
		SlotID:        slotID,
		WinningOption: winningOption,
		TotalPool:     totalPool,
		WinnersPool:   winnersPool,
	}
}

func NewRewardClaimedEvent(participant string, slotID, reward uint64) RewardClaimedEvent {
	return RewardClaimedEvent{
		EventType:   RewardClaimedEventType,
		Participant: participant,
		SlotID:      slotID,
		Reward:      reward,
	}
}
