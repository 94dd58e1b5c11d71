package types

// SlotState is the resolution state of a betting slot. A slot starts open and
// transitions to resolved exactly once; there is no transition back.
type SlotState string

const (
	SlotOpen     SlotState = "open"
	SlotResolved SlotState = "resolved"
)

func (s SlotState) ToString() string {
	return string(s)
}
