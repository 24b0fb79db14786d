package events

type EventType string

const (
	NeighborAdded   EventType = "NeighborAdded"
	NeighborUpdated EventType = "NeighborUpdated"
	NeighborRemoved EventType = "NeighborRemoved"
)

type Event struct {
	Type EventType
	Data any
}

