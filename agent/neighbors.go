package agent

import (
	"bytes"
	"context"
	"net"
	"time"

	"github.com/davidbalbert/lldpd/events"
	"github.com/davidbalbert/lldpd/lldp"
	"github.com/davidbalbert/lldpd/sync"
	"golang.org/x/exp/slices"
)

// Neighbor is the most recent LLDPDU received from a remote port.
type Neighbor struct {
	Interface string
	Src       net.HardwareAddr
	LLDPDU    *lldp.LLDPDU
	LastSeen  time.Time
	Expires   time.Time
}

func (n Neighbor) ChassisID() *lldp.ChassisID {
	return n.LLDPDU.ChassisID()
}

func (n Neighbor) PortID() *lldp.PortID {
	return n.LLDPDU.PortID()
}

func (n Neighbor) TTL() *lldp.TTL {
	return n.LLDPDU.TTL()
}

func (n Neighbor) SystemName() string {
	for _, tlv := range n.LLDPDU.TLVs() {
		if name, ok := tlv.(*lldp.SystemName); ok {
			return name.Name()
		}
	}

	return ""
}

func (n Neighbor) PortDescription() string {
	for _, tlv := range n.LLDPDU.TLVs() {
		if desc, ok := tlv.(*lldp.PortDescription); ok {
			return desc.Description()
		}
	}

	return ""
}

// A remote port is identified by the chassis and port IDs it sends, as seen on
// one of our interfaces.
type neighborKey struct {
	iface     string
	chassisID string
	portID    string
}

func keyFor(iface string, du *lldp.LLDPDU) neighborKey {
	return neighborKey{
		iface:     iface,
		chassisID: string(append([]byte{byte(du.ChassisID().Subtype())}, du.ChassisID().ID()...)),
		portID:    string(append([]byte{byte(du.PortID().Subtype())}, du.PortID().ID()...)),
	}
}

// NeighborTable holds every neighbor whose TTL hasn't run out. Changes are
// published as events.NeighborAdded, NeighborUpdated and NeighborRemoved, each
// carrying a Neighbor.
type NeighborTable struct {
	st     chan map[neighborKey]Neighbor
	events *sync.QueuedNotifier[events.Event]
}

func NewNeighborTable() *NeighborTable {
	st := make(chan map[neighborKey]Neighbor, 1)
	st <- make(map[neighborKey]Neighbor)

	return &NeighborTable{
		st:     st,
		events: sync.NewQueuedNotifier[events.Event](),
	}
}

// Update records du, received on iface from src. du must be complete.
func (t *NeighborTable) Update(iface string, src net.HardwareAddr, du *lldp.LLDPDU, now time.Time) {
	n := Neighbor{
		Interface: iface,
		Src:       bytes.Clone(src),
		LLDPDU:    du,
		LastSeen:  now,
		Expires:   now.Add(du.TTL().Duration()),
	}

	key := keyFor(iface, du)

	st := <-t.st
	defer func() {
		t.st <- st
	}()

	old, ok := st[key]
	st[key] = n

	if !ok {
		t.events.NotifyChange(events.Event{Type: events.NeighborAdded, Data: n})
	} else if !bytes.Equal(old.Src, n.Src) || !bytes.Equal(old.LLDPDU.Encode(), du.Encode()) {
		t.events.NotifyChange(events.Event{Type: events.NeighborUpdated, Data: n})
	}
}

// Expire removes every neighbor whose TTL has run out by now.
func (t *NeighborTable) Expire(now time.Time) {
	t.removeIf(func(n Neighbor) bool {
		return !now.Before(n.Expires)
	})
}

// RemoveInterface removes every neighbor seen on iface.
func (t *NeighborTable) RemoveInterface(iface string) {
	t.removeIf(func(n Neighbor) bool {
		return n.Interface == iface
	})
}

func (t *NeighborTable) removeIf(pred func(Neighbor) bool) {
	st := <-t.st
	defer func() {
		t.st <- st
	}()

	for key, n := range st {
		if pred(n) {
			delete(st, key)
			t.events.NotifyChange(events.Event{Type: events.NeighborRemoved, Data: n})
		}
	}
}

// Neighbors returns every neighbor, ordered by interface, chassis ID and port ID.
func (t *NeighborTable) Neighbors() []Neighbor {
	st := <-t.st

	keys := make([]neighborKey, 0, len(st))
	for key := range st {
		keys = append(keys, key)
	}

	slices.SortFunc(keys, func(a, b neighborKey) bool {
		if a.iface != b.iface {
			return a.iface < b.iface
		} else if a.chassisID != b.chassisID {
			return a.chassisID < b.chassisID
		}

		return a.portID < b.portID
	})

	neighbors := make([]Neighbor, len(keys))
	for i, key := range keys {
		neighbors[i] = st[key]
	}

	t.st <- st

	return neighbors
}

// Register starts queueing events for a new listener.
func (t *NeighborTable) Register() sync.Token {
	return t.events.Register()
}

func (t *NeighborTable) Unregister(token sync.Token) {
	t.events.Unregister(token)
}

// AwaitEvent returns the next event queued for token. It returns false once
// ctx is done.
func (t *NeighborTable) AwaitEvent(ctx context.Context, token sync.Token) (events.Event, bool) {
	return t.events.AwaitChange(ctx, token)
}
