package rpc

import (
	"encoding/hex"
	"fmt"
	"net"
	"net/netip"
	"time"

	"google.golang.org/protobuf/types/known/structpb"
)

// Messages travel as protobuf Structs. These are the Go types on either end.

type Interface struct {
	Index        int
	MTU          int
	Name         string
	HardwareAddr net.HardwareAddr
	Flags        net.Flags
	Prefixes     []netip.Prefix
}

// Neighbor carries the neighbor's LLDPDU in wire format. Clients decode it
// with lldp.DecodeLLDPDU.
type Neighbor struct {
	Interface string
	Src       net.HardwareAddr
	LLDPDU    []byte
	LastSeen  time.Time
	Expires   time.Time
}

type NeighborEvent struct {
	Type     string
	Neighbor Neighbor
}

func (i *Interface) toStruct() (*structpb.Struct, error) {
	prefixes := make([]interface{}, len(i.Prefixes))
	for j, p := range i.Prefixes {
		prefixes[j] = p.String()
	}

	return structpb.NewStruct(map[string]interface{}{
		"index":         i.Index,
		"mtu":           i.MTU,
		"name":          i.Name,
		"hardware_addr": i.HardwareAddr.String(),
		"flags":         uint32(i.Flags),
		"prefixes":      prefixes,
	})
}

func interfaceFromStruct(s *structpb.Struct) (Interface, error) {
	f := s.GetFields()

	i := Interface{
		Index: int(f["index"].GetNumberValue()),
		MTU:   int(f["mtu"].GetNumberValue()),
		Name:  f["name"].GetStringValue(),
		Flags: net.Flags(f["flags"].GetNumberValue()),
	}

	if s := f["hardware_addr"].GetStringValue(); s != "" {
		mac, err := net.ParseMAC(s)
		if err != nil {
			return Interface{}, fmt.Errorf("interface %s: %w", i.Name, err)
		}

		i.HardwareAddr = mac
	}

	for _, v := range f["prefixes"].GetListValue().GetValues() {
		p, err := netip.ParsePrefix(v.GetStringValue())
		if err != nil {
			return Interface{}, fmt.Errorf("interface %s: %w", i.Name, err)
		}

		i.Prefixes = append(i.Prefixes, p)
	}

	return i, nil
}

func (n *Neighbor) toStruct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{
		"interface": n.Interface,
		"src":       n.Src.String(),
		"lldpdu":    hex.EncodeToString(n.LLDPDU),
		"last_seen": n.LastSeen.Format(time.RFC3339Nano),
		"expires":   n.Expires.Format(time.RFC3339Nano),
	})
}

func neighborFromStruct(s *structpb.Struct) (Neighbor, error) {
	f := s.GetFields()

	n := Neighbor{
		Interface: f["interface"].GetStringValue(),
	}

	var err error

	n.Src, err = net.ParseMAC(f["src"].GetStringValue())
	if err != nil {
		return Neighbor{}, fmt.Errorf("neighbor src: %w", err)
	}

	n.LLDPDU, err = hex.DecodeString(f["lldpdu"].GetStringValue())
	if err != nil {
		return Neighbor{}, fmt.Errorf("neighbor lldpdu: %w", err)
	}

	n.LastSeen, err = time.Parse(time.RFC3339Nano, f["last_seen"].GetStringValue())
	if err != nil {
		return Neighbor{}, fmt.Errorf("neighbor last_seen: %w", err)
	}

	n.Expires, err = time.Parse(time.RFC3339Nano, f["expires"].GetStringValue())
	if err != nil {
		return Neighbor{}, fmt.Errorf("neighbor expires: %w", err)
	}

	return n, nil
}

func (e *NeighborEvent) toStruct() (*structpb.Struct, error) {
	n, err := e.Neighbor.toStruct()
	if err != nil {
		return nil, err
	}

	return &structpb.Struct{
		Fields: map[string]*structpb.Value{
			"type":     structpb.NewStringValue(e.Type),
			"neighbor": structpb.NewStructValue(n),
		},
	}, nil
}

func neighborEventFromStruct(s *structpb.Struct) (NeighborEvent, error) {
	f := s.GetFields()

	n, err := neighborFromStruct(f["neighbor"].GetStructValue())
	if err != nil {
		return NeighborEvent{}, err
	}

	return NeighborEvent{
		Type:     f["type"].GetStringValue(),
		Neighbor: n,
	}, nil
}

// toList converts each item to a Struct and collects them in a ListValue.
func toList[T any](items []T, toStruct func(*T) (*structpb.Struct, error)) (*structpb.ListValue, error) {
	values := make([]*structpb.Value, len(items))
	for i := range items {
		s, err := toStruct(&items[i])
		if err != nil {
			return nil, err
		}

		values[i] = structpb.NewStructValue(s)
	}

	return &structpb.ListValue{Values: values}, nil
}

func fromList[T any](l *structpb.ListValue, fromStruct func(*structpb.Struct) (T, error)) ([]T, error) {
	items := make([]T, len(l.GetValues()))
	for i, v := range l.GetValues() {
		item, err := fromStruct(v.GetStructValue())
		if err != nil {
			return nil, err
		}

		items[i] = item
	}

	return items, nil
}

func DecodeInterfaces(l *structpb.ListValue) ([]Interface, error) {
	return fromList(l, interfaceFromStruct)
}

func DecodeNeighbors(l *structpb.ListValue) ([]Neighbor, error) {
	return fromList(l, neighborFromStruct)
}

func DecodeNeighborEvent(s *structpb.Struct) (NeighborEvent, error) {
	return neighborEventFromStruct(s)
}

func DecodeVersion(s *structpb.Struct) string {
	return s.GetFields()["version"].GetStringValue()
}
