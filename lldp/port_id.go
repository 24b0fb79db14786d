package lldp

import (
	"bytes"
	"fmt"
	"net"
	"net/netip"

	"go.uber.org/zap/zapcore"
)

type PortIDSubtype uint8

const (
	PortInterfaceAlias PortIDSubtype = 1
	PortComponent      PortIDSubtype = 2
	PortMACAddress     PortIDSubtype = 3
	PortNetworkAddress PortIDSubtype = 4
	PortInterfaceName  PortIDSubtype = 5
	PortAgentCircuitID PortIDSubtype = 6
	PortLocal          PortIDSubtype = 7
)

func (s PortIDSubtype) String() string {
	switch s {
	case PortInterfaceAlias:
		return "interface alias"
	case PortComponent:
		return "port component"
	case PortMACAddress:
		return "MAC address"
	case PortNetworkAddress:
		return "network address"
	case PortInterfaceName:
		return "interface name"
	case PortAgentCircuitID:
		return "agent circuit ID"
	case PortLocal:
		return "local"
	default:
		return fmt.Sprintf("PortIDSubtype(%d)", uint8(s))
	}
}

func (s PortIDSubtype) format() idFormat {
	switch s {
	case PortMACAddress:
		return idMAC
	case PortNetworkAddress:
		return idAddr
	default:
		return idText
	}
}

// PortID identifies the port an LLDPDU was sent from. It must be the second TLV.
type PortID struct {
	subtype PortIDSubtype
	id      []byte
}

var _ TLV = &PortID{}

// NewPortID builds a Port ID TLV from a raw identifier: six bytes for
// PortMACAddress, a family byte and packed address for PortNetworkAddress,
// and UTF-8 text for everything else.
func NewPortID(subtype PortIDSubtype, id []byte) (*PortID, error) {
	if subtype < PortInterfaceAlias || subtype > PortLocal {
		return nil, fmt.Errorf("%w: port ID subtype %d out of range", ErrMalformedTLV, uint8(subtype))
	}

	if err := validateID(subtype.format(), id); err != nil {
		return nil, fmt.Errorf("port ID: %w", err)
	}

	return &PortID{
		subtype: subtype,
		id:      bytes.Clone(id),
	}, nil
}

func NewPortIDFromMAC(mac net.HardwareAddr) (*PortID, error) {
	return NewPortID(PortMACAddress, mac)
}

func NewPortIDFromAddr(addr netip.Addr) (*PortID, error) {
	b, err := encodeAddr(addr)
	if err != nil {
		return nil, fmt.Errorf("port ID: %w", err)
	}

	return NewPortID(PortNetworkAddress, b)
}

func DecodePortID(b []byte) (*PortID, error) {
	v, err := decodeHeader(b, TypePortID)
	if err != nil {
		return nil, err
	}

	if len(v) == 0 {
		return nil, fmt.Errorf("%w: port ID: missing subtype", ErrMalformedTLV)
	}

	p, err := NewPortID(PortIDSubtype(v[0]), v[1:])
	if err != nil {
		return nil, malformed(err)
	}

	return p, nil
}

func (p *PortID) Type() Type {
	return TypePortID
}

func (p *PortID) Subtype() PortIDSubtype {
	return p.subtype
}

// ID returns a copy of the raw identifier.
func (p *PortID) ID() []byte {
	return bytes.Clone(p.id)
}

func (p *PortID) MAC() (net.HardwareAddr, bool) {
	if p.subtype != PortMACAddress {
		return nil, false
	}

	return cloneMAC(p.id), true
}

func (p *PortID) Addr() (netip.Addr, bool) {
	if p.subtype != PortNetworkAddress {
		return netip.Addr{}, false
	}

	addr, err := decodeAddr(p.id)
	if err != nil {
		return netip.Addr{}, false
	}

	return addr, true
}

func (p *PortID) Len() int {
	return 1 + len(p.id)
}

func (p *PortID) Encode() []byte {
	b := newTLVBuffer(TypePortID, p.Len())
	b[headerLen] = byte(p.subtype)
	copy(b[headerLen+1:], p.id)

	return b
}

func (p *PortID) String() string {
	return fmt.Sprintf("PortID(%v, %s)", p.subtype, formatID(p.subtype.format(), p.id))
}

func (p *PortID) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("type", TypePortID.String())
	enc.AddString("subtype", p.subtype.String())
	enc.AddString("id", formatID(p.subtype.format(), p.id))
	return nil
}
