package lldp

import (
	"bytes"
	"fmt"
	"net"
	"net/netip"

	"go.uber.org/zap/zapcore"
)

type ChassisIDSubtype uint8

const (
	ChassisComponent      ChassisIDSubtype = 1
	ChassisInterfaceAlias ChassisIDSubtype = 2
	ChassisPortComponent  ChassisIDSubtype = 3
	ChassisMACAddress     ChassisIDSubtype = 4
	ChassisNetworkAddress ChassisIDSubtype = 5
	ChassisInterfaceName  ChassisIDSubtype = 6
	ChassisLocal          ChassisIDSubtype = 7
)

func (s ChassisIDSubtype) String() string {
	switch s {
	case ChassisComponent:
		return "chassis component"
	case ChassisInterfaceAlias:
		return "interface alias"
	case ChassisPortComponent:
		return "port component"
	case ChassisMACAddress:
		return "MAC address"
	case ChassisNetworkAddress:
		return "network address"
	case ChassisInterfaceName:
		return "interface name"
	case ChassisLocal:
		return "local"
	default:
		return fmt.Sprintf("ChassisIDSubtype(%d)", uint8(s))
	}
}

func (s ChassisIDSubtype) format() idFormat {
	switch s {
	case ChassisMACAddress:
		return idMAC
	case ChassisNetworkAddress:
		return idAddr
	default:
		return idText
	}
}

// ChassisID identifies the device sending an LLDPDU. It must be the first TLV.
type ChassisID struct {
	subtype ChassisIDSubtype
	id      []byte
}

var _ TLV = &ChassisID{}

// NewChassisID builds a Chassis ID TLV from a raw identifier: six bytes for
// ChassisMACAddress, a family byte and packed address for ChassisNetworkAddress,
// and UTF-8 text for everything else.
func NewChassisID(subtype ChassisIDSubtype, id []byte) (*ChassisID, error) {
	if subtype < ChassisComponent || subtype > ChassisLocal {
		return nil, fmt.Errorf("%w: chassis ID subtype %d out of range", ErrMalformedTLV, uint8(subtype))
	}

	if err := validateID(subtype.format(), id); err != nil {
		return nil, fmt.Errorf("chassis ID: %w", err)
	}

	return &ChassisID{
		subtype: subtype,
		id:      bytes.Clone(id),
	}, nil
}

func NewChassisIDFromMAC(mac net.HardwareAddr) (*ChassisID, error) {
	return NewChassisID(ChassisMACAddress, mac)
}

func NewChassisIDFromAddr(addr netip.Addr) (*ChassisID, error) {
	b, err := encodeAddr(addr)
	if err != nil {
		return nil, fmt.Errorf("chassis ID: %w", err)
	}

	return NewChassisID(ChassisNetworkAddress, b)
}

func DecodeChassisID(b []byte) (*ChassisID, error) {
	v, err := decodeHeader(b, TypeChassisID)
	if err != nil {
		return nil, err
	}

	if len(v) == 0 {
		return nil, fmt.Errorf("%w: chassis ID: missing subtype", ErrMalformedTLV)
	}

	c, err := NewChassisID(ChassisIDSubtype(v[0]), v[1:])
	if err != nil {
		return nil, malformed(err)
	}

	return c, nil
}

func (c *ChassisID) Type() Type {
	return TypeChassisID
}

func (c *ChassisID) Subtype() ChassisIDSubtype {
	return c.subtype
}

// ID returns a copy of the raw identifier.
func (c *ChassisID) ID() []byte {
	return bytes.Clone(c.id)
}

func (c *ChassisID) MAC() (net.HardwareAddr, bool) {
	if c.subtype != ChassisMACAddress {
		return nil, false
	}

	return cloneMAC(c.id), true
}

func (c *ChassisID) Addr() (netip.Addr, bool) {
	if c.subtype != ChassisNetworkAddress {
		return netip.Addr{}, false
	}

	addr, err := decodeAddr(c.id)
	if err != nil {
		return netip.Addr{}, false
	}

	return addr, true
}

func (c *ChassisID) Len() int {
	return 1 + len(c.id)
}

func (c *ChassisID) Encode() []byte {
	b := newTLVBuffer(TypeChassisID, c.Len())
	b[headerLen] = byte(c.subtype)
	copy(b[headerLen+1:], c.id)

	return b
}

func (c *ChassisID) String() string {
	return fmt.Sprintf("ChassisID(%v, %s)", c.subtype, formatID(c.subtype.format(), c.id))
}

func (c *ChassisID) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("type", TypeChassisID.String())
	enc.AddString("subtype", c.subtype.String())
	enc.AddString("id", formatID(c.subtype.format(), c.id))
	return nil
}
