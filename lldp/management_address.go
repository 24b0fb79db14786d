package lldp

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"net/netip"

	"go.uber.org/zap/zapcore"
)

// InterfaceNumbering says how the interface number in a Management Address
// TLV should be interpreted.
type InterfaceNumbering uint8

const (
	InterfaceNumberingUnknown    InterfaceNumbering = 1
	InterfaceNumberingIfIndex    InterfaceNumbering = 2
	InterfaceNumberingSystemPort InterfaceNumbering = 3
)

func (n InterfaceNumbering) String() string {
	switch n {
	case InterfaceNumberingUnknown:
		return "unknown"
	case InterfaceNumberingIfIndex:
		return "ifIndex"
	case InterfaceNumberingSystemPort:
		return "system port"
	default:
		return fmt.Sprintf("InterfaceNumbering(%d)", uint8(n))
	}
}

const MaxOIDLen = 128

// ManagementAddress advertises an address that can be used to reach a
// management entity on the sending system. An LLDPDU may carry any number of
// them.
type ManagementAddress struct {
	addr      netip.Addr
	numbering InterfaceNumbering
	ifNumber  uint32
	oid       []byte
}

var _ TLV = &ManagementAddress{}

// NewManagementAddress builds a Management Address TLV for an IPv4 or IPv6
// address. A nil or empty oid is omitted from the encoding.
func NewManagementAddress(addr netip.Addr, numbering InterfaceNumbering, ifNumber uint32, oid []byte) (*ManagementAddress, error) {
	if !addr.IsValid() {
		return nil, fmt.Errorf("%w: management address: invalid IP address", ErrValueConstraint)
	}

	if numbering < InterfaceNumberingUnknown || numbering > InterfaceNumberingSystemPort {
		return nil, fmt.Errorf("%w: interface numbering subtype %d out of range", ErrMalformedTLV, uint8(numbering))
	}

	if len(oid) > MaxOIDLen {
		return nil, fmt.Errorf("%w: OID must be at most %d bytes, got %d", ErrValueConstraint, MaxOIDLen, len(oid))
	}

	m := &ManagementAddress{
		addr:      addr.WithZone(""),
		numbering: numbering,
		ifNumber:  ifNumber,
	}

	if len(oid) > 0 {
		m.oid = bytes.Clone(oid)
	}

	return m, nil
}

func DecodeManagementAddress(b []byte) (*ManagementAddress, error) {
	v, err := decodeHeader(b, TypeManagementAddress)
	if err != nil {
		return nil, err
	}

	if len(v) == 0 {
		return nil, fmt.Errorf("%w: management address: missing address string length", ErrMalformedTLV)
	}

	addrStrLen := int(v[0])

	// address string, interface numbering subtype, interface number, OID length
	if len(v) < 1+addrStrLen+1+4+1 {
		return nil, fmt.Errorf("%w: management address: %d bytes is too short for an address string of %d bytes", ErrMalformedTLV, len(v), addrStrLen)
	}

	addr, err := decodeAddr(v[1 : 1+addrStrLen])
	if err != nil {
		return nil, malformed(err)
	}

	rest := v[1+addrStrLen:]
	numbering := InterfaceNumbering(rest[0])
	ifNumber := binary.BigEndian.Uint32(rest[1:5])
	oidLen := int(rest[5])
	oid := rest[6:]

	if len(oid) != oidLen {
		return nil, fmt.Errorf("%w: management address: declared OID length %d, but %d bytes follow", ErrMalformedTLV, oidLen, len(oid))
	}

	m, err := NewManagementAddress(addr, numbering, ifNumber, oid)
	if err != nil {
		return nil, malformed(err)
	}

	return m, nil
}

func (m *ManagementAddress) Type() Type {
	return TypeManagementAddress
}

func (m *ManagementAddress) Addr() netip.Addr {
	return m.addr
}

func (m *ManagementAddress) InterfaceNumbering() InterfaceNumbering {
	return m.numbering
}

func (m *ManagementAddress) InterfaceNumber() uint32 {
	return m.ifNumber
}

// OID returns a copy of the object identifier, or nil if there isn't one.
func (m *ManagementAddress) OID() []byte {
	return bytes.Clone(m.oid)
}

func (m *ManagementAddress) Len() int {
	return 1 + 1 + addrLen(m.addr) + 1 + 4 + 1 + len(m.oid)
}

func (m *ManagementAddress) Encode() []byte {
	b := newTLVBuffer(TypeManagementAddress, m.Len())
	v := b[headerLen:]

	n := addrLen(m.addr)
	v[0] = byte(1 + n)
	v[1] = familyOf(m.addr)
	copy(v[2:], m.addr.AsSlice())

	rest := v[2+n:]
	rest[0] = byte(m.numbering)
	binary.BigEndian.PutUint32(rest[1:5], m.ifNumber)
	rest[5] = byte(len(m.oid))
	copy(rest[6:], m.oid)

	return b
}

func (m *ManagementAddress) String() string {
	if m.oid == nil {
		return fmt.Sprintf("ManagementAddress(%v, %v %d)", m.addr, m.numbering, m.ifNumber)
	}

	return fmt.Sprintf("ManagementAddress(%v, %v %d, oid=%x)", m.addr, m.numbering, m.ifNumber, m.oid)
}

func (m *ManagementAddress) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("type", TypeManagementAddress.String())
	enc.AddString("addr", m.addr.String())
	enc.AddString("numbering", m.numbering.String())
	enc.AddUint32("interface", m.ifNumber)
	if m.oid != nil {
		enc.AddBinary("oid", m.oid)
	}
	return nil
}
