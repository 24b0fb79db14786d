package lldp

import (
	"bytes"
	"fmt"

	"go.uber.org/zap/zapcore"
)

const (
	ouiLen = 3

	MaxOrgInfoLen = maxValueLen - ouiLen - 1
)

// OrganizationallySpecific carries vendor defined information, identified by
// an OUI and a vendor defined subtype.
type OrganizationallySpecific struct {
	oui     [ouiLen]byte
	subtype byte
	info    []byte
}

var _ TLV = &OrganizationallySpecific{}

func NewOrganizationallySpecific(oui []byte, subtype byte, info []byte) (*OrganizationallySpecific, error) {
	if len(oui) != ouiLen {
		return nil, fmt.Errorf("%w: OUI must be %d bytes, got %d", ErrValueConstraint, ouiLen, len(oui))
	}

	if len(info) > MaxOrgInfoLen {
		return nil, fmt.Errorf("%w: organizationally specific info must be at most %d bytes, got %d", ErrValueConstraint, MaxOrgInfoLen, len(info))
	}

	o := &OrganizationallySpecific{subtype: subtype}
	copy(o.oui[:], oui)

	if len(info) > 0 {
		o.info = bytes.Clone(info)
	}

	return o, nil
}

func DecodeOrganizationallySpecific(b []byte) (*OrganizationallySpecific, error) {
	v, err := decodeHeader(b, TypeOrganizationallySpecific)
	if err != nil {
		return nil, err
	}

	if len(v) < ouiLen+1 {
		return nil, fmt.Errorf("%w: organizationally specific TLV needs at least %d bytes, got %d", ErrMalformedTLV, ouiLen+1, len(v))
	}

	o, err := NewOrganizationallySpecific(v[:ouiLen], v[ouiLen], v[ouiLen+1:])
	if err != nil {
		return nil, malformed(err)
	}

	return o, nil
}

func (o *OrganizationallySpecific) Type() Type {
	return TypeOrganizationallySpecific
}

func (o *OrganizationallySpecific) OUI() [3]byte {
	return o.oui
}

func (o *OrganizationallySpecific) Subtype() byte {
	return o.subtype
}

// Info returns a copy of the vendor defined information string.
func (o *OrganizationallySpecific) Info() []byte {
	return bytes.Clone(o.info)
}

func (o *OrganizationallySpecific) Len() int {
	return ouiLen + 1 + len(o.info)
}

func (o *OrganizationallySpecific) Encode() []byte {
	b := newTLVBuffer(TypeOrganizationallySpecific, o.Len())
	copy(b[headerLen:], o.oui[:])
	b[headerLen+ouiLen] = o.subtype
	copy(b[headerLen+ouiLen+1:], o.info)

	return b
}

func (o *OrganizationallySpecific) String() string {
	return fmt.Sprintf("OrganizationallySpecific(%02x:%02x:%02x, %d, %x)", o.oui[0], o.oui[1], o.oui[2], o.subtype, o.info)
}

func (o *OrganizationallySpecific) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("type", TypeOrganizationallySpecific.String())
	enc.AddString("oui", fmt.Sprintf("%02x:%02x:%02x", o.oui[0], o.oui[1], o.oui[2]))
	enc.AddUint8("subtype", o.subtype)
	enc.AddBinary("info", o.info)
	return nil
}
