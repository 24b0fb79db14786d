package lldp

import (
	"fmt"

	"go.uber.org/zap/zapcore"
)

type Type uint8

const (
	TypeEndOfLLDPDU              Type = 0
	TypeChassisID                Type = 1
	TypePortID                   Type = 2
	TypeTTL                      Type = 3
	TypePortDescription          Type = 4
	TypeSystemName               Type = 5
	TypeSystemDescription        Type = 6
	TypeSystemCapabilities       Type = 7
	TypeManagementAddress        Type = 8
	TypeOrganizationallySpecific Type = 127
)

func (t Type) String() string {
	switch t {
	case TypeEndOfLLDPDU:
		return "EndOfLLDPDU"
	case TypeChassisID:
		return "ChassisID"
	case TypePortID:
		return "PortID"
	case TypeTTL:
		return "TTL"
	case TypePortDescription:
		return "PortDescription"
	case TypeSystemName:
		return "SystemName"
	case TypeSystemDescription:
		return "SystemDescription"
	case TypeSystemCapabilities:
		return "SystemCapabilities"
	case TypeManagementAddress:
		return "ManagementAddress"
	case TypeOrganizationallySpecific:
		return "OrganizationallySpecific"
	default:
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
}

const (
	headerLen = 2

	// Longest value that fits in the 9 bit length field.
	maxValueLen = 511

	// Longest value allowed for every TLV except OrganizationallySpecific.
	maxStringLen = 255
)

// TLV is a single Type-Length-Value element of an LLDPDU. Values are immutable
// once constructed.
type TLV interface {
	Type() Type

	// Len returns the length of the value, excluding the two byte header.
	Len() int

	// Encode returns the wire encoding, exactly 2+Len() bytes.
	Encode() []byte

	String() string

	zapcore.ObjectMarshaler
}

type decodeFunc func(b []byte) (TLV, error)

// Filled in by init so that the entries can refer to the Decode functions
// without an initialization cycle. Never written after that.
var decoders map[Type]decodeFunc

func init() {
	decoders = map[Type]decodeFunc{
		TypeEndOfLLDPDU:              func(b []byte) (TLV, error) { return DecodeEndOfLLDPDU(b) },
		TypeChassisID:                func(b []byte) (TLV, error) { return DecodeChassisID(b) },
		TypePortID:                   func(b []byte) (TLV, error) { return DecodePortID(b) },
		TypeTTL:                      func(b []byte) (TLV, error) { return DecodeTTL(b) },
		TypePortDescription:          func(b []byte) (TLV, error) { return DecodePortDescription(b) },
		TypeSystemName:               func(b []byte) (TLV, error) { return DecodeSystemName(b) },
		TypeSystemDescription:        func(b []byte) (TLV, error) { return DecodeSystemDescription(b) },
		TypeSystemCapabilities:       func(b []byte) (TLV, error) { return DecodeSystemCapabilities(b) },
		TypeManagementAddress:        func(b []byte) (TLV, error) { return DecodeManagementAddress(b) },
		TypeOrganizationallySpecific: func(b []byte) (TLV, error) { return DecodeOrganizationallySpecific(b) },
	}
}

// DecodeType extracts the type code from the first byte of an encoded TLV.
func DecodeType(b byte) (Type, error) {
	t := Type(b >> 1)

	if _, ok := decoders[t]; !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownTLVType, uint8(t))
	}

	return t, nil
}

// DecodeTLV decodes a single TLV. b must contain exactly one encoded TLV.
func DecodeTLV(b []byte) (TLV, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: empty buffer", ErrMalformedTLV)
	}

	t, err := DecodeType(b[0])
	if err != nil {
		return nil, err
	}

	return decoders[t](b)
}

func encodeHeader(b []byte, t Type, length int) {
	b[0] = byte(t)<<1 | byte(length>>8)&0x01
	b[1] = byte(length)
}

// Returns the type code and value length stored in a TLV header.
func readHeader(b []byte) (Type, int) {
	return Type(b[0] >> 1), int(b[0]&0x01)<<8 | int(b[1])
}

// Checks the header of b against t and returns the value.
func decodeHeader(b []byte, t Type) ([]byte, error) {
	if len(b) < headerLen {
		return nil, fmt.Errorf("%w: %v: need %d header bytes, got %d", ErrMalformedTLV, t, headerLen, len(b))
	}

	got, length := readHeader(b)
	if got != t {
		return nil, fmt.Errorf("%w: expected %v, got type %d", ErrMalformedTLV, t, uint8(got))
	}

	if length != len(b)-headerLen {
		return nil, fmt.Errorf("%w: %v: declared length %d, but %d bytes follow the header", ErrMalformedTLV, t, length, len(b)-headerLen)
	}

	return b[headerLen:], nil
}

func newTLVBuffer(t Type, length int) []byte {
	b := make([]byte, headerLen+length)
	encodeHeader(b, t, length)
	return b
}
