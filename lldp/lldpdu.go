package lldp

import (
	"fmt"
	"strings"

	"go.uber.org/zap/zapcore"
)

// MaxLLDPDUSize is the largest LLDPDU that fits in an untagged Ethernet frame.
const MaxLLDPDUSize = 1500

// LLDPDU is an ordered sequence of TLVs. The first three are always ChassisID,
// PortID and TTL, each appearing exactly once, and nothing follows EndOfLLDPDU.
//
// The zero value is an empty LLDPDU ready for Append.
type LLDPDU struct {
	tlvs []TLV
	size int
}

// NewLLDPDU appends each TLV in order to an empty LLDPDU.
func NewLLDPDU(tlvs ...TLV) (*LLDPDU, error) {
	du := &LLDPDU{}

	for _, tlv := range tlvs {
		if err := du.Append(tlv); err != nil {
			return nil, err
		}
	}

	return du, nil
}

// Append adds tlv to the end of du. It fails with ErrInvalidSequence, leaving
// du unchanged, if tlv is out of place or would make du larger than
// MaxLLDPDUSize.
func (du *LLDPDU) Append(tlv TLV) error {
	if isNil(tlv) {
		return fmt.Errorf("%w: nil TLV", ErrInvalidSequence)
	}

	t := tlv.Type()

	switch len(du.tlvs) {
	case 0:
		if t != TypeChassisID {
			return fmt.Errorf("%w: first TLV must be %v, got %v", ErrInvalidSequence, TypeChassisID, t)
		}
	case 1:
		if t != TypePortID {
			return fmt.Errorf("%w: second TLV must be %v, got %v", ErrInvalidSequence, TypePortID, t)
		}
	case 2:
		if t != TypeTTL {
			return fmt.Errorf("%w: third TLV must be %v, got %v", ErrInvalidSequence, TypeTTL, t)
		}
	default:
		switch t {
		case TypeChassisID, TypePortID, TypeTTL:
			return fmt.Errorf("%w: duplicate %v", ErrInvalidSequence, t)
		}

		if du.tlvs[len(du.tlvs)-1].Type() == TypeEndOfLLDPDU {
			return fmt.Errorf("%w: %v after %v", ErrInvalidSequence, t, TypeEndOfLLDPDU)
		}
	}

	size := du.size + headerLen + tlv.Len()
	if size > MaxLLDPDUSize {
		return fmt.Errorf("%w: %v would grow LLDPDU to %d bytes, max is %d", ErrInvalidSequence, t, size, MaxLLDPDUSize)
	}

	du.tlvs = append(du.tlvs, tlv)
	du.size = size

	return nil
}

// isNil reports whether tlv is nil or a nil pointer to one of the TLV types.
func isNil(tlv TLV) bool {
	switch v := tlv.(type) {
	case nil:
		return true
	case *ChassisID:
		return v == nil
	case *PortID:
		return v == nil
	case *TTL:
		return v == nil
	case *EndOfLLDPDU:
		return v == nil
	case *PortDescription:
		return v == nil
	case *SystemName:
		return v == nil
	case *SystemDescription:
		return v == nil
	case *SystemCapabilities:
		return v == nil
	case *ManagementAddress:
		return v == nil
	case *OrganizationallySpecific:
		return v == nil
	default:
		return false
	}
}

// Complete reports whether du starts with ChassisID, PortID and TTL. A trailing
// EndOfLLDPDU is not required.
func (du *LLDPDU) Complete() bool {
	if len(du.tlvs) < 3 {
		return false
	}

	return du.tlvs[0].Type() == TypeChassisID &&
		du.tlvs[1].Type() == TypePortID &&
		du.tlvs[2].Type() == TypeTTL
}

// Len returns the number of TLVs in du.
func (du *LLDPDU) Len() int {
	return len(du.tlvs)
}

// Size returns the length of du's encoding in bytes.
func (du *LLDPDU) Size() int {
	return du.size
}

func (du *LLDPDU) At(i int) TLV {
	return du.tlvs[i]
}

func (du *LLDPDU) TLVs() []TLV {
	tlvs := make([]TLV, len(du.tlvs))
	copy(tlvs, du.tlvs)
	return tlvs
}

func (du *LLDPDU) ChassisID() *ChassisID {
	if len(du.tlvs) < 1 {
		return nil
	}

	return du.tlvs[0].(*ChassisID)
}

func (du *LLDPDU) PortID() *PortID {
	if len(du.tlvs) < 2 {
		return nil
	}

	return du.tlvs[1].(*PortID)
}

func (du *LLDPDU) TTL() *TTL {
	if len(du.tlvs) < 3 {
		return nil
	}

	return du.tlvs[2].(*TTL)
}

func (du *LLDPDU) Encode() []byte {
	b := make([]byte, 0, du.size)
	for _, tlv := range du.tlvs {
		b = append(b, tlv.Encode()...)
	}

	return b
}

// DecodeLLDPDU decodes every TLV in b, checking each one with Append. Anything
// after an EndOfLLDPDU, including Ethernet padding, is an error, so callers
// reading from the wire should trim padding first.
func DecodeLLDPDU(b []byte) (*LLDPDU, error) {
	du := &LLDPDU{}

	for off := 0; off < len(b); {
		if len(b)-off < headerLen {
			return nil, fmt.Errorf("%w: truncated header at offset %d", ErrMalformedTLV, off)
		}

		t, err := DecodeType(b[off])
		if err != nil {
			return nil, fmt.Errorf("offset %d: %w", off, err)
		}

		_, length := readHeader(b[off:])
		end := off + headerLen + length
		if end > len(b) {
			return nil, fmt.Errorf("%w: %v at offset %d declares %d bytes, but only %d remain", ErrMalformedTLV, t, off, length, len(b)-off-headerLen)
		}

		tlv, err := decoders[t](b[off:end])
		if err != nil {
			return nil, fmt.Errorf("offset %d: %w", off, err)
		}

		if err := du.Append(tlv); err != nil {
			return nil, fmt.Errorf("offset %d: %w", off, err)
		}

		off = end
	}

	return du, nil
}

func (du *LLDPDU) String() string {
	s := make([]string, len(du.tlvs))
	for i, tlv := range du.tlvs {
		s[i] = tlv.String()
	}

	return "LLDPDU[" + strings.Join(s, ", ") + "]"
}

func (du *LLDPDU) MarshalLogArray(enc zapcore.ArrayEncoder) error {
	for _, tlv := range du.tlvs {
		if err := enc.AppendObject(tlv); err != nil {
			return err
		}
	}
	return nil
}

// TrimPadding returns b up to and including its first EndOfLLDPDU TLV. If b
// has no EndOfLLDPDU, or a header runs past the end of b, b is returned as is
// and DecodeLLDPDU reports the problem.
func TrimPadding(b []byte) []byte {
	for off := 0; len(b)-off >= headerLen; {
		t, length := readHeader(b[off:])
		end := off + headerLen + length
		if end > len(b) {
			break
		}

		if t == TypeEndOfLLDPDU {
			return b[:end]
		}

		off = end
	}

	return b
}
