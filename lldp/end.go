package lldp

import (
	"fmt"

	"go.uber.org/zap/zapcore"
)

// EndOfLLDPDU marks the end of an LLDPDU. Its encoding is always 0x00 0x00.
type EndOfLLDPDU struct{}

var _ TLV = &EndOfLLDPDU{}

func NewEndOfLLDPDU() *EndOfLLDPDU {
	return &EndOfLLDPDU{}
}

func DecodeEndOfLLDPDU(b []byte) (*EndOfLLDPDU, error) {
	if len(b) != headerLen || b[0] != 0 || b[1] != 0 {
		return nil, fmt.Errorf("%w: EndOfLLDPDU must be encoded as 00 00, got % x", ErrMalformedTLV, b)
	}

	return &EndOfLLDPDU{}, nil
}

func (e *EndOfLLDPDU) Type() Type {
	return TypeEndOfLLDPDU
}

func (e *EndOfLLDPDU) Len() int {
	return 0
}

func (e *EndOfLLDPDU) Encode() []byte {
	return []byte{0x00, 0x00}
}

func (e *EndOfLLDPDU) String() string {
	return "EndOfLLDPDU()"
}

func (e *EndOfLLDPDU) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("type", TypeEndOfLLDPDU.String())
	return nil
}
