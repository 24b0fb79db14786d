package lldp

import (
	"encoding/binary"
	"fmt"
	"time"

	"go.uber.org/zap/zapcore"
)

const (
	ttlLen = 2

	MaxTTL = 65535
)

// TTL tells the receiver how many seconds to keep the information in an
// LLDPDU. It must be the third TLV.
type TTL struct {
	seconds uint16
}

var _ TLV = &TTL{}

func NewTTL(seconds int) (*TTL, error) {
	if seconds < 1 || seconds > MaxTTL {
		return nil, fmt.Errorf("%w: TTL must be between 1 and %d, got %d", ErrValueConstraint, MaxTTL, seconds)
	}

	return &TTL{seconds: uint16(seconds)}, nil
}

func DecodeTTL(b []byte) (*TTL, error) {
	v, err := decodeHeader(b, TypeTTL)
	if err != nil {
		return nil, err
	}

	if len(v) != ttlLen {
		return nil, fmt.Errorf("%w: TTL length must be %d, got %d", ErrMalformedTLV, ttlLen, len(v))
	}

	t, err := NewTTL(int(binary.BigEndian.Uint16(v)))
	if err != nil {
		return nil, malformed(err)
	}

	return t, nil
}

func (t *TTL) Type() Type {
	return TypeTTL
}

func (t *TTL) Seconds() int {
	return int(t.seconds)
}

func (t *TTL) Duration() time.Duration {
	return time.Duration(t.seconds) * time.Second
}

func (t *TTL) Len() int {
	return ttlLen
}

func (t *TTL) Encode() []byte {
	b := newTLVBuffer(TypeTTL, ttlLen)
	binary.BigEndian.PutUint16(b[headerLen:], t.seconds)

	return b
}

func (t *TTL) String() string {
	return fmt.Sprintf("TTL(%d)", t.seconds)
}

func (t *TTL) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("type", TypeTTL.String())
	enc.AddUint16("seconds", t.seconds)
	return nil
}
