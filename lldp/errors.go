package lldp

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownTLVType is returned when a type code outside {0..8, 127} is decoded.
	ErrUnknownTLVType = errors.New("unknown TLV type")

	// ErrMalformedTLV is returned when a TLV's length, subtype, address family,
	// text encoding or capability bits don't hold together.
	ErrMalformedTLV = errors.New("malformed TLV")

	// ErrInvalidSequence is returned when appending a TLV would break the
	// ordering rules of an LLDPDU or push it past MaxLLDPDUSize.
	ErrInvalidSequence = errors.New("invalid TLV sequence")

	// ErrValueConstraint is returned when a value has the wrong size for its field.
	ErrValueConstraint = errors.New("value constraint violation")
)

// Decoders report every problem they find on the wire as ErrMalformedTLV. Errors
// that already carry another sentinel keep it, so errors.Is matches both.
func malformed(err error) error {
	if errors.Is(err, ErrMalformedTLV) {
		return err
	}

	return fmt.Errorf("%w: %w", ErrMalformedTLV, err)
}
