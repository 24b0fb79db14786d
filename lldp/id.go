package lldp

import (
	"fmt"
	"net"
	"unicode/utf8"
)

// Chassis ID and Port ID TLVs share a value layout: one subtype byte followed by
// an identifier whose format is picked by the subtype.
type idFormat int

const (
	idText idFormat = iota
	idMAC
	idAddr
)

const maxIDLen = maxStringLen - 1

func validateID(f idFormat, id []byte) error {
	switch f {
	case idMAC:
		return validateMAC(id)
	case idAddr:
		_, err := decodeAddr(id)
		return err
	default:
		if len(id) == 0 {
			return fmt.Errorf("%w: ID must not be empty", ErrValueConstraint)
		}

		if len(id) > maxIDLen {
			return fmt.Errorf("%w: ID must be at most %d bytes, got %d", ErrValueConstraint, maxIDLen, len(id))
		}

		if !utf8.Valid(id) {
			return fmt.Errorf("%w: ID is not valid UTF-8", ErrMalformedTLV)
		}

		return nil
	}
}

func formatID(f idFormat, id []byte) string {
	switch f {
	case idMAC:
		return net.HardwareAddr(id).String()
	case idAddr:
		addr, err := decodeAddr(id)
		if err != nil {
			return fmt.Sprintf("%x", id)
		}
		return addr.String()
	default:
		return string(id)
	}
}
