package lldp

import (
	"fmt"
	"net"
	"net/netip"
)

// IANA address family numbers.
const (
	familyIPv4 = 1
	familyIPv6 = 2
)

const macLen = 6

func validateMAC(b []byte) error {
	if len(b) != macLen {
		return fmt.Errorf("%w: MAC address must be %d bytes, got %d", ErrValueConstraint, macLen, len(b))
	}

	return nil
}

func encodeAddr(addr netip.Addr) ([]byte, error) {
	switch {
	case addr.Is4():
		b := addr.As4()
		return append([]byte{familyIPv4}, b[:]...), nil
	case addr.Is6():
		b := addr.As16()
		return append([]byte{familyIPv6}, b[:]...), nil
	default:
		return nil, fmt.Errorf("%w: invalid IP address", ErrValueConstraint)
	}
}

// Decodes a family byte followed by a packed address. b must contain nothing else.
func decodeAddr(b []byte) (netip.Addr, error) {
	if len(b) == 0 {
		return netip.Addr{}, fmt.Errorf("%w: missing address family", ErrValueConstraint)
	}

	var want int
	switch b[0] {
	case familyIPv4:
		want = 4
	case familyIPv6:
		want = 16
	default:
		return netip.Addr{}, fmt.Errorf("%w: unsupported address family %d", ErrMalformedTLV, b[0])
	}

	if len(b)-1 != want {
		return netip.Addr{}, fmt.Errorf("%w: address family %d needs %d bytes, got %d", ErrValueConstraint, b[0], want, len(b)-1)
	}

	addr, _ := netip.AddrFromSlice(b[1:])

	return addr, nil
}

func addrLen(addr netip.Addr) int {
	if addr.Is4() {
		return 4
	}
	return 16
}

func familyOf(addr netip.Addr) byte {
	if addr.Is4() {
		return familyIPv4
	}
	return familyIPv6
}

func cloneMAC(b []byte) net.HardwareAddr {
	mac := make(net.HardwareAddr, len(b))
	copy(mac, b)
	return mac
}
