// Package lldp encodes and decodes IEEE 802.1AB Link Layer Discovery Protocol
// data units. It does no I/O.
package lldp

import (
	"bytes"
	"net"
)

// EtherType carried by Ethernet frames containing an LLDPDU.
const EtherType = 0x88cc

// Group addresses LLDPDUs are sent to.
var (
	NearestBridge         = net.HardwareAddr{0x01, 0x80, 0xc2, 0x00, 0x00, 0x0e}
	NearestNonTPMRBridge  = net.HardwareAddr{0x01, 0x80, 0xc2, 0x00, 0x00, 0x03}
	NearestCustomerBridge = net.HardwareAddr{0x01, 0x80, 0xc2, 0x00, 0x00, 0x00}
)

// IsDestination reports whether mac is one of the LLDP group addresses.
func IsDestination(mac net.HardwareAddr) bool {
	return bytes.Equal(mac, NearestBridge) ||
		bytes.Equal(mac, NearestNonTPMRBridge) ||
		bytes.Equal(mac, NearestCustomerBridge)
}
