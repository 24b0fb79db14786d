package lldp

import (
	"encoding/binary"
	"fmt"
	"strings"

	"go.uber.org/zap/zapcore"
)

type Capability uint16

const (
	CapabilityOther           Capability = 1 << 0
	CapabilityRepeater        Capability = 1 << 1
	CapabilityBridge          Capability = 1 << 2
	CapabilityWLANAccessPoint Capability = 1 << 3
	CapabilityRouter          Capability = 1 << 4
	CapabilityTelephone       Capability = 1 << 5
	CapabilityDOCSIS          Capability = 1 << 6
	CapabilityStationOnly     Capability = 1 << 7
	CapabilityCVLAN           Capability = 1 << 8
	CapabilitySVLAN           Capability = 1 << 9
	CapabilityTwoPortMACRelay Capability = 1 << 10

	// Bits 11 through 15 are reserved.
	capabilityReserved Capability = 0xf800
)

var capabilityNames = []struct {
	c    Capability
	name string
}{
	{CapabilityOther, "other"},
	{CapabilityRepeater, "repeater"},
	{CapabilityBridge, "bridge"},
	{CapabilityWLANAccessPoint, "wlan-ap"},
	{CapabilityRouter, "router"},
	{CapabilityTelephone, "telephone"},
	{CapabilityDOCSIS, "docsis"},
	{CapabilityStationOnly, "station-only"},
	{CapabilityCVLAN, "c-vlan"},
	{CapabilitySVLAN, "s-vlan"},
	{CapabilityTwoPortMACRelay, "two-port-mac-relay"},
}

// ParseCapability returns the capability with the given name, as printed by
// Capability.String.
func ParseCapability(name string) (Capability, error) {
	for _, cn := range capabilityNames {
		if cn.name == name {
			return cn.c, nil
		}
	}

	return 0, fmt.Errorf("unknown capability: %s", name)
}

func (c Capability) String() string {
	if c == 0 {
		return "none"
	}

	var names []string
	for _, cn := range capabilityNames {
		if c&cn.c != 0 {
			names = append(names, cn.name)
		}
	}

	if c&capabilityReserved != 0 {
		names = append(names, fmt.Sprintf("reserved(%#04x)", uint16(c&capabilityReserved)))
	}

	return strings.Join(names, "|")
}

const capabilitiesLen = 4

// SystemCapabilities lists the functions a system supports, and which of them
// are enabled.
type SystemCapabilities struct {
	supported Capability
	enabled   Capability
}

var _ TLV = &SystemCapabilities{}

// NewSystemCapabilities fails if a capability is enabled without being
// supported.
func NewSystemCapabilities(supported, enabled Capability) (*SystemCapabilities, error) {
	if enabled&^supported != 0 {
		return nil, fmt.Errorf("%w: capabilities enabled but not supported: %v", ErrMalformedTLV, enabled&^supported)
	}

	return &SystemCapabilities{
		supported: supported,
		enabled:   enabled,
	}, nil
}

func DecodeSystemCapabilities(b []byte) (*SystemCapabilities, error) {
	v, err := decodeHeader(b, TypeSystemCapabilities)
	if err != nil {
		return nil, err
	}

	if len(v) != capabilitiesLen {
		return nil, fmt.Errorf("%w: SystemCapabilities length must be %d, got %d", ErrMalformedTLV, capabilitiesLen, len(v))
	}

	return NewSystemCapabilities(
		Capability(binary.BigEndian.Uint16(v[0:2])),
		Capability(binary.BigEndian.Uint16(v[2:4])),
	)
}

func (s *SystemCapabilities) Type() Type {
	return TypeSystemCapabilities
}

func (s *SystemCapabilities) Supported() Capability {
	return s.supported
}

func (s *SystemCapabilities) EnabledCapabilities() Capability {
	return s.enabled
}

// Value returns supported in the high 16 bits and enabled in the low 16 bits.
func (s *SystemCapabilities) Value() uint32 {
	return uint32(s.supported)<<16 | uint32(s.enabled)
}

// Supports reports whether every capability in mask is supported. Reserved
// bits are never supported.
func (s *SystemCapabilities) Supports(mask Capability) bool {
	if mask&capabilityReserved != 0 {
		return false
	}

	return s.supported&mask == mask
}

// Enabled reports whether every capability in mask is enabled. Reserved bits
// are never enabled.
func (s *SystemCapabilities) Enabled(mask Capability) bool {
	if mask&capabilityReserved != 0 {
		return false
	}

	return s.enabled&mask == mask
}

func (s *SystemCapabilities) Len() int {
	return capabilitiesLen
}

func (s *SystemCapabilities) Encode() []byte {
	b := newTLVBuffer(TypeSystemCapabilities, capabilitiesLen)
	binary.BigEndian.PutUint32(b[headerLen:], s.Value())

	return b
}

func (s *SystemCapabilities) String() string {
	return fmt.Sprintf("SystemCapabilities(supported=%v, enabled=%v)", s.supported, s.enabled)
}

func (s *SystemCapabilities) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("type", TypeSystemCapabilities.String())
	enc.AddString("supported", s.supported.String())
	enc.AddString("enabled", s.enabled.String())
	return nil
}
