package agent

import (
	"bytes"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"strings"
	"testing"
	"time"

	"github.com/davidbalbert/lldpd/config"
	"github.com/davidbalbert/lldpd/lldp"
	"github.com/davidbalbert/lldpd/net/netmon"
)

func testInterface(name string, index int, flags net.Flags, prefixes ...string) netmon.Interface {
	iface := netmon.Interface{
		Interface: net.Interface{
			Index:        index,
			MTU:          1500,
			Name:         name,
			HardwareAddr: net.HardwareAddr{0x02, 0x00, 0x00, 0x00, 0x00, byte(index)},
			Flags:        flags,
		},
	}

	for _, p := range prefixes {
		iface.Prefixes = append(iface.Prefixes, netip.MustParsePrefix(p))
	}

	return iface
}

func testConfig() *config.LLDPConfig {
	return &config.LLDPConfig{
		Interval:            time.Hour,
		TTL:                 120,
		Destination:         lldp.NearestBridge,
		ManagementAddresses: true,
	}
}

func types(du *lldp.LLDPDU) []lldp.Type {
	var types []lldp.Type
	for _, tlv := range du.TLVs() {
		types = append(types, tlv.Type())
	}

	return types
}

func TestAnnounceDefaults(t *testing.T) {
	iface := testInterface("eth0", 2, net.FlagUp, "192.0.2.1/24", "fe80::1/64", "2001:db8::1/64")

	s, err := newLocalSystem(testConfig(), iface.HardwareAddr, "voyager", "1.2.3")
	if err != nil {
		t.Fatal(err)
	}

	du, err := s.lldpdu(iface, config.LLDPInterfaceConfig{Mode: config.ModeRxTx})
	if err != nil {
		t.Fatal(err)
	}

	want := []lldp.Type{
		lldp.TypeChassisID,
		lldp.TypePortID,
		lldp.TypeTTL,
		lldp.TypeSystemName,
		lldp.TypeSystemDescription,
		lldp.TypeManagementAddress,
		lldp.TypeManagementAddress,
		lldp.TypeEndOfLLDPDU,
	}

	got := types(du)
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}

	mac, ok := du.ChassisID().MAC()
	if !ok || !bytes.Equal(mac, iface.HardwareAddr) {
		t.Fatalf("expected chassis MAC %v, got %v", iface.HardwareAddr, du.ChassisID())
	}

	if du.PortID().Subtype() != lldp.PortInterfaceName || string(du.PortID().ID()) != "eth0" {
		t.Fatalf("unexpected port ID: %v", du.PortID())
	}

	if du.TTL().Seconds() != 120 {
		t.Fatalf("expected TTL 120, got %v", du.TTL())
	}

	if name := du.At(3).(*lldp.SystemName).Name(); name != "voyager" {
		t.Fatalf("expected system name voyager, got %q", name)
	}

	if desc := du.At(4).(*lldp.SystemDescription).Description(); !strings.HasPrefix(desc, "lldpd 1.2.3 ") {
		t.Fatalf("unexpected system description %q", desc)
	}

	m := du.At(5).(*lldp.ManagementAddress)
	if m.Addr() != netip.MustParseAddr("192.0.2.1") || m.InterfaceNumbering() != lldp.InterfaceNumberingIfIndex || m.InterfaceNumber() != 2 {
		t.Fatalf("unexpected management address: %v", m)
	}

	if addr := du.At(6).(*lldp.ManagementAddress).Addr(); addr != netip.MustParseAddr("2001:db8::1") {
		t.Fatalf("expected 2001:db8::1, got %v", addr)
	}
}

func TestAnnounceConfigured(t *testing.T) {
	conf := testConfig()
	conf.ChassisID = "lab-sw1"
	conf.SystemName = "sw1"
	conf.SystemDescription = "test switch"
	conf.Capabilities = lldp.CapabilityBridge | lldp.CapabilityRouter
	conf.EnabledCapabilities = lldp.CapabilityRouter
	conf.ManagementAddresses = false
	conf.OrgSpecific = []config.OrgSpecificConfig{
		{OUI: [3]byte{0x00, 0x12, 0x0f}, Subtype: 1, Info: []byte{0x03, 0x00, 0x00, 0x00, 0x10}},
	}

	iface := testInterface("eth0", 2, net.FlagUp, "192.0.2.1/24")

	s, err := newLocalSystem(conf, nil, "ignored", "1.2.3")
	if err != nil {
		t.Fatal(err)
	}

	du, err := s.lldpdu(iface, config.LLDPInterfaceConfig{Description: "uplink"})
	if err != nil {
		t.Fatal(err)
	}

	want := []lldp.Type{
		lldp.TypeChassisID,
		lldp.TypePortID,
		lldp.TypeTTL,
		lldp.TypePortDescription,
		lldp.TypeSystemName,
		lldp.TypeSystemDescription,
		lldp.TypeSystemCapabilities,
		lldp.TypeOrganizationallySpecific,
		lldp.TypeEndOfLLDPDU,
	}

	got := types(du)
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}

	if du.ChassisID().Subtype() != lldp.ChassisLocal || string(du.ChassisID().ID()) != "lab-sw1" {
		t.Fatalf("unexpected chassis ID: %v", du.ChassisID())
	}

	if desc := du.At(3).(*lldp.PortDescription).Description(); desc != "uplink" {
		t.Fatalf("expected port description uplink, got %q", desc)
	}

	if name := du.At(4).(*lldp.SystemName).Name(); name != "sw1" {
		t.Fatalf("expected system name sw1, got %q", name)
	}

	caps := du.At(6).(*lldp.SystemCapabilities)
	if !caps.Supports(lldp.CapabilityBridge) || !caps.Enabled(lldp.CapabilityRouter) || caps.Enabled(lldp.CapabilityBridge) {
		t.Fatalf("unexpected capabilities: %v", caps)
	}
}

func TestAnnounceNoChassisID(t *testing.T) {
	_, err := newLocalSystem(testConfig(), nil, "voyager", "1.2.3")
	if err == nil {
		t.Fatal("expected an error without a chassis ID")
	}
}

func TestAnnounceTooBig(t *testing.T) {
	conf := testConfig()
	conf.ChassisID = "lab-sw1"

	for i := 0; i < 3; i++ {
		conf.OrgSpecific = append(conf.OrgSpecific, config.OrgSpecificConfig{
			OUI:  [3]byte{0x00, 0x12, 0x0f},
			Info: make([]byte, lldp.MaxOrgInfoLen),
		})
	}

	s, err := newLocalSystem(conf, nil, "voyager", "1.2.3")
	if err != nil {
		t.Fatal(err)
	}

	_, err = s.lldpdu(testInterface("eth0", 2, net.FlagUp), config.LLDPInterfaceConfig{})
	if !errors.Is(err, lldp.ErrInvalidSequence) {
		t.Fatalf("expected ErrInvalidSequence, got %v", err)
	}
}

func TestAnnounceManyAddresses(t *testing.T) {
	conf := testConfig()
	conf.OrgSpecific = []config.OrgSpecificConfig{
		{OUI: [3]byte{0x00, 0x12, 0x0f}, Subtype: 1, Info: []byte{0x03, 0x00, 0x00, 0x00, 0x10}},
	}

	var prefixes []string
	for i := 0; i < 200; i++ {
		prefixes = append(prefixes, fmt.Sprintf("10.0.%d.%d/24", i/250, i%250+1))
	}

	iface := testInterface("eth0", 2, net.FlagUp, prefixes...)

	s, err := newLocalSystem(conf, iface.HardwareAddr, "voyager", "1.2.3")
	if err != nil {
		t.Fatal(err)
	}

	du, err := s.lldpdu(iface, config.LLDPInterfaceConfig{})
	if err != nil {
		t.Fatal(err)
	}

	if du.Size() > lldp.MaxLLDPDUSize {
		t.Fatalf("expected at most %d bytes, got %d", lldp.MaxLLDPDUSize, du.Size())
	}

	got := types(du)
	if got[len(got)-1] != lldp.TypeEndOfLLDPDU || got[len(got)-2] != lldp.TypeOrganizationallySpecific {
		t.Fatalf("expected org-specific and End last, got %v", got[len(got)-2:])
	}

	n := 0
	for _, typ := range got {
		if typ == lldp.TypeManagementAddress {
			n++
		}
	}

	if n == 0 || n >= len(prefixes) {
		t.Fatalf("expected some but not all of %d management addresses, got %d", len(prefixes), n)
	}

	// an IPv4 management address TLV is 14 bytes
	if du.Size()+14 <= lldp.MaxLLDPDUSize {
		t.Fatalf("another management address would have fit in %d bytes", du.Size())
	}
}

func TestChassisMAC(t *testing.T) {
	lo := netmon.Interface{Interface: net.Interface{Index: 1, Name: "lo", Flags: net.FlagUp | net.FlagLoopback}}
	eth1 := testInterface("eth1", 3, net.FlagUp)
	eth0 := testInterface("eth0", 2, 0)

	mac := chassisMAC([]netmon.Interface{lo, eth1, eth0})
	if !bytes.Equal(mac, eth0.HardwareAddr) {
		t.Fatalf("expected %v, got %v", eth0.HardwareAddr, mac)
	}

	if mac := chassisMAC([]netmon.Interface{lo}); mac != nil {
		t.Fatalf("expected no MAC, got %v", mac)
	}
}
