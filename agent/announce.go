package agent

import (
	"fmt"
	"net"
	"runtime"

	"github.com/davidbalbert/lldpd/config"
	"github.com/davidbalbert/lldpd/lldp"
	"github.com/davidbalbert/lldpd/net/netmon"
)

// localSystem holds the TLVs that are the same on every port.
type localSystem struct {
	chassisID   *lldp.ChassisID
	ttl         *lldp.TTL
	name        *lldp.SystemName
	description *lldp.SystemDescription
	caps        *lldp.SystemCapabilities
	orgSpecific []*lldp.OrganizationallySpecific
	mgmtAddrs   bool
}

// newLocalSystem builds the shared TLVs from conf. Without a configured
// chassis ID, chassisMAC is used. An empty hostname means no System Name TLV.
func newLocalSystem(conf *config.LLDPConfig, chassisMAC net.HardwareAddr, hostname, version string) (*localSystem, error) {
	var (
		s   localSystem
		err error
	)

	if conf.ChassisID != "" {
		s.chassisID, err = lldp.NewChassisID(lldp.ChassisLocal, []byte(conf.ChassisID))
	} else if chassisMAC != nil {
		s.chassisID, err = lldp.NewChassisIDFromMAC(chassisMAC)
	} else {
		err = fmt.Errorf("no chassis-id configured and no interface to take a MAC address from")
	}

	if err != nil {
		return nil, err
	}

	s.ttl, err = lldp.NewTTL(conf.TTL)
	if err != nil {
		return nil, err
	}

	name := conf.SystemName
	if name == "" {
		name = hostname
	}

	if name != "" {
		s.name, err = lldp.NewSystemName(name)
		if err != nil {
			return nil, err
		}
	}

	description := conf.SystemDescription
	if description == "" {
		description = fmt.Sprintf("lldpd %s %s/%s", version, runtime.GOOS, runtime.GOARCH)
	}

	s.description, err = lldp.NewSystemDescription(description)
	if err != nil {
		return nil, err
	}

	if conf.Capabilities != 0 {
		s.caps, err = lldp.NewSystemCapabilities(conf.Capabilities, conf.EnabledCapabilities)
		if err != nil {
			return nil, err
		}
	}

	for _, o := range conf.OrgSpecific {
		tlv, err := lldp.NewOrganizationallySpecific(o.OUI[:], o.Subtype, o.Info)
		if err != nil {
			return nil, err
		}

		s.orgSpecific = append(s.orgSpecific, tlv)
	}

	s.mgmtAddrs = conf.ManagementAddresses

	return &s, nil
}

// lldpdu builds the LLDPDU announced on iface.
func (s *localSystem) lldpdu(iface netmon.Interface, ic config.LLDPInterfaceConfig) (*lldp.LLDPDU, error) {
	portID, err := lldp.NewPortID(lldp.PortInterfaceName, []byte(iface.Name))
	if err != nil {
		return nil, err
	}

	du, err := lldp.NewLLDPDU(s.chassisID, portID, s.ttl)
	if err != nil {
		return nil, err
	}

	var optional []lldp.TLV

	if ic.Description != "" {
		desc, err := lldp.NewPortDescription(ic.Description)
		if err != nil {
			return nil, err
		}

		optional = append(optional, desc)
	}

	if s.name != nil {
		optional = append(optional, s.name)
	}

	optional = append(optional, s.description)

	if s.caps != nil {
		optional = append(optional, s.caps)
	}

	for _, tlv := range optional {
		if err := du.Append(tlv); err != nil {
			return nil, fmt.Errorf("%s: %w", iface.Name, err)
		}
	}

	// Org-specific TLVs and End always go out. Management addresses fill
	// whatever room is left.
	reserved := 2
	for _, o := range s.orgSpecific {
		reserved += 2 + o.Len()
	}

	if s.mgmtAddrs {
		for _, addr := range iface.Addrs() {
			if addr.IsLinkLocalUnicast() {
				continue
			}

			tlv, err := lldp.NewManagementAddress(addr, lldp.InterfaceNumberingIfIndex, uint32(iface.Index), nil)
			if err != nil {
				return nil, err
			}

			if du.Size()+2+tlv.Len()+reserved > lldp.MaxLLDPDUSize {
				break
			}

			if err := du.Append(tlv); err != nil {
				return nil, fmt.Errorf("%s: %w", iface.Name, err)
			}
		}
	}

	var trailer []lldp.TLV
	for _, o := range s.orgSpecific {
		trailer = append(trailer, o)
	}

	trailer = append(trailer, lldp.NewEndOfLLDPDU())

	for _, tlv := range trailer {
		if err := du.Append(tlv); err != nil {
			return nil, fmt.Errorf("%s: %w", iface.Name, err)
		}
	}

	return du, nil
}

// chassisMAC picks the MAC address of the lowest numbered Ethernet interface.
func chassisMAC(interfaces []netmon.Interface) net.HardwareAddr {
	var best *netmon.Interface

	for i := range interfaces {
		iface := &interfaces[i]
		if !iface.IsEthernet() || iface.IsLoopback() {
			continue
		}

		if best == nil || iface.Index < best.Index {
			best = iface
		}
	}

	if best == nil {
		return nil
	}

	return best.HardwareAddr
}
