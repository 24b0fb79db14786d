package netmon

import (
	"fmt"
	"net"
	"net/netip"

	"go4.org/netipx"
)

// Interface is a network interface along with the prefixes assigned to it.
type Interface struct {
	net.Interface
	Prefixes []netip.Prefix
}

func (i Interface) IsUp() bool {
	return i.Flags&net.FlagUp != 0
}

func (i Interface) IsLoopback() bool {
	return i.Flags&net.FlagLoopback != 0
}

// IsEthernet reports whether the interface has a 48 bit hardware address.
// Tunnels and loopbacks don't.
func (i Interface) IsEthernet() bool {
	return len(i.HardwareAddr) == 6
}

// Addrs returns the addresses of the interface's prefixes.
func (i Interface) Addrs() []netip.Addr {
	addrs := make([]netip.Addr, len(i.Prefixes))
	for j, p := range i.Prefixes {
		addrs[j] = p.Addr()
	}

	return addrs
}

func listInterfaces() ([]Interface, error) {
	netifs, err := net.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("failed to get interfaces: %w", err)
	}

	interfaces := make([]Interface, len(netifs))
	for i, netif := range netifs {
		prefixes, err := netifPrefixes(netif)
		if err != nil {
			return nil, err
		}

		interfaces[i] = Interface{Interface: netif, Prefixes: prefixes}
	}

	return interfaces, nil
}

func netifPrefixes(netif net.Interface) ([]netip.Prefix, error) {
	addrs, err := netif.Addrs()
	if err != nil {
		return nil, fmt.Errorf("failed to get addresses for interface %s: %w", netif.Name, err)
	}

	var prefixes []netip.Prefix
	for _, addr := range addrs {
		prefix, ok := prefixFromSTDNetAddr(addr)
		if ok {
			prefixes = append(prefixes, prefix)
		}
	}

	return prefixes, nil
}

// net.Interface.Addrs() returns []net.Addr which is really
// []*net.IPNet.
func prefixFromSTDNetAddr(addr net.Addr) (netip.Prefix, bool) {
	ipnet, ok := addr.(*net.IPNet)
	if !ok {
		return netip.Prefix{}, false
	}

	prefix, ok := netipx.FromStdIPNet(ipnet)
	if !ok {
		return netip.Prefix{}, false
	}

	return prefix, true
}
