package agent

import (
	"fmt"
	"net"

	"github.com/davidbalbert/lldpd/lldp"
	"github.com/mdlayher/packet"
)

// listenFunc opens a connection that sends and receives whole Ethernet frames
// on ifi. Tests replace it with an in-memory connection.
type listenFunc func(ifi *net.Interface, promiscuous bool) (net.PacketConn, error)

func listenPacket(ifi *net.Interface, promiscuous bool) (net.PacketConn, error) {
	filter, err := lldpFilter()
	if err != nil {
		return nil, fmt.Errorf("failed to assemble filter: %w", err)
	}

	conn, err := packet.Listen(ifi, packet.Raw, lldp.EtherType, &packet.Config{Filter: filter})
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", ifi.Name, err)
	}

	if promiscuous {
		err = conn.SetPromiscuous(true)
	} else {
		err = joinGroups(conn, ifi)
	}

	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("%s: %w", ifi.Name, err)
	}

	return conn, nil
}

func hardwareAddr(mac net.HardwareAddr) net.Addr {
	return &packet.Addr{HardwareAddr: mac}
}
