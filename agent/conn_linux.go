package agent

import (
	"fmt"
	"net"

	"github.com/davidbalbert/lldpd/lldp"
	"github.com/mdlayher/packet"
	"golang.org/x/sys/unix"
)

// joinGroups subscribes ifi to the LLDP group addresses so the NIC passes
// them up without being put into promiscuous mode.
func joinGroups(conn *packet.Conn, ifi *net.Interface) error {
	rc, err := conn.SyscallConn()
	if err != nil {
		return err
	}

	groups := []net.HardwareAddr{lldp.NearestBridge, lldp.NearestNonTPMRBridge, lldp.NearestCustomerBridge}

	var serr error
	err = rc.Control(func(fd uintptr) {
		for _, group := range groups {
			mreq := &unix.PacketMreq{
				Ifindex: int32(ifi.Index),
				Type:    unix.PACKET_MR_MULTICAST,
				Alen:    uint16(len(group)),
			}
			copy(mreq.Address[:], group)

			serr = unix.SetsockoptPacketMreq(int(fd), unix.SOL_PACKET, unix.PACKET_ADD_MEMBERSHIP, mreq)
			if serr != nil {
				serr = fmt.Errorf("failed to join %v: %w", group, serr)
				return
			}
		}
	})
	if err != nil {
		return err
	}

	return serr
}
