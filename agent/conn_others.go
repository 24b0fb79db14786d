//go:build !linux

package agent

import (
	"net"

	"github.com/mdlayher/packet"
)

// packet.Listen fails on these platforms, so there's never a group to join.
func joinGroups(conn *packet.Conn, ifi *net.Interface) error {
	return nil
}
