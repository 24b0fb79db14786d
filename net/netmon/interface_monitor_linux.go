package netmon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

type netlinkMonitor struct{}

func newPlatformMonitor() platformMonitor {
	return &netlinkMonitor{}
}

func (m *netlinkMonitor) run(ctx context.Context, events chan<- struct{}) error {
	fd, err := unix.Socket(unix.AF_NETLINK, unix.SOCK_RAW|unix.SOCK_CLOEXEC|unix.SOCK_NONBLOCK, unix.NETLINK_ROUTE)
	if err != nil {
		return fmt.Errorf("failed to open netlink socket: %w", err)
	}

	sa := &unix.SockaddrNetlink{
		Family: unix.AF_NETLINK,
		Groups: unix.RTMGRP_LINK | unix.RTMGRP_IPV4_IFADDR | unix.RTMGRP_IPV6_IFADDR,
	}

	if err := unix.Bind(fd, sa); err != nil {
		unix.Close(fd)
		return fmt.Errorf("failed to bind netlink socket: %w", err)
	}

	// A non-blocking fd goes through the runtime poller, so Close unblocks Read.
	f := os.NewFile(uintptr(fd), "netlink")

	go func() {
		<-ctx.Done()
		f.Close()
	}()

	buf := make([]byte, os.Getpagesize()*4)

	for {
		n, err := f.Read(buf)
		if errors.Is(err, os.ErrClosed) || ctx.Err() != nil {
			return nil
		} else if err != nil {
			return fmt.Errorf("failed to read from netlink socket: %w", err)
		}

		msgs, err := syscall.ParseNetlinkMessage(buf[:n])
		if err != nil {
			// Something changed, even if we can't tell what.
			notify(events)
			continue
		}

		for _, msg := range msgs {
			if isInterfaceChange(msg.Header.Type) {
				notify(events)
				break
			}
		}
	}
}

func isInterfaceChange(t uint16) bool {
	switch t {
	case unix.RTM_NEWLINK, unix.RTM_DELLINK, unix.RTM_NEWADDR, unix.RTM_DELADDR:
		return true
	default:
		return false
	}
}
