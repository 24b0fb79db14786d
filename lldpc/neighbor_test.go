package main

import (
	"net"
	"strings"
	"testing"
	"time"

	"github.com/davidbalbert/lldpd/lldp"
	"github.com/davidbalbert/lldpd/rpc"
)

func testNeighbor(t *testing.T, iface, chassis, name string, expires time.Time) rpc.Neighbor {
	t.Helper()

	c, err := lldp.NewChassisID(lldp.ChassisLocal, []byte(chassis))
	if err != nil {
		t.Fatal(err)
	}

	p, err := lldp.NewPortID(lldp.PortInterfaceName, []byte("eth0"))
	if err != nil {
		t.Fatal(err)
	}

	ttl, err := lldp.NewTTL(120)
	if err != nil {
		t.Fatal(err)
	}

	sysName, err := lldp.NewSystemName(name)
	if err != nil {
		t.Fatal(err)
	}

	du, err := lldp.NewLLDPDU(c, p, ttl, sysName, lldp.NewEndOfLLDPDU())
	if err != nil {
		t.Fatal(err)
	}

	return rpc.Neighbor{
		Interface: iface,
		Src:       net.HardwareAddr{0x02, 0, 0, 0, 0, 0x01},
		LLDPDU:    du.Encode(),
		LastSeen:  expires.Add(-120 * time.Second),
		Expires:   expires,
	}
}

func TestNeighborTable(t *testing.T) {
	now := time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC)

	neighbors := []rpc.Neighbor{
		testNeighbor(t, "eth1", "voyager", "voyager.local", now.Add(90*time.Second)),
		testNeighbor(t, "eth0", "intrepid", "intrepid.local", now.Add(2*time.Minute)),
	}

	table, err := neighborTable(neighbors, now)
	if err != nil {
		t.Fatal(err)
	}

	if len(table) != 4 {
		t.Fatalf("expected 4 rows, got %d:\n%s", len(table), strings.Join(table, "\n"))
	}

	if !strings.HasPrefix(table[0], "Interface") {
		t.Errorf("unexpected header %q", table[0])
	}

	for i, want := range [][]string{
		{"eth0", "ChassisID(local, intrepid)", "PortID(interface name, eth0)", "intrepid.local", "2m0s"},
		{"eth1", "ChassisID(local, voyager)", "PortID(interface name, eth0)", "voyager.local", "1m30s"},
	} {
		if got := strings.Fields(table[i+2]); len(got) < 3 || got[0] != want[0] {
			t.Errorf("row %d: expected interface %s, got %q", i, want[0], table[i+2])
		}

		for _, s := range want {
			if !strings.Contains(table[i+2], s) {
				t.Errorf("row %d: expected %q in %q", i, s, table[i+2])
			}
		}
	}
}

func TestNeighborTableBadLLDPDU(t *testing.T) {
	now := time.Now()

	n := testNeighbor(t, "eth0", "intrepid", "intrepid.local", now)
	n.LLDPDU = n.LLDPDU[:5]

	table, err := neighborTable([]rpc.Neighbor{n}, now)
	if err == nil {
		t.Fatal("expected error")
	}

	if len(table) != 3 || !strings.Contains(table[2], "?") {
		t.Errorf("expected a placeholder row, got %q", table)
	}
}

func TestFormatEvent(t *testing.T) {
	n := testNeighbor(t, "eth0", "intrepid", "intrepid.local", time.Now())

	got := formatEvent(rpc.NeighborEvent{Type: "NeighborAdded", Neighbor: n})
	want := "NeighborAdded eth0 ChassisID(local, intrepid) PortID(interface name, eth0)"

	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
