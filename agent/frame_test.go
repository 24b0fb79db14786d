package agent

import (
	"bytes"
	"encoding/hex"
	"errors"
	"net"
	"reflect"
	"testing"

	"github.com/davidbalbert/lldpd/lldp"
)

func mustDecodeHex(t *testing.T, s string) []byte {
	t.Helper()

	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatal(err)
	}

	return b
}

func testLLDPDU(t *testing.T, chassis, port string) *lldp.LLDPDU {
	t.Helper()

	c, err := lldp.NewChassisID(lldp.ChassisLocal, []byte(chassis))
	if err != nil {
		t.Fatal(err)
	}

	p, err := lldp.NewPortID(lldp.PortInterfaceName, []byte(port))
	if err != nil {
		t.Fatal(err)
	}

	ttl, err := lldp.NewTTL(120)
	if err != nil {
		t.Fatal(err)
	}

	du, err := lldp.NewLLDPDU(c, p, ttl, lldp.NewEndOfLLDPDU())
	if err != nil {
		t.Fatal(err)
	}

	return du
}

var testMAC = net.HardwareAddr{0xff, 0xee, 0xdd, 0xcc, 0xbb, 0xaa}

func TestDecodeFrame(t *testing.T) {
	b := mustDecodeHex(t, "0180c200000effeeddccbbaa88cc020704ffeeddccbbaa040703ffeeddccbbaa060200780000")

	f, err := DecodeFrame(b)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(f.Src, testMAC) {
		t.Fatalf("expected src %v, got %v", testMAC, f.Src)
	}

	if !bytes.Equal(f.Dst, lldp.NearestBridge) {
		t.Fatalf("expected dst %v, got %v", lldp.NearestBridge, f.Dst)
	}

	if f.LLDPDU.Len() != 4 || !f.LLDPDU.Complete() {
		t.Fatalf("unexpected LLDPDU: %v", f.LLDPDU)
	}

	mac, ok := f.LLDPDU.ChassisID().MAC()
	if !ok || !bytes.Equal(mac, testMAC) {
		t.Fatalf("expected chassis MAC %v, got %v", testMAC, f.LLDPDU.ChassisID())
	}

	mac, ok = f.LLDPDU.PortID().MAC()
	if !ok || !bytes.Equal(mac, testMAC) {
		t.Fatalf("expected port MAC %v, got %v", testMAC, f.LLDPDU.PortID())
	}

	if f.LLDPDU.TTL().Seconds() != 120 {
		t.Fatalf("expected TTL 120, got %v", f.LLDPDU.TTL())
	}
}

func TestEncodeFrame(t *testing.T) {
	du := testLLDPDU(t, "unittest", "eth0")

	b, err := EncodeFrame(lldp.NearestBridge, testMAC, du)
	if err != nil {
		t.Fatal(err)
	}

	if len(b) != 60 {
		t.Fatalf("expected a padded 60 byte frame, got %d bytes", len(b))
	}

	header := mustDecodeHex(t, "0180c200000effeeddccbbaa88cc")
	if !bytes.Equal(b[:14], header) {
		t.Fatalf("expected header %x, got %x", header, b[:14])
	}

	if !bytes.Equal(b[14:14+du.Size()], du.Encode()) {
		t.Fatalf("expected payload %x, got %x", du.Encode(), b[14:14+du.Size()])
	}

	f, err := DecodeFrame(b)
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(f.LLDPDU, du) {
		t.Fatalf("expected %v, got %v", du, f.LLDPDU)
	}
}

func TestEncodeFrameBadMAC(t *testing.T) {
	_, err := EncodeFrame(lldp.NearestBridge, net.HardwareAddr{0x01}, testLLDPDU(t, "unittest", "eth0"))
	if err == nil {
		t.Fatal("expected an error for a short source MAC")
	}
}

func TestDecodeFrameNotLLDP(t *testing.T) {
	tests := []struct {
		name  string
		frame string
	}{
		{"short", "0180c200000e"},
		{"ipv4", "0180c200000effeeddccbbaa0800020704ffeeddccbbaa040703ffeeddccbbaa060200780000"},
		{"unicast", "020000000001ffeeddccbbaa88cc020704ffeeddccbbaa040703ffeeddccbbaa060200780000"},
	}

	for _, test := range tests {
		_, err := DecodeFrame(mustDecodeHex(t, test.frame))
		if !errors.Is(err, ErrNotLLDP) {
			t.Errorf("%s: expected ErrNotLLDP, got %v", test.name, err)
		}
	}
}

func TestDecodeFrameInvalidLLDPDU(t *testing.T) {
	// Chassis ID declares 7 bytes, but only 3 follow.
	b := mustDecodeHex(t, "0180c200000effeeddccbbaa88cc020704ffee")

	_, err := DecodeFrame(b)
	if err == nil || errors.Is(err, ErrNotLLDP) {
		t.Fatalf("expected a decode error, got %v", err)
	}

	if !errors.Is(err, lldp.ErrMalformedTLV) {
		t.Fatalf("expected ErrMalformedTLV, got %v", err)
	}
}
