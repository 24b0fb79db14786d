package lldp

import (
	"bytes"
	"errors"
	"net"
	"testing"
)

func TestPortIDEncodeInterfaceName(t *testing.T) {
	p, err := NewPortID(PortInterfaceName, []byte("enp4s0"))
	if err != nil {
		t.Fatal(err)
	}

	want := append([]byte{0x04, 0x07, 0x05}, "enp4s0"...)
	if got := p.Encode(); !bytes.Equal(got, want) {
		t.Fatalf("expected % x, got % x", want, got)
	}
}

func TestPortIDMAC(t *testing.T) {
	b := []byte{0x04, 0x07, 0x03, 0xff, 0xee, 0xdd, 0xcc, 0xbb, 0xaa}

	p, err := DecodePortID(b)
	if err != nil {
		t.Fatal(err)
	}

	mac, ok := p.MAC()
	if !ok {
		t.Fatal("expected a MAC address")
	}

	if !bytes.Equal(mac, net.HardwareAddr{0xff, 0xee, 0xdd, 0xcc, 0xbb, 0xaa}) {
		t.Fatalf("unexpected MAC: %v", mac)
	}

	if p.String() != "PortID(MAC address, ff:ee:dd:cc:bb:aa)" {
		t.Fatalf("unexpected string: %s", p)
	}
}

func TestPortIDSubtypesShifted(t *testing.T) {
	// Subtype 4 is a MAC address for a chassis ID but a network address for a port ID.
	_, err := NewPortID(4, []byte{0x00, 0x22, 0x12, 0xaa, 0xbb, 0xcc})
	if !errors.Is(err, ErrMalformedTLV) {
		t.Fatalf("expected ErrMalformedTLV, got %v", err)
	}

	p, err := NewPortID(4, []byte{0x01, 192, 0, 2, 1})
	if err != nil {
		t.Fatal(err)
	}

	addr, ok := p.Addr()
	if !ok || addr.String() != "192.0.2.1" {
		t.Fatalf("expected 192.0.2.1, got %v", addr)
	}
}

func TestPortIDInvalid(t *testing.T) {
	tests := []struct {
		name    string
		subtype PortIDSubtype
		id      []byte
		want    error
	}{
		{"subtype zero", 0, []byte("x"), ErrMalformedTLV},
		{"subtype eight", 8, []byte("x"), ErrMalformedTLV},
		{"short MAC", PortMACAddress, []byte{1, 2, 3}, ErrValueConstraint},
		{"bad family", PortNetworkAddress, []byte{9, 1, 2, 3, 4}, ErrMalformedTLV},
		{"empty", PortLocal, []byte{}, ErrValueConstraint},
		{"bad UTF-8", PortLocal, []byte{0xc3}, ErrMalformedTLV},
	}

	for _, test := range tests {
		_, err := NewPortID(test.subtype, test.id)
		if !errors.Is(err, test.want) {
			t.Errorf("%s: expected %v, got %v", test.name, test.want, err)
		}
	}
}

func TestPortIDDecodeLengthMismatch(t *testing.T) {
	b := append([]byte{0x04, 0x03, 0x05}, "enp4s0"...)

	_, err := DecodePortID(b)
	if !errors.Is(err, ErrMalformedTLV) {
		t.Fatalf("expected ErrMalformedTLV, got %v", err)
	}
}
