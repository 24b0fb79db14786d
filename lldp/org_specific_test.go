package lldp

import (
	"bytes"
	"errors"
	"testing"
)

func TestOrganizationallySpecificDecode(t *testing.T) {
	b := append([]byte{0xfe, 0x1d, 0xaa, 0xbb, 0xcc, 0x1a}, "0118 999 88199 9119 725 3"...)

	o, err := DecodeOrganizationallySpecific(b)
	if err != nil {
		t.Fatal(err)
	}

	if o.OUI() != [3]byte{0xaa, 0xbb, 0xcc} {
		t.Fatalf("unexpected OUI: % x", o.OUI())
	}

	if o.Subtype() != 0x1a {
		t.Fatalf("expected subtype 0x1a, got %#02x", o.Subtype())
	}

	if string(o.Info()) != "0118 999 88199 9119 725 3" {
		t.Fatalf("unexpected info: %q", o.Info())
	}

	if !bytes.Equal(o.Encode(), b) {
		t.Fatalf("re-encoding: expected % x, got % x", b, o.Encode())
	}
}

func TestOrganizationallySpecificLimits(t *testing.T) {
	oui := []byte{0x00, 0x08, 0x15}

	o, err := NewOrganizationallySpecific(oui, 42, make([]byte, MaxOrgInfoLen))
	if err != nil {
		t.Fatal(err)
	}

	if o.Len() != maxValueLen {
		t.Fatalf("expected length %d, got %d", maxValueLen, o.Len())
	}

	_, err = NewOrganizationallySpecific(oui, 42, make([]byte, MaxOrgInfoLen+1))
	if !errors.Is(err, ErrValueConstraint) {
		t.Fatalf("expected ErrValueConstraint, got %v", err)
	}

	for _, oui := range [][]byte{nil, {0x00, 0x08}, {0x00, 0x08, 0x15, 0x00}} {
		_, err := NewOrganizationallySpecific(oui, 42, nil)
		if !errors.Is(err, ErrValueConstraint) {
			t.Errorf("OUI % x: expected ErrValueConstraint, got %v", oui, err)
		}
	}
}

func TestOrganizationallySpecificDecodeShort(t *testing.T) {
	_, err := DecodeOrganizationallySpecific([]byte{0xfe, 0x03, 0xaa, 0xbb, 0xcc})
	if !errors.Is(err, ErrMalformedTLV) {
		t.Fatalf("expected ErrMalformedTLV, got %v", err)
	}
}
