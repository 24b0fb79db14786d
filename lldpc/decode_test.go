package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/davidbalbert/lldpd/lldp"
)

const testFrame = "0180c200000effeeddccbbaa88cc020704ffeeddccbbaa040703ffeeddccbbaa060200780000"

const testTLVs = `  ChassisID(MAC address, ff:ee:dd:cc:bb:aa)
  PortID(MAC address, ff:ee:dd:cc:bb:aa)
  TTL(120)
  EndOfLLDPDU()
`

func TestParseHex(t *testing.T) {
	tests := []struct {
		in   string
		want []byte
	}{
		{"0207", []byte{0x02, 0x07}},
		{"0x0207", []byte{0x02, 0x07}},
		{"02:07", []byte{0x02, 0x07}},
		{"02 07\n", []byte{0x02, 0x07}},
	}

	for _, test := range tests {
		b, err := parseHex(test.in)
		if err != nil {
			t.Errorf("%q: %v", test.in, err)
			continue
		}

		if !bytes.Equal(b, test.want) {
			t.Errorf("%q: expected %x, got %x", test.in, test.want, b)
		}
	}

	if _, err := parseHex("02g7"); err == nil {
		t.Error("expected error for invalid hex")
	}
}

func TestDecodeFrame(t *testing.T) {
	b, err := parseHex(testFrame)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := decode(&buf, b); err != nil {
		t.Fatal(err)
	}

	want := "Frame from ff:ee:dd:cc:bb:aa to 01:80:c2:00:00:0e\n" + testTLVs
	if buf.String() != want {
		t.Errorf("expected\n%s\ngot\n%s", want, buf.String())
	}
}

func TestDecodeLLDPDU(t *testing.T) {
	b, err := parseHex(testFrame[28:])
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := decode(&buf, b); err != nil {
		t.Fatal(err)
	}

	want := "LLDPDU (24 bytes)\n" + testTLVs
	if buf.String() != want {
		t.Errorf("expected\n%s\ngot\n%s", want, buf.String())
	}
}

func TestDecodeMalformed(t *testing.T) {
	// TTL TLV with a length of 1
	b, err := parseHex("020704ffeeddccbbaa040703ffeeddccbbaa06017800")
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	err = decode(&buf, b)
	if !errors.Is(err, lldp.ErrMalformedTLV) {
		t.Fatalf("expected ErrMalformedTLV, got %v", err)
	}
}
