package agent

import (
	"bytes"
	"errors"
	"fmt"
	"net"

	"github.com/davidbalbert/lldpd/lldp"
	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

// ErrNotLLDP is returned by DecodeFrame for frames that don't carry an LLDPDU
// addressed to one of the LLDP group addresses.
var ErrNotLLDP = errors.New("not an LLDP frame")

// Frame is a received Ethernet frame and the LLDPDU inside it.
type Frame struct {
	Src    net.HardwareAddr
	Dst    net.HardwareAddr
	LLDPDU *lldp.LLDPDU
}

// EncodeFrame wraps du in an Ethernet frame. Frames shorter than the Ethernet
// minimum are zero padded.
func EncodeFrame(dst, src net.HardwareAddr, du *lldp.LLDPDU) ([]byte, error) {
	eth := &layers.Ethernet{
		SrcMAC:       src,
		DstMAC:       dst,
		EthernetType: layers.EthernetTypeLinkLayerDiscovery,
	}

	buf := gopacket.NewSerializeBuffer()

	err := gopacket.SerializeLayers(buf, gopacket.SerializeOptions{}, eth, gopacket.Payload(du.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to serialize frame: %w", err)
	}

	return buf.Bytes(), nil
}

// DecodeFrame decodes an Ethernet frame carrying an LLDPDU. Padding after the
// EndOfLLDPDU TLV is discarded.
func DecodeFrame(b []byte) (*Frame, error) {
	eth := &layers.Ethernet{}

	err := eth.DecodeFromBytes(b, gopacket.NilDecodeFeedback)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotLLDP, err)
	}

	if eth.EthernetType != layers.EthernetTypeLinkLayerDiscovery {
		return nil, fmt.Errorf("%w: ethertype %#04x", ErrNotLLDP, uint16(eth.EthernetType))
	}

	if !lldp.IsDestination(eth.DstMAC) {
		return nil, fmt.Errorf("%w: destination %v", ErrNotLLDP, eth.DstMAC)
	}

	du, err := lldp.DecodeLLDPDU(lldp.TrimPadding(eth.Payload))
	if err != nil {
		return nil, err
	}

	return &Frame{
		Src:    bytes.Clone(eth.SrcMAC),
		Dst:    bytes.Clone(eth.DstMAC),
		LLDPDU: du,
	}, nil
}
