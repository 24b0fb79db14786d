package main

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/davidbalbert/lldpd/agent"
	"github.com/davidbalbert/lldpd/lldp"
)

var hexSeparators = strings.NewReplacer(":", "", "-", "", " ", "", "\n", "", "\t", "")

func parseHex(s string) ([]byte, error) {
	s = hexSeparators.Replace(s)
	s = strings.TrimPrefix(s, "0x")

	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex: %w", err)
	}

	return b, nil
}

// decode prints the TLVs in b, which is either a whole Ethernet frame or a
// bare LLDPDU.
func decode(w io.Writer, b []byte) error {
	f, err := agent.DecodeFrame(b)
	if err == nil {
		fmt.Fprintf(w, "Frame from %s to %s\n", f.Src, f.Dst)
		printTLVs(w, f.LLDPDU)
		return nil
	} else if !errors.Is(err, agent.ErrNotLLDP) {
		return err
	}

	du, err := lldp.DecodeLLDPDU(lldp.TrimPadding(b))
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "LLDPDU (%d bytes)\n", du.Size())
	printTLVs(w, du)

	if !du.Complete() {
		fmt.Fprintf(w, "%% Incomplete LLDPDU\n")
	}

	return nil
}

func registerDecodeCommands(cli *CLI) {
	cli.MustRegister("decode", "HEX", 1, "Decode an LLDP frame or LLDPDU", func(ctx context.Context, w io.Writer, args []string) error {
		b, err := parseHex(args[0])
		if err != nil {
			return err
		}

		return decode(w, b)
	})
}
