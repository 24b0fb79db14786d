package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/davidbalbert/lldpd/lldp"
	"github.com/davidbalbert/lldpd/rpc"
)

type neighborSlice []rpc.Neighbor

func (s neighborSlice) Len() int {
	return len(s)
}

func (s neighborSlice) Less(i, j int) bool {
	return s[i].Interface < s[j].Interface
}

func (s neighborSlice) Swap(i, j int) {
	s[i], s[j] = s[j], s[i]
}

func systemName(du *lldp.LLDPDU) string {
	for _, tlv := range du.TLVs() {
		if name, ok := tlv.(*lldp.SystemName); ok {
			return name.Name()
		}
	}

	return ""
}

func neighborTable(neighbors []rpc.Neighbor, now time.Time) ([]string, error) {
	sort.Stable(neighborSlice(neighbors))

	var errs []error

	table, err := tabulate(neighbors, []string{"Interface", "Chassis ID", "Port ID", "System Name", "Expires"}, func(n rpc.Neighbor) []string {
		du, err := lldp.DecodeLLDPDU(n.LLDPDU)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", n.Interface, err))
			return []string{n.Interface, "?", "?", "?", "?"}
		}

		return []string{
			n.Interface,
			du.ChassisID().String(),
			du.PortID().String(),
			systemName(du),
			n.Expires.Sub(now).Round(time.Second).String(),
		}
	})
	if err != nil {
		return nil, err
	}

	return table, errors.Join(errs...)
}

func printNeighborDetail(w io.Writer, n rpc.Neighbor) error {
	du, err := lldp.DecodeLLDPDU(n.LLDPDU)
	if err != nil {
		return fmt.Errorf("%s: %w", n.Interface, err)
	}

	fmt.Fprintf(w, "Interface %s, from %s\n", n.Interface, n.Src)
	fmt.Fprintf(w, "  Last seen %s, expires %s\n", n.LastSeen.Format(time.RFC3339), n.Expires.Format(time.RFC3339))

	printTLVs(w, du)

	return nil
}

func printTLVs(w io.Writer, du *lldp.LLDPDU) {
	for _, tlv := range du.TLVs() {
		fmt.Fprintf(w, "  %s\n", tlv)
	}
}

func formatEvent(e rpc.NeighborEvent) string {
	du, err := lldp.DecodeLLDPDU(e.Neighbor.LLDPDU)
	if err != nil {
		return fmt.Sprintf("%s %s: %v", e.Type, e.Neighbor.Interface, err)
	}

	return fmt.Sprintf("%s %s %s %s", e.Type, e.Neighbor.Interface, du.ChassisID(), du.PortID())
}

func registerNeighborCommands(cli *CLI) {
	cli.MustRegister("show neighbors", "", 0, "Neighbors heard on each interface", func(ctx context.Context, w io.Writer, args []string) error {
		client, err := cli.Client()
		if err != nil {
			return err
		}

		neighbors, err := client.GetNeighbors(ctx)
		if err != nil {
			return err
		}

		table, err := neighborTable(neighbors, time.Now())
		if table != nil {
			printTable(w, table)
		}

		return err
	})

	cli.MustRegister("show neighbors detail", "", 0, "Every TLV sent by each neighbor", func(ctx context.Context, w io.Writer, args []string) error {
		client, err := cli.Client()
		if err != nil {
			return err
		}

		neighbors, err := client.GetNeighbors(ctx)
		if err != nil {
			return err
		}

		sort.Stable(neighborSlice(neighbors))

		for i, n := range neighbors {
			if i > 0 {
				fmt.Fprintln(w)
			}

			if err := printNeighborDetail(w, n); err != nil {
				return err
			}
		}

		return nil
	})

	cli.MustRegister("watch", "", 0, "Print neighbor changes as they happen", func(ctx context.Context, w io.Writer, args []string) error {
		client, err := cli.Client()
		if err != nil {
			return err
		}

		return client.WatchNeighbors(ctx, func(e rpc.NeighborEvent) error {
			_, err := fmt.Fprintf(w, "%s %s\n", time.Now().Format(time.TimeOnly), formatEvent(e))
			return err
		})
	})
}
