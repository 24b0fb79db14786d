package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"sort"
	"strings"

	"github.com/davidbalbert/lldpd/rpc"
)

type interfaceSlice []rpc.Interface

func (s interfaceSlice) Len() int {
	return len(s)
}

func (s interfaceSlice) Less(i, j int) bool {
	return s[i].Name < s[j].Name
}

func (s interfaceSlice) Swap(i, j int) {
	s[i], s[j] = s[j], s[i]
}

func interfaceTable(interfaces []rpc.Interface) ([]string, error) {
	sort.Sort(interfaceSlice(interfaces))

	return tabulate(interfaces, []string{"Name", "State", "MTU", "MAC", "Addresses"}, func(iface rpc.Interface) []string {
		state := "down"
		if iface.Flags&net.FlagUp != 0 {
			state = "up"
		}

		addrs := make([]string, len(iface.Prefixes))
		for i, p := range iface.Prefixes {
			addrs[i] = p.String()
		}

		return []string{
			iface.Name,
			state,
			fmt.Sprintf("%d", iface.MTU),
			iface.HardwareAddr.String(),
			strings.Join(addrs, ", "),
		}
	})
}

func registerInterfaceCommands(cli *CLI) {
	cli.MustRegister("show interfaces", "", 0, "Interface status and addresses", func(ctx context.Context, w io.Writer, args []string) error {
		client, err := cli.Client()
		if err != nil {
			return err
		}

		interfaces, err := client.GetInterfaces(ctx)
		if err != nil {
			return err
		}

		table, err := interfaceTable(interfaces)
		if err != nil {
			return err
		}

		printTable(w, table)

		return nil
	})
}
