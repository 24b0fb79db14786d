package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"
)

var socketPath string

func registerCommands(cli *CLI) {
	cli.MustRegister("show version", "", 0, "Show lldpd's version", func(ctx context.Context, w io.Writer, args []string) error {
		client, err := cli.Client()
		if err != nil {
			return err
		}

		version, err := client.GetVersion(ctx)
		if err != nil {
			return err
		}

		fmt.Fprintf(w, "v%s\n", version)

		return nil
	})

	cli.MustRegister("shutdown", "", 0, "Shutdown lldpd", func(ctx context.Context, w io.Writer, args []string) error {
		client, err := cli.Client()
		if err != nil {
			return err
		}

		return client.Shutdown(ctx)
	})

	registerInterfaceCommands(cli)
	registerNeighborCommands(cli)
	registerDecodeCommands(cli)
}

func main() {
	flag.StringVar(&socketPath, "socket", "/var/run/lldpd.sock", "path to lldpd socket")

	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer cancel()

	cli := NewCLI(socketPath)
	registerCommands(cli)

	var err error
	if flag.NArg() == 0 && term.IsTerminal(int(os.Stdin.Fd())) {
		err = cli.Interactive(ctx, os.Stdout)
	} else {
		err = cli.runCommand(ctx, os.Stdout, flag.Args())
	}
	cli.Close()

	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
