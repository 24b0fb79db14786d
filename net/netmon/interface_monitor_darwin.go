package netmon

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"golang.org/x/sync/errgroup"
)

type scutilMonitor struct{}

func newPlatformMonitor() platformMonitor {
	return &scutilMonitor{}
}

func (m *scutilMonitor) run(ctx context.Context, events chan<- struct{}) error {
	g, ctx := errgroup.WithContext(ctx)

	// Closing stdin makes scutil exit cleanly. exec.CommandContext kills it,
	// which makes Run return an error.
	cmd := exec.Command("scutil")

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("failed to get scutil stdin pipe: %w", err)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to get scutil stdout pipe: %w", err)
	}

	g.Go(func() error {
		defer stdin.Close()

		input := `
			n.add State:/Network/Interface
			n.add State:/Network/Interface/[^/]+/Link "pattern"
			n.add State:/Network/Interface/[^/]+/IPv4 "pattern"
			n.add State:/Network/Interface/[^/]+/IPv6 "pattern"
			n.watch
		`

		_, err := io.WriteString(stdin, input)
		if err != nil {
			return fmt.Errorf("failed to write to scutil stdin: %w", err)
		}

		<-ctx.Done()

		return nil
	})

	g.Go(func() error {
		r := bufio.NewReader(stdout)

		for {
			line, err := r.ReadString('\n')
			if err == io.EOF {
				return nil
			} else if err != nil {
				return fmt.Errorf("failed to read from scutil stdout: %w", err)
			}

			if strings.Contains(line, "State:/Network/Interface") {
				notify(events)
			}
		}
	})

	g.Go(func() error {
		return cmd.Run()
	})

	return g.Wait()
}
