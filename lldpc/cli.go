package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/davidbalbert/lldpd/api"
	"golang.org/x/term"
)

type handlerFunc func(ctx context.Context, w io.Writer, args []string) error

type command struct {
	words       []string
	description string

	// extra arguments after the command words
	nargs int
	usage string

	handler handlerFunc
}

func (c *command) String() string {
	s := strings.Join(c.words, " ")
	if c.usage != "" {
		s += " " + c.usage
	}

	return s
}

type CLI struct {
	commands []*command

	// connects lazily, so commands that don't talk to lldpd work without it
	socket string
	client *api.Client
}

func NewCLI(socket string) *CLI {
	cli := &CLI{socket: socket}

	cli.MustRegister("help", "", 0, "Show this help", func(ctx context.Context, w io.Writer, args []string) error {
		cli.printHelp(w)
		return nil
	})

	return cli
}

func (cli *CLI) Client() (*api.Client, error) {
	if cli.client != nil {
		return cli.client, nil
	}

	client, err := api.NewClient(cli.socket)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	cli.client = client

	return client, nil
}

func (cli *CLI) Close() error {
	if cli.client == nil {
		return nil
	}

	return cli.client.Close()
}

func (cli *CLI) Register(name string, usage string, nargs int, description string, handler handlerFunc) error {
	words := strings.Fields(name)
	if len(words) == 0 {
		return fmt.Errorf("empty command")
	}

	for _, c := range cli.commands {
		if strings.Join(c.words, " ") == strings.Join(words, " ") {
			return fmt.Errorf("command already registered: %s", name)
		}
	}

	cli.commands = append(cli.commands, &command{
		words:       words,
		description: description,
		nargs:       nargs,
		usage:       usage,
		handler:     handler,
	})

	return nil
}

func (cli *CLI) MustRegister(name string, usage string, nargs int, description string, handler handlerFunc) {
	err := cli.Register(name, usage, nargs, description, handler)
	if err != nil {
		panic(err)
	}
}

// matches reports whether input starts with an abbreviation of every word in c,
// so "sh nei" runs "show neighbors".
func (c *command) matches(input []string) bool {
	if len(input) != len(c.words)+c.nargs {
		return false
	}

	for i, w := range c.words {
		if !strings.HasPrefix(w, input[i]) {
			return false
		}
	}

	return true
}

func (cli *CLI) lookup(input []string) (*command, []string, error) {
	line := strings.Join(input, " ")

	var matches []*command
	for _, c := range cli.commands {
		if c.matches(input) {
			matches = append(matches, c)
		}
	}

	// An exact match wins over abbreviations of longer commands.
	for _, c := range matches {
		if strings.Join(c.words, " ") == strings.Join(input[:len(c.words)], " ") {
			return c, input[len(c.words):], nil
		}
	}

	if len(matches) == 0 {
		return nil, nil, fmt.Errorf("%% Unknown command: %s", line)
	} else if len(matches) > 1 {
		return nil, nil, fmt.Errorf("%% Ambiguous command: %s", line)
	}

	return matches[0], input[len(matches[0].words):], nil
}

func (cli *CLI) Run(ctx context.Context, w io.Writer, input []string) error {
	if len(input) == 0 {
		cli.printHelp(w)
		return nil
	}

	c, args, err := cli.lookup(input)
	if err != nil {
		return err
	}

	return c.handler(ctx, w, args)
}

func (cli *CLI) printHelp(w io.Writer) {
	longest := 0
	for _, c := range cli.commands {
		if len(c.String()) > longest {
			longest = len(c.String())
		}
	}

	fmt.Fprintf(w, "Usage: lldpc [-socket path] <command>\n\n")

	for _, c := range cli.commands {
		fmt.Fprintf(w, "  %-*s  %s\n", longest, c.String(), c.description)
	}
}

// A generic function Tabulate that takes a list of rows of type T (any),
// a list of strings (the headers), and a function that takes a row and
// returns a list of strings (the columns). It returns a string that
// contains the tabulated data.
func tabulate[T any](items []T, headers []string, f func(T) []string) ([]string, error) {
	// Get the column widths
	columnWidths := make([]int, len(headers))
	for i, h := range headers {
		columnWidths[i] = utf8.RuneCountInString(h)
	}

	cells := make([][]string, len(items))

	for i, item := range items {
		cells[i] = f(item)

		if len(cells[i]) != len(headers) {
			return nil, fmt.Errorf("invalid number of columns for item %d", i)
		}

		for j, cell := range cells[i] {
			if n := utf8.RuneCountInString(cell); n > columnWidths[j] {
				columnWidths[j] = n
			}
		}
	}

	table := make([]string, len(items)+2)

	var header, separator strings.Builder
	for i, h := range headers {
		fmt.Fprintf(&header, "%-*s", columnWidths[i]+3, h)
		fmt.Fprintf(&separator, "%-*s", columnWidths[i]+3, strings.Repeat("-", columnWidths[i]))
	}

	table[0] = strings.TrimRight(header.String(), " ")
	table[1] = strings.TrimRight(separator.String(), " ")

	for i, row := range cells {
		var b strings.Builder
		for j, cell := range row {
			fmt.Fprintf(&b, "%-*s", columnWidths[j]+3, cell)
		}

		table[i+2] = strings.TrimRight(b.String(), " ")
	}

	return table, nil
}

// printTable writes table to w, cutting lines at the terminal's width when w
// is a terminal.
func printTable(w io.Writer, table []string) {
	width := 0
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		width, _, _ = term.GetSize(int(f.Fd()))
	}

	for _, row := range table {
		fmt.Fprintf(w, "%s\n", truncate(row, width))
	}
}

// truncate cuts s to at most width runes. A width of 0 means no limit.
func truncate(s string, width int) string {
	if width <= 0 {
		return s
	}

	n := 0
	for i := range s {
		if n == width {
			return s[:i]
		}
		n++
	}

	return s
}
