package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
)

const historyFile = ".lldpc_history"

func (cli *CLI) complete(line string) []string {
	var options []string

	for _, c := range cli.commands {
		name := strings.Join(c.words, " ")
		if strings.HasPrefix(name, line) {
			options = append(options, name)
		}
	}

	if strings.HasPrefix("exit", line) {
		options = append(options, "exit")
	}

	return options
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return historyFile
	}

	return filepath.Join(home, historyFile)
}

// runCommand runs one command line, canceling it if the user hits ^C.
func (cli *CLI) runCommand(ctx context.Context, w io.Writer, input []string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	err := cli.Run(ctx, w, input)
	if errors.Is(err, context.Canceled) {
		return nil
	}

	return err
}

// Interactive reads commands from the terminal until exit, EOF or ctx is done.
func (cli *CLI) Interactive(ctx context.Context, w io.Writer) error {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)

	path := historyPath()
	if f, err := os.Open(path); err == nil {
		line.ReadHistory(f)
		f.Close()
	}

	line.SetCompleter(cli.complete)
	line.SetTabCompletionStyle(liner.TabPrints)

	for ctx.Err() == nil {
		cmd, err := line.Prompt("lldpd# ")
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		} else if err != nil {
			break
		}

		input := strings.Fields(cmd)
		if len(input) == 0 {
			continue
		}

		line.AppendHistory(cmd)

		if input[0] == "exit" {
			break
		}

		if err := cli.runCommand(ctx, w, input); err != nil {
			fmt.Fprintf(w, "%v\n", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = line.WriteHistory(f)
	return err
}
