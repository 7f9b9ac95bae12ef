package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/HayatoShiba/xidledger/transaction/clog"
	"github.com/chzyer/readline"
	"github.com/pkg/errors"
)

var completer = readline.NewPrefixCompleter(
	readline.PcItem("inspect"),
	readline.PcItem("begin"),
	readline.PcItem("commit"),
	readline.PcItem("abort"),
	readline.PcItem("status"),
	readline.PcItem("exit"),
)

// runShell reads the commands from the terminal and executes them against the open ledger
func runShell(m *clog.Manager) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "xidledger> ",
		AutoComplete:    completer,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return errors.Wrap(err, "readline.NewEx failed")
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				return nil
			}
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "Readline failed")
		}

		done, err := executeLine(m, line, rl.Stdout())
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// executeLine executes one line of the shell.
// mistakes of the caller are printed, and the other errors are returned.
func executeLine(m *clog.Manager, line string, out io.Writer) (bool, error) {
	args := strings.Fields(line)
	if len(args) == 0 {
		return false, nil
	}
	if args[0] == "exit" || args[0] == "quit" {
		return true, nil
	}

	err := execute(m, args, out)
	if err == nil {
		return false, nil
	}
	if isCallerMistake(err) {
		fmt.Fprintf(out, "error: %v\n", err)
		return false, nil
	}
	return false, err
}

// isCallerMistake checks whether the error is caused by the input, not by the ledger.
// the ledger file is not touched for these errors.
func isCallerMistake(err error) bool {
	return errors.Is(err, errUsage) ||
		errors.Is(err, clog.ErrUnknownTxID) ||
		errors.Is(err, clog.ErrSuperTxID) ||
		errors.Is(err, clog.ErrInvalidTransition)
}
