package main

import (
	"fmt"
	"io"

	"github.com/HayatoShiba/xidledger/transaction/clog"
	"github.com/HayatoShiba/xidledger/transaction/txid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// errUsage is returned when the command line is wrong. this is not a ledger error.
var errUsage = errors.New("usage error")

// run executes one command against the ledger file on path
func run(l *zap.Logger, path string, args []string, out io.Writer) error {
	opts := []clog.Option{clog.WithLogger(l)}

	switch args[0] {
	case "create":
		if len(args) != 1 {
			return errors.Wrap(errUsage, "create takes no argument")
		}
		m, err := clog.CreateManager(path, opts...)
		if err != nil {
			return errors.Wrap(err, "CreateManager failed")
		}
		fmt.Fprintf(out, "created %s\n", path)
		return m.Close()
	case "shell":
		if len(args) != 1 {
			return errors.Wrap(errUsage, "shell takes no argument")
		}
		m, err := clog.OpenManager(path, opts...)
		if err != nil {
			return errors.Wrap(err, "OpenManager failed")
		}
		if err := runShell(m); err != nil {
			m.Close()
			return err
		}
		return m.Close()
	}

	if !isLedgerCommand(args[0]) {
		return errors.Wrapf(errUsage, "unknown command %q", args[0])
	}
	m, err := clog.OpenManager(path, opts...)
	if err != nil {
		return errors.Wrap(err, "OpenManager failed")
	}
	if err := execute(m, args, out); err != nil {
		m.Close()
		return err
	}
	return m.Close()
}

// isLedgerCommand checks whether the command is executed against the open ledger
func isLedgerCommand(cmd string) bool {
	switch cmd {
	case "inspect", "begin", "commit", "abort", "status":
		return true
	}
	return false
}

// execute executes the command against the open ledger
func execute(m *clog.Manager, args []string, out io.Writer) error {
	switch args[0] {
	case "inspect":
		return inspect(m, out)
	case "begin":
		txID, err := m.Begin()
		if err != nil {
			return errors.Wrap(err, "Begin failed")
		}
		fmt.Fprintln(out, txID)
		return nil
	case "commit", "abort", "status":
		if len(args) != 2 {
			return errors.Wrapf(errUsage, "%s takes exactly one xid", args[0])
		}
		txID, err := txid.Parse(args[1])
		if err != nil {
			return errors.Wrapf(errUsage, "invalid xid %q", args[1])
		}
		switch args[0] {
		case "commit":
			if err := m.Commit(txID); err != nil {
				return errors.Wrap(err, "Commit failed")
			}
		case "abort":
			if err := m.Abort(txID); err != nil {
				return errors.Wrap(err, "Abort failed")
			}
		}
		st, err := m.State(txID)
		if err != nil {
			return errors.Wrap(err, "State failed")
		}
		fmt.Fprintf(out, "%d %s\n", txID, st)
		return nil
	}
	return errors.Wrapf(errUsage, "unknown command %q", args[0])
}

// inspect prints xid counter, file length and the state of every transaction
func inspect(m *clog.Manager, out io.Writer) error {
	size, err := m.Length()
	if err != nil {
		return errors.Wrap(err, "Length failed")
	}
	counter := m.Counter()
	fmt.Fprintf(out, "path: %s\ncounter: %d\nlength: %d\n", m.Path(), counter, size)
	for id := txid.FirstTxID; id <= counter; id++ {
		st, err := m.State(id)
		if err != nil {
			return errors.Wrap(err, "State failed")
		}
		fmt.Fprintf(out, "%d %s\n", id, st)
	}
	return nil
}
