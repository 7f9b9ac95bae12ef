package clog

import (
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
)

// TestingLedgerPath returns the ledger path under the temporary directory
func TestingLedgerPath(t *testing.T) string {
	return LedgerPath(filepath.Join(t.TempDir(), "ledger"))
}

func TestingNewDiskManager(t *testing.T) (*diskManager, error) {
	dm, err := createDiskManager(TestingLedgerPath(t), nil)
	if err != nil {
		return nil, errors.Wrap(err, "createDiskManager failed")
	}
	t.Cleanup(func() { dm.close() })
	return dm, nil
}

// TestingNewManager creates the ledger under the temporary directory.
// the ledger is closed when the test finishes.
func TestingNewManager(t *testing.T, opts ...Option) (*Manager, error) {
	m, err := CreateManager(TestingLedgerPath(t), opts...)
	if err != nil {
		return nil, errors.Wrap(err, "CreateManager failed")
	}
	t.Cleanup(func() { m.dm.close() })
	return m, nil
}
