package clog

import "github.com/pkg/errors"

// errors returned by clog manager.
// the process owning the ledger is expected to terminate on any of them (and on any wrapped I/O error),
// because the state of transactions cannot be trusted anymore.
var (
	// ErrFileExists is returned when the ledger is created on the existing path
	ErrFileExists = errors.New("ledger file already exists")
	// ErrFileNotExists is returned when the ledger is opened on the missing path
	ErrFileNotExists = errors.New("ledger file does not exist")
	// ErrFileCannotRW is returned when the ledger file cannot be read or written
	ErrFileCannotRW = errors.New("cannot read or write ledger file")
	// ErrBadLedgerFile is returned when the file length is inconsistent with xid counter
	ErrBadLedgerFile = errors.New("bad ledger file")
	// ErrBadRecord is returned when the state byte of transaction is unknown
	ErrBadRecord = errors.New("bad ledger record")
	// ErrSuperTxID is returned when the super transaction is completed
	ErrSuperTxID = errors.New("super transaction has no record")
	// ErrInvalidTransition is returned when the completed transaction is completed with the other state
	ErrInvalidTransition = errors.New("invalid transaction state transition")
	// ErrUnknownTxID is returned when the transaction id has not been allocated yet
	ErrUnknownTxID = errors.New("transaction id has not been allocated")
)
