/*
clog file layout

The ledger file consists of the header and the record region.

- header: 8 bytes. the number of allocated transactions (xid counter) encoded as big-endian uint64.
- record region: 1 byte per transaction. the state of transaction id n is located at 8 + (n-1).

So the length of the file must be 8 + xid counter. This is checked when the file is opened.
The super transaction (transaction id 0) has no record.
*/
package clog

import (
	"encoding/binary"
	"fmt"

	"github.com/HayatoShiba/xidledger/transaction/txid"
)

// State is the state of each transaction
// this is represented with 1 byte in the ledger file
type State byte

const (
	// 0 indicates the transaction is active (in progress).
	StateActive    State = 0x00
	StateCommitted State = 0x01
	StateAborted   State = 0x02
)

const (
	// Suffix is appended to the base path of the ledger file
	Suffix = ".xid"
	// headerLength is the length of the header which stores xid counter
	headerLength = 8
	// recordLength is the length of the record per transaction
	recordLength = 1
)

// isValid checks whether the byte read from the ledger is known state
func (st State) isValid() bool {
	return st == StateActive || st == StateCommitted || st == StateAborted
}

// IsCompleted checks whether the transaction has been completed
func (st State) IsCompleted() bool {
	return st == StateCommitted || st == StateAborted
}

func (st State) String() string {
	switch st {
	case StateActive:
		return "active"
	case StateCommitted:
		return "committed"
	case StateAborted:
		return "aborted"
	}
	return fmt.Sprintf("unknown(%d)", byte(st))
}

// getOffsetFromTxID returns file offset of the record of transaction id
// txID must not be the super transaction
func getOffsetFromTxID(txID txid.TxID) int64 {
	return headerLength + int64(txID-1)*recordLength
}

// getFileLengthFromCounter returns the expected file length for xid counter
func getFileLengthFromCounter(counter txid.TxID) int64 {
	return getOffsetFromTxID(counter + 1)
}

// encodeCounter encodes xid counter into the header
func encodeCounter(counter txid.TxID) []byte {
	buf := make([]byte, headerLength)
	binary.BigEndian.PutUint64(buf, uint64(counter))
	return buf
}

// decodeCounter decodes xid counter from the header
func decodeCounter(header []byte) txid.TxID {
	return txid.TxID(binary.BigEndian.Uint64(header[:headerLength]))
}

// LedgerPath returns the path of the ledger file for the base path
func LedgerPath(base string) string {
	return base + Suffix
}
