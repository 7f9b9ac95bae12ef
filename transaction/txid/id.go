package txid

import "strconv"

// TxID is transaction id
// this is a 64 bits counter persisted in the ledger header, so it is never wrapped around.
type TxID uint64

const (
	// super transaction id. this is always committed and never stored in the ledger.
	// it is used for operations executed outside of any user transaction.
	SuperTxID TxID = 0
	// first transaction id allocated by transaction id manager
	FirstTxID TxID = 1
)

// IsSuper checks whether the transaction is the super transaction
func (id TxID) IsSuper() bool {
	return id == SuperTxID
}

// IsEqual checks whether the transaction is equal to the compared
func (id TxID) IsEqual(compared TxID) bool {
	return id == compared
}

// IsFollows checks whether txID follows compared (txID >= compared)
// transaction id never overflows, so this is a plain comparison.
func (id TxID) IsFollows(compared TxID) bool {
	return id >= compared
}

// String returns decimal representation of the transaction id
func (id TxID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// Parse parses decimal transaction id
func Parse(s string) (TxID, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return SuperTxID, err
	}
	return TxID(n), nil
}

// advanceTxID advances transaction id
func advanceTxID(txID TxID) TxID {
	return txID + 1
}
