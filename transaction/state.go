package transaction

import "github.com/HayatoShiba/xidledger/transaction/clog"

// State is transaction state
// this is the same as the state stored in the ledger file
type State = clog.State

const (
	// during transaction
	StateInProgress = clog.StateActive
	// transaction committed
	StateCommitted = clog.StateCommitted
	// transaction aborted
	StateAborted = clog.StateAborted
)

// IsCompleted checks whether the transaction has been completed
func IsCompleted(state State) bool {
	return state.IsCompleted()
}
