/*
Transaction manager drives the ledger (clog) for the transaction handles.

The ledger only knows transaction ids and their states.
Transaction manager hands out Tx to the caller and keeps the state of Tx in sync with the ledger:

- Begin allocates the new transaction id in the ledger. the transaction is recorded as active.
- Commit/Abort write the terminal state to the ledger first, and then update Tx.
  So Tx is never reported as completed before the state is durable.

The transaction which has been completed cannot be completed again with the other state.
*/
package transaction

import (
	"github.com/HayatoShiba/xidledger/transaction/clog"
	"github.com/HayatoShiba/xidledger/transaction/txid"
	"github.com/pkg/errors"
)

// ErrTxCompleted is returned when the completed transaction is committed or aborted
var ErrTxCompleted = errors.New("transaction has already been completed")

type Manager struct {
	Cm *clog.Manager
}

func NewManager(cm *clog.Manager) *Manager {
	return &Manager{
		Cm: cm,
	}
}

// Begin begins transaction
func (m *Manager) Begin() (*Tx, error) {
	txID, err := m.Cm.Begin()
	if err != nil {
		return nil, errors.Wrap(err, "Begin failed")
	}
	return NewTransaction(txID), nil
}

// Commit commits transaction
func (m *Manager) Commit(tx *Tx) error {
	if IsCompleted(tx.State()) {
		return errors.Wrapf(ErrTxCompleted, "txID %d is %s", tx.ID(), tx.State())
	}
	// store transaction state to clog
	if err := m.Cm.Commit(tx.ID()); err != nil {
		return errors.Wrap(err, "Commit failed")
	}
	tx.SetState(StateCommitted)
	return nil
}

// Abort aborts transaction
func (m *Manager) Abort(tx *Tx) error {
	if IsCompleted(tx.State()) {
		return errors.Wrapf(ErrTxCompleted, "txID %d is %s", tx.ID(), tx.State())
	}
	// store transaction state to clog
	if err := m.Cm.Abort(tx.ID()); err != nil {
		return errors.Wrap(err, "Abort failed")
	}
	tx.SetState(StateAborted)
	return nil
}

// Lookup returns the transaction handle for the transaction id with the state stored in the ledger.
// this is used when the transaction id is read from somewhere else (e.g. the header of data).
func (m *Manager) Lookup(txID txid.TxID) (*Tx, error) {
	st, err := m.Cm.State(txID)
	if err != nil {
		return nil, errors.Wrap(err, "State failed")
	}
	tx := NewTransaction(txID)
	tx.SetState(st)
	return tx, nil
}
