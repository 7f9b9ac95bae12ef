/*
Transaction id manager manages transaction id.

This is implemented as manager because transaction id is kind of shared resource.
The latest transaction id has to be maintained and lock has to be held when allocating the transaction id.

---
About the counter

The manager owns the latest allocated transaction id (the counter).
The counter mirrors the header of the ledger file, so the new value has to be persisted
before the counter is advanced and before the lock is released.
For this reason, AllocateNewTxID receives persist function and calls it while holding the lock.
If persist fails, the counter is not advanced and the same id will be tried next time.

The counter starts from the value read from the ledger header (0 for the fresh ledger),
and the ids are allocated from FirstTxID without any gap.
*/
package txid

import (
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
)

// PersistFunc persists newly allocated transaction id.
// this is called while holding the lock of the manager.
type PersistFunc func(txID TxID) error

type Manager struct {
	// this lock has to be acquired before generation of new transaction id.
	sync.Mutex
	// latestTxID is the transaction id allocated last time.
	// this is only stored while holding the lock, but can be loaded without the lock.
	latestTxID atomic.Uint64
}

// NewManager initializes transaction id manager with the latest allocated transaction id
func NewManager(latest TxID) *Manager {
	tm := &Manager{}
	tm.latestTxID.Store(uint64(latest))
	return tm
}

// AllocateNewTxID allocates next transaction id and advances the counter
// persist is called with the new transaction id before the counter is advanced.
func (tm *Manager) AllocateNewTxID(persist PersistFunc) (TxID, error) {
	tm.Lock()
	defer tm.Unlock()

	txID := advanceTxID(TxID(tm.latestTxID.Load()))
	if persist != nil {
		if err := persist(txID); err != nil {
			return SuperTxID, errors.Wrapf(err, "persist failed: txID %d", txID)
		}
	}
	tm.latestTxID.Store(uint64(txID))
	return txID, nil
}

// LatestTxID returns the transaction id allocated last time
// this doesn't acquire the lock, so the id being allocated concurrently is not included.
func (tm *Manager) LatestTxID() TxID {
	return TxID(tm.latestTxID.Load())
}
