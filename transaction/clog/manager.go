/*
Clog manager manages the transaction ledger.
The ledger is a single file which stores the state of every transaction allocated so far.

----
About clog

The ledger is consulted by visibility checks and recovery, and the visibility of data
cannot be determined without it. So the ledger never reports success while the data is only buffered:
every write (header or record) is flushed before the operation returns.

----
About clog interface

- allocate the new transaction id, and record the transaction as active (Begin)
- write the terminal state of the transaction when it is committed/aborted (Commit/Abort)
- check the transaction state, whether the transaction is active, committed or aborted

The super transaction (transaction id 0) is always active and committed, and never aborted.
It has no record, so the ledger file is not touched for it.

----
About lock

Only the allocation of transaction id acquires the lock of transaction id manager.
Commit/Abort and the state checks don't acquire any lock, because the record of each transaction id
is touched only by the transaction which owns the id.

----
About errors

All errors returned from the manager are fatal. The process owning the ledger must stop
instead of retrying, because the ledger which cannot be written reliably invalidates
every visibility decision based on it.
*/
package clog

import (
	"github.com/HayatoShiba/xidledger/transaction/txid"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"
)

// Manager is clog manager
type Manager struct {
	dm      *diskManager
	tm      *txid.Manager
	logger  *zap.Logger
	metrics *metrics
}

type options struct {
	logger *zap.Logger
	meter  metric.Meter
}

// Option configures clog manager
type Option func(*options)

// WithLogger sets logger. zap.NewNop() is used by default.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMeter sets meter for the ledger metrics. no-op meter is used by default.
func WithMeter(meter metric.Meter) Option {
	return func(o *options) {
		o.meter = meter
	}
}

func newOptions(opts []Option) options {
	o := options{
		logger: zap.NewNop(),
		meter:  noop.NewMeterProvider().Meter(""),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// CreateManager creates the new ledger file on path and returns clog manager
func CreateManager(path string, opts ...Option) (*Manager, error) {
	o := newOptions(opts)
	mt, err := newMetrics(o.meter)
	if err != nil {
		return nil, errors.Wrap(err, "newMetrics failed")
	}

	dm, err := createDiskManager(path, mt.observeFlush)
	if err != nil {
		return nil, errors.Wrap(err, "createDiskManager failed")
	}
	o.logger.Info("ledger created", zap.String("path", path))
	return newManager(dm, txid.SuperTxID, o.logger, mt), nil
}

// OpenManager opens the existing ledger file on path and returns clog manager
// the file length is checked against xid counter before returning.
func OpenManager(path string, opts ...Option) (*Manager, error) {
	o := newOptions(opts)
	mt, err := newMetrics(o.meter)
	if err != nil {
		return nil, errors.Wrap(err, "newMetrics failed")
	}

	dm, err := openDiskManager(path, mt.observeFlush)
	if err != nil {
		return nil, errors.Wrap(err, "openDiskManager failed")
	}
	counter, err := dm.checkCounter()
	if err != nil {
		dm.close()
		o.logger.Error("ledger is broken", zap.String("path", path), zap.Error(err))
		return nil, errors.Wrap(err, "checkCounter failed")
	}
	o.logger.Info("ledger opened", zap.String("path", path), zap.Uint64("counter", uint64(counter)))
	return newManager(dm, counter, o.logger, mt), nil
}

func newManager(dm *diskManager, counter txid.TxID, logger *zap.Logger, mt *metrics) *Manager {
	return &Manager{
		dm:      dm,
		tm:      txid.NewManager(counter),
		logger:  logger.With(zap.String("ledger", dm.path)),
		metrics: mt,
	}
}

// Begin allocates the new transaction id and records the transaction as active.
// the record and the header are written and flushed while holding the lock of transaction id manager.
func (m *Manager) Begin() (txid.TxID, error) {
	txID, err := m.tm.AllocateNewTxID(func(txID txid.TxID) error {
		if err := m.dm.writeState(txID, StateActive); err != nil {
			return errors.Wrap(err, "writeState failed")
		}
		if err := m.dm.writeCounter(txID); err != nil {
			return errors.Wrap(err, "writeCounter failed")
		}
		return nil
	})
	if err != nil {
		m.logger.Error("failed to begin transaction", zap.Error(err))
		return txid.SuperTxID, errors.Wrap(err, "AllocateNewTxID failed")
	}
	m.metrics.recordTransition(StateActive)
	m.logger.Debug("transaction began", zap.Stringer("xid", txID))
	return txID, nil
}

// Commit records the transaction as committed
func (m *Manager) Commit(txID txid.TxID) error {
	return m.complete(txID, StateCommitted)
}

// Abort records the transaction as aborted
func (m *Manager) Abort(txID txid.TxID) error {
	return m.complete(txID, StateAborted)
}

// complete writes the terminal state of the transaction.
// completing the transaction with the same state again is no-op.
func (m *Manager) complete(txID txid.TxID, st State) error {
	if err := m.checkStored(txID); err != nil {
		return err
	}
	curr, err := m.dm.readState(txID)
	if err != nil {
		m.logger.Error("failed to read transaction state", zap.Stringer("xid", txID), zap.Error(err))
		return errors.Wrap(err, "readState failed")
	}
	if curr == st {
		return nil
	}
	if curr.IsCompleted() {
		return errors.Wrapf(ErrInvalidTransition, "txID %d is already %s", txID, curr)
	}

	if err := m.dm.writeState(txID, st); err != nil {
		m.logger.Error("failed to write transaction state", zap.Stringer("xid", txID), zap.Stringer("state", st), zap.Error(err))
		return errors.Wrap(err, "writeState failed")
	}
	m.metrics.recordTransition(st)
	m.logger.Debug("transaction completed", zap.Stringer("xid", txID), zap.Stringer("state", st))
	return nil
}

// IsActive checks whether the transaction is active
func (m *Manager) IsActive(txID txid.TxID) (bool, error) {
	if txID.IsSuper() {
		return true, nil
	}
	return m.is(txID, StateActive)
}

// IsCommitted checks whether the transaction has been committed
func (m *Manager) IsCommitted(txID txid.TxID) (bool, error) {
	if txID.IsSuper() {
		return true, nil
	}
	return m.is(txID, StateCommitted)
}

// IsAborted checks whether the transaction has been aborted
func (m *Manager) IsAborted(txID txid.TxID) (bool, error) {
	if txID.IsSuper() {
		return false, nil
	}
	return m.is(txID, StateAborted)
}

func (m *Manager) is(txID txid.TxID, st State) (bool, error) {
	got, err := m.State(txID)
	if err != nil {
		return false, err
	}
	return got == st, nil
}

// State returns the state of the transaction stored in the ledger.
// the super transaction is reported as committed.
func (m *Manager) State(txID txid.TxID) (State, error) {
	if txID.IsSuper() {
		return StateCommitted, nil
	}
	if err := m.checkStored(txID); err != nil {
		return StateActive, err
	}
	st, err := m.dm.readState(txID)
	if err != nil {
		m.logger.Error("failed to read transaction state", zap.Stringer("xid", txID), zap.Error(err))
		return st, errors.Wrap(err, "readState failed")
	}
	return st, nil
}

// checkStored checks whether the transaction has its record in the ledger
func (m *Manager) checkStored(txID txid.TxID) error {
	if txID.IsSuper() {
		return errors.WithStack(ErrSuperTxID)
	}
	if latest := m.tm.LatestTxID(); txID > latest {
		return errors.Wrapf(ErrUnknownTxID, "txID %d, counter %d", txID, latest)
	}
	return nil
}

// Counter returns xid counter, which is the transaction id allocated last time
func (m *Manager) Counter() txid.TxID {
	return m.tm.LatestTxID()
}

// Path returns the path of the ledger file
func (m *Manager) Path() string {
	return m.dm.path
}

// Length returns the current length of the ledger file
func (m *Manager) Length() (int64, error) {
	return m.dm.length()
}

// Close closes the ledger file. the manager must not be used after Close.
func (m *Manager) Close() error {
	if err := m.dm.close(); err != nil {
		m.logger.Error("failed to close ledger", zap.Error(err))
		return errors.Wrap(err, "close failed")
	}
	m.logger.Info("ledger closed", zap.Uint64("counter", uint64(m.Counter())))
	return nil
}
