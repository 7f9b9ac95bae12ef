package clog

import (
	"os"
	"sort"
	"sync"
	"testing"

	"github.com/HayatoShiba/xidledger/transaction/txid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestCreateThenOpenManager(t *testing.T) {
	path := TestingLedgerPath(t)
	m, err := CreateManager(path)
	require.Nil(t, err)
	assert.Equal(t, txid.SuperTxID, m.Counter())
	require.Nil(t, m.Close())

	m, err = OpenManager(path)
	require.Nil(t, err)
	defer m.Close()
	assert.Equal(t, txid.SuperTxID, m.Counter())
	assert.Equal(t, path, m.Path())

	size, err := m.Length()
	assert.Nil(t, err)
	assert.Equal(t, int64(8), size)
}

func TestCreateManagerFileExists(t *testing.T) {
	path := TestingLedgerPath(t)
	m, err := CreateManager(path)
	require.Nil(t, err)
	_, err = m.Begin()
	require.Nil(t, err)
	require.Nil(t, m.Close())

	_, err = CreateManager(path)
	assert.True(t, errors.Is(err, ErrFileExists))

	// the existing ledger is untouched
	m, err = OpenManager(path)
	require.Nil(t, err)
	defer m.Close()
	assert.Equal(t, txid.TxID(1), m.Counter())
}

func TestOpenManagerFileNotExists(t *testing.T) {
	_, err := OpenManager(TestingLedgerPath(t))
	assert.True(t, errors.Is(err, ErrFileNotExists))
}

func TestOpenManagerBadLedgerFile(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{
			name: "file is shorter than header",
			data: []byte{0, 0, 0},
		},
		{
			name: "counter is 5 but file length is 10",
			data: append(encodeCounter(5), 0, 1),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := TestingLedgerPath(t)
			require.Nil(t, os.WriteFile(path, tt.data, 0600))

			_, err := OpenManager(path)
			assert.True(t, errors.Is(err, ErrBadLedgerFile))
		})
	}
}

func TestBegin(t *testing.T) {
	m, err := TestingNewManager(t)
	require.Nil(t, err)

	for i := 1; i <= 5; i++ {
		txID, err := m.Begin()
		assert.Nil(t, err)
		assert.Equal(t, txid.TxID(i), txID)

		active, err := m.IsActive(txID)
		assert.Nil(t, err)
		assert.True(t, active)
		committed, err := m.IsCommitted(txID)
		assert.Nil(t, err)
		assert.False(t, committed)
		aborted, err := m.IsAborted(txID)
		assert.Nil(t, err)
		assert.False(t, aborted)
	}
	assert.Equal(t, txid.TxID(5), m.Counter())

	size, err := m.Length()
	assert.Nil(t, err)
	assert.Equal(t, int64(8+5), size)
}

func TestBeginConcurrently(t *testing.T) {
	m, err := TestingNewManager(t)
	require.Nil(t, err)

	const num = 100
	var mu sync.Mutex
	ids := make([]txid.TxID, 0, num)

	var eg errgroup.Group
	for i := 0; i < num; i++ {
		eg.Go(func() error {
			txID, err := m.Begin()
			if err != nil {
				return err
			}
			mu.Lock()
			ids = append(ids, txID)
			mu.Unlock()
			return nil
		})
	}
	require.Nil(t, eg.Wait())

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for i, id := range ids {
		assert.Equal(t, txid.TxID(i+1), id)
	}
	assert.Equal(t, txid.TxID(num), m.Counter())

	size, err := m.Length()
	assert.Nil(t, err)
	assert.Equal(t, int64(8+num), size)
}

func TestCommit(t *testing.T) {
	m, err := TestingNewManager(t)
	require.Nil(t, err)

	tests := []struct {
		name string
	}{
		{name: "first transaction"},
		{name: "second transaction"},
		{name: "third transaction"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txID, err := m.Begin()
			require.Nil(t, err)

			got, err := m.IsCommitted(txID)
			assert.Nil(t, err)
			assert.False(t, got)

			err = m.Commit(txID)
			assert.Nil(t, err)
			got, err = m.IsCommitted(txID)
			assert.Nil(t, err)
			assert.True(t, got)

			active, err := m.IsActive(txID)
			assert.Nil(t, err)
			assert.False(t, active)
			aborted, err := m.IsAborted(txID)
			assert.Nil(t, err)
			assert.False(t, aborted)
		})
	}
}

func TestAbort(t *testing.T) {
	m, err := TestingNewManager(t)
	require.Nil(t, err)

	tests := []struct {
		name string
	}{
		{name: "first transaction"},
		{name: "second transaction"},
		{name: "third transaction"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txID, err := m.Begin()
			require.Nil(t, err)

			got, err := m.IsAborted(txID)
			assert.Nil(t, err)
			assert.False(t, got)

			err = m.Abort(txID)
			assert.Nil(t, err)
			got, err = m.IsAborted(txID)
			assert.Nil(t, err)
			assert.True(t, got)

			active, err := m.IsActive(txID)
			assert.Nil(t, err)
			assert.False(t, active)
			committed, err := m.IsCommitted(txID)
			assert.Nil(t, err)
			assert.False(t, committed)
		})
	}
}

func TestCompleteTwice(t *testing.T) {
	m, err := TestingNewManager(t)
	require.Nil(t, err)

	committed, err := m.Begin()
	require.Nil(t, err)
	require.Nil(t, m.Commit(committed))
	aborted, err := m.Begin()
	require.Nil(t, err)
	require.Nil(t, m.Abort(aborted))

	// the same terminal state is idempotent
	assert.Nil(t, m.Commit(committed))
	assert.Nil(t, m.Abort(aborted))

	// the other terminal state is rejected
	err = m.Abort(committed)
	assert.True(t, errors.Is(err, ErrInvalidTransition))
	err = m.Commit(aborted)
	assert.True(t, errors.Is(err, ErrInvalidTransition))

	st, err := m.State(committed)
	assert.Nil(t, err)
	assert.Equal(t, StateCommitted, st)
	st, err = m.State(aborted)
	assert.Nil(t, err)
	assert.Equal(t, StateAborted, st)
}

func TestSuperTransaction(t *testing.T) {
	m, err := TestingNewManager(t)
	require.Nil(t, err)

	check := func() {
		active, err := m.IsActive(txid.SuperTxID)
		assert.Nil(t, err)
		assert.True(t, active)
		committed, err := m.IsCommitted(txid.SuperTxID)
		assert.Nil(t, err)
		assert.True(t, committed)
		aborted, err := m.IsAborted(txid.SuperTxID)
		assert.Nil(t, err)
		assert.False(t, aborted)
	}

	check()
	txID, err := m.Begin()
	require.Nil(t, err)
	require.Nil(t, m.Abort(txID))
	check()

	err = m.Commit(txid.SuperTxID)
	assert.True(t, errors.Is(err, ErrSuperTxID))
	err = m.Abort(txid.SuperTxID)
	assert.True(t, errors.Is(err, ErrSuperTxID))
}

func TestUnknownTxID(t *testing.T) {
	m, err := TestingNewManager(t)
	require.Nil(t, err)
	_, err = m.Begin()
	require.Nil(t, err)

	_, err = m.IsActive(2)
	assert.True(t, errors.Is(err, ErrUnknownTxID))
	err = m.Commit(2)
	assert.True(t, errors.Is(err, ErrUnknownTxID))
	err = m.Abort(100)
	assert.True(t, errors.Is(err, ErrUnknownTxID))

	// the ledger file is not extended
	size, err := m.Length()
	assert.Nil(t, err)
	assert.Equal(t, int64(9), size)
}

func TestReopenLedger(t *testing.T) {
	path := LedgerPath(t.TempDir() + "/t")
	m, err := CreateManager(path)
	require.Nil(t, err)

	txID, err := m.Begin()
	require.Nil(t, err)
	assert.Equal(t, txid.TxID(1), txID)
	require.Nil(t, m.Commit(txID))

	txID, err = m.Begin()
	require.Nil(t, err)
	assert.Equal(t, txid.TxID(2), txID)
	require.Nil(t, m.Abort(txID))
	require.Nil(t, m.Close())

	m, err = OpenManager(path)
	require.Nil(t, err)
	defer m.Close()

	assert.Equal(t, txid.TxID(2), m.Counter())
	committed, err := m.IsCommitted(1)
	assert.Nil(t, err)
	assert.True(t, committed)
	aborted, err := m.IsAborted(2)
	assert.Nil(t, err)
	assert.True(t, aborted)

	size, err := m.Length()
	assert.Nil(t, err)
	assert.Equal(t, int64(10), size)

	// allocation continues from the counter
	txID, err = m.Begin()
	require.Nil(t, err)
	assert.Equal(t, txid.TxID(3), txID)
}
