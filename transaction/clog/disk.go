// disk manager deals with the ledger file. every write is flushed before returning.
package clog

import (
	"io"
	"os"
	"time"

	"github.com/HayatoShiba/xidledger/transaction/txid"
	"github.com/pkg/errors"
)

// the permission of the newly created ledger file
const filePerm = 0600

// diskManager manages the ledger file
type diskManager struct {
	path string
	fd   *os.File
	// observeSync is called with the duration of each durability flush
	observeSync func(time.Duration)
}

// createDiskManager creates the ledger file and writes the header with zero counter.
// the existing file is never overwritten.
func createDiskManager(path string, observeSync func(time.Duration)) (*diskManager, error) {
	fd, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, filePerm)
	if err != nil {
		if os.IsExist(err) {
			return nil, errors.Wrapf(ErrFileExists, "path %s", path)
		}
		if os.IsPermission(err) {
			return nil, errors.Wrapf(ErrFileCannotRW, "path %s", path)
		}
		return nil, errors.Wrap(err, "os.OpenFile failed")
	}
	if err := checkReadWrite(path); err != nil {
		fd.Close()
		return nil, errors.Wrapf(err, "path %s", path)
	}

	dm := &diskManager{
		path:        path,
		fd:          fd,
		observeSync: observeSync,
	}
	if err := dm.writeCounter(txid.SuperTxID); err != nil {
		fd.Close()
		return nil, errors.Wrap(err, "writeCounter failed")
	}
	return dm, nil
}

// openDiskManager opens the existing ledger file
// the integrity of the file is not checked here. see checkCounter.
func openDiskManager(path string, observeSync func(time.Duration)) (*diskManager, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrFileNotExists, "path %s", path)
		}
		return nil, errors.Wrap(err, "os.Stat failed")
	}
	if err := checkReadWrite(path); err != nil {
		return nil, errors.Wrapf(err, "path %s", path)
	}

	fd, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		if os.IsPermission(err) {
			return nil, errors.Wrapf(ErrFileCannotRW, "path %s", path)
		}
		return nil, errors.Wrap(err, "os.OpenFile failed")
	}
	return &diskManager{
		path:        path,
		fd:          fd,
		observeSync: observeSync,
	}, nil
}

// checkCounter reads xid counter from the header and checks it is consistent with the file length.
// only the length is checked. the state bytes are not scanned.
func (dm *diskManager) checkCounter() (txid.TxID, error) {
	size, err := dm.length()
	if err != nil {
		return txid.SuperTxID, errors.Wrap(err, "length failed")
	}
	if size < headerLength {
		return txid.SuperTxID, errors.Wrapf(ErrBadLedgerFile, "file length %d is shorter than header", size)
	}

	header := make([]byte, headerLength)
	n, err := dm.fd.ReadAt(header, 0)
	if err != nil {
		return txid.SuperTxID, errors.Wrap(err, "ReadAt failed")
	}
	if n != headerLength {
		return txid.SuperTxID, errors.Errorf("ReadAt failed to read the whole header: %d", n)
	}
	counter := decodeCounter(header)

	// compare without computing 8 + counter, which can overflow for the broken header
	if uint64(size-headerLength) != uint64(counter) {
		return txid.SuperTxID, errors.Wrapf(ErrBadLedgerFile, "file length %d does not match xid counter %d", size, counter)
	}
	return counter, nil
}

// readState reads the state of transaction from the record
func (dm *diskManager) readState(txID txid.TxID) (State, error) {
	buf := make([]byte, recordLength)
	if _, err := dm.fd.ReadAt(buf, getOffsetFromTxID(txID)); err != nil {
		if err == io.EOF {
			return StateActive, errors.Wrapf(ErrUnknownTxID, "txID %d", txID)
		}
		return StateActive, errors.Wrap(err, "ReadAt failed")
	}
	st := State(buf[0])
	if !st.isValid() {
		return st, errors.Wrapf(ErrBadRecord, "txID %d has state byte %d", txID, buf[0])
	}
	return st, nil
}

// writeState writes the state of transaction to the record and flushes it
func (dm *diskManager) writeState(txID txid.TxID, st State) error {
	n, err := dm.fd.WriteAt([]byte{byte(st)}, getOffsetFromTxID(txID))
	if err != nil {
		return errors.Wrap(err, "WriteAt failed")
	}
	if n != recordLength {
		return errors.Errorf("WriteAt failed to write the whole record: %d", n)
	}
	return dm.sync()
}

// writeCounter writes xid counter to the header and flushes it
func (dm *diskManager) writeCounter(counter txid.TxID) error {
	n, err := dm.fd.WriteAt(encodeCounter(counter), 0)
	if err != nil {
		return errors.Wrap(err, "WriteAt failed")
	}
	if n != headerLength {
		return errors.Errorf("WriteAt failed to write the whole header: %d", n)
	}
	return dm.sync()
}

// sync flushes file contents to stable storage
func (dm *diskManager) sync() error {
	start := time.Now()
	if err := syncData(dm.fd); err != nil {
		return errors.Wrap(err, "syncData failed")
	}
	if dm.observeSync != nil {
		dm.observeSync(time.Since(start))
	}
	return nil
}

// length returns the current length of the ledger file
func (dm *diskManager) length() (int64, error) {
	fi, err := dm.fd.Stat()
	if err != nil {
		return 0, errors.Wrap(err, "f.Stat failed")
	}
	return fi.Size(), nil
}

// close closes the ledger file
func (dm *diskManager) close() error {
	if err := dm.fd.Close(); err != nil {
		return errors.Wrap(err, "f.Close failed")
	}
	return nil
}
