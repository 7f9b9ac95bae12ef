package transaction

import (
	"testing"

	"github.com/HayatoShiba/xidledger/transaction/clog"
	"github.com/pkg/errors"
)

func TestingNewManager(t *testing.T) (*Manager, error) {
	cm, err := clog.TestingNewManager(t)
	if err != nil {
		return nil, errors.Wrap(err, "clog.TestingNewManager failed")
	}
	return NewManager(cm), nil
}
