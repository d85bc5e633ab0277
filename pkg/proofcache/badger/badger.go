// Package badger implements proofcache.Cache over an embedded Badger
// database, for single-instance deployments of the proof façade that
// want persistence across restarts without a separate cache service.
package badger

import (
	"context"
	"path/filepath"

	badgerdb "github.com/dgraph-io/badger/v3"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/clearmatics/lithium/pkg/proofcache"
)

// Cache is proofcache.Cache backed by an on-disk Badger database.
type Cache struct {
	db     *badgerdb.DB
	logger *zap.Logger
}

// New opens (or creates) a Badger database at dataPath.
func New(dataPath string, logger *zap.Logger) (*Cache, error) {
	absPath, err := filepath.Abs(dataPath)
	if err != nil {
		return nil, errors.Wrap(err, "resolve absolute path")
	}

	opts := badgerdb.DefaultOptions(absPath)
	opts.Logger = nil

	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "open badger database at %s", absPath)
	}

	return &Cache{db: db, logger: logger}, nil
}

// Get returns the cached proof blob for key, if present.
func (c *Cache) Get(ctx context.Context, key proofcache.Key) ([]byte, bool, error) {
	var value []byte
	err := c.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get(key.Bytes())
		if err != nil {
			return err
		}
		return item.Value(func(v []byte) error {
			value = append([]byte(nil), v...)
			return nil
		})
	})
	if errors.Is(err, badgerdb.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "badger get")
	}
	return value, true, nil
}

// Set stores blob under key.
func (c *Cache) Set(ctx context.Context, key proofcache.Key, blob []byte) error {
	err := c.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set(key.Bytes(), blob)
	})
	if err != nil {
		return errors.Wrap(err, "badger set")
	}
	return nil
}

// Close releases the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

var _ proofcache.Cache = (*Cache)(nil)
