package tiles

import (
	"errors"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

// DiskCache is a persistent badger-backed tile cache layered behind the
// in-memory TileCache. Entries expire via badger TTLs. The content type is
// not stored; tiles re-enter the memory cache with a sniffed type.
type DiskCache struct {
	db     *badger.DB
	ttl    time.Duration
	logger *zap.Logger
}

// OpenDiskCache opens (or creates) a badger store at dir.
func OpenDiskCache(dir string, ttl time.Duration, logger *zap.Logger) (*DiskCache, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open tile disk cache: %w", err)
	}

	logger.Info("tile disk cache opened",
		zap.String("dir", dir),
		zap.Duration("ttl", ttl))

	return &DiskCache{db: db, ttl: ttl, logger: logger}, nil
}

// Get retrieves a tile by key. Returns false on miss or expiry.
func (c *DiskCache) Get(key string) ([]byte, bool) {
	var data []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			c.logger.Warn("disk cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	return data, true
}

// Set stores a tile with the cache TTL. Write failures are logged and
// swallowed; the cache is best effort.
func (c *DiskCache) Set(key string, data []byte) {
	err := c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), data).WithTTL(c.ttl)
		return txn.SetEntry(entry)
	})
	if err != nil {
		c.logger.Warn("disk cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// IsOpen reports whether the underlying store is usable.
func (c *DiskCache) IsOpen() bool {
	return c.db != nil && !c.db.IsClosed()
}

// Close closes the underlying store.
func (c *DiskCache) Close() error {
	return c.db.Close()
}

// StartGC runs badger value-log garbage collection periodically until
// stopCh closes.
func (c *DiskCache) StartGC(interval time.Duration, stopCh <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			// ErrNoRewrite is the normal "nothing to collect" result.
			if err := c.db.RunValueLogGC(0.5); err != nil && !errors.Is(err, badger.ErrNoRewrite) {
				c.logger.Warn("disk cache gc failed", zap.Error(err))
			}
		case <-stopCh:
			return
		}
	}
}
