// Package leveldb implements the database.Storage interface on top of a
// LevelDB key value store.
package leveldb

import (
	"fmt"

	"github.com/foxchain/blockchain/foundation/blockchain/database"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// LevelDB represents the storage implementation for reading and writing
// blocks and accounts into LevelDB. This implements the database.Storage
// interface.
type LevelDB struct {
	db *leveldb.DB
}

// New opens or creates the LevelDB store at the specified path.
func New(path string) (*LevelDB, error) {
	db, err := leveldb.OpenFile(path, &opt.Options{
		ErrorIfMissing: false,
	})
	if err != nil {
		return nil, fmt.Errorf("opening leveldb %q: %w", path, err)
	}

	return &LevelDB{db: db}, nil
}

// NewMemory constructs a store that lives only in memory. Used for testing.
func NewMemory() (*LevelDB, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, err
	}

	return &LevelDB{db: db}, nil
}

// Close closes the underlying LevelDB.
func (l *LevelDB) Close() error {
	return l.db.Close()
}

// Write applies all the records in one atomic batch.
func (l *LevelDB) Write(records []database.Record) error {
	batch := new(leveldb.Batch)
	for _, rec := range records {
		batch.Put(rec.Key, rec.Value)
	}

	return l.db.Write(batch, &opt.WriteOptions{Sync: true})
}

// ForEach returns an iterator over every key starting with the prefix,
// in key order. The caller must release the iterator.
func (l *LevelDB) ForEach(prefix []byte) database.Iterator {
	return l.db.NewIterator(util.BytesPrefix(prefix), nil)
}
