// Package database wraps the LevelDB store that keeps imported package
// stanzas between an update run and the query commands.
package database

import (
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// Storage is the key-value store backing the stanza collection
type Storage interface {
	Put(key, value []byte) error
	Delete(key []byte) error
	KeysByPrefix(prefix []byte) [][]byte
	FetchByPrefix(prefix []byte) [][]byte
	StartBatch()
	FinishBatch() error
	Close() error
}

type levelDB struct {
	db    *leveldb.DB
	batch *leveldb.Batch
}

var _ Storage = (*levelDB)(nil)

// OpenDB opens the store at path, creating it on first use
func OpenDB(path string) (Storage, error) {
	db, err := leveldb.OpenFile(path, &opt.Options{
		Filter:                 filter.NewBloomFilter(10),
		OpenFilesCacheCapacity: 64,
	})
	if err != nil {
		return nil, err
	}
	return &levelDB{db: db}, nil
}

// Put stores value under key. Inside a batch the write is queued until
// FinishBatch.
func (l *levelDB) Put(key, value []byte) error {
	if l.batch != nil {
		l.batch.Put(key, value)
		return nil
	}
	return l.db.Put(key, value, nil)
}

// Delete removes key. Deleting a missing key is not an error.
func (l *levelDB) Delete(key []byte) error {
	if l.batch != nil {
		l.batch.Delete(key)
		return nil
	}
	return l.db.Delete(key, nil)
}

func (l *levelDB) collect(prefix []byte, pick func(iterator.Iterator) []byte) [][]byte {
	result := [][]byte{}

	it := l.db.NewIterator(util.BytesPrefix(prefix), nil)
	defer it.Release()

	for it.Next() {
		result = append(result, append([]byte(nil), pick(it)...))
	}
	return result
}

// KeysByPrefix lists the keys starting with prefix, in key order
func (l *levelDB) KeysByPrefix(prefix []byte) [][]byte {
	return l.collect(prefix, func(it iterator.Iterator) []byte { return it.Key() })
}

// FetchByPrefix lists the values stored under keys starting with
// prefix, in key order
func (l *levelDB) FetchByPrefix(prefix []byte) [][]byte {
	return l.collect(prefix, func(it iterator.Iterator) []byte { return it.Value() })
}

// StartBatch queues subsequent Put and Delete calls until FinishBatch
// commits them in a single write
func (l *levelDB) StartBatch() {
	if l.batch != nil {
		panic("batch already started")
	}
	l.batch = new(leveldb.Batch)
}

// FinishBatch commits the queued batch
func (l *levelDB) FinishBatch() error {
	if l.batch == nil {
		panic("no batch")
	}
	err := l.db.Write(l.batch, nil)
	l.batch = nil
	return err
}

// Close finishes work with the store
func (l *levelDB) Close() error {
	if l.db == nil {
		return nil
	}
	err := l.db.Close()
	l.db = nil
	return err
}
