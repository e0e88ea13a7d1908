// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package lvldb backs the farm state store with goleveldb.
package lvldb

import (
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	lerrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
	"github.com/vechain/farm/kv"
	"github.com/vechain/farm/log"
)

var (
	logger = log.WithContext("pkg", "lvldb")

	_ kv.GetPutCloser = (*LevelDB)(nil)
)

const minCacheMiB = 16

// Options tunes the store.
type Options struct {
	// CacheMiB is split between the block cache and the write buffer.
	CacheMiB int
	// NoSync skips fsync on committed batches. Only sensible for throwaway data dirs.
	NoSync bool
}

func (o Options) leveldb() *opt.Options {
	cache := max(o.CacheMiB, minCacheMiB)
	return &opt.Options{
		OpenFilesCacheCapacity: 64,
		BlockCacheCapacity:     cache / 2 * opt.MiB,
		WriteBuffer:            cache / 4 * opt.MiB,
		Filter:                 filter.NewBloomFilter(10),
	}
}

// LevelDB is a kv.Store on goleveldb. Single-key writes are async, batches
// are synced unless NoSync is set; the state commits through batches only.
type LevelDB struct {
	db       *leveldb.DB
	stg      storage.Storage
	batchOpt *opt.WriteOptions
}

// New opens the store at path, creating it when missing. A store whose
// manifest or tables are corrupted is recovered in place.
func New(path string, opts Options) (*LevelDB, error) {
	stg, err := storage.OpenFile(path, false)
	if err != nil {
		return nil, errors.Wrapf(err, "open storage [%v]", path)
	}
	o := opts.leveldb()
	db, err := leveldb.Open(stg, o)
	if lerrors.IsCorrupted(err) {
		logger.Warn("state database corrupted, recovering", "path", path, "err", err)
		db, err = leveldb.Recover(stg, o)
	}
	if err != nil {
		stg.Close()
		return nil, errors.Wrap(err, "open level db")
	}
	return wrap(db, stg, opts), nil
}

// NewMem creates a store in memory.
func NewMem() (*LevelDB, error) {
	stg := storage.NewMemStorage()
	db, err := leveldb.Open(stg, Options{}.leveldb())
	if err != nil {
		return nil, errors.Wrap(err, "open mem level db")
	}
	return wrap(db, stg, Options{}), nil
}

func wrap(db *leveldb.DB, stg storage.Storage, opts Options) *LevelDB {
	return &LevelDB{
		db:       db,
		stg:      stg,
		batchOpt: &opt.WriteOptions{Sync: !opts.NoSync},
	}
}

// IsNotFound reports whether err is the miss error of Get.
func (ldb *LevelDB) IsNotFound(err error) bool {
	return errors.Is(err, leveldb.ErrNotFound)
}

// Get returns the value of key, or an error matched by IsNotFound.
func (ldb *LevelDB) Get(key []byte) ([]byte, error) {
	return ldb.db.Get(key, nil)
}

func (ldb *LevelDB) Has(key []byte) (bool, error) {
	return ldb.db.Has(key, nil)
}

func (ldb *LevelDB) Put(key, value []byte) error {
	return ldb.db.Put(key, value, nil)
}

func (ldb *LevelDB) Delete(key []byte) error {
	return ldb.db.Delete(key, nil)
}

// Stats returns the leveldb compaction and level summary.
func (ldb *LevelDB) Stats() (string, error) {
	return ldb.db.GetProperty("leveldb.stats")
}

// Close closes the store and releases its storage lock. Later operations all fail.
func (ldb *LevelDB) Close() error {
	err := ldb.db.Close()
	if serr := ldb.stg.Close(); err == nil {
		err = serr
	}
	return err
}

// NewBatch starts a write batch applied atomically on Write.
func (ldb *LevelDB) NewBatch() kv.Batch {
	return &batch{ldb, new(leveldb.Batch)}
}

// NewIterator iterates keys in [r.From, r.To). A nil bound is open.
func (ldb *LevelDB) NewIterator(r kv.Range) kv.Iterator {
	return ldb.db.NewIterator(&util.Range{Start: r.From, Limit: r.To}, nil)
}

type batch struct {
	ldb *LevelDB
	b   *leveldb.Batch
}

func (b *batch) Put(key, value []byte) error {
	b.b.Put(key, value)
	return nil
}

func (b *batch) Delete(key []byte) error {
	b.b.Delete(key)
	return nil
}

func (b *batch) Len() int { return b.b.Len() }

func (b *batch) Write() error {
	if b.b.Len() == 0 {
		return nil
	}
	return b.ldb.db.Write(b.b, b.ldb.batchOpt)
}
