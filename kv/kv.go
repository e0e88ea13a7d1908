// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

// Getter defines methods to read kv.
type Getter interface {
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	IsNotFound(err error) bool
}

// Putter defines methods to write kv.
type Putter interface {
	Put(key, val []byte) error
	Delete(key []byte) error
}

// Batch defines batch of write ops, applied all or nothing on Write.
type Batch interface {
	Putter
	Len() int
	Write() error
}

// Range describes key range [From, To).
type Range struct {
	From []byte
	To   []byte
}

// Iterator iterates a key range in order.
type Iterator interface {
	Next() bool
	Key() []byte
	Value() []byte
	Release()
	Error() error
}

// GetPutter defines methods to read and write kv.
type GetPutter interface {
	Getter
	Putter
}

// Store defines the full set of kv operations.
type Store interface {
	GetPutter
	NewBatch() Batch
	NewIterator(r Range) Iterator
}

// GetPutCloser is a store that can be closed.
type GetPutCloser interface {
	Store
	Close() error
}

// Bucket provides logical bucket for kv store.
type Bucket string

// Key returns the key prefixed with the bucket name.
func (b Bucket) Key(key []byte) []byte {
	return append([]byte(b), key...)
}

// Range returns the key range covering the whole bucket.
func (b Bucket) Range() Range {
	return RangePrefix([]byte(b))
}

// RangePrefix returns the range that satisfies the given prefix.
func RangePrefix(prefix []byte) Range {
	var limit []byte
	for i := len(prefix) - 1; i >= 0; i-- {
		c := prefix[i]
		if c < 0xff {
			limit = make([]byte, i+1)
			copy(limit, prefix)
			limit[i] = c + 1
			break
		}
	}
	return Range{From: prefix, To: limit}
}
