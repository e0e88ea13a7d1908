// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	"github.com/vechain/farm/kv"
	"github.com/vechain/farm/stackedmap"
	"github.com/vechain/farm/thor"
)

// StorageBucket prefixes contract storage keys in the kv store.
const StorageBucket kv.Bucket = "s"

const cacheSize = 8192

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

// Cause returns the underlying error.
func (e *Error) Cause() error {
	return e.cause
}

func (e *Error) Unwrap() error {
	return e.cause
}

type storageKey struct {
	addr thor.Address
	key  thor.Bytes32
}

func (k storageKey) dbKey() []byte {
	buf := make([]byte, 0, thor.AddressLength+32)
	buf = append(buf, k.addr[:]...)
	buf = append(buf, k.key[:]...)
	return StorageBucket.Key(buf)
}

// State manages contract storage of native contracts.
// Writes are kept in revisions on top of the committed kv store until Commit.
type State struct {
	db     kv.Store
	cache  *lru.Cache // committed values, storageKey -> []byte
	sm     *stackedmap.StackedMap[storageKey, []byte]
	events []*Event
	marks  []int // len(events) when each checkpoint was made
}

// New create state object on top of the given store.
func New(db kv.Store) *State {
	cache, _ := lru.New(cacheSize)
	s := &State{
		db:    db,
		cache: cache,
	}
	s.reset()
	return s
}

func (s *State) reset() {
	s.sm = stackedmap.New(s.committed)
	s.events = nil
	s.marks = nil
}

// committed reads the value last written by Commit.
func (s *State) committed(key storageKey) ([]byte, bool, error) {
	if v, ok := s.cache.Get(key); ok {
		return v.([]byte), true, nil
	}
	v, err := s.db.Get(key.dbKey())
	if err != nil {
		if s.db.IsNotFound(err) {
			s.cache.Add(key, []byte(nil))
			return nil, false, nil
		}
		return nil, false, err
	}
	s.cache.Add(key, v)
	return v, true, nil
}

// GetRawStorage returns storage value in rlp raw for given address and key.
// Empty value means the slot is unset.
func (s *State) GetRawStorage(addr thor.Address, key thor.Bytes32) ([]byte, error) {
	data, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return data, nil
}

// SetRawStorage set storage value in rlp raw.
func (s *State) SetRawStorage(addr thor.Address, key thor.Bytes32, raw []byte) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
// Error returned by enc will be absorbed by State instance.
func (s *State) EncodeStorage(addr thor.Address, key thor.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be absorbed by State instance.
func (s *State) DecodeStorage(addr thor.Address, key thor.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// AddEvent appends an event. It is dropped when the enclosing checkpoint is reverted.
func (s *State) AddEvent(ev *Event) {
	s.events = append(s.events, ev)
}

// Events returns events emitted since the last Commit.
func (s *State) Events() []*Event {
	return append([]*Event(nil), s.events...)
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	rev := s.sm.Push()
	s.marks = append(s.marks[:rev-1], len(s.events))
	return rev
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	if revision < 1 || revision > len(s.marks) {
		return
	}
	s.sm.PopTo(revision)
	s.events = s.events[:s.marks[revision-1]]
	s.marks = s.marks[:revision-1]
}

// Commit writes all changes since the last Commit into the store in one batch and
// returns the events emitted by them. Revisions are discarded.
func (s *State) Commit() ([]*Event, error) {
	changes := make(map[storageKey][]byte)
	var order []storageKey
	s.sm.Journal(func(key storageKey, value []byte) bool {
		if _, ok := changes[key]; !ok {
			order = append(order, key)
		}
		changes[key] = value
		return true
	})

	batch := s.db.NewBatch()
	for _, key := range order {
		value := changes[key]
		var err error
		if len(value) == 0 {
			err = batch.Delete(key.dbKey())
		} else {
			err = batch.Put(key.dbKey(), value)
		}
		if err != nil {
			return nil, &Error{errors.Wrap(err, "stage")}
		}
	}
	if err := batch.Write(); err != nil {
		return nil, &Error{errors.Wrap(err, "commit")}
	}
	for _, key := range order {
		s.cache.Add(key, changes[key])
	}

	events := s.events
	s.reset()
	return events, nil
}
