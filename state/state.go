// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/tinybank/cache"
	"github.com/vechain/tinybank/kv"
	"github.com/vechain/tinybank/stackedmap"
	"github.com/vechain/tinybank/thor"
)

const (
	storageKeyPrefix = "s"
	cacheSize        = 4096
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.cause
}

type storageKey struct {
	addr thor.Address
	key  thor.Bytes32
}

func (k storageKey) dbKey() []byte {
	b := make([]byte, 0, len(storageKeyPrefix)+thor.AddressLength+32)
	b = append(b, storageKeyPrefix...)
	b = append(b, k.addr[:]...)
	return append(b, k.key[:]...)
}

// State manages contract storage of all accounts.
type State struct {
	db    kv.GetPutter
	cache *cache.LRU // committed values, keyed by storageKey
	sm    *stackedmap.StackedMap[storageKey, rlp.RawValue]
}

// New create state object.
func New(db kv.GetPutter) *State {
	c, _ := cache.NewLRU(cacheSize)
	state := State{
		db:    db,
		cache: c,
	}
	state.sm = stackedmap.New(state.cacheGetter)
	return &state
}

// cacheGetter implements stackedmap.MapGetter.
func (s *State) cacheGetter(key storageKey) (rlp.RawValue, bool, error) {
	v, err := s.cache.GetOrLoad(key, func(any) (any, error) {
		metricStorageCounter().AddWithLabel(1, map[string]string{"type": "read"})
		data, err := s.db.Get(key.dbKey())
		if err != nil {
			if s.db.IsNotFound(err) {
				return rlp.RawValue(nil), nil
			}
			return nil, err
		}
		return rlp.RawValue(data), nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.(rlp.RawValue), true, nil
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr thor.Address, key thor.Bytes32) (rlp.RawValue, error) {
	data, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return data, nil
}

// SetRawStorage set storage value in rlp raw.
func (s *State) SetRawStorage(addr thor.Address, key thor.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// GetStorage returns storage value for the given address and key.
func (s *State) GetStorage(addr thor.Address, key thor.Bytes32) (thor.Bytes32, error) {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return thor.Bytes32{}, err
	}
	if len(raw) == 0 {
		return thor.Bytes32{}, nil
	}
	kind, content, _, err := rlp.Split(raw)
	if err != nil {
		return thor.Bytes32{}, &Error{err}
	}
	if kind == rlp.List {
		// special case for rlp list, it should be customized storage value
		// return hash of raw data
		return thor.Blake2b(raw), nil
	}
	return thor.BytesToBytes32(content), nil
}

// SetStorage set storage value for the given address and key.
func (s *State) SetStorage(addr thor.Address, key, value thor.Bytes32) {
	if value.IsZero() {
		s.SetRawStorage(addr, key, nil)
		return
	}
	v, _ := rlp.EncodeToBytes(bytes.TrimLeft(value[:], "\x00"))
	s.SetRawStorage(addr, key, v)
}

// EncodeStorage set storage value encoded by given enc method.
func (s *State) EncodeStorage(addr thor.Address, key thor.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
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

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	if revision < 1 {
		// the base level holds uncommitted changes that predate any checkpoint
		revision = 1
	}
	s.sm.PopTo(revision)
}

// MergeTo folds the checkpoints from revision up into the level below, keeping their changes.
func (s *State) MergeTo(revision int) {
	if revision < 1 {
		revision = 1
	}
	for s.sm.Depth() > revision {
		s.sm.Merge()
	}
}

// Dirty returns the number of distinct storage slots changed since the last commit.
func (s *State) Dirty() int {
	changes := make(map[storageKey]struct{})
	s.sm.Journal(func(key storageKey, _ rlp.RawValue) bool {
		changes[key] = struct{}{}
		return true
	})
	return len(changes)
}

// Commit writes all changes since the last commit into the kv store.
// Checkpoints taken before the commit are dropped.
func (s *State) Commit() error {
	changes := make(map[storageKey]rlp.RawValue)
	s.sm.Journal(func(key storageKey, value rlp.RawValue) bool {
		changes[key] = value
		return true
	})

	batch := s.db.NewBatch()
	for key, value := range changes {
		var err error
		if len(value) == 0 {
			err = batch.Delete(key.dbKey())
		} else {
			err = batch.Put(key.dbKey(), value)
		}
		if err != nil {
			return &Error{err}
		}
	}
	if err := batch.Write(); err != nil {
		return &Error{err}
	}
	metricStorageCounter().AddWithLabel(int64(len(changes)), map[string]string{"type": "write"})

	for key, value := range changes {
		s.cache.Add(key, value)
	}
	s.sm = stackedmap.New(s.cacheGetter)
	return nil
}
