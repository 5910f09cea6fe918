// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/tinybank/lvldb"
	"github.com/vechain/tinybank/state"
	"github.com/vechain/tinybank/thor"
)

type TestStruct struct {
	Field1 uint64
	Addr1  thor.Address
	Amount *uint256.Int
}

// newTestContext returns a fresh Context backed by an in-memory DB.
func newTestContext(t *testing.T) *Context {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewContext(thor.Address{1}, state.New(db))
}

func TestMapping_Uint256(t *testing.T) {
	ctx := newTestContext(t)
	m := NewMapping[thor.Address, *uint256.Int](ctx, thor.Bytes32{1})
	key := thor.BytesToAddress([]byte("holder"))

	v, err := m.Get(key)
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.True(t, v.IsZero())

	require.NoError(t, m.Set(key, uint256.NewInt(42)))
	v, err = m.Get(key)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), v.Uint64())

	// zero values are removed
	require.NoError(t, m.Set(key, new(uint256.Int)))
	raw, err := ctx.State().GetRawStorage(ctx.Address(), m.position(key))
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestMapping_Struct(t *testing.T) {
	ctx := newTestContext(t)
	m := NewMapping[thor.Bytes32, *TestStruct](ctx, thor.Bytes32{2})
	key := thor.Bytes32{9}

	value := &TestStruct{Field1: 7, Addr1: thor.Address{3}, Amount: uint256.NewInt(1000)}
	require.NoError(t, m.Set(key, value))

	got, err := m.Get(key)
	require.NoError(t, err)
	assert.Equal(t, value.Field1, got.Field1)
	assert.Equal(t, value.Addr1, got.Addr1)
	assert.Equal(t, value.Amount.Uint64(), got.Amount.Uint64())

	m.Delete(key)
	got, err = m.Get(key)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), got.Field1)
}

func TestMapping_SlotsDiffer(t *testing.T) {
	ctx := newTestContext(t)
	a := NewMapping[thor.Address, *uint256.Int](ctx, thor.Bytes32{1})
	b := NewMapping[thor.Address, *uint256.Int](ctx, thor.Bytes32{2})
	key := thor.Address{5}

	require.NoError(t, a.Set(key, uint256.NewInt(1)))
	v, err := b.Get(key)
	require.NoError(t, err)
	assert.True(t, v.IsZero())
}

func TestUint256(t *testing.T) {
	ctx := newTestContext(t)
	u := NewUint256(ctx, thor.Bytes32{3})

	v, err := u.Get()
	require.NoError(t, err)
	assert.True(t, v.IsZero())

	overflow, err := u.Add(uint256.NewInt(10))
	require.NoError(t, err)
	assert.False(t, overflow)

	underflow, err := u.Sub(uint256.NewInt(11))
	require.NoError(t, err)
	assert.True(t, underflow)

	underflow, err = u.Sub(uint256.NewInt(4))
	require.NoError(t, err)
	assert.False(t, underflow)

	v, err = u.Get()
	require.NoError(t, err)
	assert.Equal(t, uint64(6), v.Uint64())

	maxAmount := new(uint256.Int).SetAllOne()
	u.Set(maxAmount)
	overflow, err = u.Add(uint256.NewInt(1))
	require.NoError(t, err)
	assert.True(t, overflow)
	v, _ = u.Get()
	assert.Equal(t, maxAmount, v)
}

func TestAddress(t *testing.T) {
	ctx := newTestContext(t)
	a := NewAddress(ctx, thor.Bytes32{4})

	got, err := a.Get()
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	owner := thor.BytesToAddress([]byte("owner"))
	a.Set(owner)
	got, err = a.Get()
	require.NoError(t, err)
	assert.Equal(t, owner, got)
}

func TestValue(t *testing.T) {
	ctx := newTestContext(t)
	list := NewValue[[]thor.Address](ctx, thor.Bytes32{5})

	got, err := list.Get()
	require.NoError(t, err)
	assert.Empty(t, got)

	want := []thor.Address{{1}, {2}, {3}}
	require.NoError(t, list.Set(want))
	got, err = list.Get()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	meta := NewValue[*TestStruct](ctx, thor.Bytes32{6})
	empty, err := meta.Get()
	require.NoError(t, err)
	require.NotNil(t, empty)
}
