// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/holiman/uint256"

	"github.com/vechain/tinybank/thor"
)

// Uint256 is a wrapper for storage and retrieval of an uint256. Similar to storing an uint256 in a smart contract.
type Uint256 struct {
	context *Context
	pos     thor.Bytes32
}

func NewUint256(context *Context, slot thor.Bytes32) *Uint256 {
	return &Uint256{context: context, pos: slot}
}

func (u *Uint256) Get() (*uint256.Int, error) {
	storage, err := u.context.state.GetStorage(u.context.address, u.pos)
	if err != nil {
		return nil, err
	}
	return new(uint256.Int).SetBytes32(storage[:]), nil
}

func (u *Uint256) Set(value *uint256.Int) {
	u.context.state.SetStorage(u.context.address, u.pos, value.Bytes32())
}

// Add increases the stored value, failing without a write if the sum exceeds 256 bits.
func (u *Uint256) Add(value *uint256.Int) (overflow bool, err error) {
	storage, err := u.Get()
	if err != nil {
		return false, err
	}
	if _, overflow := storage.AddOverflow(storage, value); overflow {
		return true, nil
	}
	u.Set(storage)
	return false, nil
}

// Sub decreases the stored value, failing without a write if value is larger.
func (u *Uint256) Sub(value *uint256.Int) (underflow bool, err error) {
	storage, err := u.Get()
	if err != nil {
		return false, err
	}
	if _, underflow := storage.SubOverflow(storage, value); underflow {
		return true, nil
	}
	u.Set(storage)
	return false, nil
}
