// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package datagen

import (
	"github.com/vechain/tinybank/lvldb"
	"github.com/vechain/tinybank/state"
)

// NewState returns a state backed by a fresh in-memory leveldb.
func NewState() *state.State {
	db, err := lvldb.NewMem()
	if err != nil {
		panic(err)
	}
	return state.New(db)
}

// Clock is a block counter moved by hand.
type Clock struct {
	Height uint32
}

func (c *Clock) CurrentHeight() uint32 {
	return c.Height
}

// Advance moves the clock n blocks forward.
func (c *Clock) Advance(n uint32) {
	c.Height += n
}
