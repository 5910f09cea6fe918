// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package solo is a standalone chain for development and tests.
// Every executed clause is sealed into a block of its own.
package solo

import (
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/vechain/tinybank/genesis"
	"github.com/vechain/tinybank/kv"
	"github.com/vechain/tinybank/log"
	"github.com/vechain/tinybank/lvldb"
	"github.com/vechain/tinybank/runtime"
	"github.com/vechain/tinybank/state"
	"github.com/vechain/tinybank/thor"
)

var logger = log.WithContext("pkg", "solo")

// Block is a sealed block. Blocks mined without a clause have no receipt.
type Block struct {
	Number  uint32
	Receipt *runtime.Receipt
}

// Chain mode is the standalone chain without p2p server.
// Calls are applied strictly one at a time.
type Chain struct {
	mu         sync.Mutex
	db         kv.GetPutCloser
	state      *state.State
	rt         *runtime.Runtime
	deployment *genesis.Deployment
	best       atomic.Uint32
	blocks     []*Block
}

// New creates the chain and deploys the contracts of cfg in the genesis block, by the first dev account.
func New(cfg *genesis.Config) (*Chain, error) {
	db, err := lvldb.NewMem()
	if err != nil {
		return nil, errors.Wrap(err, "open db")
	}
	st := state.New(db)

	deployment, err := genesis.Deploy(cfg, st, genesis.DevAccounts()[0].Address)
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "deploy genesis")
	}
	if err := st.Commit(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "commit genesis")
	}

	c := &Chain{
		db:         db,
		state:      st,
		deployment: deployment,
		blocks:     []*Block{{Number: 0}},
	}
	c.rt = runtime.New(st, c, deployment.Token, deployment.Bank)
	return c, nil
}

// CurrentHeight returns the number of the block the next clause is sealed into.
func (c *Chain) CurrentHeight() uint32 {
	return c.best.Load() + 1
}

// BestBlock returns the number of the last sealed block.
func (c *Chain) BestBlock() uint32 {
	return c.best.Load()
}

func (c *Chain) Deployment() *genesis.Deployment {
	return c.deployment
}

func (c *Chain) Runtime() *runtime.Runtime {
	return c.rt
}

// Execute runs the clause in a new block. Reverted clauses are sealed too, without effect.
// Other failures seal nothing.
func (c *Chain) Execute(caller thor.Address, clause *runtime.Clause) (*runtime.Receipt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	receipt, err := c.rt.Execute(caller, clause)
	if err != nil {
		return nil, err
	}
	if err := c.seal(receipt); err != nil {
		return nil, err
	}
	return receipt, nil
}

// Mine seals n empty blocks.
func (c *Chain) Mine(n uint32) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := uint32(0); i < n; i++ {
		if err := c.seal(nil); err != nil {
			return err
		}
	}
	return nil
}

// Blocks returns the sealed blocks, genesis first.
func (c *Chain) Blocks() []*Block {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]*Block(nil), c.blocks...)
}

func (c *Chain) Close() error {
	return c.db.Close()
}

func (c *Chain) seal(receipt *runtime.Receipt) error {
	number := c.CurrentHeight()
	dirty := c.state.Dirty()
	if err := c.state.Commit(); err != nil {
		return errors.Wrap(err, "commit state")
	}
	c.blocks = append(c.blocks, &Block{Number: number, Receipt: receipt})
	c.best.Store(number)

	logger.Debug("📦 sealed block", "number", number, "changes", dirty)
	return nil
}
