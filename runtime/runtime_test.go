// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime_test

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/tinybank/builtin/bank"
	"github.com/vechain/tinybank/builtin/reverts"
	"github.com/vechain/tinybank/builtin/token"
	"github.com/vechain/tinybank/genesis"
	"github.com/vechain/tinybank/runtime"
	"github.com/vechain/tinybank/test/datagen"
	"github.com/vechain/tinybank/thor"
)

func tokens(n uint64) *uint256.Int {
	v, _ := thor.Units(n, 18)
	return v
}

func newRuntime(t *testing.T) (*runtime.Runtime, *datagen.Clock) {
	st := datagen.NewState()
	d, err := genesis.Deploy(genesis.DefaultConfig(), st, genesis.DevAccounts()[0].Address)
	require.NoError(t, err)
	clock := &datagen.Clock{Height: 1}
	return runtime.New(st, clock, d.Token, d.Bank), clock
}

func TestExecute(t *testing.T) {
	rt, clock := newRuntime(t)
	owner := genesis.DevAccounts()[0].Address
	signer1 := genesis.DevAccounts()[1].Address
	half, _ := thor.ParseUnits("0.5", 18)

	clock.Height = 7
	receipt, err := rt.Execute(owner, &runtime.Clause{
		To:     rt.Token().Address(),
		Method: "transfer",
		Args:   runtime.Args{Account: signer1, Amount: half},
	})
	require.NoError(t, err)
	assert.False(t, receipt.Reverted)
	assert.Equal(t, uint32(7), receipt.BlockNumber)
	assert.Equal(t, owner, receipt.Caller)
	assert.Equal(t, "transfer", receipt.Method)
	require.Len(t, receipt.Events, 1)
	assert.Equal(t, &token.Transfer{From: owner, To: signer1, Amount: half}, receipt.Events[0].Event)
	assert.Equal(t, "0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef", receipt.Events[0].Topic.String())

	bal, err := rt.Token().BalanceOf(signer1)
	require.NoError(t, err)
	assert.Equal(t, half, bal)
}

func TestExecuteReverted(t *testing.T) {
	rt, _ := newRuntime(t)
	signer1 := genesis.DevAccounts()[1].Address

	receipt, err := rt.Execute(signer1, &runtime.Clause{
		To:     rt.Token().Address(),
		Method: "transfer",
		Args:   runtime.Args{Account: signer1, Amount: tokens(1)},
	})
	require.NoError(t, err)
	assert.True(t, receipt.Reverted)
	assert.Equal(t, reverts.InsufficientBalance, receipt.RevertKind)
	assert.Equal(t, "insufficient balance", receipt.RevertReason)
	assert.Empty(t, receipt.Events)
}

func TestExecuteKeepsCheckpointDepth(t *testing.T) {
	rt, _ := newRuntime(t)
	owner := genesis.DevAccounts()[0].Address
	signer1 := genesis.DevAccounts()[1].Address
	base := rt.State().NewCheckpoint()

	for i := 0; i < 3; i++ {
		receipt, err := rt.Execute(owner, &runtime.Clause{
			To:     rt.Token().Address(),
			Method: "transfer",
			Args:   runtime.Args{Account: signer1, Amount: tokens(1)},
		})
		require.NoError(t, err)
		assert.False(t, receipt.Reverted)

		receipt, err = rt.Execute(signer1, &runtime.Clause{
			To:     rt.Bank().Address(),
			Method: "stake",
			Args:   runtime.Args{Amount: new(uint256.Int)},
		})
		require.NoError(t, err)
		assert.True(t, receipt.Reverted)
	}

	assert.Equal(t, base+1, rt.State().NewCheckpoint())
	bal, err := rt.Token().BalanceOf(signer1)
	require.NoError(t, err)
	assert.Equal(t, tokens(3), bal)
}

func TestExecuteStake(t *testing.T) {
	rt, clock := newRuntime(t)
	owner := genesis.DevAccounts()[0].Address
	bankAddr := rt.Bank().Address()

	receipt, err := rt.Execute(owner, &runtime.Clause{To: rt.Token().Address(), Method: "approve", Args: runtime.Args{Account: bankAddr, Amount: tokens(10)}})
	require.NoError(t, err)
	require.False(t, receipt.Reverted)

	receipt, err = rt.Execute(owner, &runtime.Clause{To: bankAddr, Method: "stake", Args: runtime.Args{Amount: tokens(10)}})
	require.NoError(t, err)
	require.False(t, receipt.Reverted)
	require.Len(t, receipt.Events, 2)
	assert.Equal(t, &bank.Staked{Staker: owner, Amount: tokens(10), StartBlock: 1}, receipt.Events[1].Event)

	// missing amount is zero
	receipt, err = rt.Execute(owner, &runtime.Clause{To: bankAddr, Method: "stake"})
	require.NoError(t, err)
	assert.Equal(t, reverts.InvalidAmount, receipt.RevertKind)

	clock.Advance(3)
	receipt, err = rt.Execute(owner, &runtime.Clause{To: bankAddr, Method: "withdraw", Args: runtime.Args{Amount: tokens(10)}})
	require.NoError(t, err)
	require.False(t, receipt.Reverted)

	bal, err := rt.Token().BalanceOf(owner)
	require.NoError(t, err)
	assert.Equal(t, tokens(103), bal)
}

func TestExecuteUnknownMethod(t *testing.T) {
	rt, _ := newRuntime(t)
	owner := genesis.DevAccounts()[0].Address

	_, err := rt.Execute(owner, &runtime.Clause{To: rt.Token().Address(), Method: "stake"})
	assert.ErrorIs(t, err, runtime.ErrUnknownMethod)

	_, err = rt.Execute(owner, &runtime.Clause{To: datagen.RandAddress(), Method: "transfer"})
	assert.ErrorIs(t, err, runtime.ErrUnknownMethod)
}
