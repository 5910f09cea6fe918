// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/tinybank/builtin/reverts"
	"github.com/vechain/tinybank/test/datagen"
	"github.com/vechain/tinybank/thor"
	"github.com/vechain/tinybank/xenv"
)

var (
	deployer = thor.BytesToAddress([]byte("deployer"))
	signer1  = thor.BytesToAddress([]byte("signer1"))
	signer2  = thor.BytesToAddress([]byte("signer2"))
)

func tokens(n uint64) *uint256.Int {
	v, _ := thor.Units(n, 18)
	return v
}

func newToken(t *testing.T) (*Token, *datagen.Clock) {
	tk := New(thor.BytesToAddress([]byte("token")), datagen.NewState())
	require.NoError(t, tk.Initialize(deployer, "MyToken", "MT", 18, 100))
	return tk, &datagen.Clock{Height: 1}
}

func balanceOf(t *testing.T, tk *Token, addr thor.Address) *uint256.Int {
	bal, err := tk.BalanceOf(addr)
	require.NoError(t, err)
	return bal
}

func TestInitialize(t *testing.T) {
	tk, _ := newToken(t)

	name, err := tk.Name()
	require.NoError(t, err)
	assert.Equal(t, "MyToken", name)
	symbol, err := tk.Symbol()
	require.NoError(t, err)
	assert.Equal(t, "MT", symbol)
	decimals, err := tk.Decimals()
	require.NoError(t, err)
	assert.Equal(t, uint8(18), decimals)

	supply, err := tk.TotalSupply()
	require.NoError(t, err)
	assert.Equal(t, tokens(100), supply)
	assert.Equal(t, tokens(100), balanceOf(t, tk, deployer))

	manager, err := tk.Manager()
	require.NoError(t, err)
	assert.Equal(t, deployer, manager)

	assert.ErrorIs(t, tk.Initialize(signer1, "Other", "OT", 18, 1), ErrAlreadyInitialized)

	unnamed := New(thor.BytesToAddress([]byte("unnamed")), datagen.NewState())
	require.NoError(t, unnamed.Initialize(deployer, "", "", 18, 100))
	assert.ErrorIs(t, unnamed.Initialize(signer1, "", "", 18, 100), ErrAlreadyInitialized)
	supply, err = unnamed.TotalSupply()
	require.NoError(t, err)
	assert.Equal(t, tokens(100), supply)
	manager, err = unnamed.Manager()
	require.NoError(t, err)
	assert.Equal(t, deployer, manager)

	fresh := New(thor.BytesToAddress([]byte("big")), datagen.NewState())
	assert.ErrorIs(t, fresh.Initialize(deployer, "Big", "BIG", thor.MaxDecimals, 1000), reverts.ErrOverflow)
}

func TestTransfer(t *testing.T) {
	tk, clock := newToken(t)
	half, _ := thor.ParseUnits("0.5", 18)

	env := xenv.New(clock, deployer)
	require.NoError(t, tk.Transfer(env, half, signer1))

	assert.Equal(t, half, balanceOf(t, tk, signer1))
	assert.Equal(t, "99.5", thor.FormatUnits(balanceOf(t, tk, deployer), 18))

	require.Len(t, env.Logs(), 1)
	assert.Equal(t, tk.Address(), env.Logs()[0].Address)
	assert.Equal(t, &Transfer{From: deployer, To: signer1, Amount: half}, env.Logs()[0].Event)

	// insufficient balance leaves everything unchanged
	env = xenv.New(clock, signer1)
	err := tk.Transfer(env, tokens(1), signer2)
	assert.ErrorIs(t, err, reverts.ErrInsufficientBalance)
	assert.Equal(t, reverts.InsufficientBalance, reverts.KindOf(err))
	assert.Equal(t, half, balanceOf(t, tk, signer1))
	assert.True(t, balanceOf(t, tk, signer2).IsZero())
	assert.Empty(t, env.Logs())

	// to self
	env = xenv.New(clock, signer1)
	require.NoError(t, tk.Transfer(env, half, signer1))
	assert.Equal(t, half, balanceOf(t, tk, signer1))

	// the whole balance can be moved
	require.NoError(t, tk.Transfer(env, half, signer2))
	assert.True(t, balanceOf(t, tk, signer1).IsZero())
	assert.Equal(t, half, balanceOf(t, tk, signer2))
}

func TestApproveAndTransferFrom(t *testing.T) {
	tk, clock := newToken(t)

	env := xenv.New(clock, deployer)
	require.NoError(t, tk.Approve(env, signer1, tokens(10)))
	assert.Equal(t, &Approval{Spender: signer1, Amount: tokens(10)}, env.Logs()[0].Event)

	env = xenv.New(clock, signer1)
	require.NoError(t, tk.TransferFrom(env, deployer, signer1, tokens(1)))

	assert.Equal(t, tokens(99), balanceOf(t, tk, deployer))
	assert.Equal(t, tokens(1), balanceOf(t, tk, signer1))
	allowance, err := tk.Allowance(deployer, signer1)
	require.NoError(t, err)
	assert.Equal(t, tokens(9), allowance)
	assert.Equal(t, &Transfer{From: deployer, To: signer1, Amount: tokens(1)}, env.Logs()[0].Event)

	// approve overwrites
	env = xenv.New(clock, deployer)
	require.NoError(t, tk.Approve(env, signer1, tokens(2)))
	allowance, _ = tk.Allowance(deployer, signer1)
	assert.Equal(t, tokens(2), allowance)

	env = xenv.New(clock, signer1)
	assert.ErrorIs(t, tk.TransferFrom(env, deployer, signer2, tokens(3)), reverts.ErrInsufficientAllowance)

	// the allowance check comes before the balance check
	env = xenv.New(clock, signer2)
	assert.ErrorIs(t, tk.TransferFrom(env, signer1, signer2, tokens(5)), reverts.ErrInsufficientAllowance)

	env = xenv.New(clock, signer1)
	require.NoError(t, tk.Approve(env, signer2, tokens(5)))
	env = xenv.New(clock, signer2)
	assert.ErrorIs(t, tk.TransferFrom(env, signer1, signer2, tokens(5)), reverts.ErrInsufficientBalance)
	allowance, _ = tk.Allowance(signer1, signer2)
	assert.Equal(t, tokens(5), allowance, "failed transferFrom keeps the allowance")

	// allowance is exactly spendable
	env = xenv.New(clock, signer1)
	require.NoError(t, tk.TransferFrom(env, deployer, signer1, tokens(2)))
	allowance, _ = tk.Allowance(deployer, signer1)
	assert.True(t, allowance.IsZero())
}

func TestMint(t *testing.T) {
	tk, clock := newToken(t)

	env := xenv.New(clock, deployer)
	require.NoError(t, tk.Mint(env, tokens(5), signer1))
	assert.Equal(t, tokens(5), balanceOf(t, tk, signer1))
	supply, _ := tk.TotalSupply()
	assert.Equal(t, tokens(105), supply)
	assert.Equal(t, &Transfer{To: signer1, Amount: tokens(5)}, env.Logs()[0].Event)

	env = xenv.New(clock, signer1)
	err := tk.Mint(env, tokens(5), signer1)
	assert.ErrorIs(t, err, reverts.ErrUnauthorized)
	assert.Equal(t, "You are not authorized to manage this contract", err.Error())

	// supply overflow
	env = xenv.New(clock, deployer)
	maxAmount := new(uint256.Int).SetAllOne()
	assert.ErrorIs(t, tk.Mint(env, maxAmount, signer2), reverts.ErrOverflow)
	assert.True(t, balanceOf(t, tk, signer2).IsZero())
	supply, _ = tk.TotalSupply()
	assert.Equal(t, tokens(105), supply)
}

func TestManagerAndGrant(t *testing.T) {
	tk, clock := newToken(t)
	vault := thor.BytesToAddress([]byte("vault"))

	assert.ErrorIs(t, tk.SetManager(xenv.New(clock, signer1), signer1), reverts.ErrUnauthorized)
	_, err := tk.Grant(xenv.New(clock, signer1), signer1)
	assert.ErrorIs(t, err, reverts.ErrUnauthorized)

	minter, err := tk.Grant(xenv.New(clock, deployer), vault)
	require.NoError(t, err)
	assert.Equal(t, vault, minter.Grantee())
	manager, _ := tk.Manager()
	assert.Equal(t, vault, manager)

	// the old manager lost the role
	assert.ErrorIs(t, tk.Mint(xenv.New(clock, deployer), tokens(1), deployer), reverts.ErrUnauthorized)

	env := xenv.New(clock, signer1).Nested(vault)
	require.NoError(t, minter.Mint(env, tokens(3), signer1))
	assert.Equal(t, tokens(3), balanceOf(t, tk, signer1))

	// a revoked capability stops minting
	require.NoError(t, tk.SetManager(xenv.New(clock, vault), signer2))
	assert.ErrorIs(t, minter.Mint(env, tokens(3), signer1), reverts.ErrUnauthorized)
	assert.Equal(t, tokens(3), balanceOf(t, tk, signer1))
}
