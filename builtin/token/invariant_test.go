// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/tinybank/builtin/reverts"
	"github.com/vechain/tinybank/thor"
	"github.com/vechain/tinybank/xenv"
)

type op struct {
	Kind   uint8
	From   uint8
	To     uint8
	Amount uint32
}

// TestConservation runs random operation sequences and checks the sum of
// balances always equals the total supply and no failed call moves funds.
func TestConservation(t *testing.T) {
	tk, clock := newToken(t)
	accounts := []thor.Address{deployer, signer1, signer2}
	f := fuzz.NewWithSeed(42).NilChance(0)

	for i := 0; i < 500; i++ {
		var o op
		f.Fuzz(&o)
		from := accounts[int(o.From)%len(accounts)]
		to := accounts[int(o.To)%len(accounts)]
		amount := new(uint256.Int).Mul(uint256.NewInt(uint64(o.Amount)), uint256.NewInt(1e12))
		env := xenv.New(clock, from)

		before := snapshot(t, tk, accounts)
		var err error
		switch o.Kind % 4 {
		case 0:
			err = tk.Transfer(env, amount, to)
		case 1:
			err = tk.Approve(env, to, amount)
		case 2:
			err = tk.TransferFrom(env, to, from, amount)
		case 3:
			err = tk.Mint(env, amount, to)
		}
		if err != nil {
			require.True(t, reverts.IsRevertErr(err), err)
			assert.Equal(t, before, snapshot(t, tk, accounts))
		}

		sum := new(uint256.Int)
		for _, acc := range accounts {
			sum.Add(sum, balanceOf(t, tk, acc))
		}
		supply, err := tk.TotalSupply()
		require.NoError(t, err)
		require.Equal(t, supply, sum)
	}
}

func snapshot(t *testing.T, tk *Token, accounts []thor.Address) []string {
	var out []string
	for _, acc := range accounts {
		out = append(out, balanceOf(t, tk, acc).Dec())
	}
	supply, err := tk.TotalSupply()
	require.NoError(t, err)
	return append(out, supply.Dec())
}
