// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package params

import (
	"github.com/holiman/uint256"

	"github.com/vechain/tinybank/builtin/solidity"
	"github.com/vechain/tinybank/state"
	"github.com/vechain/tinybank/thor"
)

// KeyRewardPerBlock is the amount of reward token paid per staked block.
var KeyRewardPerBlock = thor.Blake2b([]byte("reward-per-block"))

// Params binder of governed parameters, stored in the account of the owning contract.
type Params struct {
	context *solidity.Context
}

func New(addr thor.Address, state *state.State) *Params {
	return &Params{solidity.NewContext(addr, state)}
}

// Get native way to get param.
func (p *Params) Get(key thor.Bytes32) (*uint256.Int, error) {
	return solidity.NewUint256(p.context, key).Get()
}

// Set native way to set param.
func (p *Params) Set(key thor.Bytes32, value *uint256.Int) {
	solidity.NewUint256(p.context, key).Set(value)
}
