// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package bank

import (
	"github.com/holiman/uint256"

	"github.com/vechain/tinybank/thor"
)

// Position is the stake of one account and the block its reward clock started at.
type Position struct {
	Amount     *uint256.Int
	StartBlock uint32
}

// IsZero reports an empty position. Empty positions are removed from storage.
func (p *Position) IsZero() bool {
	return p.Amount == nil || p.Amount.IsZero()
}

// Staked is emitted when an account adds to its position.
type Staked struct {
	Staker     thor.Address
	Amount     *uint256.Int
	StartBlock uint32
}

func (Staked) Signature() string { return "Staked(address,uint256,uint32)" }

// Withdrawn is emitted when an account takes back principal, together with the reward paid.
type Withdrawn struct {
	Staker thor.Address
	Amount *uint256.Int
	Reward *uint256.Int
}

func (Withdrawn) Signature() string { return "Withdrawn(address,uint256,uint256)" }

type Confirmed struct {
	Manager thor.Address
}

func (Confirmed) Signature() string { return "Confirmed(address)" }

type Revoked struct {
	Manager thor.Address
}

func (Revoked) Signature() string { return "Revoked(address)" }

type RewardPerBlockChanged struct {
	Manager thor.Address
	Rate    *uint256.Int
}

func (RewardPerBlockChanged) Signature() string { return "RewardPerBlockChanged(address,uint256)" }
