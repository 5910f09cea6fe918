// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/holiman/uint256"

	"github.com/vechain/tinybank/builtin/reverts"
	"github.com/vechain/tinybank/thor"
	"github.com/vechain/tinybank/xenv"
)

// Clause is a call to a method of a deployed contract.
type Clause struct {
	To     thor.Address
	Method string
	Args   Args
}

// Args are the arguments of a clause. Methods read the fields they need.
type Args struct {
	// Amount of tokens, or the reward rate.
	Amount *uint256.Int
	// Account is the recipient, spender or new manager.
	Account thor.Address
	// Owner is the account tokens are taken from by transferFrom.
	Owner thor.Address
}

// Receipt is the outcome of an executed clause.
type Receipt struct {
	Caller      thor.Address
	To          thor.Address
	Method      string
	BlockNumber uint32
	Reverted    bool
	// RevertKind and RevertReason are set when Reverted.
	RevertKind   reverts.Kind
	RevertReason string
	Events       []*xenv.Log
}
