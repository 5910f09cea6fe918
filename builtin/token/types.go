// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"github.com/holiman/uint256"

	"github.com/vechain/tinybank/thor"
)

type metadata struct {
	Name     string
	Symbol   string
	Decimals uint8
}

// allowanceKey identifies the allowance granted by owner to spender.
type allowanceKey struct {
	owner   thor.Address
	spender thor.Address
}

func (k allowanceKey) Bytes() []byte {
	return append(k.owner.Bytes(), k.spender.Bytes()...)
}

// Transfer is emitted when tokens move between accounts. Mints have a zero From.
type Transfer struct {
	From   thor.Address
	To     thor.Address
	Amount *uint256.Int
}

func (Transfer) Signature() string { return "Transfer(address,address,uint256)" }

// Approval is emitted when an allowance is set. The owner is the caller of the approve.
type Approval struct {
	Spender thor.Address
	Amount  *uint256.Int
}

func (Approval) Signature() string { return "Approval(address,uint256)" }
