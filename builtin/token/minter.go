// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"github.com/holiman/uint256"

	"github.com/vechain/tinybank/builtin/reverts"
	"github.com/vechain/tinybank/thor"
	"github.com/vechain/tinybank/xenv"
)

// Minter is the capability to mint, handed to a contract by Token.Grant.
// It stops working as soon as the grantee no longer holds the manager role.
type Minter struct {
	token   *Token
	grantee thor.Address
}

func (m *Minter) Grantee() thor.Address {
	return m.grantee
}

// Mint creates amount new tokens for to on behalf of the grantee.
func (m *Minter) Mint(env *xenv.Environment, amount *uint256.Int, to thor.Address) error {
	manager, err := m.token.Manager()
	if err != nil {
		return err
	}
	if manager != m.grantee {
		return reverts.ErrUnauthorized
	}
	return m.token.mintTo(env, to, amount)
}
