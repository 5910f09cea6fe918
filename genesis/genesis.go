// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/pkg/errors"

	"github.com/vechain/tinybank/builtin/bank"
	"github.com/vechain/tinybank/builtin/params"
	"github.com/vechain/tinybank/builtin/token"
	"github.com/vechain/tinybank/log"
	"github.com/vechain/tinybank/state"
	"github.com/vechain/tinybank/thor"
	"github.com/vechain/tinybank/xenv"
)

var logger = log.WithContext("pkg", "genesis")

// Deployment holds the contracts created at genesis.
type Deployment struct {
	Deployer thor.Address
	Token    *token.Token
	Bank     *bank.Bank
}

type genesisClock struct{}

func (genesisClock) CurrentHeight() uint32 { return 0 }

// Deploy creates the token and the bank in st, in that order, at the addresses
// derived from deployer and its nonce. The token's manager role goes to the bank.
func Deploy(cfg *Config, st *state.State, deployer thor.Address) (*Deployment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rate, err := cfg.RewardRate()
	if err != nil {
		return nil, err
	}

	tokenAddr := thor.CreateContractAddress(deployer, 0)
	bankAddr := thor.CreateContractAddress(deployer, 1)

	tk := token.New(tokenAddr, st)
	if err := tk.Initialize(deployer, cfg.Token.Name, cfg.Token.Symbol, cfg.Token.Decimals, cfg.Token.InitialMint); err != nil {
		return nil, errors.Wrap(err, "initialize token")
	}
	minter, err := tk.Grant(xenv.New(genesisClock{}, deployer), bankAddr)
	if err != nil {
		return nil, errors.Wrap(err, "grant minter")
	}

	bk := bank.New(bankAddr, st, tk, minter, params.New(bankAddr, st))
	if err := bk.Initialize(deployer, cfg.ManagerAddresses(), cfg.Bank.Threshold, rate); err != nil {
		return nil, errors.Wrap(err, "initialize bank")
	}

	logger.Info("contracts deployed", "token", tokenAddr, "bank", bankAddr, "deployer", deployer)
	return &Deployment{
		Deployer: deployer,
		Token:    tk,
		Bank:     bk,
	}, nil
}
