// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"math"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/tinybank/builtin/reverts"
	"github.com/vechain/tinybank/builtin/solidity"
	"github.com/vechain/tinybank/log"
	"github.com/vechain/tinybank/metrics"
	"github.com/vechain/tinybank/state"
	"github.com/vechain/tinybank/thor"
	"github.com/vechain/tinybank/xenv"
)

var (
	logger            = log.WithContext("pkg", "token")
	metricTokenSupply = metrics.LazyLoadGauge("token_supply")

	slotInitialized = thor.Blake2b([]byte("initialized"))
	slotMetadata    = thor.Blake2b([]byte("metadata"))
	slotSupply      = thor.Blake2b([]byte("total-supply"))
	slotManager     = thor.Blake2b([]byte("manager"))
	slotBalances    = thor.Blake2b([]byte("balances"))
	slotAllowances  = thor.Blake2b([]byte("allowances"))

	ErrAlreadyInitialized = errors.New("token: already initialized")
)

// Token is a fungible token ledger with a single manager allowed to mint.
type Token struct {
	addr        thor.Address
	initialized *solidity.Value[bool]
	metadata    *solidity.Value[*metadata]
	supply      *solidity.Uint256
	manager     *solidity.Address
	balances    *solidity.Mapping[thor.Address, *uint256.Int]
	allowances  *solidity.Mapping[allowanceKey, *uint256.Int]
}

// New binds the token contract deployed at addr.
func New(addr thor.Address, state *state.State) *Token {
	sctx := solidity.NewContext(addr, state)
	return &Token{
		addr:        addr,
		initialized: solidity.NewValue[bool](sctx, slotInitialized),
		metadata:    solidity.NewValue[*metadata](sctx, slotMetadata),
		supply:      solidity.NewUint256(sctx, slotSupply),
		manager:     solidity.NewAddress(sctx, slotManager),
		balances:    solidity.NewMapping[thor.Address, *uint256.Int](sctx, slotBalances),
		allowances:  solidity.NewMapping[allowanceKey, *uint256.Int](sctx, slotAllowances),
	}
}

// Initialize stores the token metadata, makes deployer the manager and
// mints initialMint whole tokens to it.
func (t *Token) Initialize(deployer thor.Address, name, symbol string, decimals uint8, initialMint uint64) error {
	initialized, err := t.initialized.Get()
	if err != nil {
		return errors.Wrap(err, "failed to get initialized flag")
	}
	if initialized {
		return ErrAlreadyInitialized
	}
	amount, overflow := thor.Units(initialMint, decimals)
	if overflow {
		return reverts.ErrOverflow
	}

	if err := t.initialized.Set(true); err != nil {
		return errors.Wrap(err, "failed to set initialized flag")
	}
	if err := t.metadata.Set(&metadata{Name: name, Symbol: symbol, Decimals: decimals}); err != nil {
		return errors.Wrap(err, "failed to set metadata")
	}
	t.manager.Set(deployer)
	if _, err := t.mint(deployer, amount); err != nil {
		return err
	}
	logger.Debug("initialized", "addr", t.addr, "symbol", symbol, "supply", thor.FormatUnits(amount, decimals))
	return nil
}

//
// Getters - no state change
//

func (t *Token) Address() thor.Address {
	return t.addr
}

func (t *Token) Name() (string, error) {
	meta, err := t.metadata.Get()
	if err != nil {
		return "", errors.Wrap(err, "failed to get metadata")
	}
	return meta.Name, nil
}

func (t *Token) Symbol() (string, error) {
	meta, err := t.metadata.Get()
	if err != nil {
		return "", errors.Wrap(err, "failed to get metadata")
	}
	return meta.Symbol, nil
}

func (t *Token) Decimals() (uint8, error) {
	meta, err := t.metadata.Get()
	if err != nil {
		return 0, errors.Wrap(err, "failed to get metadata")
	}
	return meta.Decimals, nil
}

func (t *Token) TotalSupply() (*uint256.Int, error) {
	supply, err := t.supply.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get total supply")
	}
	return supply, nil
}

func (t *Token) BalanceOf(addr thor.Address) (*uint256.Int, error) {
	bal, err := t.balances.Get(addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get balance")
	}
	return bal, nil
}

func (t *Token) Allowance(owner, spender thor.Address) (*uint256.Int, error) {
	allowance, err := t.allowances.Get(allowanceKey{owner, spender})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get allowance")
	}
	return allowance, nil
}

// Manager returns the only account allowed to mint and to replace the manager.
func (t *Token) Manager() (thor.Address, error) {
	manager, err := t.manager.Get()
	if err != nil {
		return thor.Address{}, errors.Wrap(err, "failed to get manager")
	}
	return manager, nil
}

//
// Setters - state change
//

// Mint creates amount new tokens for to. Only the manager can mint.
func (t *Token) Mint(env *xenv.Environment, amount *uint256.Int, to thor.Address) error {
	if err := t.onlyManager(env.Caller()); err != nil {
		return err
	}
	return t.mintTo(env, to, amount)
}

// Transfer moves amount from the caller to to.
func (t *Token) Transfer(env *xenv.Environment, amount *uint256.Int, to thor.Address) error {
	return t.transfer(env, env.Caller(), to, amount)
}

// Approve sets the allowance of spender over the caller's tokens, replacing any previous one.
func (t *Token) Approve(env *xenv.Environment, spender thor.Address, amount *uint256.Int) error {
	owner := env.Caller()
	if err := t.allowances.Set(allowanceKey{owner, spender}, new(uint256.Int).Set(amount)); err != nil {
		return errors.Wrap(err, "failed to set allowance")
	}
	env.Log(t.addr, &Approval{Spender: spender, Amount: new(uint256.Int).Set(amount)})
	logger.Trace("approved", "owner", owner, "spender", spender, "amount", amount)
	return nil
}

// TransferFrom moves amount from owner to to, spending the caller's allowance.
func (t *Token) TransferFrom(env *xenv.Environment, owner, to thor.Address, amount *uint256.Int) error {
	key := allowanceKey{owner, env.Caller()}
	allowance, err := t.allowances.Get(key)
	if err != nil {
		return errors.Wrap(err, "failed to get allowance")
	}
	if allowance.Lt(amount) {
		return reverts.ErrInsufficientAllowance
	}
	bal, err := t.BalanceOf(owner)
	if err != nil {
		return err
	}
	if bal.Lt(amount) {
		return reverts.ErrInsufficientBalance
	}

	if err := t.allowances.Set(key, allowance.Sub(allowance, amount)); err != nil {
		return errors.Wrap(err, "failed to set allowance")
	}
	return t.transfer(env, owner, to, amount)
}

// SetManager hands the manager role to newManager. Only the current manager can do so.
func (t *Token) SetManager(env *xenv.Environment, newManager thor.Address) error {
	if err := t.onlyManager(env.Caller()); err != nil {
		return err
	}
	t.manager.Set(newManager)
	logger.Debug("manager changed", "from", env.Caller(), "to", newManager)
	return nil
}

// Grant makes grantee the manager and returns the mint capability bound to it.
func (t *Token) Grant(env *xenv.Environment, grantee thor.Address) (*Minter, error) {
	if err := t.SetManager(env, grantee); err != nil {
		return nil, err
	}
	return &Minter{token: t, grantee: grantee}, nil
}

func (t *Token) onlyManager(caller thor.Address) error {
	manager, err := t.Manager()
	if err != nil {
		return err
	}
	if manager != caller {
		return reverts.ErrUnauthorized
	}
	return nil
}

func (t *Token) mintTo(env *xenv.Environment, to thor.Address, amount *uint256.Int) error {
	supply, err := t.mint(to, amount)
	if err != nil {
		return err
	}
	env.Log(t.addr, &Transfer{To: to, Amount: new(uint256.Int).Set(amount)})
	logger.Debug("minted", "to", to, "amount", amount, "supply", supply)
	return nil
}

// mint credits to and raises the supply. Both sums are checked before any write.
func (t *Token) mint(to thor.Address, amount *uint256.Int) (*uint256.Int, error) {
	supply, err := t.TotalSupply()
	if err != nil {
		return nil, err
	}
	bal, err := t.BalanceOf(to)
	if err != nil {
		return nil, err
	}
	if _, overflow := supply.AddOverflow(supply, amount); overflow {
		return nil, reverts.ErrOverflow
	}
	if _, overflow := bal.AddOverflow(bal, amount); overflow {
		return nil, reverts.ErrOverflow
	}

	t.supply.Set(supply)
	if err := t.balances.Set(to, bal); err != nil {
		return nil, errors.Wrap(err, "failed to set balance")
	}
	t.reportSupply(supply)
	return supply, nil
}

func (t *Token) transfer(env *xenv.Environment, from, to thor.Address, amount *uint256.Int) error {
	fromBal, err := t.BalanceOf(from)
	if err != nil {
		return err
	}
	if fromBal.Lt(amount) {
		return reverts.ErrInsufficientBalance
	}

	if from != to {
		toBal, err := t.BalanceOf(to)
		if err != nil {
			return err
		}
		if _, overflow := toBal.AddOverflow(toBal, amount); overflow {
			return reverts.ErrOverflow
		}
		if err := t.balances.Set(from, fromBal.Sub(fromBal, amount)); err != nil {
			return errors.Wrap(err, "failed to set balance")
		}
		if err := t.balances.Set(to, toBal); err != nil {
			return errors.Wrap(err, "failed to set balance")
		}
	}

	env.Log(t.addr, &Transfer{From: from, To: to, Amount: new(uint256.Int).Set(amount)})
	logger.Trace("transferred", "from", from, "to", to, "amount", amount)
	return nil
}

// reportSupply publishes the supply in whole tokens.
func (t *Token) reportSupply(supply *uint256.Int) {
	decimals, err := t.Decimals()
	if err != nil {
		return
	}
	scale, _ := thor.Pow10(decimals)
	whole := new(uint256.Int).Div(supply, scale)
	if !whole.IsUint64() || whole.Uint64() > math.MaxInt64 {
		metricTokenSupply().Set(math.MaxInt64)
		return
	}
	metricTokenSupply().Set(int64(whole.Uint64()))
}
