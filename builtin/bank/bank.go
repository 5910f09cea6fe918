// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package bank

import (
	"math"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/tinybank/builtin/multisig"
	"github.com/vechain/tinybank/builtin/params"
	"github.com/vechain/tinybank/builtin/reverts"
	"github.com/vechain/tinybank/builtin/solidity"
	"github.com/vechain/tinybank/builtin/token"
	"github.com/vechain/tinybank/log"
	"github.com/vechain/tinybank/metrics"
	"github.com/vechain/tinybank/state"
	"github.com/vechain/tinybank/thor"
	"github.com/vechain/tinybank/xenv"
)

var (
	logger            = log.WithContext("pkg", "bank")
	metricTotalStaked = metrics.LazyLoadGauge("bank_total_staked")

	slotInitialManager = thor.Blake2b([]byte("initial-manager"))
	slotTotalStaked    = thor.Blake2b([]byte("total-staked"))
	slotPositions      = thor.Blake2b([]byte("positions"))
	slotGate           = thor.Blake2b([]byte("gate"))

	ErrAlreadyInitialized = errors.New("bank: already initialized")
	// ErrConservation means the vault holds fewer tokens than it owes to stakers.
	ErrConservation = errors.New("bank: total staked exceeds vault balance")
)

// Bank is a staking vault paying block-indexed rewards in the ledger token.
// The reward rate can only be changed once enough managers confirmed.
type Bank struct {
	addr   thor.Address
	state  *state.State
	ledger *token.Token
	minter *token.Minter
	params *params.Params

	gate           *multisig.Gate
	initialManager *solidity.Address
	totalStaked    *solidity.Uint256
	positions      *solidity.Mapping[thor.Address, *Position]
}

// New binds the vault deployed at addr. The minter must be granted to addr by the ledger.
func New(addr thor.Address, state *state.State, ledger *token.Token, minter *token.Minter, params *params.Params) *Bank {
	sctx := solidity.NewContext(addr, state)
	return &Bank{
		addr:   addr,
		state:  state,
		ledger: ledger,
		minter: minter,
		params: params,

		gate:           multisig.New(sctx, slotGate),
		initialManager: solidity.NewAddress(sctx, slotInitialManager),
		totalStaked:    solidity.NewUint256(sctx, slotTotalStaked),
		positions:      solidity.NewMapping[thor.Address, *Position](sctx, slotPositions),
	}
}

// Initialize sets up the governance gate and the reward rate.
// A nil rewardPerBlock defaults to one whole token per block.
func (b *Bank) Initialize(initialManager thor.Address, managers []thor.Address, threshold uint64, rewardPerBlock *uint256.Int) error {
	if err := b.gate.Initialize(managers, threshold); err != nil {
		if errors.Is(err, multisig.ErrAlreadyInitialized) {
			return ErrAlreadyInitialized
		}
		return err
	}
	if rewardPerBlock == nil {
		decimals, err := b.ledger.Decimals()
		if err != nil {
			return err
		}
		rewardPerBlock, _ = thor.Pow10(decimals)
	}
	b.initialManager.Set(initialManager)
	b.params.Set(params.KeyRewardPerBlock, rewardPerBlock)

	logger.Debug("initialized", "addr", b.addr, "managers", len(managers), "threshold", threshold, "rewardPerBlock", rewardPerBlock)
	return nil
}

//
// Getters - no state change
//

func (b *Bank) Address() thor.Address {
	return b.addr
}

// Position returns the position of staker. An account without stake gets an empty position.
func (b *Bank) Position(staker thor.Address) (*Position, error) {
	pos, err := b.positions.Get(staker)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get position")
	}
	if pos.Amount == nil {
		pos.Amount = new(uint256.Int)
	}
	return pos, nil
}

func (b *Bank) Staked(staker thor.Address) (*uint256.Int, error) {
	pos, err := b.Position(staker)
	if err != nil {
		return nil, err
	}
	return pos.Amount, nil
}

func (b *Bank) TotalStaked() (*uint256.Int, error) {
	total, err := b.totalStaked.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get total staked")
	}
	return total, nil
}

func (b *Bank) RewardPerBlock() (*uint256.Int, error) {
	rate, err := b.params.Get(params.KeyRewardPerBlock)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get reward per block")
	}
	return rate, nil
}

// PendingReward returns the reward a withdraw by staker at blockNumber would pay.
func (b *Bank) PendingReward(staker thor.Address, blockNumber uint32) (*uint256.Int, error) {
	pos, err := b.Position(staker)
	if err != nil {
		return nil, err
	}
	return b.reward(pos, blockNumber)
}

// InitialManager returns the account the vault was deployed by. It has no privileges.
func (b *Bank) InitialManager() (thor.Address, error) {
	manager, err := b.initialManager.Get()
	if err != nil {
		return thor.Address{}, errors.Wrap(err, "failed to get initial manager")
	}
	return manager, nil
}

func (b *Bank) Managers() ([]thor.Address, error) {
	return b.gate.Managers()
}

func (b *Bank) Threshold() (uint64, error) {
	return b.gate.Threshold()
}

func (b *Bank) Confirmed(manager thor.Address) (bool, error) {
	return b.gate.Confirmed(manager)
}

func (b *Bank) Confirmations() (int, error) {
	return b.gate.Confirmations()
}

//
// Setters - state change
//

// Stake pulls amount from the caller, who must have approved the vault on the ledger.
// A new position starts its reward clock at the current block. Adding to a position keeps its clock.
func (b *Bank) Stake(env *xenv.Environment, amount *uint256.Int) error {
	staker := env.Caller()
	logger.Debug("staking", "staker", staker, "amount", amount, "block", env.BlockNumber())

	err := b.atomic(env, func() error {
		if amount.IsZero() {
			return reverts.ErrZeroStake
		}
		pos, err := b.Position(staker)
		if err != nil {
			return err
		}
		if err := b.ledger.TransferFrom(env.Nested(b.addr), staker, b.addr, amount); err != nil {
			return err
		}

		if pos.IsZero() {
			pos.StartBlock = env.BlockNumber()
		}
		if _, overflow := pos.Amount.AddOverflow(pos.Amount, amount); overflow {
			return reverts.ErrOverflow
		}
		if overflow, err := b.totalStaked.Add(amount); err != nil {
			return errors.Wrap(err, "failed to add total staked")
		} else if overflow {
			return reverts.ErrOverflow
		}
		if err := b.positions.Set(staker, pos); err != nil {
			return errors.Wrap(err, "failed to set position")
		}

		env.Log(b.addr, &Staked{Staker: staker, Amount: new(uint256.Int).Set(amount), StartBlock: pos.StartBlock})
		return nil
	})
	if err != nil {
		logger.Debug("stake failed", "staker", staker, "error", err)
		return err
	}
	return nil
}

// Withdraw returns amount of principal to the caller and pays the reward accrued since the
// position's clock started. The clock restarts at the current block.
func (b *Bank) Withdraw(env *xenv.Environment, amount *uint256.Int) error {
	staker := env.Caller()
	logger.Debug("withdrawing", "staker", staker, "amount", amount, "block", env.BlockNumber())

	err := b.atomic(env, func() error {
		pos, err := b.Position(staker)
		if err != nil {
			return err
		}
		if pos.Amount.Lt(amount) {
			return reverts.ErrInsufficientStake
		}
		reward, err := b.reward(pos, env.BlockNumber())
		if err != nil {
			return err
		}

		vault := env.Nested(b.addr)
		if !reward.IsZero() {
			if err := b.minter.Mint(vault, reward, staker); err != nil {
				return err
			}
		}
		if err := b.ledger.Transfer(vault, amount, staker); err != nil {
			return err
		}

		pos.Amount.Sub(pos.Amount, amount)
		pos.StartBlock = env.BlockNumber()
		if underflow, err := b.totalStaked.Sub(amount); err != nil {
			return errors.Wrap(err, "failed to sub total staked")
		} else if underflow {
			return reverts.ErrUnderflow
		}
		if err := b.positions.Set(staker, pos); err != nil {
			return errors.Wrap(err, "failed to set position")
		}

		env.Log(b.addr, &Withdrawn{Staker: staker, Amount: new(uint256.Int).Set(amount), Reward: reward})
		return nil
	})
	if err != nil {
		logger.Debug("withdraw failed", "staker", staker, "error", err)
		return err
	}
	return nil
}

// Confirm records the caller's approval of the next reward rate change.
func (b *Bank) Confirm(env *xenv.Environment) error {
	return b.atomic(env, func() error {
		if err := b.gate.Confirm(env.Caller()); err != nil {
			return err
		}
		env.Log(b.addr, &Confirmed{Manager: env.Caller()})
		return nil
	})
}

// Revoke withdraws the caller's pending confirmation.
func (b *Bank) Revoke(env *xenv.Environment) error {
	return b.atomic(env, func() error {
		if err := b.gate.Revoke(env.Caller()); err != nil {
			return err
		}
		env.Log(b.addr, &Revoked{Manager: env.Caller()})
		return nil
	})
}

// SetRewardPerBlock changes the reward rate, consuming the pending confirmations.
func (b *Bank) SetRewardPerBlock(env *xenv.Environment, rate *uint256.Int) error {
	return b.atomic(env, func() error {
		if err := b.gate.Consume(env.Caller()); err != nil {
			return err
		}
		b.params.Set(params.KeyRewardPerBlock, rate)
		env.Log(b.addr, &RewardPerBlockChanged{Manager: env.Caller(), Rate: new(uint256.Int).Set(rate)})
		logger.Info("reward per block changed", "manager", env.Caller(), "rate", rate)
		return nil
	})
}

// atomic runs fn under a checkpoint. Storage writes and events of a failed fn are dropped,
// including those of nested ledger calls. On success the checkpoint is merged into the enclosing one.
func (b *Bank) atomic(env *xenv.Environment, fn func() error) error {
	revision := b.state.NewCheckpoint()
	snapshot := env.Snapshot()

	err := fn()
	if err == nil {
		err = b.checkConservation()
	}
	if err != nil {
		b.state.RevertTo(revision)
		env.Revert(snapshot)
		return err
	}
	b.state.MergeTo(revision)
	return nil
}

// reward is rewardPerBlock * (blockNumber - StartBlock). Empty positions earn nothing.
// The current rate applies to the whole duration, so a rate change reprices running positions.
func (b *Bank) reward(pos *Position, blockNumber uint32) (*uint256.Int, error) {
	if pos.IsZero() || blockNumber <= pos.StartBlock {
		return new(uint256.Int), nil
	}
	rate, err := b.RewardPerBlock()
	if err != nil {
		return nil, err
	}
	blocks := uint256.NewInt(uint64(blockNumber - pos.StartBlock))
	reward, overflow := new(uint256.Int).MulOverflow(rate, blocks)
	if overflow {
		return nil, reverts.ErrOverflow
	}
	return reward, nil
}

func (b *Bank) checkConservation() error {
	total, err := b.TotalStaked()
	if err != nil {
		return err
	}
	bal, err := b.ledger.BalanceOf(b.addr)
	if err != nil {
		return err
	}
	if total.Gt(bal) {
		logger.Warn("vault is insolvent", "totalStaked", total, "balance", bal)
		return ErrConservation
	}
	b.reportTotalStaked(total)
	return nil
}

// reportTotalStaked publishes the total stake in whole tokens.
func (b *Bank) reportTotalStaked(total *uint256.Int) {
	decimals, err := b.ledger.Decimals()
	if err != nil {
		return
	}
	scale, _ := thor.Pow10(decimals)
	whole := new(uint256.Int).Div(total, scale)
	if !whole.IsUint64() || whole.Uint64() > math.MaxInt64 {
		metricTotalStaked().Set(math.MaxInt64)
		return
	}
	metricTotalStaked().Set(int64(whole.Uint64()))
}
