// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package multisig implements an M-of-N confirmation gate over a fixed set of managers.
//
// Managers confirm independently. Once the threshold is reached, one gated
// action can consume the confirmations, which resets the gate.
package multisig

import (
	"math/bits"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/tinybank/builtin/reverts"
	"github.com/vechain/tinybank/builtin/solidity"
	"github.com/vechain/tinybank/log"
	"github.com/vechain/tinybank/thor"
)

// MaxManagers is bounded by the width of the confirmation bitset.
const MaxManagers = 256

var (
	logger = log.WithContext("pkg", "multisig")

	ErrAlreadyInitialized = errors.New("multisig: already initialized")
	ErrNoManagers         = errors.New("multisig: empty manager set")
	ErrTooManyManagers    = errors.New("multisig: too many managers")
	ErrZeroManager        = errors.New("multisig: zero address manager")
	ErrDuplicateManager   = errors.New("multisig: duplicate manager")
	ErrInvalidThreshold   = errors.New("multisig: threshold out of range")
)

// Gate is stored in the account of the contract it guards, under slots derived from a base slot.
type Gate struct {
	managers      *solidity.Value[[]thor.Address]
	threshold     *solidity.Value[uint64]
	confirmations *solidity.Uint256
}

func New(sctx *solidity.Context, baseSlot thor.Bytes32) *Gate {
	return &Gate{
		managers:      solidity.NewValue[[]thor.Address](sctx, thor.Blake2b(baseSlot.Bytes(), []byte("managers"))),
		threshold:     solidity.NewValue[uint64](sctx, thor.Blake2b(baseSlot.Bytes(), []byte("threshold"))),
		confirmations: solidity.NewUint256(sctx, thor.Blake2b(baseSlot.Bytes(), []byte("confirmations"))),
	}
}

// Validate checks a manager set and threshold can form a gate.
func Validate(managers []thor.Address, threshold uint64) error {
	if len(managers) == 0 {
		return ErrNoManagers
	}
	if len(managers) > MaxManagers {
		return ErrTooManyManagers
	}
	seen := make(map[thor.Address]struct{}, len(managers))
	for _, m := range managers {
		if m.IsZero() {
			return ErrZeroManager
		}
		if _, ok := seen[m]; ok {
			return errors.Wrapf(ErrDuplicateManager, "%v", m)
		}
		seen[m] = struct{}{}
	}
	if threshold < 1 || threshold > uint64(len(managers)) {
		return errors.Wrapf(ErrInvalidThreshold, "%d of %d", threshold, len(managers))
	}
	return nil
}

// Initialize fixes the manager set and the threshold. Neither can change afterwards.
func (g *Gate) Initialize(managers []thor.Address, threshold uint64) error {
	existing, err := g.Managers()
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return ErrAlreadyInitialized
	}
	if err := Validate(managers, threshold); err != nil {
		return err
	}
	if err := g.managers.Set(managers); err != nil {
		return errors.Wrap(err, "failed to set managers")
	}
	if err := g.threshold.Set(threshold); err != nil {
		return errors.Wrap(err, "failed to set threshold")
	}
	g.confirmations.Set(new(uint256.Int))
	return nil
}

func (g *Gate) Managers() ([]thor.Address, error) {
	managers, err := g.managers.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get managers")
	}
	return managers, nil
}

func (g *Gate) Threshold() (uint64, error) {
	threshold, err := g.threshold.Get()
	if err != nil {
		return 0, errors.Wrap(err, "failed to get threshold")
	}
	return threshold, nil
}

func (g *Gate) IsManager(addr thor.Address) (bool, error) {
	index, err := g.indexOf(addr)
	if err != nil {
		return false, err
	}
	return index >= 0, nil
}

// Confirmed returns whether addr has a pending confirmation.
func (g *Gate) Confirmed(addr thor.Address) (bool, error) {
	index, err := g.indexOf(addr)
	if err != nil || index < 0 {
		return false, err
	}
	mask, err := g.mask()
	if err != nil {
		return false, err
	}
	return isSet(mask, index), nil
}

// Confirmations returns the number of pending confirmations.
func (g *Gate) Confirmations() (int, error) {
	mask, err := g.mask()
	if err != nil {
		return 0, err
	}
	return count(mask), nil
}

// Confirm records the confirmation of caller. Confirming twice has no further effect.
func (g *Gate) Confirm(caller thor.Address) error {
	index, err := g.indexOf(caller)
	if err != nil {
		return err
	}
	if index < 0 {
		return reverts.ErrNotAManager
	}
	mask, err := g.mask()
	if err != nil {
		return err
	}
	g.confirmations.Set(mask.Or(mask, bit(index)))
	logger.Debug("confirmed", "manager", caller, "confirmations", count(mask))
	return nil
}

// Revoke withdraws a pending confirmation of caller.
func (g *Gate) Revoke(caller thor.Address) error {
	index, err := g.indexOf(caller)
	if err != nil {
		return err
	}
	if index < 0 {
		return reverts.ErrNotAManager
	}
	mask, err := g.mask()
	if err != nil {
		return err
	}
	g.confirmations.Set(mask.And(mask, new(uint256.Int).Not(bit(index))))
	logger.Debug("revoked", "manager", caller, "confirmations", count(mask))
	return nil
}

// Consume authorizes one gated action by caller and resets all confirmations.
// The threshold is checked before the membership of caller.
func (g *Gate) Consume(caller thor.Address) error {
	threshold, err := g.Threshold()
	if err != nil {
		return err
	}
	mask, err := g.mask()
	if err != nil {
		return err
	}
	if threshold == 0 || uint64(count(mask)) < threshold {
		return reverts.ErrNotAllConfirmed
	}
	index, err := g.indexOf(caller)
	if err != nil {
		return err
	}
	if index < 0 {
		return reverts.ErrNotAManager
	}
	g.confirmations.Set(new(uint256.Int))
	logger.Debug("confirmations consumed", "manager", caller)
	return nil
}

func (g *Gate) indexOf(addr thor.Address) (int, error) {
	managers, err := g.Managers()
	if err != nil {
		return -1, err
	}
	for i, m := range managers {
		if m == addr {
			return i, nil
		}
	}
	return -1, nil
}

func (g *Gate) mask() (*uint256.Int, error) {
	mask, err := g.confirmations.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get confirmations")
	}
	return mask, nil
}

func bit(index int) *uint256.Int {
	return new(uint256.Int).Lsh(uint256.NewInt(1), uint(index))
}

func isSet(mask *uint256.Int, index int) bool {
	return !new(uint256.Int).And(mask, bit(index)).IsZero()
}

func count(mask *uint256.Int) int {
	n := 0
	for _, limb := range mask {
		n += bits.OnesCount64(limb)
	}
	return n
}
