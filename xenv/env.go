// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"github.com/vechain/tinybank/thor"
)

// Clock supplies the current block height.
// Heights never decrease, and two calls in the same block observe the same height.
type Clock interface {
	CurrentHeight() uint32
}

// Event is a notification emitted by a contract.
type Event interface {
	// Signature returns the canonical event signature, e.g. Transfer(address,address,uint256).
	Signature() string
}

// Log is an event together with the contract that emitted it.
type Log struct {
	Address thor.Address
	Topic   thor.Bytes32
	Event   Event
}

// Environment is the context a contract method is executed in.
// It is not safe for concurrent use.
type Environment struct {
	caller      thor.Address
	blockNumber uint32
	logs        *[]*Log
}

// New create a new env. The block number is read from clock once, at call time.
func New(clock Clock, caller thor.Address) *Environment {
	return &Environment{
		caller:      caller,
		blockNumber: clock.CurrentHeight(),
		logs:        new([]*Log),
	}
}

func (env *Environment) Caller() thor.Address { return env.caller }
func (env *Environment) BlockNumber() uint32  { return env.blockNumber }

// Nested derives the environment of a contract-to-contract call made by caller.
// It shares the block and the event log with env.
func (env *Environment) Nested(caller thor.Address) *Environment {
	return &Environment{
		caller:      caller,
		blockNumber: env.blockNumber,
		logs:        env.logs,
	}
}

// Log records an event emitted by the contract at address.
func (env *Environment) Log(address thor.Address, ev Event) {
	*env.logs = append(*env.logs, &Log{
		Address: address,
		Topic:   thor.Keccak256([]byte(ev.Signature())),
		Event:   ev,
	})
}

// Logs returns events recorded so far.
func (env *Environment) Logs() []*Log {
	return *env.logs
}

// Snapshot returns an id to revert recorded events to.
func (env *Environment) Snapshot() int {
	return len(*env.logs)
}

// Revert drops events recorded after the snapshot.
func (env *Environment) Revert(snapshot int) {
	if snapshot < len(*env.logs) {
		*env.logs = (*env.logs)[:snapshot]
	}
}
