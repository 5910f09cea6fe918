// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/tinybank/builtin/bank"
	"github.com/vechain/tinybank/builtin/reverts"
	"github.com/vechain/tinybank/builtin/token"
	"github.com/vechain/tinybank/log"
	"github.com/vechain/tinybank/metrics"
	"github.com/vechain/tinybank/state"
	"github.com/vechain/tinybank/thor"
	"github.com/vechain/tinybank/xenv"
)

var (
	logger            = log.WithContext("pkg", "runtime")
	metricClauseCount = metrics.LazyLoadCounterVec("runtime_clause_count", []string{"status"})

	ErrUnknownMethod = errors.New("runtime: unknown method")
)

type methodKey struct {
	to   thor.Address
	name string
}

type method struct {
	run func(env *xenv.Environment, args *Args) error
}

type define struct {
	name string
	run  func(env *xenv.Environment, args *Args) error
}

// Runtime executes clauses against the token and bank contracts, one at a time.
type Runtime struct {
	state   *state.State
	clock   xenv.Clock
	token   *token.Token
	bank    *bank.Bank
	methods map[methodKey]*method
}

// New create a runtime instance.
func New(state *state.State, clock xenv.Clock, token *token.Token, bank *bank.Bank) *Runtime {
	rt := &Runtime{
		state:   state,
		clock:   clock,
		token:   token,
		bank:    bank,
		methods: make(map[methodKey]*method),
	}
	rt.initTokenMethods()
	rt.initBankMethods()
	return rt
}

func (rt *Runtime) State() *state.State { return rt.state }
func (rt *Runtime) Token() *token.Token { return rt.token }
func (rt *Runtime) Bank() *bank.Bank    { return rt.bank }

func (rt *Runtime) register(to thor.Address, defines []define) {
	for _, def := range defines {
		rt.methods[methodKey{to, def.name}] = &method{run: def.run}
	}
}

func (rt *Runtime) initTokenMethods() {
	rt.register(rt.token.Address(), []define{
		{"transfer", func(env *xenv.Environment, args *Args) error {
			return rt.token.Transfer(env, args.Amount, args.Account)
		}},
		{"approve", func(env *xenv.Environment, args *Args) error {
			return rt.token.Approve(env, args.Account, args.Amount)
		}},
		{"transferFrom", func(env *xenv.Environment, args *Args) error {
			return rt.token.TransferFrom(env, args.Owner, args.Account, args.Amount)
		}},
		{"mint", func(env *xenv.Environment, args *Args) error {
			return rt.token.Mint(env, args.Amount, args.Account)
		}},
		{"setManager", func(env *xenv.Environment, args *Args) error {
			return rt.token.SetManager(env, args.Account)
		}},
	})
}

func (rt *Runtime) initBankMethods() {
	rt.register(rt.bank.Address(), []define{
		{"stake", func(env *xenv.Environment, args *Args) error {
			return rt.bank.Stake(env, args.Amount)
		}},
		{"withdraw", func(env *xenv.Environment, args *Args) error {
			return rt.bank.Withdraw(env, args.Amount)
		}},
		{"confirm", func(env *xenv.Environment, _ *Args) error {
			return rt.bank.Confirm(env)
		}},
		{"revoke", func(env *xenv.Environment, _ *Args) error {
			return rt.bank.Revoke(env)
		}},
		{"setRewardPerBlock", func(env *xenv.Environment, args *Args) error {
			return rt.bank.SetRewardPerBlock(env, args.Amount)
		}},
	})
}

// Execute runs the clause on behalf of caller. The clause either applies completely or not at all.
// A revert is reported in the receipt; other failures are returned as error, with the state reverted too.
func (rt *Runtime) Execute(caller thor.Address, clause *Clause) (*Receipt, error) {
	m, ok := rt.methods[methodKey{clause.To, clause.Method}]
	if !ok {
		metricClauseCount().AddWithLabel(1, map[string]string{"status": "error"})
		return nil, errors.Wrapf(ErrUnknownMethod, "%v.%s", clause.To, clause.Method)
	}

	args := clause.Args
	if args.Amount == nil {
		args.Amount = new(uint256.Int)
	}

	env := xenv.New(rt.clock, caller)
	receipt := &Receipt{
		Caller:      caller,
		To:          clause.To,
		Method:      clause.Method,
		BlockNumber: env.BlockNumber(),
	}

	checkpoint := rt.state.NewCheckpoint()
	if err := m.run(env, &args); err != nil {
		rt.state.RevertTo(checkpoint)
		if !reverts.IsRevertErr(err) {
			metricClauseCount().AddWithLabel(1, map[string]string{"status": "error"})
			logger.Error("clause failed", "method", clause.Method, "caller", caller, "error", err)
			return nil, err
		}
		receipt.Reverted = true
		receipt.RevertKind = reverts.KindOf(err)
		receipt.RevertReason = err.Error()
		metricClauseCount().AddWithLabel(1, map[string]string{"status": "reverted"})
		logger.Debug("clause reverted", "method", clause.Method, "caller", caller, "reason", receipt.RevertReason)
		return receipt, nil
	}
	rt.state.MergeTo(checkpoint)

	receipt.Events = env.Logs()
	metricClauseCount().AddWithLabel(1, map[string]string{"status": "success"})
	logger.Debug("clause executed", "method", clause.Method, "caller", caller, "events", len(receipt.Events))
	return receipt, nil
}
