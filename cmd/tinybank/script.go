// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"os"
	"strconv"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/tinybank/genesis"
	"github.com/vechain/tinybank/runtime"
	"github.com/vechain/tinybank/thor"
)

// Script is a list of steps executed in order, each call in a block of its own.
//
//	steps:
//	  - {from: 0, to: token, method: approve, account: bank, amount: "50"}
//	  - {from: 0, to: bank, method: stake, amount: "50"}
//	  - mine: 5
//	  - {from: 0, to: bank, method: withdraw, amount: "50"}
type Script struct {
	Steps []Step `yaml:"steps"`
}

// Step is either a call or a number of empty blocks to mine.
// Addresses are written as "token", "bank", a dev account index or a hex address.
type Step struct {
	From    string `yaml:"from"`
	To      string `yaml:"to"`
	Method  string `yaml:"method"`
	Account string `yaml:"account,omitempty"`
	Owner   string `yaml:"owner,omitempty"`
	// Amount is in tokens, e.g. "0.5".
	Amount string `yaml:"amount,omitempty"`
	Mine   uint32 `yaml:"mine,omitempty"`
}

func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read script")
	}
	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, errors.Wrap(err, "parse script")
	}
	return &script, nil
}

// Resolve turns the step into a clause of the deployed contracts.
func (s *Step) Resolve(d *genesis.Deployment) (thor.Address, *runtime.Clause, error) {
	from, err := resolveAddress(s.From, d)
	if err != nil {
		return thor.Address{}, nil, errors.Wrap(err, "from")
	}
	to, err := resolveAddress(s.To, d)
	if err != nil {
		return thor.Address{}, nil, errors.Wrap(err, "to")
	}
	clause := &runtime.Clause{To: to, Method: s.Method}

	if s.Account != "" {
		if clause.Args.Account, err = resolveAddress(s.Account, d); err != nil {
			return thor.Address{}, nil, errors.Wrap(err, "account")
		}
	}
	if s.Owner != "" {
		if clause.Args.Owner, err = resolveAddress(s.Owner, d); err != nil {
			return thor.Address{}, nil, errors.Wrap(err, "owner")
		}
	}
	if s.Amount != "" {
		decimals, err := d.Token.Decimals()
		if err != nil {
			return thor.Address{}, nil, err
		}
		var amount *uint256.Int
		if amount, err = thor.ParseUnits(s.Amount, decimals); err != nil {
			return thor.Address{}, nil, errors.Wrap(err, "amount")
		}
		clause.Args.Amount = amount
	}
	return from, clause, nil
}

func resolveAddress(s string, d *genesis.Deployment) (thor.Address, error) {
	switch s {
	case "":
		return thor.Address{}, errors.New("address required")
	case "token":
		return d.Token.Address(), nil
	case "bank":
		return d.Bank.Address(), nil
	}
	if index, err := strconv.Atoi(s); err == nil {
		accs := genesis.DevAccounts()
		if index < 0 || index >= len(accs) {
			return thor.Address{}, errors.Errorf("dev account index %d out of range", index)
		}
		return accs[index].Address, nil
	}
	addr, err := thor.ParseAddress(s)
	if err != nil {
		return thor.Address{}, errors.Wrapf(err, "%q", s)
	}
	return *addr, nil
}
