// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"os"
	"strconv"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/tinybank/builtin/multisig"
	"github.com/vechain/tinybank/thor"
)

// Config describes the contracts deployed at genesis.
type Config struct {
	Token TokenConfig `yaml:"token"`
	Bank  BankConfig  `yaml:"bank"`
}

type TokenConfig struct {
	Name     string `yaml:"name"`
	Symbol   string `yaml:"symbol"`
	Decimals uint8  `yaml:"decimals"`
	// InitialMint is in whole tokens, credited to the deployer.
	InitialMint uint64 `yaml:"initialMint"`
}

type BankConfig struct {
	Managers  []Account `yaml:"managers"`
	Threshold uint64    `yaml:"threshold"`
	// RewardPerBlock is in tokens, e.g. "0.5". Empty means one token.
	RewardPerBlock string `yaml:"rewardPerBlock,omitempty"`
}

// Account is written either as the index of a dev account or as a hex address.
type Account struct {
	thor.Address
}

func (a *Account) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return errors.New("account: expected index or address")
	}
	if index, err := strconv.Atoi(node.Value); err == nil {
		accs := DevAccounts()
		if index < 0 || index >= len(accs) {
			return errors.Errorf("account: dev account index %d out of range", index)
		}
		a.Address = accs[index].Address
		return nil
	}
	addr, err := thor.ParseAddress(node.Value)
	if err != nil {
		return errors.Wrapf(err, "account: %q", node.Value)
	}
	a.Address = *addr
	return nil
}

func (a Account) MarshalYAML() (any, error) {
	return a.Address.String(), nil
}

// DefaultConfig deploys MyToken (MT) with 100 tokens and a vault governed by
// the first three dev accounts, all of which must confirm a rate change.
func DefaultConfig() *Config {
	accs := DevAccounts()
	return &Config{
		Token: TokenConfig{
			Name:        "MyToken",
			Symbol:      "MT",
			Decimals:    18,
			InitialMint: 100,
		},
		Bank: BankConfig{
			Managers:       []Account{{accs[0].Address}, {accs[1].Address}, {accs[2].Address}},
			Threshold:      3,
			RewardPerBlock: "1",
		},
	}
}

// LoadConfig reads a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) ManagerAddresses() []thor.Address {
	addrs := make([]thor.Address, 0, len(c.Bank.Managers))
	for _, m := range c.Bank.Managers {
		addrs = append(addrs, m.Address)
	}
	return addrs
}

// RewardRate returns the reward per block in base units, nil if unset.
func (c *Config) RewardRate() (*uint256.Int, error) {
	if c.Bank.RewardPerBlock == "" {
		return nil, nil
	}
	rate, err := thor.ParseUnits(c.Bank.RewardPerBlock, c.Token.Decimals)
	if err != nil {
		return nil, errors.Wrap(err, "invalid rewardPerBlock")
	}
	return rate, nil
}

// Validate checks the config can be deployed.
func (c *Config) Validate() error {
	if c.Token.Name == "" || c.Token.Symbol == "" {
		return errors.New("token name and symbol are required")
	}
	if c.Token.Decimals > thor.MaxDecimals {
		return errors.Errorf("token decimals must not exceed %d", thor.MaxDecimals)
	}
	if _, overflow := thor.Units(c.Token.InitialMint, c.Token.Decimals); overflow {
		return errors.New("token initialMint overflows")
	}
	if err := multisig.Validate(c.ManagerAddresses(), c.Bank.Threshold); err != nil {
		return errors.Wrap(err, "invalid bank managers")
	}
	if _, err := c.RewardRate(); err != nil {
		return err
	}
	return nil
}
