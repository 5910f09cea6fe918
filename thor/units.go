// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"errors"
	"strings"

	"github.com/holiman/uint256"
)

// MaxDecimals is the largest number of decimals whose scale 10^decimals fits in 256 bits.
const MaxDecimals = 77

// Pow10 returns 10^decimals. The second return value reports overflow.
func Pow10(decimals uint8) (*uint256.Int, bool) {
	if decimals > MaxDecimals {
		return new(uint256.Int), true
	}
	return new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(uint64(decimals))), false
}

// Units returns n scaled by 10^decimals. The second return value reports overflow.
func Units(n uint64, decimals uint8) (*uint256.Int, bool) {
	scale, overflow := Pow10(decimals)
	if overflow {
		return scale, true
	}
	return new(uint256.Int).MulOverflow(uint256.NewInt(n), scale)
}

// ParseUnits converts a decimal string such as "0.5" into its fixed-point representation.
func ParseUnits(s string, decimals uint8) (*uint256.Int, error) {
	if decimals > MaxDecimals {
		return nil, errors.New("decimals out of range")
	}
	whole, frac, _ := strings.Cut(strings.TrimSpace(s), ".")
	if whole == "" && frac == "" {
		return nil, errors.New("empty amount")
	}
	if len(frac) > int(decimals) {
		return nil, errors.New("too many decimal places")
	}
	digits := whole + frac + strings.Repeat("0", int(decimals)-len(frac))
	digits = strings.TrimLeft(digits, "0")
	if digits == "" {
		return new(uint256.Int), nil
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return nil, errors.New("invalid digit")
		}
	}
	return uint256.FromDecimal(digits)
}

// FormatUnits renders a fixed-point amount as a decimal string, e.g. 500000000000000000 with 18 decimals is "0.5".
func FormatUnits(v *uint256.Int, decimals uint8) string {
	digits := v.Dec()
	if decimals == 0 {
		return digits
	}
	if len(digits) <= int(decimals) {
		digits = strings.Repeat("0", int(decimals)-len(digits)+1) + digits
	}
	point := len(digits) - int(decimals)
	whole, frac := digits[:point], strings.TrimRight(digits[point:], "0")
	if frac == "" {
		return whole
	}
	return whole + "." + frac
}
