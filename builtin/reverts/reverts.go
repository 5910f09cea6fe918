// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
)

// Kind classifies why a call was reverted.
type Kind uint8

const (
	Unknown Kind = iota
	Unauthorized
	InsufficientBalance
	InsufficientAllowance
	InsufficientStake
	NotAManager
	NotAllConfirmed
	Overflow
	Underflow
	InvalidAmount
)

var kindNames = [...]string{
	Unknown:               "Unknown",
	Unauthorized:          "Unauthorized",
	InsufficientBalance:   "InsufficientBalance",
	InsufficientAllowance: "InsufficientAllowance",
	InsufficientStake:     "InsufficientStake",
	NotAManager:           "NotAManager",
	NotAllConfirmed:       "NotAllConfirmed",
	Overflow:              "Overflow",
	Underflow:             "Underflow",
	InvalidAmount:         "InvalidAmount",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

var (
	ErrUnauthorized          = New(Unauthorized, "You are not authorized to manage this contract")
	ErrInsufficientBalance   = New(InsufficientBalance, "insufficient balance")
	ErrInsufficientAllowance = New(InsufficientAllowance, "insufficient allowance")
	ErrInsufficientStake     = New(InsufficientStake, "insufficient staked token")
	ErrNotAManager           = New(NotAManager, "You are not one of managers")
	ErrNotAllConfirmed       = New(NotAllConfirmed, "Not all managers confirmed yet")
	ErrOverflow              = New(Overflow, "arithmetic overflow")
	ErrUnderflow             = New(Underflow, "arithmetic underflow")
	ErrZeroStake             = New(InvalidAmount, "cannot stake 0 amount")
)

// ErrRevert is a business failure of a contract call, the equivalent of a solidity require.
type ErrRevert struct {
	kind    Kind
	message string
}

func New(kind Kind, message string) *ErrRevert {
	return &ErrRevert{
		kind:    kind,
		message: message,
	}
}

func (e *ErrRevert) Error() string {
	return e.message
}

// Kind returns the kind of the revert.
func (e *ErrRevert) Kind() Kind {
	return e.kind
}

// Is reports whether target is a revert of the same kind and reason.
func (e *ErrRevert) Is(target error) bool {
	var t *ErrRevert
	if !errors.As(target, &t) || t == nil {
		return false
	}
	return e.kind == t.kind && e.message == t.message
}

// Bytes returns the revert reason ABI-encoded as Error(string).
func (e *ErrRevert) Bytes() []byte {
	if e == nil {
		return nil
	}

	// 4-byte selector for Error(string)
	selector, _ := hex.DecodeString("08c379a0")
	msgBytes := []byte(e.message)
	msgLen := uint64(len(msgBytes))

	// selector + offset (32 bytes) + length (32 bytes) + data (padded to 32)
	encoded := make([]byte, 0, 4+32+32+((len(msgBytes)+31)/32)*32)
	encoded = append(encoded, selector...)

	offset := make([]byte, 32)
	binary.BigEndian.PutUint64(offset[24:], 32)
	encoded = append(encoded, offset...)

	length := make([]byte, 32)
	binary.BigEndian.PutUint64(length[24:], msgLen)
	encoded = append(encoded, length...)

	data := make([]byte, ((len(msgBytes)+31)/32)*32)
	copy(data, msgBytes)
	encoded = append(encoded, data...)

	return encoded
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

// KindOf returns the kind of the revert wrapped in err, or Unknown.
func KindOf(err error) Kind {
	var ve *ErrRevert
	if errors.As(err, &ve) {
		return ve.kind
	}
	return Unknown
}
