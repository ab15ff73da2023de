// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
	"fmt"
)

// Kind classifies why an instruction was rejected.
type Kind uint8

const (
	ArithmeticOverflow Kind = iota + 1
	InvalidConfiguration
	InsufficientBalance
	UnstakeAlreadyActive
	UnstakeNotActive
	UnstakeTimelockNotElapsed
	NothingToClaim
	NotFound
	AlreadyExists
	Unauthorized
	TransferFailed
)

var kindNames = map[Kind]string{
	ArithmeticOverflow:        "ArithmeticOverflow",
	InvalidConfiguration:      "InvalidConfiguration",
	InsufficientBalance:       "InsufficientBalance",
	UnstakeAlreadyActive:      "UnstakeAlreadyActive",
	UnstakeNotActive:          "UnstakeNotActive",
	UnstakeTimelockNotElapsed: "UnstakeTimelockNotElapsed",
	NothingToClaim:            "NothingToClaim",
	NotFound:                  "NotFound",
	AlreadyExists:             "AlreadyExists",
	Unauthorized:              "Unauthorized",
	TransferFailed:            "TransferFailed",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ErrRevert rejects an instruction. No state change of the instruction survives it.
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

func Newf(kind Kind, format string, args ...any) *ErrRevert {
	return New(kind, fmt.Sprintf(format, args...))
}

// Overflow is shorthand for an ArithmeticOverflow revert naming the operation.
func Overflow(op string) *ErrRevert {
	return New(ArithmeticOverflow, op+" overflow")
}

func (e *ErrRevert) Error() string {
	return e.message
}

func (e *ErrRevert) Kind() Kind {
	return e.kind
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

// KindOf returns the kind of the revert wrapped in err, or 0.
func KindOf(err error) Kind {
	var ve *ErrRevert
	if errors.As(err, &ve) {
		return ve.kind
	}
	return 0
}

// Is reports whether err wraps a revert of the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
