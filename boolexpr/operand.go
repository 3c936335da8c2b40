// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

// Package boolexpr implements the canonical Boolean-circuit algebra that
// every homomorphic AES component is compiled down to: a small DAG of
// leaves (constants and input bits) and gates (And/Or/Xor/Mux), closed
// under negation so that NOT never needs its own ciphertext gate.
package boolexpr

import "fmt"

// Operand is a leaf of a BoolExpr: a constant or one of the eight input
// bits of a byte-wide truth table, addressed MSB-first (Bit0 is the most
// significant bit of the byte being transformed).
type Operand int

const (
	True Operand = iota
	False
	Bit0
	Bit1
	Bit2
	Bit3
	Bit4
	Bit5
	Bit6
	Bit7
	NotBit0
	NotBit1
	NotBit2
	NotBit3
	NotBit4
	NotBit5
	NotBit6
	NotBit7
)

// Not returns the logical negation of o. Bit operands fold directly into
// their NotBit counterpart instead of wrapping, so a leaf is never doubly
// negated.
func (o Operand) Not() Operand {
	switch o {
	case True:
		return False
	case False:
		return True
	case Bit0:
		return NotBit0
	case Bit1:
		return NotBit1
	case Bit2:
		return NotBit2
	case Bit3:
		return NotBit3
	case Bit4:
		return NotBit4
	case Bit5:
		return NotBit5
	case Bit6:
		return NotBit6
	case Bit7:
		return NotBit7
	case NotBit0:
		return Bit0
	case NotBit1:
		return Bit1
	case NotBit2:
		return Bit2
	case NotBit3:
		return Bit3
	case NotBit4:
		return Bit4
	case NotBit5:
		return Bit5
	case NotBit6:
		return Bit6
	case NotBit7:
		return Bit7
	default:
		panic(fmt.Sprintf("boolexpr: invalid operand %d", o))
	}
}

// FromBool lifts a plain boolean constant into an Operand.
func FromBool(b bool) Operand {
	if b {
		return True
	}
	return False
}

// BitIndex returns the input-bit index (0-7) addressed by o and whether o
// negates that bit. ok is false for True/False.
func (o Operand) BitIndex() (idx int, negated bool, ok bool) {
	switch {
	case o >= Bit0 && o <= Bit7:
		return int(o - Bit0), false, true
	case o >= NotBit0 && o <= NotBit7:
		return int(o - NotBit0), true, true
	default:
		return 0, false, false
	}
}

func (o Operand) String() string {
	names := [...]string{
		"True", "False",
		"Bit0", "Bit1", "Bit2", "Bit3", "Bit4", "Bit5", "Bit6", "Bit7",
		"NotBit0", "NotBit1", "NotBit2", "NotBit3", "NotBit4", "NotBit5", "NotBit6", "NotBit7",
	}
	if int(o) < len(names) {
		return names[o]
	}
	return fmt.Sprintf("Operand(%d)", o)
}

// discriminant orders Operand ahead of all gate kinds, matching the
// teacher-derived ordering used for canonical child sorting.
func (o Operand) discriminant() int { return 0 }
