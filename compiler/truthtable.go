// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

// Package compiler turns an 8-bit truth table (256 output bits, one per
// possible input byte) into the canonical boolexpr DAG that computes it,
// by recursively folding pairs of entries into Mux nodes selecting on
// successive input bits.
package compiler

import (
	"errors"
	"fmt"

	"github.com/pjanthony2001/tfhe-aes/boolexpr"
)

// ErrInvalidTable is returned when CompileBit is given a table whose
// length is zero or not a power of two. CompileTable takes a fixed
// 256-entry table and never returns it.
var ErrInvalidTable = errors.New("compiler: truth table length must be a power of two")

// CompileBit folds a single output column of a truth table (bits, indexed
// by input value: bits[x] is the output for input byte x) into a
// canonical boolexpr.Expr. len(bits) must be a power of two.
//
// This mirrors the reduce_mux entry point: it repeatedly pairs adjacent
// entries and folds each pair through boolexpr.Mux keyed on an input bit,
// so every trivial pairing (both branches equal, or one branch a
// constant) collapses immediately via Mux's own reduction rules instead of
// emitting a gate. Pairing adjacent array entries always peels off the
// least-significant bit of the current index first, so the first fold
// selects on Bit7 (boolexpr's least-significant operand), the second on
// Bit6, and so on, ending with Bit0 (the most significant) selecting
// between the last two entries — matching the MSB-first Bit0..Bit7
// convention in boolexpr.Operand.
func CompileBit(bits []bool) (*boolexpr.Expr, error) {
	if len(bits) == 0 || (len(bits)&(len(bits)-1)) != 0 {
		return nil, fmt.Errorf("%w: got length %d", ErrInvalidTable, len(bits))
	}
	operands := make([]*boolexpr.Expr, len(bits))
	for i, b := range bits {
		operands[i] = boolexpr.Const(b)
	}
	return reduceMux(operands, 0), nil
}

// reduceMux folds items pairwise via Mux, recursing until a single Expr
// remains. At recursion depth level, items is indexed by the high bits of
// the original table index with the low `level` bits already folded away,
// so the next bit to select on is Bit(7-level): level 0 selects the
// original index's bit 0 (Bit7), the last level selects bit 7 (Bit0).
// items must have even length at every level except the base case of
// length 1.
func reduceMux(items []*boolexpr.Expr, level int) *boolexpr.Expr {
	if len(items) == 1 {
		return items[0]
	}
	cond := boolexpr.Leaf(boolexpr.Operand(int(boolexpr.Bit7) - level))
	next := make([]*boolexpr.Expr, len(items)/2)
	for i := 0; i < len(next); i++ {
		// items[2i] selected when the bit is 0, items[2i+1] when it is 1,
		// matching array_chunks::<2>().map(mux) in the MUX-tree fold.
		next[i] = boolexpr.Mux(cond, items[2*i+1], items[2*i])
	}
	return reduceMux(next, level+1)
}

// CompileTable compiles all 256 output-bit columns of a byte-wide S-box
// style table (table[x] is the output byte for input x) into 8 canonical
// boolexpr.Expr roots, MSB-first (roots[0] computes the most significant
// output bit).
func CompileTable(table [256]byte) [8]*boolexpr.Expr {
	var roots [8]*boolexpr.Expr
	for bit := 0; bit < 8; bit++ {
		col := make([]bool, 256)
		shift := uint(7 - bit)
		for x := 0; x < 256; x++ {
			col[x] = (table[x]>>shift)&1 == 1
		}
		expr, err := CompileBit(col)
		if err != nil {
			// col always has length 256, a power of two; this cannot fail.
			panic(err)
		}
		roots[bit] = expr
	}
	return roots
}
