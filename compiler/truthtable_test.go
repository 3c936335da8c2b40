// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package compiler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pjanthony2001/tfhe-aes/fhe"
	"github.com/pjanthony2001/tfhe-aes/stagedeval"
)

func TestCompileBitRejectsNonPowerOfTwo(t *testing.T) {
	_, err := CompileBit(make([]bool, 3))
	require.ErrorIs(t, err, ErrInvalidTable)
}

func TestCompileBitIdentity(t *testing.T) {
	// A single-bit table (length 1) is the constant passthrough case.
	expr, err := CompileBit([]bool{true})
	require.NoError(t, err)
	op, ok := expr.IsOperand()
	require.True(t, ok)
	require.Equal(t, op.String(), "True")
}

func TestCompileTableMatchesIdentity(t *testing.T) {
	var table [256]byte
	for i := range table {
		table[i] = byte(i)
	}
	roots := CompileTable(table)

	ck := fhe.NewClientKey(99)
	sk := fhe.NewReferenceServerKey()
	ev := stagedeval.New(sk)

	for _, x := range []byte{0x00, 0x01, 0x80, 0xAA, 0x55, 0xFF, 0x3C} {
		var inputs [8]fhe.Ciphertext
		for bit := 0; bit < 8; bit++ {
			shift := uint(7 - bit)
			inputs[bit] = ck.Encrypt((x>>shift)&1 == 1)
		}
		results, err := ev.Eval(context.Background(), inputs,
			roots[0], roots[1], roots[2], roots[3], roots[4], roots[5], roots[6], roots[7])
		require.NoError(t, err)

		var got byte
		for bit, r := range results {
			if ck.Decrypt(r) {
				got |= 1 << uint(7-bit)
			}
		}
		require.Equalf(t, table[x], got, "input 0x%02x", x)
	}
}
