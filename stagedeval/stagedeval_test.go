// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package stagedeval

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pjanthony2001/tfhe-aes/boolexpr"
	"github.com/pjanthony2001/tfhe-aes/fhe"
)

func TestEvalSingleGate(t *testing.T) {
	ck := fhe.NewClientKey(1)
	sk := fhe.NewReferenceServerKey()
	ev := New(sk)

	var inputs [8]fhe.Ciphertext
	inputs[0] = ck.Encrypt(true)
	inputs[1] = ck.Encrypt(false)

	root := boolexpr.Xor(boolexpr.Leaf(boolexpr.Bit0), boolexpr.Leaf(boolexpr.Bit1))
	results, err := ev.Eval(context.Background(), inputs, root)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.True(t, ck.Decrypt(results[0]))
}

// countingKey counts And gates so a test can check that a shared
// sub-expression is evaluated only once.
type countingKey struct {
	fhe.ServerKey
	ands atomic.Int32
}

func (c *countingKey) And(a, b fhe.Ciphertext) fhe.Ciphertext {
	c.ands.Add(1)
	return c.ServerKey.And(a, b)
}

func TestEvalSharesWorkAcrossRoots(t *testing.T) {
	ck := fhe.NewClientKey(2)
	sk := &countingKey{ServerKey: fhe.NewReferenceServerKey()}
	ev := New(sk)

	var inputs [8]fhe.Ciphertext
	for i := range inputs {
		inputs[i] = ck.Encrypt(i%2 == 0)
	}

	shared := boolexpr.And(boolexpr.Leaf(boolexpr.Bit0), boolexpr.Leaf(boolexpr.Bit1))
	root1 := boolexpr.Xor(shared, boolexpr.Leaf(boolexpr.Bit2))
	root2 := boolexpr.Or(shared, boolexpr.Leaf(boolexpr.Bit3))

	results, err := ev.Eval(context.Background(), inputs, root1, root2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	// Bit0=1, Bit1=0, Bit2=1, Bit3=0: shared=0, root1=0^1=1, root2=0|0=0.
	require.True(t, ck.Decrypt(results[0]))
	require.False(t, ck.Decrypt(results[1]))
	require.Equal(t, int32(1), sk.ands.Load(), "shared And gate must be evaluated once")
}

func TestEvalNegatedLeaf(t *testing.T) {
	ck := fhe.NewClientKey(3)
	sk := fhe.NewReferenceServerKey()
	ev := New(sk)

	var inputs [8]fhe.Ciphertext
	inputs[0] = ck.Encrypt(true)

	root := boolexpr.Leaf(boolexpr.NotBit0)
	results, err := ev.Eval(context.Background(), inputs, root)
	require.NoError(t, err)
	require.False(t, ck.Decrypt(results[0]))
}

func TestEvalMultiStageDependency(t *testing.T) {
	ck := fhe.NewClientKey(4)
	sk := fhe.NewReferenceServerKey()
	ev := New(sk)

	var inputs [8]fhe.Ciphertext
	inputs[0] = ck.Encrypt(true)
	inputs[1] = ck.Encrypt(true)
	inputs[2] = ck.Encrypt(false)

	stage1 := boolexpr.And(boolexpr.Leaf(boolexpr.Bit0), boolexpr.Leaf(boolexpr.Bit1))
	stage2 := boolexpr.Or(stage1, boolexpr.Leaf(boolexpr.Bit2))

	results, err := ev.Eval(context.Background(), inputs, stage2)
	require.NoError(t, err)
	require.True(t, ck.Decrypt(results[0]))
}
