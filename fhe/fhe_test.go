// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package fhe

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReferenceServerKeyGates(t *testing.T) {
	ck := NewClientKey(42)
	sk := NewReferenceServerKey()

	for a := 0; a < 2; a++ {
		for b := 0; b < 2; b++ {
			av, bv := a == 1, b == 1
			ca, cb := ck.Encrypt(av), ck.Encrypt(bv)

			require.Equal(t, av && bv, ck.Decrypt(sk.And(ca, cb)))
			require.Equal(t, av || bv, ck.Decrypt(sk.Or(ca, cb)))
			require.Equal(t, av != bv, ck.Decrypt(sk.Xor(ca, cb)))
		}
	}
}

func TestReferenceServerKeyNot(t *testing.T) {
	ck := NewClientKey(3)
	sk := NewReferenceServerKey()
	require.False(t, ck.Decrypt(sk.Not(ck.Encrypt(true))))
	require.True(t, ck.Decrypt(sk.Not(ck.Encrypt(false))))
}

func TestReferenceServerKeyMux(t *testing.T) {
	ck := NewClientKey(7)
	sk := NewReferenceServerKey()

	cTrue, cFalse := ck.Encrypt(true), ck.Encrypt(false)
	a, b := ck.Encrypt(true), ck.Encrypt(false)

	require.True(t, ck.Decrypt(sk.Mux(cTrue, a, b)))
	require.False(t, ck.Decrypt(sk.Mux(cFalse, a, b)))
}

func TestProcessWideServerKey(t *testing.T) {
	UnsetServerKey()
	_, err := CurrentServerKey()
	require.ErrorIs(t, err, ErrNoServerKey)

	sk := NewReferenceServerKey()
	SetServerKey(sk)
	t.Cleanup(UnsetServerKey)

	got, err := CurrentServerKey()
	require.NoError(t, err)
	require.Equal(t, sk, got)
}

func TestReferenceServerKeyTrivial(t *testing.T) {
	ck := NewClientKey(9)
	sk := NewReferenceServerKey()
	require.True(t, ck.Decrypt(sk.Trivial(true)))
	require.False(t, ck.Decrypt(sk.Trivial(false)))
}

func TestClientKeyRoundTrip(t *testing.T) {
	ck := NewClientKey(1)
	require.True(t, ck.Decrypt(ck.Encrypt(true)))
	require.False(t, ck.Decrypt(ck.Encrypt(false)))
}
