// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package fbyte

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pjanthony2001/tfhe-aes/fhe"
	"github.com/pjanthony2001/tfhe-aes/sbox"
	"github.com/pjanthony2001/tfhe-aes/stagedeval"
)

func TestRoundTrip(t *testing.T) {
	ck := fhe.NewClientKey(1)
	for _, v := range []byte{0x00, 0xff, 0x5a, 0x3c, 0x81} {
		fb := New(v, ck)
		require.Equal(t, v, fb.Decrypt(ck))
	}
}

func TestXorAndOr(t *testing.T) {
	ck := fhe.NewClientKey(2)
	sk := fhe.NewReferenceServerKey()
	a, b := New(0x53, ck), New(0xCA, ck)

	require.Equal(t, byte(0x53^0xCA), a.Xor(b, sk).Decrypt(ck))
	require.Equal(t, byte(0x53&0xCA), a.And(b, sk).Decrypt(ck))
	require.Equal(t, byte(0x53|0xCA), a.Or(b, sk).Decrypt(ck))
}

func TestNot(t *testing.T) {
	ck := fhe.NewClientKey(3)
	sk := fhe.NewReferenceServerKey()
	a := New(0x0f, ck)
	require.Equal(t, byte(0xf0), a.Not(sk).Decrypt(ck))
}

func TestFromTrivial(t *testing.T) {
	ck := fhe.NewClientKey(4)
	sk := fhe.NewReferenceServerKey()
	fb := FromTrivial(0x1b, sk)
	require.Equal(t, byte(0x1b), fb.Decrypt(ck))
}

func TestSubByteAndInvSubByteAreInverses(t *testing.T) {
	ck := fhe.NewClientKey(5)
	sk := fhe.NewReferenceServerKey()
	ev := stagedeval.New(sk)

	for _, v := range []byte{0x00, 0x01, 0x53, 0xFF, 0x7e} {
		fb := New(v, ck)
		sub, err := fb.SubByte(context.Background(), ev)
		require.NoError(t, err)
		require.Equal(t, sbox.Table[v], sub.Decrypt(ck))

		back, err := sub.InvSubByte(context.Background(), ev)
		require.NoError(t, err)
		require.Equal(t, v, back.Decrypt(ck))
	}
}

func TestMulXGF2KnownVectors(t *testing.T) {
	ck := fhe.NewClientKey(6)
	sk := fhe.NewReferenceServerKey()

	cases := []struct{ in, want byte }{
		{0x01, 0x02},
		{0x53, 0xa6},
		{0x80, 0x1b}, // top bit set: shift out and XOR reduction poly
	}
	for _, c := range cases {
		fb := New(c.in, ck)
		got := fb.MulXGF2(sk).Decrypt(ck)
		require.Equalf(t, c.want, got, "mul_x(0x%02x)", c.in)
	}
}
