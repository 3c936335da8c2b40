// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package aesstate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pjanthony2001/tfhe-aes/fhe"
	"github.com/pjanthony2001/tfhe-aes/stagedeval"
)

func sampleBytes() [16]byte {
	return [16]byte{0x32, 0x43, 0xf6, 0xa8, 0x88, 0x5a, 0x30, 0x8d, 0x31, 0x31, 0x98, 0xa2, 0xe0, 0x37, 0x07, 0x34}
}

func TestStateRoundTrip(t *testing.T) {
	ck := fhe.NewClientKey(1)
	in := sampleBytes()
	s := NewState(in, ck)
	require.Equal(t, in, s.Bytes(ck))
}

func TestAddRoundKeyIsSelfInverse(t *testing.T) {
	ck := fhe.NewClientKey(2)
	sk := fhe.NewReferenceServerKey()
	s := NewState(sampleBytes(), ck)
	k := NewKey(sampleBytes(), ck)

	once := s.AddRoundKey(k, sk)
	twice := once.AddRoundKey(k, sk)
	require.Equal(t, s.Bytes(ck), twice.Bytes(ck))
}

func TestShiftRowsAndInverseRoundTrip(t *testing.T) {
	ck := fhe.NewClientKey(3)
	s := NewState(sampleBytes(), ck)
	shifted := s.ShiftRows()
	back := shifted.InvShiftRows()
	require.Equal(t, s.Bytes(ck), back.Bytes(ck))
}

func TestMixColumnsAndInverseRoundTrip(t *testing.T) {
	ck := fhe.NewClientKey(4)
	sk := fhe.NewReferenceServerKey()
	s := NewState(sampleBytes(), ck)
	mixed := s.MixColumns(sk)
	back := mixed.InvMixColumns(sk)
	require.Equal(t, s.Bytes(ck), back.Bytes(ck))
}

func TestSubBytesAndInverseRoundTrip(t *testing.T) {
	ck := fhe.NewClientKey(5)
	sk := fhe.NewReferenceServerKey()
	ev := stagedeval.New(sk)
	ctx := context.Background()

	s := NewState(sampleBytes(), ck)
	subbed, err := s.SubBytes(ctx, ev)
	require.NoError(t, err)
	back, err := subbed.InvSubBytes(ctx, ev)
	require.NoError(t, err)
	require.Equal(t, s.Bytes(ck), back.Bytes(ck))
}

func TestKeyScheduleFIPS197Vector(t *testing.T) {
	ck := fhe.NewClientKey(6)
	sk := fhe.NewReferenceServerKey()
	ev := stagedeval.New(sk)
	ctx := context.Background()

	cipherKey := [16]byte{0x2b, 0x7e, 0x15, 0x16, 0x28, 0xae, 0xd2, 0xa6, 0xab, 0xf7, 0x15, 0x88, 0x09, 0xcf, 0x4f, 0x3c}
	k := NewKey(cipherKey, ck)

	keys, err := k.Schedule(ctx, ev, sk)
	require.NoError(t, err)
	require.Equal(t, cipherKey, keys[0].Bytes(ck))

	// FIPS-197 Appendix A.1 round-key word w[4]..w[7].
	want1 := [16]byte{0xa0, 0xfa, 0xfe, 0x17, 0x88, 0x54, 0x2c, 0xb1, 0x23, 0xa3, 0x39, 0x39, 0x2a, 0x6c, 0x76, 0x05}
	require.Equal(t, want1, keys[1].Bytes(ck))
}
