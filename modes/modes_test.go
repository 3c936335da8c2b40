// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package modes

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pjanthony2001/tfhe-aes/aesstate"
	"github.com/pjanthony2001/tfhe-aes/fhe"
	"github.com/pjanthony2001/tfhe-aes/stagedeval"
)

var fipsKey = [16]byte{0x2b, 0x7e, 0x15, 0x16, 0x28, 0xae, 0xd2, 0xa6, 0xab, 0xf7, 0x15, 0x88, 0x09, 0xcf, 0x4f, 0x3c}
var fipsPlaintext = [16]byte{0x32, 0x43, 0xf6, 0xa8, 0x88, 0x5a, 0x30, 0x8d, 0x31, 0x31, 0x98, 0xa2, 0xe0, 0x37, 0x07, 0x34}
var fipsCiphertext = [16]byte{0x39, 0x25, 0x84, 0x1d, 0x02, 0xdc, 0x09, 0xfb, 0xdc, 0x11, 0x85, 0x97, 0x19, 0x6a, 0x0b, 0x32}

func setupECB(t *testing.T) (*fhe.ClientKey, fhe.ServerKey, *stagedeval.Evaluator, ECB) {
	ck := fhe.NewClientKey(1)
	sk := fhe.NewReferenceServerKey()
	ev := stagedeval.New(sk)
	k := aesstate.NewKey(fipsKey, ck)
	keys, err := k.Schedule(context.Background(), ev, sk)
	require.NoError(t, err)
	return ck, sk, ev, NewECB(keys)
}

func TestECBEncryptMatchesFIPS197Vector(t *testing.T) {
	ck, sk, ev, ecb := setupECB(t)
	state := aesstate.NewState(fipsPlaintext, ck)

	ct, err := ecb.EncryptBlock(context.Background(), ev, sk, state)
	require.NoError(t, err)
	require.Equal(t, fipsCiphertext, ct.Bytes(ck))
}

func TestECBDecryptInvertsEncrypt(t *testing.T) {
	ck, sk, ev, ecb := setupECB(t)
	state := aesstate.NewState(fipsPlaintext, ck)
	ctx := context.Background()

	ct, err := ecb.EncryptBlock(ctx, ev, sk, state)
	require.NoError(t, err)
	pt, err := ecb.DecryptBlock(ctx, ev, sk, ct)
	require.NoError(t, err)
	require.Equal(t, fipsPlaintext, pt.Bytes(ck))
}

func twoBlocks(ck *fhe.ClientKey) []aesstate.State {
	return []aesstate.State{
		aesstate.NewState(fipsPlaintext, ck),
		aesstate.NewState([16]byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}, ck),
	}
}

func TestCBCRoundTrip(t *testing.T) {
	ck, sk, ev, ecb := setupECB(t)
	ctx := context.Background()
	iv := aesstate.NewState([16]byte{}, ck)
	cbc := CBC{ECB: ecb, IV: iv}

	blocks := twoBlocks(ck)
	ct, err := cbc.Encrypt(ctx, ev, sk, blocks)
	require.NoError(t, err)
	pt, err := cbc.Decrypt(ctx, ev, sk, ct)
	require.NoError(t, err)

	for i, b := range blocks {
		require.Equal(t, b.Bytes(ck), pt[i].Bytes(ck))
	}
}

func TestCTRRoundTrip(t *testing.T) {
	ck, sk, ev, ecb := setupECB(t)
	ctx := context.Background()
	ctr := CTR{ECB: ecb, Nonce: 0xdeadbeef}

	blocks := twoBlocks(ck)
	ct, err := ctr.Encrypt(ctx, ev, sk, blocks)
	require.NoError(t, err)
	pt, err := ctr.Decrypt(ctx, ev, sk, ct)
	require.NoError(t, err)

	for i, b := range blocks {
		require.Equal(t, b.Bytes(ck), pt[i].Bytes(ck))
	}
}

func TestOFBRoundTrip(t *testing.T) {
	ck, sk, ev, ecb := setupECB(t)
	ctx := context.Background()
	iv := aesstate.NewState([16]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}, ck)
	ofb := OFB{ECB: ecb, IV: iv}

	blocks := twoBlocks(ck)
	ct, err := ofb.Encrypt(ctx, ev, sk, blocks)
	require.NoError(t, err)
	pt, err := ofb.Decrypt(ctx, ev, sk, ct)
	require.NoError(t, err)

	for i, b := range blocks {
		require.Equal(t, b.Bytes(ck), pt[i].Bytes(ck))
	}
}
