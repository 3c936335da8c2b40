// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package modes

import (
	"context"

	"github.com/pjanthony2001/tfhe-aes/aesstate"
	"github.com/pjanthony2001/tfhe-aes/fhe"
	"github.com/pjanthony2001/tfhe-aes/stagedeval"
)

// OFB is AES-128 in Output Feedback mode. The keystream is generated
// sequentially (block i's keystream is AES-encrypted from block i-1's
// keystream, starting from the IV) independent of the plaintext, then
// XORed into each data block; since the keystream generation never
// depends on the plaintext/ciphertext, encryption and decryption are the
// same operation.
type OFB struct {
	ECB ECB
	IV  aesstate.State
}

// NewOFB builds an OFB mode instance over an already-expanded key
// schedule and initialization vector.
func NewOFB(keys [11]aesstate.Key, iv aesstate.State) OFB {
	return OFB{ECB: NewECB(keys), IV: iv}
}

func (o OFB) keystream(ctx context.Context, ev *stagedeval.Evaluator, sk fhe.ServerKey, n int) ([]aesstate.State, error) {
	stream := make([]aesstate.State, n)
	curr := o.IV
	for i := 0; i < n; i++ {
		next, err := o.ECB.EncryptBlock(ctx, ev, sk, curr)
		if err != nil {
			return nil, err
		}
		stream[i] = next
		curr = next
	}
	return stream, nil
}

func (o OFB) apply(ctx context.Context, ev *stagedeval.Evaluator, sk fhe.ServerKey, blocks []aesstate.State) ([]aesstate.State, error) {
	stream, err := o.keystream(ctx, ev, sk, len(blocks))
	if err != nil {
		return nil, err
	}
	out := make([]aesstate.State, len(blocks))
	for i, block := range blocks {
		out[i] = block.Xor(stream[i], sk)
	}
	return out, nil
}

// Encrypt XORs each plaintext block with the OFB keystream.
func (o OFB) Encrypt(ctx context.Context, ev *stagedeval.Evaluator, sk fhe.ServerKey, blocks []aesstate.State) ([]aesstate.State, error) {
	return o.apply(ctx, ev, sk, blocks)
}

// Decrypt is identical to Encrypt: OFB's keystream never depends on the
// data stream, so XOR with it is its own inverse.
func (o OFB) Decrypt(ctx context.Context, ev *stagedeval.Evaluator, sk fhe.ServerKey, blocks []aesstate.State) ([]aesstate.State, error) {
	return o.apply(ctx, ev, sk, blocks)
}
