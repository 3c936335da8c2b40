// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package modes

import (
	"context"

	"github.com/pjanthony2001/tfhe-aes/aesstate"
	"github.com/pjanthony2001/tfhe-aes/fhe"
	"github.com/pjanthony2001/tfhe-aes/stagedeval"
)

// CBC is AES-128 in Cipher Block Chaining mode. Encryption is
// inherently sequential (each block's input depends on the previous
// block's output); decryption is independent per block given the
// ciphertext chain, since inv(block) only needs the current and
// preceding ciphertext blocks.
type CBC struct {
	ECB ECB
	IV  aesstate.State
}

// NewCBC builds a CBC mode instance over an already-expanded key
// schedule and initialization vector.
func NewCBC(keys [11]aesstate.Key, iv aesstate.State) CBC {
	return CBC{ECB: NewECB(keys), IV: iv}
}

// Encrypt chains plaintext blocks sequentially: each block is XORed with
// the previous ciphertext block (the IV for the first) before encrypting.
func (c CBC) Encrypt(ctx context.Context, ev *stagedeval.Evaluator, sk fhe.ServerKey, blocks []aesstate.State) ([]aesstate.State, error) {
	out := make([]aesstate.State, len(blocks))
	prev := c.IV
	for i, block := range blocks {
		fed := block.Xor(prev, sk)
		ct, err := c.ECB.EncryptBlock(ctx, ev, sk, fed)
		if err != nil {
			return nil, err
		}
		out[i] = ct
		prev = ct
	}
	return out, nil
}

// Decrypt recovers each plaintext block as inv(ciphertext[i]) XOR
// ciphertext[i-1] (the IV for the first block). Every block's inv-cipher
// step is independent of the others, so they run concurrently.
func (c CBC) Decrypt(ctx context.Context, ev *stagedeval.Evaluator, sk fhe.ServerKey, blocks []aesstate.State) ([]aesstate.State, error) {
	decrypted := make([]aesstate.State, len(blocks))
	errs := make(chan error, len(blocks))
	for i, block := range blocks {
		i, block := i, block
		go func() {
			s, err := c.ECB.DecryptBlock(ctx, ev, sk, block)
			decrypted[i] = s
			errs <- err
		}()
	}
	for range blocks {
		if err := <-errs; err != nil {
			return nil, err
		}
	}
	out := make([]aesstate.State, len(blocks))
	prev := c.IV
	for i, block := range blocks {
		out[i] = decrypted[i].Xor(prev, sk)
		prev = block
	}
	return out, nil
}
