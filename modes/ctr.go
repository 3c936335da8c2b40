// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package modes

import (
	"context"
	"encoding/binary"

	"github.com/pjanthony2001/tfhe-aes/aesstate"
	"github.com/pjanthony2001/tfhe-aes/fhe"
	"github.com/pjanthony2001/tfhe-aes/stagedeval"
)

// CTR is AES-128 in Counter mode. The counter blocks derived from the
// nonce are public values (only the keystream they produce is secret), so
// they are lifted to ciphertext space with ServerKey.Trivial rather than
// a client-side encryption; every block's keystream is independent of
// every other, so the whole mode runs concurrently across blocks.
type CTR struct {
	ECB   ECB
	Nonce uint64
}

// NewCTR builds a CTR mode instance over an already-expanded key schedule
// and a 64-bit nonce occupying the high 8 bytes of each counter block; the
// low 8 bytes hold the big-endian block index.
func NewCTR(keys [11]aesstate.Key, nonce uint64) CTR {
	return CTR{ECB: NewECB(keys), Nonce: nonce}
}

func (c CTR) counterBlock(index uint64) [16]byte {
	var block [16]byte
	binary.BigEndian.PutUint64(block[0:8], c.Nonce)
	binary.BigEndian.PutUint64(block[8:16], index)
	return block
}

// apply runs CTR over blocks: XOR is its own inverse, so encryption and
// decryption share this one implementation.
func (c CTR) apply(ctx context.Context, ev *stagedeval.Evaluator, sk fhe.ServerKey, blocks []aesstate.State) ([]aesstate.State, error) {
	out := make([]aesstate.State, len(blocks))
	errs := make(chan error, len(blocks))
	for i := range blocks {
		i := i
		go func() {
			counter := aesstate.NewStateTrivial(c.counterBlock(uint64(i)), sk)
			keystream, err := c.ECB.EncryptBlock(ctx, ev, sk, counter)
			if err != nil {
				errs <- err
				return
			}
			out[i] = blocks[i].Xor(keystream, sk)
			errs <- nil
		}()
	}
	for range blocks {
		if err := <-errs; err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Encrypt XORs each plaintext block with its AES-encrypted counter block.
func (c CTR) Encrypt(ctx context.Context, ev *stagedeval.Evaluator, sk fhe.ServerKey, blocks []aesstate.State) ([]aesstate.State, error) {
	return c.apply(ctx, ev, sk, blocks)
}

// Decrypt is identical to Encrypt: XOR with the same keystream recovers
// the plaintext.
func (c CTR) Decrypt(ctx context.Context, ev *stagedeval.Evaluator, sk fhe.ServerKey, blocks []aesstate.State) ([]aesstate.State, error) {
	return c.apply(ctx, ev, sk, blocks)
}
