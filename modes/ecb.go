// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

// Package modes composes aesstate.State/Key round operations into the
// four block-cipher modes this module supports: ECB, CBC, CTR and OFB.
package modes

import (
	"context"

	"github.com/pjanthony2001/tfhe-aes/aesstate"
	"github.com/pjanthony2001/tfhe-aes/fhe"
	"github.com/pjanthony2001/tfhe-aes/stagedeval"
)

// ECB is AES-128 in Electronic Codebook mode: every block is encrypted
// independently under the same 11 round keys.
type ECB struct {
	Keys [11]aesstate.Key
}

// NewECB wraps an already-expanded round-key schedule.
func NewECB(keys [11]aesstate.Key) ECB { return ECB{Keys: keys} }

// EncryptBlock runs the 10-round AES-128 encryption schedule over state.
func (e ECB) EncryptBlock(ctx context.Context, ev *stagedeval.Evaluator, sk fhe.ServerKey, state aesstate.State) (aesstate.State, error) {
	s := state.AddRoundKey(e.Keys[0], sk)
	for round := 1; round < 10; round++ {
		var err error
		s, err = s.SubBytes(ctx, ev)
		if err != nil {
			return aesstate.State{}, err
		}
		s = s.ShiftRows()
		s = s.MixColumns(sk)
		s = s.AddRoundKey(e.Keys[round], sk)
	}
	s, err := s.SubBytes(ctx, ev)
	if err != nil {
		return aesstate.State{}, err
	}
	s = s.ShiftRows()
	s = s.AddRoundKey(e.Keys[10], sk)
	return s, nil
}

// DecryptBlock runs the inverse AES-128 schedule over state.
func (e ECB) DecryptBlock(ctx context.Context, ev *stagedeval.Evaluator, sk fhe.ServerKey, state aesstate.State) (aesstate.State, error) {
	s := state.AddRoundKey(e.Keys[10], sk)
	for round := 1; round < 10; round++ {
		s = s.InvShiftRows()
		var err error
		s, err = s.InvSubBytes(ctx, ev)
		if err != nil {
			return aesstate.State{}, err
		}
		s = s.AddRoundKey(e.Keys[10-round], sk)
		s = s.InvMixColumns(sk)
	}
	s = s.InvShiftRows()
	s, err := s.InvSubBytes(ctx, ev)
	if err != nil {
		return aesstate.State{}, err
	}
	s = s.AddRoundKey(e.Keys[0], sk)
	return s, nil
}

// Encrypt encrypts every block in blocks independently.
func (e ECB) Encrypt(ctx context.Context, ev *stagedeval.Evaluator, sk fhe.ServerKey, blocks []aesstate.State) ([]aesstate.State, error) {
	return e.mapBlocks(ctx, ev, sk, blocks, e.EncryptBlock)
}

// Decrypt decrypts every block in blocks independently.
func (e ECB) Decrypt(ctx context.Context, ev *stagedeval.Evaluator, sk fhe.ServerKey, blocks []aesstate.State) ([]aesstate.State, error) {
	return e.mapBlocks(ctx, ev, sk, blocks, e.DecryptBlock)
}

func (e ECB) mapBlocks(ctx context.Context, ev *stagedeval.Evaluator, sk fhe.ServerKey, blocks []aesstate.State,
	f func(context.Context, *stagedeval.Evaluator, fhe.ServerKey, aesstate.State) (aesstate.State, error)) ([]aesstate.State, error) {
	out := make([]aesstate.State, len(blocks))
	errs := make(chan error, len(blocks))
	for i := range blocks {
		i := i
		go func() {
			s, err := f(ctx, ev, sk, blocks[i])
			out[i] = s
			errs <- err
		}()
	}
	for range blocks {
		if err := <-errs; err != nil {
			return nil, err
		}
	}
	return out, nil
}
