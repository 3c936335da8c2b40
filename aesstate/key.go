// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package aesstate

import (
	"context"

	"github.com/pjanthony2001/tfhe-aes/fbyte"
	"github.com/pjanthony2001/tfhe-aes/fhe"
	"github.com/pjanthony2001/tfhe-aes/stagedeval"
)

// rcon holds the AES-128 round constants for rounds 1 through 10.
var rcon = [10]byte{0x01, 0x02, 0x04, 0x08, 0x10, 0x20, 0x40, 0x80, 0x1B, 0x36}

// Key is a 16-byte AES round key, stored in the same row-grouped layout
// as State so AddRoundKey never needs to reindex between the two.
type Key struct {
	Data [16]fbyte.FHEByte
}

// NewKey builds a Key from 16 cleartext bytes in standard AES input
// order, encrypting each byte under ck.
func NewKey(in [16]byte, ck *fhe.ClientKey) Key {
	var k Key
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			k.Data[4*r+c] = fbyte.New(in[r+4*c], ck)
		}
	}
	return k
}

// Bytes decrypts k back into standard AES column-major byte order.
func (k Key) Bytes(ck *fhe.ClientKey) [16]byte {
	var out [16]byte
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			out[r+4*c] = k.Data[4*r+c].Decrypt(ck)
		}
	}
	return out
}

// column returns the four row-values of column c: {row0,row1,row2,row3}.
func (k Key) column(c int) [4]fbyte.FHEByte {
	return [4]fbyte.FHEByte{k.Data[c], k.Data[4+c], k.Data[8+c], k.Data[12+c]}
}

func setColumn(k *Key, c int, col [4]fbyte.FHEByte) {
	k.Data[c], k.Data[4+c], k.Data[8+c], k.Data[12+c] = col[0], col[1], col[2], col[3]
}

// Next derives the following round key from k given the round constant
// for that round, per the standard Rijndael key expansion: the new first
// column is the old first column XORed with SubWord(RotWord(last old
// column)) with Rcon folded into its first byte; each subsequent new
// column is the matching old column XORed with the previous new column.
func (k Key) Next(ctx context.Context, ev *stagedeval.Evaluator, sk fhe.ServerKey, roundConst byte) (Key, error) {
	last := k.column(3)
	rotated := [4]fbyte.FHEByte{last[1], last[2], last[3], last[0]}

	subbed, err := subWord(ctx, ev, rotated)
	if err != nil {
		return Key{}, err
	}
	rc := fbyte.FromTrivial(roundConst, sk)
	g := [4]fbyte.FHEByte{subbed[0].Xor(rc, sk), subbed[1], subbed[2], subbed[3]}

	var out Key
	prev := g
	for c := 0; c < 4; c++ {
		old := k.column(c)
		var next [4]fbyte.FHEByte
		for r := 0; r < 4; r++ {
			next[r] = old[r].Xor(prev[r], sk)
		}
		setColumn(&out, c, next)
		prev = next
	}
	return out, nil
}

func subWord(ctx context.Context, ev *stagedeval.Evaluator, word [4]fbyte.FHEByte) ([4]fbyte.FHEByte, error) {
	var out [4]fbyte.FHEByte
	errs := make(chan error, 4)
	for i := 0; i < 4; i++ {
		i := i
		go func() {
			b, err := word[i].SubByte(ctx, ev)
			out[i] = b
			errs <- err
		}()
	}
	for i := 0; i < 4; i++ {
		if err := <-errs; err != nil {
			return [4]fbyte.FHEByte{}, err
		}
	}
	return out, nil
}

// Schedule expands k (the AES-128 cipher key) into the 11 round keys
// used by ECB/CBC/CTR/OFB: keys[0] is k itself, keys[i] is derived from
// keys[i-1] via Next with rcon[i-1].
func (k Key) Schedule(ctx context.Context, ev *stagedeval.Evaluator, sk fhe.ServerKey) ([11]Key, error) {
	var keys [11]Key
	keys[0] = k
	for i := 0; i < 10; i++ {
		next, err := keys[i].Next(ctx, ev, sk, rcon[i])
		if err != nil {
			return [11]Key{}, err
		}
		keys[i+1] = next
	}
	return keys, nil
}
