// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

package main

import "github.com/pjanthony2001/tfhe-aes/sbox"

// refAES128Encrypt is a tiny cleartext AES-128 encryptor used only to
// cross-check the CLI's homomorphic result against an independent
// implementation. It deliberately doesn't use crypto/aes so a bug shared
// between the two S-box tables wouldn't silently cancel out; it does
// share sbox.Table, which holds simple verbatim FIPS-197 constants
// rather than an algorithm that could hide a shared bug.
func refAES128Encrypt(key, plaintext [16]byte) [16]byte {
	round := refExpandKey(key)
	state := plaintext

	state = refAddRoundKey(state, round[0])
	for r := 1; r < 10; r++ {
		state = refSubBytes(state)
		state = refShiftRows(state)
		state = refMixColumns(state)
		state = refAddRoundKey(state, round[r])
	}
	state = refSubBytes(state)
	state = refShiftRows(state)
	state = refAddRoundKey(state, round[10])
	return state
}

func refAddRoundKey(state, key [16]byte) [16]byte {
	var out [16]byte
	for i := range out {
		out[i] = state[i] ^ key[i]
	}
	return out
}

func refSubBytes(state [16]byte) [16]byte {
	var out [16]byte
	for i, b := range state {
		out[i] = sbox.Table[b]
	}
	return out
}

func refShiftRows(state [16]byte) [16]byte {
	// state is column-major: state[r+4c] is row r, column c.
	var out [16]byte
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			out[r+4*c] = state[r+4*((c+r)%4)]
		}
	}
	return out
}

func refMulXGF2(b byte) byte {
	hi := b & 0x80
	b <<= 1
	if hi != 0 {
		b ^= 0x1b
	}
	return b
}

func refMixColumns(state [16]byte) [16]byte {
	var out [16]byte
	for c := 0; c < 4; c++ {
		a0, a1, a2, a3 := state[4*c], state[4*c+1], state[4*c+2], state[4*c+3]
		out[4*c+0] = refMulXGF2(a0) ^ (refMulXGF2(a1) ^ a1) ^ a2 ^ a3
		out[4*c+1] = a0 ^ refMulXGF2(a1) ^ (refMulXGF2(a2) ^ a2) ^ a3
		out[4*c+2] = a0 ^ a1 ^ refMulXGF2(a2) ^ (refMulXGF2(a3) ^ a3)
		out[4*c+3] = (refMulXGF2(a0) ^ a0) ^ a1 ^ a2 ^ refMulXGF2(a3)
	}
	return out
}

func refExpandKey(key [16]byte) [11][16]byte {
	var rcon = [10]byte{0x01, 0x02, 0x04, 0x08, 0x10, 0x20, 0x40, 0x80, 0x1B, 0x36}
	var words [44][4]byte
	for i := 0; i < 4; i++ {
		words[i] = [4]byte{key[4*i], key[4*i+1], key[4*i+2], key[4*i+3]}
	}
	for i := 4; i < 44; i++ {
		temp := words[i-1]
		if i%4 == 0 {
			temp = [4]byte{temp[1], temp[2], temp[3], temp[0]}
			for j := range temp {
				temp[j] = sbox.Table[temp[j]]
			}
			temp[0] ^= rcon[i/4-1]
		}
		for j := range temp {
			words[i][j] = words[i-4][j] ^ temp[j]
		}
	}
	var round [11][16]byte
	for r := 0; r < 11; r++ {
		for w := 0; w < 4; w++ {
			copy(round[r][4*w:4*w+4], words[4*r+w][:])
		}
	}
	return round
}
