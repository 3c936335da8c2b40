// Copyright (c) 2025, Lux Industries Inc
// SPDX-License-Identifier: BSD-3-Clause

// Command tfhe-aes is a thin illustrative front-end over the homomorphic
// AES-128 evaluator: it generates a client/server key pair, encrypts a
// key and -n blocks of random plaintext, runs the selected chaining mode,
// and prints each block's result; in ECB mode it also checks every block
// against a cleartext reference encryption.
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pjanthony2001/tfhe-aes/aesstate"
	"github.com/pjanthony2001/tfhe-aes/fhe"
	"github.com/pjanthony2001/tfhe-aes/modes"
	"github.com/pjanthony2001/tfhe-aes/stagedeval"
)

// config is the shape of an optional --config YAML file; any field also
// settable by flag overrides the config file value when both are given.
type config struct {
	Mode                string `yaml:"mode"`
	Key                 string `yaml:"key"`
	IV                  string `yaml:"iv"`
	NumberOfOutputs     int    `yaml:"number_of_outputs"`
	KeyExpansionOffline bool   `yaml:"key_expansion_offline"`
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "tfhe-aes:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("tfhe-aes", flag.ContinueOnError)
	n := fs.Int("n", 1, "number of plaintext blocks to generate and encrypt")
	ivHex := fs.String("iv", "", "initialization vector as 32 hex characters (CBC/OFB)")
	keyHex := fs.String("key", "", "AES-128 key as 32 hex characters")
	keyExpOffline := fs.Bool("x", false, "expand the key schedule in the clear and encrypt the 11 round keys instead of expanding it homomorphically")
	mode := fs.String("mode", "ecb", "block cipher mode: ecb, cbc, ctr, ofb")
	configPath := fs.String("config", "", "optional YAML file of preset flag values")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := config{Mode: *mode, Key: *keyHex, IV: *ivHex, NumberOfOutputs: *n, KeyExpansionOffline: *keyExpOffline}
	if *configPath != "" {
		if err := loadConfig(*configPath, &cfg); err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		fs.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "mode":
				cfg.Mode = *mode
			case "key":
				cfg.Key = *keyHex
			case "iv":
				cfg.IV = *ivHex
			case "n":
				cfg.NumberOfOutputs = *n
			case "x":
				cfg.KeyExpansionOffline = *keyExpOffline
			}
		})
	}

	keyBytes, err := parseOrRandomKey(cfg.Key)
	if err != nil {
		return fmt.Errorf("parsing key: %w", err)
	}
	ivBytes, err := parseOrRandomKey(cfg.IV)
	if err != nil {
		return fmt.Errorf("parsing iv: %w", err)
	}

	ck := fhe.NewClientKey(randomSeed())
	sk := fhe.NewReferenceServerKey()
	fhe.SetServerKey(sk)
	defer fhe.UnsetServerKey()

	ev := stagedeval.New(sk)
	ctx := context.Background()

	cipherKey := aesstate.NewKey(keyBytes, ck)
	expandStart := time.Now()
	var roundKeys [11]aesstate.Key
	if cfg.KeyExpansionOffline {
		for r, rk := range refExpandKey(keyBytes) {
			roundKeys[r] = aesstate.NewKey(rk, ck)
		}
	} else {
		roundKeys, err = cipherKey.Schedule(ctx, ev, sk)
		if err != nil {
			return fmt.Errorf("expanding key schedule: %w", err)
		}
	}
	fmt.Fprintf(os.Stderr, "key schedule expanded in %s\n", time.Since(expandStart))

	blocks := make([]aesstate.State, cfg.NumberOfOutputs)
	plaintext := make([][16]byte, cfg.NumberOfOutputs)
	for i := range blocks {
		pt := randomBlock()
		plaintext[i] = pt
		blocks[i] = aesstate.NewState(pt, ck)
	}

	ecb := modes.NewECB(roundKeys)
	var ciphertext []aesstate.State
	switch cfg.Mode {
	case "ecb":
		ciphertext, err = ecb.Encrypt(ctx, ev, sk, blocks)
	case "cbc":
		iv := aesstate.NewState(ivBytes, ck)
		ciphertext, err = modes.NewCBC(roundKeys, iv).Encrypt(ctx, ev, sk, blocks)
	case "ctr":
		ciphertext, err = modes.CTR{ECB: ecb, Nonce: randomSeed()}.Encrypt(ctx, ev, sk, blocks)
	case "ofb":
		iv := aesstate.NewState(ivBytes, ck)
		ciphertext, err = modes.NewOFB(roundKeys, iv).Encrypt(ctx, ev, sk, blocks)
	default:
		return fmt.Errorf("unknown mode %q", cfg.Mode)
	}
	if err != nil {
		return fmt.Errorf("encrypting: %w", err)
	}

	for i, ct := range ciphertext {
		got := ct.Bytes(ck)
		fmt.Printf("block %d: plaintext=%s ciphertext=%s\n", i, hex.EncodeToString(plaintext[i][:]), hex.EncodeToString(got[:]))
		if cfg.Mode == "ecb" {
			want := refAES128Encrypt(keyBytes, plaintext[i])
			if want != got {
				return fmt.Errorf("block %d mismatched reference AES: got %x want %x", i, got, want)
			}
		}
	}
	return nil
}

func loadConfig(path string, cfg *config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func parseOrRandomKey(hexStr string) ([16]byte, error) {
	if hexStr == "" {
		return randomBlock(), nil
	}
	raw, err := hex.DecodeString(hexStr)
	if err != nil {
		return [16]byte{}, err
	}
	if len(raw) != 16 {
		return [16]byte{}, fmt.Errorf("expected 32 hex characters, got %d bytes", len(raw))
	}
	var out [16]byte
	copy(out[:], raw)
	return out, nil
}

func randomBlock() [16]byte {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return b
}

func randomSeed() uint64 {
	var b [8]byte
	_, _ = rand.Read(b[:])
	var seed uint64
	for _, c := range b {
		seed = seed<<8 | uint64(c)
	}
	return seed
}
