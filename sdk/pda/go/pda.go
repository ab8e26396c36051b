// Package pda derives program addresses: addresses that are a deterministic
// function of a program id and a list of seeds and that have no private key.
package pda

import (
	"errors"
	"fmt"
	"math"

	"github.com/gagliardetto/solana-go"
)

var (
	ErrDerivationExhausted = errors.New("pda: no bump seed yields an off-curve address")
	ErrTooManySeeds        = errors.New("pda: too many seeds")
	ErrSeedTooLong         = errors.New("pda: seed too long")
)

// MaxSeeds counts the caller's seeds only; the bump seed takes the last slot.
const MaxSeeds = solana.MaxSeeds - 1

// Derive searches bump seeds from 255 down to 0, appending each as a final
// one-byte seed, and returns the first candidate that falls off the ed25519
// curve together with its bump. The caller's seeds are not modified.
func Derive(programID solana.PublicKey, seeds [][]byte) (solana.PublicKey, uint8, error) {
	if len(seeds) > MaxSeeds {
		return solana.PublicKey{}, 0, fmt.Errorf("%w: %d seeds, max %d", ErrTooManySeeds, len(seeds), MaxSeeds)
	}
	for i, s := range seeds {
		if len(s) > solana.MaxSeedLength {
			return solana.PublicKey{}, 0, fmt.Errorf("%w: seed %d is %d bytes, max %d", ErrSeedTooLong, i, len(s), solana.MaxSeedLength)
		}
	}

	withBump := make([][]byte, len(seeds)+1)
	copy(withBump, seeds)
	bump := []byte{0}
	withBump[len(seeds)] = bump

	for b := math.MaxUint8; b >= 0; b-- {
		bump[0] = byte(b)
		addr, err := solana.CreateProgramAddress(withBump, programID)
		if err == nil {
			return addr, uint8(b), nil
		}
	}
	return solana.PublicKey{}, 0, fmt.Errorf("%w: program %s", ErrDerivationExhausted, programID)
}

// MustDerive is Derive for fixed seed sets known to be valid.
func MustDerive(programID solana.PublicKey, seeds ...[]byte) solana.PublicKey {
	addr, _, err := Derive(programID, seeds)
	if err != nil {
		panic(err)
	}
	return addr
}

// Create returns the program address for seeds with a known bump. It fails
// if the candidate lies on the curve.
func Create(programID solana.PublicKey, seeds [][]byte, bump uint8) (solana.PublicKey, error) {
	withBump := make([][]byte, len(seeds)+1)
	copy(withBump, seeds)
	withBump[len(seeds)] = []byte{bump}
	addr, err := solana.CreateProgramAddress(withBump, programID)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("creating program address with bump %d: %w", bump, err)
	}
	return addr, nil
}
