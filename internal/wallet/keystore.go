// Package wallet implements the wallet provider capability on top of a local
// keystore. The account id is derived the way EVM addresses are: keccak-256
// of the public key, last 20 bytes, hex with a 0x prefix.
package wallet

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"golang.org/x/crypto/sha3"

	"walletfeed/internal/core"
)

const seedKey = "wallet.seed"

// Keystore holds one ed25519 key in the KV store and exposes it as a single
// connected account.
type Keystore struct {
	Logger *slog.Logger
	KV     core.KeyValueStore

	mu        sync.Mutex
	listeners []func(accounts []string)
}

func (k *Keystore) Init(_ context.Context) error {
	k.Logger = k.Logger.With("component", "wallet.Keystore")
	return nil
}

// RequestAccounts loads the stored key, generating one on first use.
func (k *Keystore) RequestAccounts(ctx context.Context) ([]string, error) {
	seed, err := k.loadSeed(ctx)
	if errors.Is(err, core.ErrNotFound) {
		seed, err = k.generate(ctx)
	}
	if err != nil {
		return nil, err
	}

	return []string{AddressFromSeed(seed)}, nil
}

func (k *Keystore) OnAccountsChanged(fn func(accounts []string)) {
	k.mu.Lock()
	defer k.mu.Unlock()

	k.listeners = append(k.listeners, fn)
}

// Rotate replaces the stored key and notifies listeners with the new account.
func (k *Keystore) Rotate(ctx context.Context) (string, error) {
	seed, err := k.generate(ctx)
	if err != nil {
		return "", err
	}

	address := AddressFromSeed(seed)
	k.Logger.Info("wallet key rotated", "account", address)
	k.notify([]string{address})
	return address, nil
}

// Forget drops the stored key and notifies listeners that no accounts remain.
func (k *Keystore) Forget(ctx context.Context) error {
	if err := k.KV.Delete(ctx, seedKey); err != nil {
		return err
	}

	k.notify(nil)
	return nil
}

func (k *Keystore) notify(accounts []string) {
	k.mu.Lock()
	listeners := slices.Clone(k.listeners)
	k.mu.Unlock()

	for _, fn := range listeners {
		fn(accounts)
	}
}

func (k *Keystore) loadSeed(ctx context.Context) ([]byte, error) {
	raw, err := k.KV.Get(ctx, seedKey)
	if err != nil {
		return nil, err
	}

	seed, err := hex.DecodeString(string(raw))
	if err != nil || len(seed) != ed25519.SeedSize {
		// A corrupt seed is unrecoverable, treat it as absent.
		return nil, core.ErrNotFound
	}
	return seed, nil
}

func (k *Keystore) generate(ctx context.Context) ([]byte, error) {
	seed := make([]byte, ed25519.SeedSize)
	if _, err := rand.Read(seed); err != nil {
		return nil, fmt.Errorf("failed to generate wallet key: %w", err)
	}

	if err := k.KV.Put(ctx, seedKey, []byte(hex.EncodeToString(seed))); err != nil {
		return nil, err
	}
	return seed, nil
}

// AddressFromSeed derives the account id for an ed25519 seed.
func AddressFromSeed(seed []byte) string {
	pub := ed25519.NewKeyFromSeed(seed).Public().(ed25519.PublicKey)

	digest := sha3.NewLegacyKeccak256()
	digest.Write(pub)
	sum := digest.Sum(nil)

	return "0x" + hex.EncodeToString(sum[len(sum)-20:])
}
