package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/99designs/keyring"

	"reportgen/internal/models"
)

const keyringServiceName = "reportgen"

// KeyringOptions configures the OS secret store. FileDir and FilePassword are
// only used when the file backend is the one available.
type KeyringOptions struct {
	FileDir      string
	FilePassword string
}

// OpenKeyring opens the platform keyring for the app.
func OpenKeyring(opts KeyringOptions) (keyring.Keyring, error) {
	kr, err := keyring.Open(keyring.Config{
		ServiceName:              keyringServiceName,
		KeychainTrustApplication: true,
		LibSecretCollectionName:  keyringServiceName,
		KWalletAppID:             keyringServiceName,
		KWalletFolder:            keyringServiceName,
		WinCredPrefix:            keyringServiceName,
		FileDir:                  opts.FileDir,
		FilePasswordFunc:         keyring.FixedStringPrompt(opts.FilePassword),
	})
	if err != nil {
		return nil, fmt.Errorf("open keyring: %w", err)
	}
	return kr, nil
}

type keyringSettingRepository struct {
	ring keyring.Keyring
}

// NewKeyringSettingEntryRepository stores each setting as a keyring item, so the
// credential never lands in the SQLite file.
func NewKeyringSettingEntryRepository(ring keyring.Keyring) SettingEntryRepository {
	return &keyringSettingRepository{ring: ring}
}

func (r *keyringSettingRepository) Get(_ context.Context, key string) (*models.SettingEntry, error) {
	item, err := r.ring.Get(key)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading keyring item %q: %w", key, err)
	}
	return &models.SettingEntry{Key: item.Key, Value: string(item.Data)}, nil
}

func (r *keyringSettingRepository) Put(_ context.Context, entry *models.SettingEntry) error {
	if entry == nil || strings.TrimSpace(entry.Key) == "" {
		return errors.New("setting key is required")
	}
	entry.UpdatedAt = time.Now()
	err := r.ring.Set(keyring.Item{
		Key:         entry.Key,
		Data:        []byte(entry.Value),
		Label:       "AI Report Generator settings",
		Description: "Credential and model used by AI Report Generator",
	})
	if err != nil {
		return fmt.Errorf("writing keyring item %q: %w", entry.Key, err)
	}
	return nil
}
