package app

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// ErrSecretNotFound is returned when a keychain entry does not exist.
var ErrSecretNotFound = errors.New("secret not found in keychain")

// loadSecretFunc resolves keychain entries. Override in tests.
var loadSecretFunc = LoadSecret

// LoadSecret reads a secret from the OS keychain.
func LoadSecret(name string) (string, error) {
	secret, err := keyring.Get(KeychainService, name)
	if err != nil {
		if err == keyring.ErrNotFound {
			return "", fmt.Errorf("%q: %w", name, ErrSecretNotFound)
		}
		return "", fmt.Errorf("reading keychain entry %q: %w", name, err)
	}
	return secret, nil
}

// SaveSecret writes a secret to the OS keychain.
func SaveSecret(name, value string) error {
	if err := keyring.Set(KeychainService, name, value); err != nil {
		return fmt.Errorf("writing keychain entry %q: %w", name, err)
	}
	return nil
}

// DeleteSecret removes a secret from the OS keychain. Missing entries are not an error.
func DeleteSecret(name string) error {
	err := keyring.Delete(KeychainService, name)
	if err != nil && err != keyring.ErrNotFound {
		return fmt.Errorf("deleting keychain entry %q: %w", name, err)
	}
	return nil
}
