// Package secrets keeps database credentials in the OS keychain.
package secrets

import (
	"errors"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// Service groups the app's secrets in the OS keychain.
	KeyringService = "jobmatch"

	DefaultPostgresAccount = "jobmatch:postgres"
)

var ErrNotFound = errors.New("postgres password not found in keychain")

// PostgresAccount returns the configured keyring account or the default.
func PostgresAccount(configured string) string {
	if a := strings.TrimSpace(configured); a != "" {
		return a
	}
	return DefaultPostgresAccount
}

func GetPostgresPassword(account string) (string, error) {
	pw, err := keyring.Get(KeyringService, PostgresAccount(account))
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(pw) == "" {
		return "", ErrNotFound
	}
	return pw, nil
}

func SetPostgresPassword(account, password string) error {
	if strings.TrimSpace(password) == "" {
		return errors.New("password is empty")
	}
	return keyring.Set(KeyringService, PostgresAccount(account), password)
}

func DeletePostgresPassword(account string) error {
	err := keyring.Delete(KeyringService, PostgresAccount(account))
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
