// Package auth persists the publish token in the system keyring.
package auth

import (
	"errors"

	"github.com/chanscout/chanscout/constant"
	"github.com/zalando/go-keyring"
)

const user = "github-token"

// ErrNoToken is returned when the keyring holds no token.
var ErrNoToken = errors.New("no publish token stored")

// SetToken stores the publish token.
func SetToken(token string) error {
	return keyring.Set(constant.Chanscout, user, token)
}

// GetToken reads the publish token.
func GetToken() (string, error) {
	token, err := keyring.Get(constant.Chanscout, user)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNoToken
	}
	return token, err
}

// DeleteToken removes the publish token.
func DeleteToken() error {
	err := keyring.Delete(constant.Chanscout, user)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
