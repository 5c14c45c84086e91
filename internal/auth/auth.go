package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

const refreshTokenLength = 64
const initialPasswordLength = 8

const alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

type Core interface {
	Hash(pswd string) (string, error)
	ComparePasswords(hashed, pswd []byte) error
	NewRefreshToken() (string, error)
	NewPassword() (string, error)
}

type Auth struct{}

func New() *Auth {
	return &Auth{}
}

func (a *Auth) Hash(pswd string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(pswd), bcrypt.DefaultCost)
	return string(bytes), err
}

func (a *Auth) ComparePasswords(hashed, pswd []byte) error {
	if err := bcrypt.CompareHashAndPassword(hashed, pswd); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// NewRefreshToken returns a high-entropy opaque token. Only its hash is
// ever persisted.
func (a *Auth) NewRefreshToken() (string, error) {
	return randomString(refreshTokenLength)
}

// NewPassword generates the initial password handed out when an admin
// creates a user. The user is forced to change it on first login.
func (a *Auth) NewPassword() (string, error) {
	return randomString(initialPasswordLength)
}

// HashToken maps a raw refresh token to its storage form.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func randomString(n int) (string, error) {
	max := big.NewInt(int64(len(alphanumeric)))

	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}

		out[i] = alphanumeric[idx.Int64()]
	}

	return string(out), nil
}
