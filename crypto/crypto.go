// SPDX-License-Identifier: GPL-3.0-only

package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"rentdesk-server/commons"
	"strconv"

	"github.com/alexedwards/argon2id"
)

var ErrPasswordMismatch = errors.New("password verification failed")

// PasswordHasher hashes and verifies user passwords with argon2id.
type PasswordHasher struct {
	Params argon2id.Params
}

func envUint(key, fallback string) uint32 {
	v, err := strconv.ParseUint(commons.GetEnv(key, fallback), 10, 32)
	if err != nil {
		v, _ = strconv.ParseUint(fallback, 10, 32)
	}
	return uint32(v)
}

// NewPasswordHasher reads the ARGON2_* cost parameters from the environment.
func NewPasswordHasher() *PasswordHasher {
	return &PasswordHasher{
		Params: argon2id.Params{
			Iterations:  envUint("ARGON2_TIME", "1"),
			Memory:      envUint("ARGON2_MEMORY", "65536"),
			Parallelism: uint8(envUint("ARGON2_THREADS", "2")),
			KeyLength:   envUint("ARGON2_KEYLEN", "32"),
			SaltLength:  envUint("ARGON2_SALTLEN", "16"),
		},
	}
}

func (h *PasswordHasher) HashPassword(password string) (string, error) {
	commons.Logger.Debug("Hashing password")
	params := h.Params
	hash, err := argon2id.CreateHash(password, &params)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}

// VerifyPassword returns ErrPasswordMismatch when password does not match
// encodedHash, or the decoding error for a malformed hash.
func (h *PasswordHasher) VerifyPassword(password, encodedHash string) error {
	commons.Logger.Debug("Verifying password")
	match, err := argon2id.ComparePasswordAndHash(password, encodedHash)
	if err != nil {
		return err
	}
	if !match {
		return ErrPasswordMismatch
	}
	return nil
}

func GenerateRandomString(prefix string, length int, encoding string) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	switch encoding {
	case "hex":
		return prefix + hex.EncodeToString(b), nil
	case "base64":
		return prefix + base64.RawURLEncoding.EncodeToString(b), nil
	default:
		return "", fmt.Errorf("unsupported encoding: %s, supported encodings are: [hex base64]", encoding)
	}
}
