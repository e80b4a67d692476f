package service

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher produces and checks password digests.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(digest, password string) bool
}

type bcryptHasher struct {
	cost int
}

// NewPasswordHasher hashes with bcrypt. Passwords are reduced to a base64
// SHA-256 first because bcrypt only reads 72 bytes. Digests written before
// the switch to bcrypt are hex SHA-256 and still verify.
func NewPasswordHasher(cost int) PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &bcryptHasher{cost: cost}
}

func (h *bcryptHasher) Hash(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword(prehash(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(digest), nil
}

func (h *bcryptHasher) Compare(digest, password string) bool {
	if isLegacyDigest(digest) {
		sum := sha256.Sum256([]byte(password))
		return subtle.ConstantTimeCompare([]byte(hex.EncodeToString(sum[:])), []byte(digest)) == 1
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), prehash(password)) == nil
}

func isLegacyDigest(digest string) bool {
	if len(digest) != sha256.Size*2 {
		return false
	}
	_, err := hex.DecodeString(digest)
	return err == nil
}

func prehash(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}
