package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/nacl/secretbox"
)

// ErrInvalidSeal indicates a sealed value that cannot be opened with the key.
var ErrInvalidSeal = errors.New("invalid sealed credential")

const (
	nonceSize = 24
	keySize   = 32
	hkdfInfo  = "recharge-web session credential"
)

// Sealer encrypts credentials for storage in a browser cookie.
type Sealer struct {
	key [keySize]byte
}

// NewSealer derives a secretbox key from the configured session secret.
func NewSealer(secret string) (*Sealer, error) {
	if len(secret) < keySize {
		return nil, fmt.Errorf("session secret must be at least %d bytes", keySize)
	}
	s := &Sealer{}
	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte(hkdfInfo))
	if _, err := io.ReadFull(kdf, s.key[:]); err != nil {
		return nil, fmt.Errorf("derive session key: %w", err)
	}
	return s, nil
}

// Seal encrypts the credential and returns a cookie-safe string.
func (s *Sealer) Seal(cred Credential) (string, error) {
	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	box := secretbox.Seal(nonce[:], []byte(cred), &nonce, &s.key)
	return base64.RawURLEncoding.EncodeToString(box), nil
}

// Open decrypts a value produced by Seal.
func (s *Sealer) Open(sealed string) (Credential, error) {
	raw, err := base64.RawURLEncoding.DecodeString(sealed)
	if err != nil || len(raw) < nonceSize+secretbox.Overhead {
		return "", ErrInvalidSeal
	}
	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])
	plain, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, &s.key)
	if !ok {
		return "", ErrInvalidSeal
	}
	return Credential(plain), nil
}
