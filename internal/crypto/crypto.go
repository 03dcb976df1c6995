// Package crypto seals card payloads with AES-GCM for at-rest storage.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
)

// envelopePrefix marks a sealed value. Stored values without it are legacy
// plaintext and pass through Open unchanged.
const envelopePrefix = "enc:v1:"

var ErrInvalidKeyLength = errors.New("encryption key must be 32 bytes")

// Sealer encrypts and decrypts payload strings with a fixed AES-256 key.
type Sealer struct {
	gcm cipher.AEAD
}

// NewSealer builds a Sealer from a 32-byte key.
func NewSealer(key []byte) (*Sealer, error) {
	if len(key) != 32 {
		return nil, ErrInvalidKeyLength
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("init gcm: %w", err)
	}
	return &Sealer{gcm: gcm}, nil
}

// Seal encrypts plain and returns the enveloped ciphertext.
func (s *Sealer) Seal(plain string) (string, error) {
	nonce := make([]byte, s.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	out := s.gcm.Seal(nonce, nonce, []byte(plain), nil)
	return envelopePrefix + base64.StdEncoding.EncodeToString(out), nil
}

// Open decrypts an enveloped value. Values without the envelope prefix are
// legacy plaintext records and are returned as-is.
func (s *Sealer) Open(stored string) (string, error) {
	if !IsSealed(stored) {
		return stored, nil
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(stored, envelopePrefix))
	if err != nil {
		return "", fmt.Errorf("decode envelope: %w", err)
	}
	if len(raw) < s.gcm.NonceSize() {
		return "", errors.New("envelope too short")
	}
	nonce, ciphertext := raw[:s.gcm.NonceSize()], raw[s.gcm.NonceSize():]
	plain, err := s.gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("open envelope: %w", err)
	}
	return string(plain), nil
}

// IsSealed reports whether a stored value carries the encryption envelope.
func IsSealed(stored string) bool {
	return strings.HasPrefix(stored, envelopePrefix)
}
