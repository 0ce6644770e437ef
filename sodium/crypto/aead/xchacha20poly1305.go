package aead

import (
	"errors"
	"fmt"

	"github.com/TheusHen/sodium/sodium"
	"github.com/TheusHen/sodium/sodium/internal/native"
)

const (
	NonceBytes = native.NPubBytes
	KeyBytes   = native.KeyBytes
	ABytes     = native.ABytes
)

var (
	ErrInvalidKeySize     = fmt.Errorf("aead: key must be %d bytes", KeyBytes)
	ErrInvalidNonceSize   = fmt.Errorf("aead: nonce must be %d bytes", NonceBytes)
	ErrCiphertextTooShort = errors.New("aead: ciphertext too short")
	ErrEncryptionFailed   = errors.New("aead: encryption failed")
	ErrDecryptionFailed   = errors.New("aead: decryption failed")
)

func checkParams(nonce, key []byte) error {
	if _, err := sodium.Init(); err != nil {
		return err
	}
	if len(nonce) != NonceBytes {
		return ErrInvalidNonceSize
	}
	if len(key) != KeyBytes {
		return ErrInvalidKeySize
	}
	return nil
}

// Encrypt encrypts message and authenticates it together with
// additionalData. The result is len(message)+ABytes long.
func Encrypt(message, additionalData, nonce, key []byte) ([]byte, error) {
	if err := checkParams(nonce, key); err != nil {
		return nil, err
	}
	ciphertext := make([]byte, len(message)+ABytes)
	var clen uint64
	if native.AEADXChaCha20Poly1305IETFEncrypt(ciphertext, &clen, message, additionalData, nonce, key) != 0 {
		return nil, ErrEncryptionFailed
	}
	return ciphertext[:clen], nil
}

// Decrypt verifies ciphertext and additionalData and returns the plaintext.
// Any mismatch in key, nonce, additional data or ciphertext yields
// ErrDecryptionFailed.
func Decrypt(ciphertext, additionalData, nonce, key []byte) ([]byte, error) {
	if err := checkParams(nonce, key); err != nil {
		return nil, err
	}
	if len(ciphertext) < ABytes {
		return nil, ErrCiphertextTooShort
	}
	plaintext := make([]byte, len(ciphertext)-ABytes)
	var mlen uint64
	if native.AEADXChaCha20Poly1305IETFDecrypt(plaintext, &mlen, ciphertext, additionalData, nonce, key) != 0 {
		return nil, ErrDecryptionFailed
	}
	return plaintext[:mlen], nil
}

// GenerateKey returns a new random key.
func GenerateKey() ([]byte, error) {
	if _, err := sodium.Init(); err != nil {
		return nil, err
	}
	key := make([]byte, KeyBytes)
	native.RandomBytes(key)
	return key, nil
}

// GenerateNonce returns a new random nonce.
func GenerateNonce() ([]byte, error) {
	if _, err := sodium.Init(); err != nil {
		return nil, err
	}
	nonce := make([]byte, NonceBytes)
	native.RandomBytes(nonce)
	return nonce, nil
}
