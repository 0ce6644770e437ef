// Package kdf derives AEAD keys from shared secrets and master keys.
package kdf

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	// ContextBytes is the required length of a subkey context label.
	ContextBytes = 8
	// SubkeyBytes is the length of keys returned by DeriveSubkey.
	SubkeyBytes = 32
	// MasterKeyBytes is the required master key length for DeriveSubkey.
	MasterKeyBytes = 32
)

var (
	ErrInvalidContext   = fmt.Errorf("kdf: context must be %d bytes", ContextBytes)
	ErrInvalidMasterKey = fmt.Errorf("kdf: master key must be %d bytes", MasterKeyBytes)
	ErrInvalidLength    = errors.New("kdf: invalid output length")
)

// DeriveKey derives a key of the specified length using HKDF-SHA256.
// salt can be nil (uses zero salt), info provides context binding.
func DeriveKey(secret, salt, info []byte, length int) ([]byte, error) {
	if length <= 0 || length > 255*sha256.Size {
		return nil, ErrInvalidLength
	}
	hk := hkdf.New(sha256.New, secret, salt, info)
	key := make([]byte, length)
	if _, err := io.ReadFull(hk, key); err != nil {
		return nil, err
	}
	return key, nil
}

// DeriveSubkey derives the id-th subkey of masterKey within an 8-byte
// context such as "messages". Different ids or contexts give independent keys.
func DeriveSubkey(masterKey []byte, id uint64, context string) ([]byte, error) {
	if len(masterKey) != MasterKeyBytes {
		return nil, ErrInvalidMasterKey
	}
	if len(context) != ContextBytes {
		return nil, ErrInvalidContext
	}
	info := make([]byte, 0, ContextBytes+8)
	info = append(info, context...)
	info = binary.LittleEndian.AppendUint64(info, id)
	return DeriveKey(masterKey, nil, info, SubkeyBytes)
}
