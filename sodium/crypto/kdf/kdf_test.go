package kdf

import (
	"bytes"
	"errors"
	"testing"
)

func TestDeriveKeyDeterministic(t *testing.T) {
	secret := []byte("shared secret")
	k1, err := DeriveKey(secret, nil, []byte("info"), 32)
	if err != nil {
		t.Fatalf("DeriveKey: %v", err)
	}
	k2, _ := DeriveKey(secret, nil, []byte("info"), 32)
	if !bytes.Equal(k1, k2) {
		t.Fatalf("same inputs produced different keys")
	}
	k3, _ := DeriveKey(secret, nil, []byte("other"), 32)
	if bytes.Equal(k1, k3) {
		t.Fatalf("different info produced the same key")
	}
	if _, err := DeriveKey(secret, nil, nil, 0); !errors.Is(err, ErrInvalidLength) {
		t.Fatalf("expected ErrInvalidLength, got %v", err)
	}
}

func TestDeriveSubkey(t *testing.T) {
	master := bytes.Repeat([]byte{0x42}, MasterKeyBytes)

	a, err := DeriveSubkey(master, 1, "messages")
	if err != nil {
		t.Fatalf("DeriveSubkey: %v", err)
	}
	if len(a) != SubkeyBytes {
		t.Fatalf("subkey length = %d", len(a))
	}
	b, _ := DeriveSubkey(master, 2, "messages")
	c, _ := DeriveSubkey(master, 1, "archives")
	if bytes.Equal(a, b) || bytes.Equal(a, c) {
		t.Fatalf("subkeys are not independent")
	}
	again, _ := DeriveSubkey(master, 1, "messages")
	if !bytes.Equal(a, again) {
		t.Fatalf("subkey derivation is not deterministic")
	}
}

func TestDeriveSubkeyValidation(t *testing.T) {
	master := make([]byte, MasterKeyBytes)
	if _, err := DeriveSubkey(master, 0, "short"); !errors.Is(err, ErrInvalidContext) {
		t.Fatalf("expected ErrInvalidContext, got %v", err)
	}
	if _, err := DeriveSubkey(master[:16], 0, "messages"); !errors.Is(err, ErrInvalidMasterKey) {
		t.Fatalf("expected ErrInvalidMasterKey, got %v", err)
	}
}
