package aead

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"
)

func fixedKeyNonce() ([]byte, []byte) {
	key := make([]byte, KeyBytes)
	for i := range key {
		key[i] = byte(0x80 + i)
	}
	nonce := make([]byte, NonceBytes)
	for i := range nonce {
		nonce[i] = byte(0x40 + i)
	}
	return key, nonce
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key, nonce := fixedKeyNonce()
	msg := []byte("Ladies and Gentlemen of the class of '99: If I could offer you only one tip for the future, sunscreen would be it.")
	ad := []byte{0x50, 0x51, 0x52, 0x53, 0xc0, 0xc1, 0xc2, 0xc3, 0xc4, 0xc5, 0xc6, 0xc7}

	ct, err := Encrypt(msg, ad, nonce, key)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if len(ct) != len(msg)+ABytes {
		t.Fatalf("ciphertext length = %d, want %d", len(ct), len(msg)+ABytes)
	}

	pt, err := Decrypt(ct, ad, nonce, key)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if !bytes.Equal(pt, msg) {
		t.Fatalf("decrypted != plaintext")
	}
}

// Test vector from draft-irtf-cfrg-xchacha, appendix A.3.1.
func TestEncryptKnownAnswer(t *testing.T) {
	key, nonce := fixedKeyNonce()
	msg := []byte("Ladies and Gentlemen of the class of '99: If I could offer you only one tip for the future, sunscreen would be it.")
	ad := mustHex(t, "50515253c0c1c2c3c4c5c6c7")
	want := mustHex(t, "bd6d179d3e83d43b9576579493c0e939572a1700252bfaccbed2902c21396cbb"+
		"731c7f1b0b4aa6440bf3a82f4eda7e39ae64c6708c54c216cb96b72e1213b452"+
		"2f8c9ba40db5d945b11b69b982c1bb9e3f3fac2bc369488f76b2383565d3fff9"+
		"21f9664c97637da9768812f615c68b13b52e"+
		"c0875924c1c7987947deafd8780acf49")

	got, err := Encrypt(msg, ad, nonce, key)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("ciphertext mismatch\ngot  %x\nwant %x", got, want)
	}

	pt, err := Decrypt(want, ad, nonce, key)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if !bytes.Equal(pt, msg) {
		t.Fatalf("decrypted != plaintext")
	}
}

func mustHex(t testing.TB, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("hex: %v", err)
	}
	return b
}

func TestDecryptFailures(t *testing.T) {
	key, nonce := fixedKeyNonce()
	msg := []byte("secret")
	ad := []byte("header")
	ct, err := Encrypt(msg, ad, nonce, key)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	otherKey := bytes.Repeat([]byte{0x01}, KeyBytes)
	otherNonce := bytes.Repeat([]byte{0x02}, NonceBytes)
	tampered := append([]byte(nil), ct...)
	tampered[len(tampered)-1] ^= 0xff

	tests := []struct {
		name  string
		ct    []byte
		ad    []byte
		nonce []byte
		key   []byte
	}{
		{"wrong key", ct, ad, nonce, otherKey},
		{"wrong nonce", ct, ad, otherNonce, key},
		{"wrong additional data", ct, []byte("other"), nonce, key},
		{"missing additional data", ct, nil, nonce, key},
		{"tampered tag", tampered, ad, nonce, key},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pt, err := Decrypt(tt.ct, tt.ad, tt.nonce, tt.key)
			if !errors.Is(err, ErrDecryptionFailed) {
				t.Fatalf("expected ErrDecryptionFailed, got %v", err)
			}
			if pt != nil {
				t.Fatalf("plaintext returned on failure")
			}
		})
	}
}

func TestParameterValidation(t *testing.T) {
	key, nonce := fixedKeyNonce()

	if _, err := Encrypt([]byte("x"), nil, nonce[:12], key); !errors.Is(err, ErrInvalidNonceSize) {
		t.Fatalf("expected ErrInvalidNonceSize, got %v", err)
	}
	if _, err := Encrypt([]byte("x"), nil, nonce, key[:31]); !errors.Is(err, ErrInvalidKeySize) {
		t.Fatalf("expected ErrInvalidKeySize, got %v", err)
	}
	if _, err := Decrypt(make([]byte, ABytes-1), nil, nonce, key); !errors.Is(err, ErrCiphertextTooShort) {
		t.Fatalf("expected ErrCiphertextTooShort, got %v", err)
	}
}

func TestEmptyMessageAndAdditionalData(t *testing.T) {
	key, nonce := fixedKeyNonce()

	ct, err := Encrypt(nil, nil, nonce, key)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if len(ct) != ABytes {
		t.Fatalf("ciphertext length = %d, want %d", len(ct), ABytes)
	}
	pt, err := Decrypt(ct, []byte{}, nonce, key)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if len(pt) != 0 {
		t.Fatalf("expected empty plaintext, got %d bytes", len(pt))
	}
}

func TestGenerateKeyAndNonce(t *testing.T) {
	k1, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	k2, _ := GenerateKey()
	if len(k1) != KeyBytes || bytes.Equal(k1, k2) {
		t.Fatalf("bad generated keys")
	}
	n1, err := GenerateNonce()
	if err != nil {
		t.Fatalf("GenerateNonce: %v", err)
	}
	n2, _ := GenerateNonce()
	if len(n1) != NonceBytes || bytes.Equal(n1, n2) {
		t.Fatalf("bad generated nonces")
	}
}

func TestCipherRoundTrip(t *testing.T) {
	key, _ := fixedKeyNonce()
	c, err := NewCipher(key)
	if err != nil {
		t.Fatalf("NewCipher: %v", err)
	}

	plaintext := []byte("hello sodium")
	ad := []byte("additional data")

	sealed, err := c.Seal(plaintext, ad)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if len(sealed) != len(plaintext)+c.Overhead() {
		t.Fatalf("unexpected sealed length")
	}

	again, _ := c.Seal(plaintext, ad)
	if bytes.Equal(sealed[:NonceBytes], again[:NonceBytes]) {
		t.Fatalf("nonce reused across Seal calls")
	}

	opened, err := c.Open(sealed, ad)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !bytes.Equal(opened, plaintext) {
		t.Fatalf("opened != plaintext")
	}

	sealed[len(sealed)-1] ^= 0xff
	if _, err := c.Open(sealed, ad); !errors.Is(err, ErrDecryptionFailed) {
		t.Fatalf("expected ErrDecryptionFailed, got %v", err)
	}
	if _, err := c.Open(sealed[:NonceBytes], ad); !errors.Is(err, ErrCiphertextTooShort) {
		t.Fatalf("expected ErrCiphertextTooShort, got %v", err)
	}
}

func TestNewCipherRejectsBadKey(t *testing.T) {
	if _, err := NewCipher(make([]byte, 16)); !errors.Is(err, ErrInvalidKeySize) {
		t.Fatalf("expected ErrInvalidKeySize, got %v", err)
	}
}

func BenchmarkEncrypt(b *testing.B) {
	key, nonce := fixedKeyNonce()
	plaintext := make([]byte, 64*1024)
	b.SetBytes(int64(len(plaintext)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Encrypt(plaintext, nil, nonce, key)
	}
}

func BenchmarkDecrypt(b *testing.B) {
	key, nonce := fixedKeyNonce()
	plaintext := make([]byte, 64*1024)
	ct, _ := Encrypt(plaintext, nil, nonce, key)
	b.SetBytes(int64(len(plaintext)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Decrypt(ct, nil, nonce, key)
	}
}
