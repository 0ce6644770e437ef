//go:build !sodium_cgo || !cgo

package native

import (
	"bytes"
	"crypto/rand"
	"io"
	"runtime/debug"

	"golang.org/x/crypto/chacha20poly1305"
)

const cryptoModule = "golang.org/x/crypto"

// Name returns the backend name.
func Name() string { return "x/crypto" }

// Version returns the version of the linked golang.org/x/crypto module.
func Version() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	for _, dep := range info.Deps {
		if dep.Path == cryptoModule {
			if dep.Replace != nil {
				return dep.Replace.Version
			}
			return dep.Version
		}
	}
	return "unknown"
}

// backendInit checks that entropy is available and that the cipher
// round-trips and rejects a forged tag.
func backendInit() int {
	var seed [KeyBytes + NPubBytes]byte
	if _, err := io.ReadFull(rand.Reader, seed[:]); err != nil {
		return initFailed
	}
	key, nonce := seed[:KeyBytes], seed[KeyBytes:]
	msg := []byte("sodium self-test")
	ad := []byte{0x00, 0x01}

	c := make([]byte, len(msg)+ABytes)
	if AEADXChaCha20Poly1305IETFEncrypt(c, nil, msg, ad, nonce, key) != 0 {
		return initFailed
	}
	m := make([]byte, len(msg))
	if AEADXChaCha20Poly1305IETFDecrypt(m, nil, c, ad, nonce, key) != 0 || !bytes.Equal(m, msg) {
		return initFailed
	}
	c[len(c)-1] ^= 0x80
	if AEADXChaCha20Poly1305IETFDecrypt(m, nil, c, ad, nonce, key) == 0 {
		return initFailed
	}
	return 0
}

// AEADXChaCha20Poly1305IETFEncrypt mirrors
// crypto_aead_xchacha20poly1305_ietf_encrypt with nsec fixed to NULL.
func AEADXChaCha20Poly1305IETFEncrypt(c []byte, clen *uint64, m, ad, npub, k []byte) int {
	if clen != nil {
		*clen = 0
	}
	if !encryptArgsOK(c, m, npub, k) {
		return -1
	}
	aead, err := chacha20poly1305.NewX(k)
	if err != nil {
		return -1
	}
	out := aead.Seal(c[:0], npub, m, ad)
	if clen != nil {
		*clen = uint64(len(out))
	}
	return 0
}

// AEADXChaCha20Poly1305IETFDecrypt mirrors
// crypto_aead_xchacha20poly1305_ietf_decrypt with nsec fixed to NULL.
func AEADXChaCha20Poly1305IETFDecrypt(m []byte, mlen *uint64, c, ad, npub, k []byte) int {
	if mlen != nil {
		*mlen = 0
	}
	if !decryptArgsOK(m, c, npub, k) {
		return -1
	}
	aead, err := chacha20poly1305.NewX(k)
	if err != nil {
		return -1
	}
	out, err := aead.Open(m[:0], npub, c, ad)
	if err != nil {
		// libsodium zeroes the output on a failed tag check.
		clear(m[:len(c)-ABytes])
		return -1
	}
	if mlen != nil {
		*mlen = uint64(len(out))
	}
	return 0
}

// RandomBytes mirrors randombytes_buf.
func RandomBytes(buf []byte) {
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		panic("native: entropy source failed: " + err.Error())
	}
}
