// Package native is the boundary to the code that does the actual
// cryptography. Every exported function mirrors one libsodium symbol and
// relays its integer status code; callers outside this module go through
// the sodium and sodium/crypto/aead packages instead.
//
// The default build is backed by golang.org/x/crypto. Building with
// `-tags sodium_cgo` (and cgo enabled) links the system libsodium.
package native

import "sync"

// Sizes for crypto_aead_xchacha20poly1305_ietf.
const (
	KeyBytes  = 32
	NPubBytes = 24
	ABytes    = 16
	NSecBytes = 0
)

// Status codes returned by Init.
const (
	initOK      = 0
	initAlready = 1
	initFailed  = -1
)

var (
	initMu      sync.Mutex
	initialized bool
)

// Init mirrors sodium_init: 0 on success, 1 if the library was already
// initialized, -1 on failure. A failed call leaves the library
// uninitialized so it can be retried.
func Init() int {
	initMu.Lock()
	defer initMu.Unlock()

	if initialized {
		return initAlready
	}
	if backendInit() != 0 {
		return initFailed
	}
	initialized = true
	return initOK
}

func encryptArgsOK(c, m, npub, k []byte) bool {
	return len(c) >= len(m)+ABytes && len(npub) == NPubBytes && len(k) == KeyBytes
}

func decryptArgsOK(m, c, npub, k []byte) bool {
	return len(c) >= ABytes && len(m) >= len(c)-ABytes && len(npub) == NPubBytes && len(k) == KeyBytes
}
