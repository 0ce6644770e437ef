//go:build sodium_cgo && cgo

package native

/*
#cgo pkg-config: libsodium
#include <sodium.h>
*/
import "C"

import "unsafe"

// empty backs zero-length buffers so libsodium never sees a NULL it
// would dereference.
var empty [1]byte

func ucharPtr(b []byte) *C.uchar {
	if len(b) == 0 {
		return (*C.uchar)(unsafe.Pointer(&empty[0]))
	}
	return (*C.uchar)(unsafe.Pointer(&b[0]))
}

// Name returns the backend name.
func Name() string { return "libsodium" }

// Version returns sodium_version_string().
func Version() string {
	return C.GoString(C.sodium_version_string())
}

func backendInit() int {
	if C.sodium_init() < 0 {
		return initFailed
	}
	if int(C.crypto_aead_xchacha20poly1305_ietf_keybytes()) != KeyBytes ||
		int(C.crypto_aead_xchacha20poly1305_ietf_npubbytes()) != NPubBytes ||
		int(C.crypto_aead_xchacha20poly1305_ietf_abytes()) != ABytes ||
		int(C.crypto_aead_xchacha20poly1305_ietf_nsecbytes()) != NSecBytes {
		return initFailed
	}
	return 0
}

// AEADXChaCha20Poly1305IETFEncrypt calls
// crypto_aead_xchacha20poly1305_ietf_encrypt with nsec = NULL.
func AEADXChaCha20Poly1305IETFEncrypt(c []byte, clen *uint64, m, ad, npub, k []byte) int {
	if clen != nil {
		*clen = 0
	}
	if !encryptArgsOK(c, m, npub, k) {
		return -1
	}
	var outLen C.ulonglong
	rc := C.crypto_aead_xchacha20poly1305_ietf_encrypt(
		ucharPtr(c), &outLen,
		ucharPtr(m), C.ulonglong(len(m)),
		ucharPtr(ad), C.ulonglong(len(ad)),
		nil,
		ucharPtr(npub),
		ucharPtr(k))
	if rc != 0 {
		return int(rc)
	}
	if clen != nil {
		*clen = uint64(outLen)
	}
	return 0
}

// AEADXChaCha20Poly1305IETFDecrypt calls
// crypto_aead_xchacha20poly1305_ietf_decrypt with nsec = NULL.
func AEADXChaCha20Poly1305IETFDecrypt(m []byte, mlen *uint64, c, ad, npub, k []byte) int {
	if mlen != nil {
		*mlen = 0
	}
	if !decryptArgsOK(m, c, npub, k) {
		return -1
	}
	var outLen C.ulonglong
	rc := C.crypto_aead_xchacha20poly1305_ietf_decrypt(
		ucharPtr(m), &outLen,
		nil,
		ucharPtr(c), C.ulonglong(len(c)),
		ucharPtr(ad), C.ulonglong(len(ad)),
		ucharPtr(npub),
		ucharPtr(k))
	if rc != 0 {
		return int(rc)
	}
	if mlen != nil {
		*mlen = uint64(outLen)
	}
	return 0
}

// RandomBytes calls randombytes_buf.
func RandomBytes(buf []byte) {
	if len(buf) == 0 {
		return
	}
	C.randombytes_buf(unsafe.Pointer(&buf[0]), C.size_t(len(buf)))
}
