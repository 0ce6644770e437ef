// Package aead implements XChaCha20-Poly1305 IETF authenticated encryption.
//
// Ciphertexts are laid out as libsodium's combined mode: the encrypted
// message followed by a 16-byte Poly1305 tag. The 24-byte nonce is large
// enough to be chosen at random for every message.
package aead
