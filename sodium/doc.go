// Package sodium provides the libsodium XChaCha20-Poly1305 IETF AEAD to Go programs.
//
// The library must be initialized before use; the crypto packages do this on
// first call, and applications may call Init or MustInit up front to surface
// failures early. By default the primitives come from golang.org/x/crypto and
// produce the same bytes as libsodium. Build with `-tags sodium_cgo` to call
// the system libsodium through cgo instead.
package sodium
