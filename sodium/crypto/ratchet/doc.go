// Package ratchet provides forward secrecy for a stream of AEAD messages.
//
// Every message is sealed under its own XChaCha20-Poly1305 key. After each
// message the chain key is replaced by a one-way derivation of itself, so a
// compromised chain key does not reveal earlier messages.
//
// A chain is unidirectional. Bidirectional traffic needs one chain per
// direction.
package ratchet
