// Package kx derives a pair of AEAD session keys from an X25519 key
// exchange, using the same construction as libsodium's crypto_kx.
package kx

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"io"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/curve25519"
)

const (
	PublicKeyBytes  = curve25519.PointSize
	SecretKeyBytes  = curve25519.ScalarSize
	SeedBytes       = 32
	SessionKeyBytes = 32
)

var ErrInvalidPublicKey = errors.New("kx: invalid X25519 public key")

// KeyPair is an X25519 key pair.
type KeyPair struct {
	PublicKey  [PublicKeyBytes]byte
	PrivateKey [SecretKeyBytes]byte
}

// GenerateKeyPair generates a new random key pair.
func GenerateKeyPair() (KeyPair, error) {
	var seed [SeedBytes]byte
	if _, err := io.ReadFull(rand.Reader, seed[:]); err != nil {
		return KeyPair{}, err
	}
	return SeedKeyPair(seed)
}

// SeedKeyPair deterministically derives a key pair from seed, hashing it
// with BLAKE2b-256 to obtain the private key as crypto_kx_seed_keypair does.
func SeedKeyPair(seed [SeedBytes]byte) (KeyPair, error) {
	var kp KeyPair
	kp.PrivateKey = blake2b.Sum256(seed[:])
	pub, err := curve25519.X25519(kp.PrivateKey[:], curve25519.Basepoint)
	if err != nil {
		return KeyPair{}, err
	}
	copy(kp.PublicKey[:], pub)
	return kp, nil
}

// sessionHash computes BLAKE2b-512(q || client_pk || server_pk).
func sessionHash(priv, peerPub, clientPub, serverPub [32]byte) ([]byte, error) {
	q, err := curve25519.X25519(priv[:], peerPub[:])
	if err != nil {
		// x/crypto rejects low-order points with an all-zero output.
		return nil, ErrInvalidPublicKey
	}
	var zero [32]byte
	if subtle.ConstantTimeCompare(q, zero[:]) == 1 {
		return nil, ErrInvalidPublicKey
	}
	h, err := blake2b.New512(nil)
	if err != nil {
		return nil, err
	}
	h.Write(q)
	h.Write(clientPub[:])
	h.Write(serverPub[:])
	return h.Sum(nil), nil
}

// ClientSessionKeys computes the client's receive and transmit keys.
func ClientSessionKeys(client KeyPair, serverPub [PublicKeyBytes]byte) (rx, tx []byte, err error) {
	h, err := sessionHash(client.PrivateKey, serverPub, client.PublicKey, serverPub)
	if err != nil {
		return nil, nil, err
	}
	return h[:SessionKeyBytes], h[SessionKeyBytes:], nil
}

// ServerSessionKeys computes the server's receive and transmit keys. They
// are the client's keys swapped.
func ServerSessionKeys(server KeyPair, clientPub [PublicKeyBytes]byte) (rx, tx []byte, err error) {
	h, err := sessionHash(server.PrivateKey, clientPub, clientPub, server.PublicKey)
	if err != nil {
		return nil, nil, err
	}
	return h[SessionKeyBytes:], h[:SessionKeyBytes], nil
}
