package kx

import (
	"crypto/subtle"
	"errors"
	"sync"

	"github.com/TheusHen/sodium/sodium/crypto/ratchet"
)

var (
	ErrChannelNotEstablished = errors.New("kx: secure channel not established")
	ErrPeerMismatch          = errors.New("kx: channel already established with a different peer")
)

// DefaultMaxSkip bounds how many messages may arrive out of order.
const DefaultMaxSkip = 1000

// SecureChannel is a bidirectional encrypted channel with forward secrecy:
// a kx handshake yields one key per direction and each direction runs its
// own ratchet.
type SecureChannel struct {
	mu          sync.Mutex
	established bool
	isClient    bool
	local       KeyPair
	remote      [PublicKeyBytes]byte
	sendChain   *ratchet.Chain
	recvChain   *ratchet.Receiver
}

// NewClientChannel creates a channel as the initiating party.
func NewClientChannel() (*SecureChannel, error) {
	kp, err := GenerateKeyPair()
	if err != nil {
		return nil, err
	}
	return &SecureChannel{isClient: true, local: kp}, nil
}

// NewServerChannel creates a channel as the responding party.
func NewServerChannel() (*SecureChannel, error) {
	kp, err := GenerateKeyPair()
	if err != nil {
		return nil, err
	}
	return &SecureChannel{local: kp}, nil
}

// LocalPublic returns the public key to send to the peer.
func (sc *SecureChannel) LocalPublic() [PublicKeyBytes]byte {
	return sc.local.PublicKey
}

// Complete finishes the key exchange with the peer's public key.
// Calling it again with the same key is a no-op; a different key returns
// ErrPeerMismatch and leaves the channel unchanged.
func (sc *SecureChannel) Complete(peerPub [PublicKeyBytes]byte) error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.established {
		if subtle.ConstantTimeCompare(sc.remote[:], peerPub[:]) != 1 {
			return ErrPeerMismatch
		}
		return nil
	}

	var rx, tx []byte
	var err error
	if sc.isClient {
		rx, tx, err = ClientSessionKeys(sc.local, peerPub)
	} else {
		rx, tx, err = ServerSessionKeys(sc.local, peerPub)
	}
	if err != nil {
		return err
	}

	if sc.sendChain, err = ratchet.NewChain(tx); err != nil {
		return err
	}
	if sc.recvChain, err = ratchet.NewReceiver(rx, DefaultMaxSkip); err != nil {
		return err
	}

	sc.remote = peerPub
	sc.established = true
	return nil
}

// IsEstablished returns true if the channel is ready for use.
func (sc *SecureChannel) IsEstablished() bool {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.established
}

// Encrypt encrypts a message with forward secrecy.
func (sc *SecureChannel) Encrypt(plaintext, ad []byte) ([]byte, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if !sc.established {
		return nil, ErrChannelNotEstablished
	}

	msg, err := sc.sendChain.Seal(plaintext, ad)
	if err != nil {
		return nil, err
	}
	return msg.Encode(), nil
}

// Decrypt decrypts a message produced by the peer's Encrypt.
func (sc *SecureChannel) Decrypt(ciphertext, ad []byte) ([]byte, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if !sc.established {
		return nil, ErrChannelNotEstablished
	}

	msg, err := ratchet.DecodeEncryptedMessage(ciphertext)
	if err != nil {
		return nil, err
	}
	return sc.recvChain.Open(msg, ad)
}

// SendGeneration returns the current send generation.
func (sc *SecureChannel) SendGeneration() uint64 {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if sc.sendChain == nil {
		return 0
	}
	return sc.sendChain.Generation()
}
