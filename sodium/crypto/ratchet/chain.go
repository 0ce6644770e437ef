package ratchet

import (
	"encoding/binary"
	"errors"
	"sync"

	"github.com/TheusHen/sodium/sodium/crypto/aead"
	"github.com/TheusHen/sodium/sodium/crypto/kdf"
)

var (
	ErrRatchetExhausted  = errors.New("ratchet: maximum generation reached")
	ErrInvalidGeneration = errors.New("ratchet: invalid generation number")
	ErrInvalidKey        = errors.New("ratchet: initial key must be 32 bytes")
	ErrMessageTooShort   = errors.New("ratchet: message too short")
)

const (
	// MaxGeneration is the maximum number of ratchet steps before re-keying is required.
	MaxGeneration = 1 << 32

	keySize = aead.KeyBytes
)

var (
	labelMessage = []byte("sodium-ratchet-msg")
	labelChain   = []byte("sodium-ratchet-chain")
)

// step derives (nextChainKey, messageKey) from a chain key.
func step(chainKey [keySize]byte) (next, msgKey [keySize]byte, err error) {
	mk, err := kdf.DeriveKey(chainKey[:], nil, labelMessage, keySize)
	if err != nil {
		return next, msgKey, err
	}
	ck, err := kdf.DeriveKey(chainKey[:], nil, labelChain, keySize)
	if err != nil {
		return next, msgKey, err
	}
	copy(msgKey[:], mk)
	copy(next[:], ck)
	return next, msgKey, nil
}

// boundAD prefixes ad with the generation so a message cannot be replayed
// under another generation number.
func boundAD(gen uint64, ad []byte) []byte {
	out := make([]byte, 8, 8+len(ad))
	binary.BigEndian.PutUint64(out, gen)
	return append(out, ad...)
}

// Chain is the sending side of a ratchet.
type Chain struct {
	mu         sync.Mutex
	chainKey   [keySize]byte
	generation uint64
}

// NewChain creates a new ratchet chain from an initial 32-byte key.
func NewChain(initialKey []byte) (*Chain, error) {
	if len(initialKey) != keySize {
		return nil, ErrInvalidKey
	}
	c := &Chain{}
	copy(c.chainKey[:], initialKey)
	return c, nil
}

// Step advances the ratchet and returns the cipher for the current message.
// The chain key is replaced before Step returns.
func (c *Chain) Step() (*aead.Cipher, uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generation >= MaxGeneration {
		return nil, 0, ErrRatchetExhausted
	}

	next, msgKey, err := step(c.chainKey)
	if err != nil {
		return nil, 0, err
	}
	gen := c.generation
	c.chainKey = next
	c.generation++

	cipher, err := aead.NewCipher(msgKey[:])
	if err != nil {
		return nil, 0, err
	}
	return cipher, gen, nil
}

// Generation returns the current generation number.
func (c *Chain) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// Export exports the current chain state for persistence/resumption.
// WARNING: Handle with extreme care; this contains keying material.
func (c *Chain) Export() (chainKey [32]byte, generation uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.chainKey, c.generation
}

// EncryptedMessage is one ratcheted message.
type EncryptedMessage struct {
	Generation uint64
	Ciphertext []byte // nonce || ciphertext || tag
}

// Seal encrypts plaintext, advances the ratchet, and returns the encrypted message.
func (c *Chain) Seal(plaintext, ad []byte) (EncryptedMessage, error) {
	cipher, gen, err := c.Step()
	if err != nil {
		return EncryptedMessage{}, err
	}
	ct, err := cipher.Seal(plaintext, boundAD(gen, ad))
	if err != nil {
		return EncryptedMessage{}, err
	}
	return EncryptedMessage{Generation: gen, Ciphertext: ct}, nil
}

// Receiver is the receiving side of a ratchet. It accepts a message up to
// maxSkip generations ahead of the next expected one, and keeps the keys of
// skipped generations while they are within maxSkip of it. Older keys are
// dropped, so lost messages never block later ones.
type Receiver struct {
	mu         sync.Mutex
	skipped    map[uint64][keySize]byte // chain keys of skipped generations
	current    [keySize]byte
	currentGen uint64
	maxSkip    int
}

// NewReceiver creates a receiver ratchet from the initial key.
func NewReceiver(initialKey []byte, maxSkip int) (*Receiver, error) {
	if len(initialKey) != keySize {
		return nil, ErrInvalidKey
	}
	if maxSkip < 0 {
		maxSkip = 0
	}
	r := &Receiver{
		skipped: make(map[uint64][keySize]byte),
		maxSkip: maxSkip,
	}
	copy(r.current[:], initialKey)
	return r, nil
}

func openWith(chainKey [keySize]byte, msg EncryptedMessage, ad []byte) ([]byte, [keySize]byte, error) {
	next, msgKey, err := step(chainKey)
	if err != nil {
		return nil, next, err
	}
	cipher, err := aead.NewCipher(msgKey[:])
	if err != nil {
		return nil, next, err
	}
	pt, err := cipher.Open(msg.Ciphertext, boundAD(msg.Generation, ad))
	return pt, next, err
}

// Open decrypts an encrypted message, handling out-of-order delivery.
// State only advances when the message authenticates.
func (r *Receiver) Open(msg EncryptedMessage, ad []byte) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	gen := msg.Generation

	if gen == r.currentGen {
		pt, next, err := openWith(r.current, msg, ad)
		if err != nil {
			return nil, err
		}
		r.current = next
		r.currentGen++
		r.evict()
		return pt, nil
	}

	if cached, ok := r.skipped[gen]; ok {
		pt, _, err := openWith(cached, msg, ad)
		if err != nil {
			return nil, err
		}
		delete(r.skipped, gen)
		return pt, nil
	}

	if gen < r.currentGen {
		return nil, ErrInvalidGeneration
	}

	// Message from the future: walk the chain forward without committing
	// until the message authenticates.
	if gen-r.currentGen > uint64(r.maxSkip) {
		return nil, ErrInvalidGeneration
	}
	chainKey := r.current
	pending := make(map[uint64][keySize]byte, gen-r.currentGen)
	for i := r.currentGen; i < gen; i++ {
		pending[i] = chainKey
		next, _, err := step(chainKey)
		if err != nil {
			return nil, err
		}
		chainKey = next
	}
	pt, next, err := openWith(chainKey, msg, ad)
	if err != nil {
		return nil, err
	}
	for i, k := range pending {
		r.skipped[i] = k
	}
	r.current = next
	r.currentGen = gen + 1
	r.evict()
	return pt, nil
}

// evict drops skipped keys that fell more than maxSkip generations behind,
// bounding the cache to maxSkip entries.
func (r *Receiver) evict() {
	if r.currentGen <= uint64(r.maxSkip) {
		return
	}
	oldest := r.currentGen - uint64(r.maxSkip)
	for g := range r.skipped {
		if g < oldest {
			delete(r.skipped, g)
		}
	}
}

// Skipped returns the number of cached keys for messages not yet received.
func (r *Receiver) Skipped() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.skipped)
}

// Encode serializes an EncryptedMessage for wire transmission.
func (m EncryptedMessage) Encode() []byte {
	out := make([]byte, 8+len(m.Ciphertext))
	binary.BigEndian.PutUint64(out[:8], m.Generation)
	copy(out[8:], m.Ciphertext)
	return out
}

// DecodeEncryptedMessage deserializes an EncryptedMessage.
func DecodeEncryptedMessage(data []byte) (EncryptedMessage, error) {
	if len(data) < 8 {
		return EncryptedMessage{}, ErrMessageTooShort
	}
	return EncryptedMessage{
		Generation: binary.BigEndian.Uint64(data[:8]),
		Ciphertext: data[8:],
	}, nil
}
