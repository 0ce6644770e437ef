// Package envelope seals payloads into self-describing XChaCha20-Poly1305
// blobs, optionally LZ4-compressing them first.
//
// Wire format:
//
//	version (1) | flags (1) | nonce (24) | ciphertext || tag (16)
//
// The two header bytes are authenticated along with the caller's
// additional data, so flipping the compression flag breaks the tag.
package envelope

import (
	"errors"

	"github.com/TheusHen/sodium/sodium/crypto/aead"
)

// Version is the envelope format written by Seal.
const Version = 1

const (
	flagCompressed = 1 << 0

	headerSize = 2
	// Overhead is the size of an envelope around an uncompressed payload.
	Overhead = headerSize + aead.NonceBytes + aead.ABytes
)

var (
	ErrMalformed          = errors.New("envelope: malformed envelope")
	ErrUnsupportedVersion = errors.New("envelope: unsupported version")
)

// Options configures Seal.
type Options struct {
	Compression CompressionLevel
	// MinCompressSize skips compression for payloads shorter than this.
	MinCompressSize int
}

// OpenOptions configures Open.
type OpenOptions struct {
	// MaxSize caps the decompressed payload size. Zero means no cap.
	MaxSize int
}

func header(flags byte) []byte { return []byte{Version, flags} }

func boundAD(hdr, ad []byte) []byte {
	out := make([]byte, 0, len(hdr)+len(ad))
	out = append(out, hdr...)
	return append(out, ad...)
}

// Seal encrypts plaintext under key with a random nonce.
func Seal(key, plaintext, ad []byte, opts Options) ([]byte, error) {
	payload := plaintext
	var flags byte
	if opts.Compression != CompressionNone && len(plaintext) >= opts.MinCompressSize {
		compressed, err := compress(plaintext, opts.Compression)
		if err != nil {
			return nil, err
		}
		if len(compressed) < len(plaintext) {
			payload = compressed
			flags |= flagCompressed
		}
	}

	nonce, err := aead.GenerateNonce()
	if err != nil {
		return nil, err
	}
	hdr := header(flags)
	ct, err := aead.Encrypt(payload, boundAD(hdr, ad), nonce, key)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, headerSize+len(nonce)+len(ct))
	out = append(out, hdr...)
	out = append(out, nonce...)
	return append(out, ct...), nil
}

// Open authenticates and decrypts an envelope produced by Seal.
func Open(key, sealed, ad []byte, opts OpenOptions) ([]byte, error) {
	if len(sealed) < Overhead {
		return nil, ErrMalformed
	}
	hdr := sealed[:headerSize]
	if hdr[0] != Version {
		return nil, ErrUnsupportedVersion
	}
	if hdr[1]&^flagCompressed != 0 {
		return nil, ErrMalformed
	}
	nonce := sealed[headerSize : headerSize+aead.NonceBytes]
	ct := sealed[headerSize+aead.NonceBytes:]

	payload, err := aead.Decrypt(ct, boundAD(hdr, ad), nonce, key)
	if err != nil {
		return nil, err
	}
	if hdr[1]&flagCompressed == 0 {
		if opts.MaxSize > 0 && len(payload) > opts.MaxSize {
			return nil, ErrTooLarge
		}
		return payload, nil
	}
	return decompress(payload, opts.MaxSize)
}

// IsCompressed reports whether an envelope carries a compressed payload.
// The flag is unauthenticated until Open succeeds.
func IsCompressed(sealed []byte) bool {
	return len(sealed) >= headerSize && sealed[1]&flagCompressed != 0
}
