package aead

// Cipher holds a key and draws a fresh random nonce for each message.
type Cipher struct {
	key [KeyBytes]byte
}

// NewCipher creates a Cipher from a 32-byte key. The key is copied.
func NewCipher(key []byte) (*Cipher, error) {
	if len(key) != KeyBytes {
		return nil, ErrInvalidKeySize
	}
	c := &Cipher{}
	copy(c.key[:], key)
	return c, nil
}

// Seal encrypts and authenticates plaintext.
// Returns: nonce (24 bytes) || ciphertext || tag (16 bytes)
func (c *Cipher) Seal(plaintext, additionalData []byte) ([]byte, error) {
	nonce, err := GenerateNonce()
	if err != nil {
		return nil, err
	}
	ct, err := Encrypt(plaintext, additionalData, nonce, c.key[:])
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(nonce)+len(ct))
	copy(out, nonce)
	copy(out[len(nonce):], ct)
	return out, nil
}

// Open decrypts and verifies the output of Seal.
func (c *Cipher) Open(sealed, additionalData []byte) ([]byte, error) {
	if len(sealed) < NonceBytes+ABytes {
		return nil, ErrCiphertextTooShort
	}
	return Decrypt(sealed[NonceBytes:], additionalData, sealed[:NonceBytes], c.key[:])
}

// Overhead returns the number of bytes Seal adds to a plaintext.
func (c *Cipher) Overhead() int { return NonceBytes + ABytes }

// NonceSize returns the nonce size.
func (c *Cipher) NonceSize() int { return NonceBytes }
