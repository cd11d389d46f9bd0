package blockcipher

import (
	"crypto/aes"
	"errors"
	"fmt"
)

// KeySize is the only key size the band accepts (AES-128).
const KeySize = 16

// BlockSize is the AES block size.
const BlockSize = aes.BlockSize

// Cipher errors.
var (
	ErrInvalidKeySize   = errors.New("invalid key size")
	ErrInvalidBlockSize = errors.New("invalid block size")
)

// Encrypt encrypts block under key in ECB mode. The block length must be a
// non-zero multiple of BlockSize; every BlockSize chunk is encrypted
// independently.
func Encrypt(key, block []byte) ([]byte, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidKeySize, len(key), KeySize)
	}
	if len(block) == 0 || len(block)%BlockSize != 0 {
		return nil, fmt.Errorf("%w: got %d bytes, want a multiple of %d", ErrInvalidBlockSize, len(block), BlockSize)
	}

	c, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	out := make([]byte, len(block))
	for off := 0; off < len(block); off += BlockSize {
		c.Encrypt(out[off:off+BlockSize], block[off:off+BlockSize])
	}
	return out, nil
}
