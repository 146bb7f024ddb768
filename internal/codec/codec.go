// Package codec implements the provider envelope cipher: AES in ECB mode
// with PKCS7 padding over base64. ECB has no IV, so identical plaintexts
// under the same key produce identical ciphertexts. That determinism is part
// of the provider integration contract and must not be changed.
package codec

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"casino-wallet/internal/errors"
)

// Codec encrypts and decrypts provider payloads with a shared static key.
// Safe for concurrent use.
type Codec struct {
	block cipher.Block
}

// New returns a Codec for the given key. The key length selects AES-128,
// AES-192 or AES-256.
func New(key []byte) (*Codec, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("codec: %w", err)
	}
	return &Codec{block: block}, nil
}

// Encrypt encrypts plaintext and returns the base64 ciphertext.
func (c *Codec) Encrypt(plaintext []byte) string {
	padded := pkcs7Pad(plaintext, c.block.BlockSize())
	out := make([]byte, len(padded))
	bs := c.block.BlockSize()
	for i := 0; i < len(padded); i += bs {
		c.block.Encrypt(out[i:i+bs], padded[i:i+bs])
	}
	return base64.StdEncoding.EncodeToString(out)
}

// Decrypt decrypts a base64 ciphertext previously produced by Encrypt.
// Malformed input or a wrong key yields a transport decode error, never a
// silent empty result.
func (c *Codec) Decrypt(encoded string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, errors.NewAppError(errors.TransportDecode, "invalid base64 payload").WithDetails(err.Error())
	}
	bs := c.block.BlockSize()
	if len(data) == 0 || len(data)%bs != 0 {
		return nil, errors.NewAppError(errors.TransportDecode, "ciphertext is not a whole number of blocks")
	}
	out := make([]byte, len(data))
	for i := 0; i < len(data); i += bs {
		c.block.Decrypt(out[i:i+bs], data[i:i+bs])
	}
	unpadded, err := pkcs7Unpad(out, bs)
	if err != nil {
		return nil, errors.NewAppError(errors.TransportDecode, "invalid padding").WithDetails(err.Error())
	}
	return unpadded, nil
}

// EncryptJSON marshals v and encrypts the result.
func (c *Codec) EncryptJSON(v interface{}) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("codec: marshal: %w", err)
	}
	return c.Encrypt(raw), nil
}

// DecryptJSON decrypts encoded and unmarshals the plaintext into v.
func (c *Codec) DecryptJSON(encoded string, v interface{}) error {
	raw, err := c.Decrypt(encoded)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return errors.NewAppError(errors.TransportDecode, "payload is not valid JSON").WithDetails(err.Error())
	}
	return nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padding := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(padding)}, padding)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, fmt.Errorf("data length %d is not a multiple of block size", len(data))
	}
	padding := int(data[len(data)-1])
	if padding == 0 || padding > blockSize {
		return nil, fmt.Errorf("padding byte %d out of range", padding)
	}
	for _, b := range data[len(data)-padding:] {
		if int(b) != padding {
			return nil, fmt.Errorf("inconsistent padding bytes")
		}
	}
	return data[:len(data)-padding], nil
}
