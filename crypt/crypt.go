// Package crypt protects account credentials at rest. Values are encrypted
// with AES-256-CBC under a key derived from a passphrase and stored as
// hex(iv)::hex(ciphertext), so encrypted and plaintext passwords are easy to
// tell apart in a config file.
package crypt

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// Separator splits the IV from the ciphertext in an encrypted value.
const Separator = "::"

var (
	ErrNoKey         = errors.New("no passphrase provided")
	ErrNotEncrypted  = errors.New("value is not an encrypted string")
	ErrBadCiphertext = errors.New("malformed ciphertext")
)

// deriveKey stretches the passphrase into a 32-byte AES key: the middle 32
// characters of the hex-encoded SHA-256 digest.
func deriveKey(passphrase string) ([]byte, error) {
	if passphrase == "" {
		return nil, ErrNoKey
	}
	sum := sha256.Sum256([]byte(passphrase))
	return []byte(hex.EncodeToString(sum[:])[16:48]), nil
}

// IsEncrypted reports whether value looks like an output of Encrypt.
func IsEncrypted(value string) bool {
	iv, _, found := strings.Cut(value, Separator)
	if !found {
		return false
	}
	raw, err := hex.DecodeString(iv)
	return err == nil && len(raw) == aes.BlockSize
}

// Encrypt encrypts value under the given passphrase with a random IV.
func Encrypt(value, passphrase string) (string, error) {
	key, err := deriveKey(passphrase)
	if err != nil {
		return "", err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("create cipher: %w", err)
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("generate iv: %w", err)
	}

	padded := pad([]byte(value))
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, padded)

	return hex.EncodeToString(iv) + Separator + hex.EncodeToString(out), nil
}

// Decrypt reverses Encrypt. A wrong passphrase is indistinguishable from a
// corrupted value and yields ErrBadCiphertext.
func Decrypt(value, passphrase string) (string, error) {
	key, err := deriveKey(passphrase)
	if err != nil {
		return "", err
	}
	ivHex, dataHex, found := strings.Cut(value, Separator)
	if !found {
		return "", ErrNotEncrypted
	}

	iv, err := hex.DecodeString(ivHex)
	if err != nil || len(iv) != aes.BlockSize {
		return "", ErrBadCiphertext
	}
	data, err := hex.DecodeString(dataHex)
	if err != nil || len(data) == 0 || len(data)%aes.BlockSize != 0 {
		return "", ErrBadCiphertext
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("create cipher: %w", err)
	}

	out := make([]byte, len(data))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, data)

	plain, err := unpad(out)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

func pad(data []byte) []byte {
	n := aes.BlockSize - len(data)%aes.BlockSize
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}

func unpad(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrBadCiphertext
	}
	n := int(data[len(data)-1])
	if n == 0 || n > aes.BlockSize || n > len(data) {
		return nil, ErrBadCiphertext
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, ErrBadCiphertext
		}
	}
	return data[:len(data)-n], nil
}
