package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func TestEncryptDecrypt(t *testing.T) {
	for _, plaintext := range []string{"1234567890", "a", "exactly sixteen!"} {
		encrypted, err := Encrypt(plaintext, testKey)
		require.NoError(t, err, plaintext)
		assert.NotEqual(t, plaintext, encrypted)

		decrypted, err := Decrypt(encrypted, testKey)
		require.NoError(t, err, plaintext)
		assert.Equal(t, plaintext, decrypted)
	}
}

func TestEncrypt_RandomIV(t *testing.T) {
	first, err := Encrypt("1234567890", testKey)
	require.NoError(t, err)
	second, err := Encrypt("1234567890", testKey)
	require.NoError(t, err)
	assert.NotEqual(t, first, second, "each encryption must use a fresh IV")
}

func TestEncryptDecrypt_Errors(t *testing.T) {
	_, err := Encrypt("", testKey)
	assert.Error(t, err)

	_, err = Encrypt("data", []byte("short"))
	assert.Error(t, err)

	_, err = Decrypt("not-hex", testKey)
	assert.Error(t, err)

	_, err = Decrypt("00ff", testKey)
	assert.Error(t, err, "data shorter than one block must be rejected")

	_, err = Decrypt("data", []byte("short"))
	assert.Error(t, err)
}

func TestGenerateHMAC(t *testing.T) {
	a := GenerateHMAC("1234567890", "secret")
	assert.Equal(t, a, GenerateHMAC("1234567890", "secret"), "HMAC must be deterministic")
	assert.NotEqual(t, a, GenerateHMAC("1234567891", "secret"))
	assert.NotEqual(t, a, GenerateHMAC("1234567890", "other"))
	assert.Len(t, a, 64)
}
