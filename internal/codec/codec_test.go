package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "casino-wallet/internal/errors"
)

func TestRoundTrip(t *testing.T) {
	c, err := New([]byte("0123456789abcdef"))
	require.NoError(t, err)

	plaintext := []byte(`{"member_account":"player_77","bet_amount":"12.50"}`)
	encrypted := c.Encrypt(plaintext)

	decrypted, err := c.Decrypt(encrypted)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestDeterministicCiphertext(t *testing.T) {
	// ECB without an IV: same plaintext, same key, same ciphertext. The
	// provider contract depends on this.
	c, err := New([]byte("0123456789abcdef"))
	require.NoError(t, err)

	plaintext := []byte(`{"action_type":"bet"}`)
	assert.Equal(t, c.Encrypt(plaintext), c.Encrypt(plaintext))
}

func TestWrongKeyFailsDecode(t *testing.T) {
	a, err := New([]byte("0123456789abcdef"))
	require.NoError(t, err)
	b, err := New([]byte("fedcba9876543210"))
	require.NoError(t, err)

	encrypted := a.Encrypt([]byte(`{"ok":true}`))

	var out map[string]interface{}
	err = b.DecryptJSON(encrypted, &out)
	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.TransportDecode, appErr.Code)
}

func TestMalformedCiphertext(t *testing.T) {
	c, err := New([]byte("0123456789abcdef"))
	require.NoError(t, err)

	cases := map[string]string{
		"not base64":    "%%%not-base64%%%",
		"empty":         "",
		"partial block": "YWJj", // 3 bytes, not a whole AES block
	}

	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := c.Decrypt(input)
			assert.Error(t, err)
		})
	}
}

func TestInvalidKeyLength(t *testing.T) {
	_, err := New([]byte("short"))
	assert.Error(t, err)
}

func TestEncryptJSONRoundTrip(t *testing.T) {
	c, err := New([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	in := map[string]string{"member_account": "p1", "currency_code": "USD"}
	encrypted, err := c.EncryptJSON(in)
	require.NoError(t, err)

	var out map[string]string
	require.NoError(t, c.DecryptJSON(encrypted, &out))
	assert.Equal(t, in, out)
}
