package ecommerce

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openMultipass reverses Token so the payload can be inspected
func openMultipass(t *testing.T, secret, token string) MultipassCustomer {
	t.Helper()
	sum := sha256.Sum256([]byte(secret))

	raw, err := base64.URLEncoding.DecodeString(token)
	require.NoError(t, err)
	require.Greater(t, len(raw), aes.BlockSize+sha256.Size)

	body, sig := raw[:len(raw)-sha256.Size], raw[len(raw)-sha256.Size:]
	mac := hmac.New(sha256.New, sum[16:32])
	mac.Write(body)
	require.True(t, hmac.Equal(sig, mac.Sum(nil)), "signature must verify")

	block, err := aes.NewCipher(sum[:16])
	require.NoError(t, err)
	iv, ciphertext := body[:aes.BlockSize], body[aes.BlockSize:]
	plain := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, ciphertext)
	plain = plain[:len(plain)-int(plain[len(plain)-1])]

	var c MultipassCustomer
	require.NoError(t, json.Unmarshal(plain, &c))
	return c
}

func TestMultipass_Token(t *testing.T) {
	m, err := NewMultipass("shop-secret")
	require.NoError(t, err)
	m.now = func() time.Time { return time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC) }
	m.random = bytes.NewReader(bytes.Repeat([]byte{7}, aes.BlockSize))

	token, err := m.Token(MultipassCustomer{Email: "ana@example.com", FirstName: "Ana", ReturnTo: "/account"})
	require.NoError(t, err)

	got := openMultipass(t, "shop-secret", token)
	assert.Equal(t, "ana@example.com", got.Email)
	assert.Equal(t, "2024-05-06T07:08:09Z", got.CreatedAt)
	assert.Equal(t, "/account", got.ReturnTo)
}

func TestMultipass_Errors(t *testing.T) {
	_, err := NewMultipass("")
	assert.ErrorIs(t, err, ErrMultipassSecretRequired)

	m, err := NewMultipass("s")
	require.NoError(t, err)
	_, err = m.Token(MultipassCustomer{})
	assert.Error(t, err)
}
