package ecommerce

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"
)

// ErrMultipassSecretRequired is returned when no Multipass secret is configured
var ErrMultipassSecretRequired = errors.New("shopify: multipass secret is required")

// MultipassCustomer is the customer payload signed into a Multipass token
type MultipassCustomer struct {
	Email      string `json:"email"`
	CreatedAt  string `json:"created_at"`
	FirstName  string `json:"first_name,omitempty"`
	LastName   string `json:"last_name,omitempty"`
	Identifier string `json:"identifier,omitempty"`
	ReturnTo   string `json:"return_to,omitempty"`
}

// Multipass issues tokens that let an external identity sign a customer
// into the shop. The secret is split into an AES-128 key and an HMAC key.
type Multipass struct {
	encryptionKey []byte
	signatureKey  []byte
	random        io.Reader
	now           func() time.Time
}

// NewMultipass derives the keys from the shop's Multipass secret
func NewMultipass(secret string) (*Multipass, error) {
	if secret == "" {
		return nil, ErrMultipassSecretRequired
	}
	sum := sha256.Sum256([]byte(secret))
	return &Multipass{
		encryptionKey: sum[:16],
		signatureKey:  sum[16:32],
		random:        rand.Reader,
		now:           time.Now,
	}, nil
}

// Token encrypts and signs the customer payload.
// Layout: base64url(iv || AES-CBC(json) || HMAC-SHA256(iv || AES-CBC(json))).
func (m *Multipass) Token(customer MultipassCustomer) (string, error) {
	if customer.Email == "" {
		return "", errors.New("shopify: multipass customer email is required")
	}
	if customer.CreatedAt == "" {
		customer.CreatedAt = m.now().UTC().Format(time.RFC3339)
	}
	plaintext, err := json.Marshal(customer)
	if err != nil {
		return "", fmt.Errorf("shopify: encode multipass payload: %w", err)
	}

	ciphertext, err := m.encrypt(plaintext)
	if err != nil {
		return "", err
	}
	mac := hmac.New(sha256.New, m.signatureKey)
	mac.Write(ciphertext)
	return base64.URLEncoding.EncodeToString(append(ciphertext, mac.Sum(nil)...)), nil
}

func (m *Multipass) encrypt(plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(m.encryptionKey)
	if err != nil {
		return nil, fmt.Errorf("shopify: multipass cipher: %w", err)
	}
	padding := aes.BlockSize - len(plaintext)%aes.BlockSize
	padded := append(plaintext, bytes.Repeat([]byte{byte(padding)}, padding)...)

	out := make([]byte, aes.BlockSize+len(padded))
	iv := out[:aes.BlockSize]
	if _, err := io.ReadFull(m.random, iv); err != nil {
		return nil, fmt.Errorf("shopify: multipass iv: %w", err)
	}
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out[aes.BlockSize:], padded)
	return out, nil
}
