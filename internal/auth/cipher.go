package auth

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
)

const keySize = 32

// Cipher AES-256-GCM，令牌格式为 hex(nonce):hex(ciphertext):hex(authTag)
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher hexKey 必须是 32 字节密钥的 hex 编码
func NewCipher(hexKey string) (*Cipher, error) {
	key, err := hex.DecodeString(strings.TrimSpace(hexKey))
	if err != nil {
		return nil, errors.Wrap(err, "加密密钥不是合法的 hex")
	}
	if len(key) != keySize {
		return nil, errors.Errorf("加密密钥长度应为 %d 字节，实际 %d 字节", keySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &Cipher{aead: aead}, nil
}

// Encrypt 每次调用使用新的随机 nonce
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", errors.WithStack(err)
	}
	sealed := c.aead.Seal(nil, nonce, []byte(plaintext), nil)
	tagStart := len(sealed) - c.aead.Overhead()
	return hex.EncodeToString(nonce) + ":" +
		hex.EncodeToString(sealed[:tagStart]) + ":" +
		hex.EncodeToString(sealed[tagStart:]), nil
}

// Decrypt 任何格式或校验失败都返回 false，不区分原因
func (c *Cipher) Decrypt(token string) (string, bool) {
	parts := strings.Split(token, ":")
	if len(parts) != 3 {
		return "", false
	}
	nonce, err := hex.DecodeString(parts[0])
	if err != nil || len(nonce) != c.aead.NonceSize() {
		return "", false
	}
	ciphertext, err := hex.DecodeString(parts[1])
	if err != nil {
		return "", false
	}
	tag, err := hex.DecodeString(parts[2])
	if err != nil || len(tag) != c.aead.Overhead() {
		return "", false
	}
	plaintext, err := c.aead.Open(nil, nonce, append(ciphertext, tag...), nil)
	if err != nil {
		return "", false
	}
	return string(plaintext), true
}
