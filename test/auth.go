package test

import (
	"io"
	"log/slog"
	"testing"

	"team-recruit/internal/auth"
	"team-recruit/internal/repository"

	"github.com/stretchr/testify/require"
)

// EncryptionKey 测试用的 32 字节 hex 密钥
const EncryptionKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

// DiscardLogger 丢弃输出
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewAuthorizer 基于真实项目仓库的授权器
func NewAuthorizer(t testing.TB, repos *repository.Repositories) *auth.Authorizer {
	t.Helper()
	cipher, err := auth.NewCipher(EncryptionKey)
	require.NoError(t, err)
	return auth.NewAuthorizer(repos.Projects, cipher, auth.WithLogger(DiscardLogger()))
}
