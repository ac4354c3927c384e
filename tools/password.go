package tools

import (
	"team-recruit/internal/global/errs"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

// PasswordMaxLen bcrypt 只接受不超过 72 字节的明文
const PasswordMaxLen = 72

// PasswordEncrypt 使用 bcrypt 生成带盐哈希，明文过长返回 errs.BadRequest
func PasswordEncrypt(password string) (string, error) {
	if len(password) > PasswordMaxLen {
		return "", errs.BadRequest("密码长度不能超过 72 字节")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.WithStack(err)
	}
	return string(hash), nil
}

// PasswordCompare 哈希或明文为空时一律视为不匹配
func PasswordCompare(password, hash string) bool {
	if password == "" || hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
