// Package repository 封装 Project 与 Applicant 的持久化
// 返回的未找到错误统一为 errs.NotFound，其他数据库错误带堆栈原样返回
package repository

import (
	"context"
	"time"

	"team-recruit/internal/global/errs"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// maxTxAttempts 事务因死锁或序列化冲突失败时的最大尝试次数
const maxTxAttempts = 3

type Repositories struct {
	Projects   ProjectRepository
	Applicants ApplicantRepository
}

func New(db *gorm.DB) *Repositories {
	return &Repositories{
		Projects:   NewProjectRepository(db),
		Applicants: NewApplicantRepository(db),
	}
}

func notFoundOr(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NotFound(msg)
	}
	return errors.WithStack(err)
}

// retryable 死锁、锁等待超时、序列化失败可以整体重试
func retryable(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1213 || myErr.Number == 1205
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

func withRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err = fn()
		if err == nil || !retryable(err) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt*20) * time.Millisecond):
		}
	}
	return err
}
