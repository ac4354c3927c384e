package test

import (
	"testing"

	"team-recruit/internal/global/database"
	"team-recruit/internal/model"
	"team-recruit/tools"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// NewDB 内存 SQLite，单连接，事务天然串行
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Discard,
		NamingStrategy: schema.NamingStrategy{SingularTable: true},
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// CreateProject 创建一个招募中的项目
func CreateProject(t testing.TB, db *gorm.DB, password string) *model.Project {
	t.Helper()
	hash, err := tools.PasswordEncrypt(password)
	require.NoError(t, err)
	p := &model.Project{
		Name:          "智能车队",
		Summary:       "招募队员",
		Keywords:      []string{"嵌入式", "视觉"},
		PasswordHash:  hash,
		ProposerName:  "王老师",
		ProposerType:  model.ProposerProfessor,
		ProposerEmail: "owner@example.com",
		Status:        model.ProjectRecruiting,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

// CreateApplicant 直接写入指定状态的申请，申请人密码为 "applicant"
func CreateApplicant(t testing.TB, db *gorm.DB, projectID uint, major string, status model.ApplicantStatus) *model.Applicant {
	t.Helper()
	hash, err := tools.PasswordEncrypt("applicant")
	require.NoError(t, err)
	a := &model.Applicant{
		ProjectID:    projectID,
		Name:         "申请人",
		Email:        "applicant@example.com",
		Major:        major,
		Phone:        "13800000000",
		Introduction: "你好",
		Status:       status,
		PasswordHash: hash,
	}
	require.NoError(t, db.Create(a).Error)
	return a
}

// CountApproved 直接查库统计通过人数
func CountApproved(t testing.TB, db *gorm.DB, projectID uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&model.Applicant{}).
		Where("project_id = ? AND status = ?", projectID, model.ApplicantApproved).
		Count(&n).Error)
	return n
}
