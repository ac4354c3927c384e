package database

import (
	"testing"

	"team-recruit/config"
	"team-recruit/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestDialectorFor(t *testing.T) {
	d, err := dialectorFor(config.Database{Driver: config.DriverMysql, Host: "h", Port: "3306"})
	require.NoError(t, err)
	require.Equal(t, "mysql", d.Name())

	d, err = dialectorFor(config.Database{Driver: config.DriverPostgres, Host: "h", Port: "5432"})
	require.NoError(t, err)
	require.Equal(t, "postgres", d.Name())

	_, err = dialectorFor(config.Database{Driver: "oracle"})
	require.Error(t, err)
}

func TestMigrate(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	require.True(t, db.Migrator().HasTable(&model.Project{}))
	require.True(t, db.Migrator().HasTable(&model.Applicant{}))
	require.True(t, db.Migrator().HasIndex(&model.Applicant{}, "idx_applicant_capacity"))
}
