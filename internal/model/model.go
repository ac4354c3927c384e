package model

import (
	"time"

	"gorm.io/gorm"
)

type Model struct {
	ID        uint           `gorm:"primaryKey" json:"id" excel:"编号"`
	CreatedAt time.Time      `json:"created_at" excel:"创建时间"`
	UpdatedAt time.Time      `json:"updated_at" excel:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-" excel:"-"`
}
