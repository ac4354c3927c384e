package model

type ProjectStatus string

const (
	ProjectRecruiting ProjectStatus = "RECRUITING"
	ProjectClosed     ProjectStatus = "CLOSED"
)

func (s ProjectStatus) Valid() bool {
	return s == ProjectRecruiting || s == ProjectClosed
}

type ProposerType string

const (
	ProposerStudent   ProposerType = "STUDENT"
	ProposerProfessor ProposerType = "PROFESSOR"
	ProposerHost      ProposerType = "HOST"
)

func (t ProposerType) Valid() bool {
	switch t {
	case ProposerStudent, ProposerProfessor, ProposerHost:
		return true
	}
	return false
}

type Project struct {
	Model
	Name          string        `gorm:"type:varchar(100);not null" json:"name"`         // 项目名称
	Summary       string        `gorm:"type:varchar(255)" json:"summary"`               // 一句话简介
	Content       string        `gorm:"type:text" json:"content"`                       // 项目详情
	Keywords      []string      `gorm:"type:text;serializer:json" json:"keywords"`      // 关键词
	Attachments   []string      `gorm:"type:text;serializer:json" json:"attachments"`   // 附件 URL
	PasswordHash  string        `gorm:"type:varchar(255);not null" json:"-"`            // 项目管理密码哈希，不返回给前端
	ProposerName  string        `gorm:"type:varchar(50);not null" json:"proposer_name"` // 发起人
	ProposerType  ProposerType  `gorm:"type:varchar(20);not null" json:"proposer_type"`
	ProposerMajor string        `gorm:"type:varchar(50)" json:"proposer_major"`
	ProposerEmail string        `gorm:"type:varchar(100);not null" json:"proposer_email"` // 接收申请通知
	ProposerPhone string        `gorm:"type:varchar(30)" json:"proposer_phone"`
	Views         int64         `gorm:"not null;default:0" json:"views"`
	Status        ProjectStatus `gorm:"type:varchar(20);not null;index" json:"status"`

	Applicants []Applicant `gorm:"foreignKey:ProjectID" json:"-"`
}
