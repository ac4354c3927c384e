package model

const (
	// MaxApplicants 单个项目最多通过的人数
	MaxApplicants = 4
	// MaxApplicantMajorCount 单个项目同一专业最多通过的人数
	MaxApplicantMajorCount = 2
)

type ApplicantStatus string

const (
	ApplicantPending  ApplicantStatus = "PENDING"
	ApplicantApproved ApplicantStatus = "APPROVED"
	ApplicantRejected ApplicantStatus = "REJECTED"
)

type Applicant struct {
	Model
	ProjectID    uint            `gorm:"not null;index:idx_applicant_capacity,priority:1" json:"project_id" excel:"-"`
	Name         string          `gorm:"type:varchar(50);not null" json:"name" excel:"姓名"`
	Email        string          `gorm:"type:varchar(100);not null" json:"email" excel:"邮箱"`
	Major        string          `gorm:"type:varchar(50);not null;index:idx_applicant_capacity,priority:3" json:"major" excel:"专业"`
	Phone        string          `gorm:"type:varchar(30)" json:"phone" excel:"电话"`
	Introduction string          `gorm:"type:text" json:"introduction" excel:"自我介绍"`
	Status       ApplicantStatus `gorm:"type:varchar(20);not null;index:idx_applicant_capacity,priority:2" json:"status" excel:"状态"`
	PasswordHash string          `gorm:"type:varchar(255);not null" json:"-" excel:"-"` // 申请人自己修改/撤回时使用
}

// PublicApplicant 未验证项目密码时可见的字段
type PublicApplicant struct {
	ID     uint            `json:"id"`
	Name   string          `json:"name"`
	Major  string          `json:"major"`
	Status ApplicantStatus `json:"status"`
}

func (a *Applicant) Public() PublicApplicant {
	return PublicApplicant{ID: a.ID, Name: a.Name, Major: a.Major, Status: a.Status}
}
