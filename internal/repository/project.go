package repository

import (
	"context"

	"team-recruit/internal/global/errs"
	"team-recruit/internal/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProjectFilter struct {
	Status   model.ProjectStatus
	Keyword  string
	Page     int
	PageSize int
}

type ProjectRepository interface {
	Create(ctx context.Context, p *model.Project) error
	FindByID(ctx context.Context, id uint) (*model.Project, error)
	// PasswordHash 只取密码哈希，项目不存在时返回 errs.NotFound
	PasswordHash(ctx context.Context, id uint) (string, error)
	List(ctx context.Context, filter ProjectFilter) ([]model.Project, int64, error)
	Update(ctx context.Context, p *model.Project) error
	// AppendAttachment 锁住项目行后追加附件，返回追加后的列表
	AppendAttachment(ctx context.Context, id uint, url string) ([]string, error)
	// DeleteCascade 在同一事务中删除项目及其全部申请
	DeleteCascade(ctx context.Context, id uint) error
	IncrementViews(ctx context.Context, id uint) error
}

type projectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(ctx context.Context, p *model.Project) error {
	return errors.WithStack(r.db.WithContext(ctx).Create(p).Error)
}

func (r *projectRepository) FindByID(ctx context.Context, id uint) (*model.Project, error) {
	var p model.Project
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, notFoundOr(err, "项目不存在")
	}
	return &p, nil
}

func (r *projectRepository) PasswordHash(ctx context.Context, id uint) (string, error) {
	var p model.Project
	if err := r.db.WithContext(ctx).Select("id", "password_hash").First(&p, id).Error; err != nil {
		return "", notFoundOr(err, "项目不存在")
	}
	return p.PasswordHash, nil
}

func (r *projectRepository) List(ctx context.Context, filter ProjectFilter) ([]model.Project, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Project{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Keyword != "" {
		like := "%" + filter.Keyword + "%"
		query = query.Where("name LIKE ? OR summary LIKE ? OR keywords LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.WithStack(err)
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 10
	}
	var projects []model.Project
	err := query.Order("id DESC").
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&projects).Error
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}
	return projects, total, nil
}

func (r *projectRepository) Update(ctx context.Context, p *model.Project) error {
	res := r.db.WithContext(ctx).Model(p).Select(
		"name", "summary", "content", "keywords", "attachments", "password_hash",
		"proposer_name", "proposer_type", "proposer_major", "proposer_email", "proposer_phone", "status",
	).Updates(p)
	return errors.WithStack(res.Error)
}

func (r *projectRepository) AppendAttachment(ctx context.Context, id uint, url string) ([]string, error) {
	var attachments []string
	err := withRetry(ctx, func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var p model.Project
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Select("id", "attachments").
				First(&p, id).Error
			if err != nil {
				return notFoundOr(err, "项目不存在")
			}
			p.Attachments = append(p.Attachments, url)
			if err := tx.Model(&p).Select("attachments").Updates(&p).Error; err != nil {
				return errors.WithStack(err)
			}
			attachments = p.Attachments
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return attachments, nil
}

func (r *projectRepository) DeleteCascade(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&model.Applicant{}).Error; err != nil {
			return errors.WithStack(err)
		}
		res := tx.Delete(&model.Project{}, id)
		if res.Error != nil {
			return errors.WithStack(res.Error)
		}
		if res.RowsAffected == 0 {
			return errs.NotFound("项目不存在")
		}
		return nil
	})
}

func (r *projectRepository) IncrementViews(ctx context.Context, id uint) error {
	return errors.WithStack(r.db.WithContext(ctx).
		Model(&model.Project{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error)
}
