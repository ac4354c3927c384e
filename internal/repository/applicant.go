package repository

import (
	"context"

	"team-recruit/internal/global/errs"
	"team-recruit/internal/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Limits 通过人数上限
type Limits struct {
	Total    int64
	PerMajor int64
}

var DefaultLimits = Limits{
	Total:    model.MaxApplicants,
	PerMajor: model.MaxApplicantMajorCount,
}

type ApplicantRepository interface {
	Create(ctx context.Context, a *model.Applicant) error
	FindByID(ctx context.Context, id uint) (*model.Applicant, error)
	ListByProject(ctx context.Context, projectID uint) ([]model.Applicant, error)
	CountApproved(ctx context.Context, projectID uint) (int64, error)
	CountApprovedByMajor(ctx context.Context, projectID uint, major string) (int64, error)
	// ApprovedMajorCounts 各专业已通过人数
	ApprovedMajorCounts(ctx context.Context, projectID uint) (map[string]int64, error)
	// UpdateStatus 仅当当前状态为 from 时写入 to，返回是否写入
	UpdateStatus(ctx context.Context, id uint, from, to model.ApplicantStatus) (bool, error)
	// ApproveWithinCapacity 在锁住项目行的事务内重新计数并把 PENDING 改为 APPROVED
	// 超出上限返回 errs.MaxApplicants，状态已不是 PENDING 返回 errs.BadRequest
	ApproveWithinCapacity(ctx context.Context, projectID, applicantID uint, limits Limits) (*model.Applicant, error)
	// UpdateProfile 仅当状态仍为 a.Status 时写入，避免与审核并发时改动已通过申请的专业
	UpdateProfile(ctx context.Context, a *model.Applicant) error
	Delete(ctx context.Context, id uint) error
}

type applicantRepository struct {
	db *gorm.DB
}

func NewApplicantRepository(db *gorm.DB) ApplicantRepository {
	return &applicantRepository{db: db}
}

func (r *applicantRepository) Create(ctx context.Context, a *model.Applicant) error {
	return errors.WithStack(r.db.WithContext(ctx).Create(a).Error)
}

func (r *applicantRepository) FindByID(ctx context.Context, id uint) (*model.Applicant, error) {
	var a model.Applicant
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, notFoundOr(err, "申请不存在")
	}
	return &a, nil
}

func (r *applicantRepository) ListByProject(ctx context.Context, projectID uint) ([]model.Applicant, error) {
	var list []model.Applicant
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("id ASC").
		Find(&list).Error
	return list, errors.WithStack(err)
}

func (r *applicantRepository) CountApproved(ctx context.Context, projectID uint) (int64, error) {
	return countApproved(r.db.WithContext(ctx), projectID, nil)
}

func (r *applicantRepository) CountApprovedByMajor(ctx context.Context, projectID uint, major string) (int64, error) {
	return countApproved(r.db.WithContext(ctx), projectID, &major)
}

func countApproved(db *gorm.DB, projectID uint, major *string) (int64, error) {
	query := db.Model(&model.Applicant{}).
		Where("project_id = ? AND status = ?", projectID, model.ApplicantApproved)
	if major != nil {
		query = query.Where("major = ?", *major)
	}
	var n int64
	if err := query.Count(&n).Error; err != nil {
		return 0, errors.WithStack(err)
	}
	return n, nil
}

func (r *applicantRepository) ApprovedMajorCounts(ctx context.Context, projectID uint) (map[string]int64, error) {
	var rows []struct {
		Major string
		Total int64
	}
	err := r.db.WithContext(ctx).Model(&model.Applicant{}).
		Select("major, COUNT(*) AS total").
		Where("project_id = ? AND status = ?", projectID, model.ApplicantApproved).
		Group("major").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.WithStack(err)
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Major] = row.Total
	}
	return counts, nil
}

func (r *applicantRepository) UpdateStatus(ctx context.Context, id uint, from, to model.ApplicantStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Applicant{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, errors.WithStack(res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *applicantRepository) ApproveWithinCapacity(ctx context.Context, projectID, applicantID uint, limits Limits) (*model.Applicant, error) {
	var approved *model.Applicant
	err := withRetry(ctx, func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			// 同一项目的通过操作在项目行锁上排队
			var project model.Project
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Select("id").
				First(&project, projectID).Error
			if err != nil {
				return notFoundOr(err, "项目不存在")
			}

			var a model.Applicant
			err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("project_id = ?", projectID).
				First(&a, applicantID).Error
			if err != nil {
				return notFoundOr(err, "申请不存在")
			}
			if a.Status != model.ApplicantPending {
				return errs.BadRequest(DecidedMessage(a.Status))
			}

			total, err := countApproved(tx, projectID, nil)
			if err != nil {
				return err
			}
			if total >= limits.Total {
				return errs.MaxApplicants("项目通过人数已达上限")
			}
			sameMajor, err := countApproved(tx, projectID, &a.Major)
			if err != nil {
				return err
			}
			if sameMajor >= limits.PerMajor {
				return errs.MaxApplicants("该专业通过人数已达上限")
			}

			res := tx.Model(&model.Applicant{}).
				Where("id = ? AND status = ?", a.ID, model.ApplicantPending).
				Update("status", model.ApplicantApproved)
			if res.Error != nil {
				return errors.WithStack(res.Error)
			}
			if res.RowsAffected != 1 {
				return errs.BadRequest("申请状态已变化，请刷新后重试")
			}
			a.Status = model.ApplicantApproved
			approved = &a
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return approved, nil
}

// DecidedMessage 已处理申请的提示
func DecidedMessage(status model.ApplicantStatus) string {
	switch status {
	case model.ApplicantApproved:
		return "该申请已通过"
	case model.ApplicantRejected:
		return "该申请已拒绝"
	default:
		return "该申请待处理"
	}
}

func (r *applicantRepository) UpdateProfile(ctx context.Context, a *model.Applicant) error {
	res := r.db.WithContext(ctx).Model(a).
		Where("status = ?", a.Status).
		Select("name", "email", "major", "phone", "introduction", "password_hash").
		Updates(a)
	if res.Error != nil {
		return errors.WithStack(res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.BadRequest("申请状态已变化，请刷新后重试")
	}
	return nil
}

func (r *applicantRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Applicant{}, id)
	if res.Error != nil {
		return errors.WithStack(res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NotFound("申请不存在")
	}
	return nil
}
