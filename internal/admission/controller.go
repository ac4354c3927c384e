// Package admission 管理申请人的 待处理/通过/拒绝 状态流转
// 调用方需先完成项目权限校验，这里只负责容量约束与状态合法性
package admission

import (
	"context"
	"log/slog"
	"strings"

	"team-recruit/internal/global/errs"
	"team-recruit/internal/global/metrics"
	"team-recruit/internal/model"
	"team-recruit/internal/repository"
	"team-recruit/tools"
)

// Notifier 状态变化的通知，实现方不得阻塞调用方
type Notifier interface {
	Applied(project *model.Project, applicant *model.Applicant)
	StatusChanged(project *model.Project, applicant *model.Applicant)
}

type Controller struct {
	projects   repository.ProjectRepository
	applicants repository.ApplicantRepository
	notifier   Notifier
	limits     repository.Limits
	log        *slog.Logger
}

type Option func(*Controller)

func WithLimits(limits repository.Limits) Option {
	return func(c *Controller) { c.limits = limits }
}

func WithLogger(log *slog.Logger) Option {
	return func(c *Controller) { c.log = log }
}

func NewController(repos *repository.Repositories, notifier Notifier, opts ...Option) *Controller {
	c := &Controller{
		projects:   repos.Projects,
		applicants: repos.Applicants,
		notifier:   notifier,
		limits:     repository.DefaultLimits,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ApplyInput 申请表单
type ApplyInput struct {
	Name         string
	Email        string
	Major        string
	Phone        string
	Introduction string
	Password     string
}

func (in *ApplyInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Major = strings.TrimSpace(in.Major)
	in.Phone = strings.TrimSpace(in.Phone)
	switch {
	case in.Name == "":
		return errs.BadRequest("姓名不能为空")
	case in.Email == "":
		return errs.BadRequest("邮箱不能为空")
	case in.Major == "":
		return errs.BadRequest("专业不能为空")
	case in.Password == "":
		return errs.BadRequest("密码不能为空")
	}
	return nil
}

// Stats 项目当前通过情况
type Stats struct {
	Approved        int64            `json:"approved"`
	MaxApplicants   int64            `json:"max_applicants"`
	ApprovedByMajor map[string]int64 `json:"approved_by_major"`
	MaxPerMajor     int64            `json:"max_per_major"`
}

func record(action string, err error) {
	result := "ok"
	if err != nil {
		result = errs.KindOf(err).String()
	}
	metrics.AdmissionTransitions.WithLabelValues(action, result).Inc()
}

// Apply 公开接口，新申请一律为 PENDING
// 已通过人数达到上限时直接拒绝，新申请本身不占名额
func (c *Controller) Apply(ctx context.Context, projectID uint, in ApplyInput) (a *model.Applicant, err error) {
	defer func() { record("apply", err) }()

	if err := in.normalize(); err != nil {
		return nil, err
	}
	project, err := c.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.Status == model.ProjectClosed {
		return nil, errs.BadRequest("项目已停止招募")
	}

	approved, err := c.applicants.CountApproved(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if approved >= c.limits.Total {
		return nil, errs.MaxApplicants("项目通过人数已达上限")
	}

	hash, err := tools.PasswordEncrypt(in.Password)
	if err != nil {
		return nil, err
	}
	a = &model.Applicant{
		ProjectID:    projectID,
		Name:         in.Name,
		Email:        in.Email,
		Major:        in.Major,
		Phone:        in.Phone,
		Introduction: in.Introduction,
		Status:       model.ApplicantPending,
		PasswordHash: hash,
	}
	if err := c.applicants.Create(ctx, a); err != nil {
		return nil, err
	}

	c.log.Info("收到新申请", "project_id", projectID, "applicant_id", a.ID, "major", a.Major)
	c.notifier.Applied(project, a)
	return a, nil
}

// load 申请不属于该项目时与不存在同等处理
func (c *Controller) load(ctx context.Context, projectID, applicantID uint) (*model.Project, *model.Applicant, error) {
	project, err := c.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}
	a, err := c.applicants.FindByID(ctx, applicantID)
	if err != nil {
		return nil, nil, err
	}
	if a.ProjectID != project.ID {
		return nil, nil, errs.NotFound("申请不存在")
	}
	return project, a, nil
}

// Accept PENDING -> APPROVED，受总人数与同专业人数上限约束
func (c *Controller) Accept(ctx context.Context, projectID, applicantID uint) (a *model.Applicant, err error) {
	defer func() { record("accept", err) }()

	project, a, err := c.load(ctx, projectID, applicantID)
	if err != nil {
		return nil, err
	}
	if a.Status != model.ApplicantPending {
		return nil, errs.BadRequest(repository.DecidedMessage(a.Status))
	}

	// 计数与写入在同一事务内完成，这里读到的状态只用于快速失败
	a, err = c.applicants.ApproveWithinCapacity(ctx, projectID, applicantID, c.limits)
	if err != nil {
		if errs.KindOf(err) == errs.KindMaxApplicants {
			c.log.Info("通过人数已满", "project_id", projectID, "applicant_id", applicantID, "reason", errs.MessageOf(err))
		}
		return nil, err
	}

	c.log.Info("申请已通过", "project_id", projectID, "applicant_id", applicantID, "major", a.Major)
	c.notifier.StatusChanged(project, a)
	return a, nil
}

// Reject 只允许 PENDING -> REJECTED
func (c *Controller) Reject(ctx context.Context, projectID, applicantID uint) (a *model.Applicant, err error) {
	defer func() { record("reject", err) }()

	project, a, err := c.load(ctx, projectID, applicantID)
	if err != nil {
		return nil, err
	}
	if a.Status != model.ApplicantPending {
		return nil, errs.BadRequest(repository.DecidedMessage(a.Status))
	}
	if err := c.transit(ctx, a, model.ApplicantRejected); err != nil {
		return nil, err
	}

	c.log.Info("申请已拒绝", "project_id", projectID, "applicant_id", applicantID)
	c.notifier.StatusChanged(project, a)
	return a, nil
}

// Pending 撤销决定，APPROVED/REJECTED -> PENDING
func (c *Controller) Pending(ctx context.Context, projectID, applicantID uint) (a *model.Applicant, err error) {
	defer func() { record("pending", err) }()

	project, a, err := c.load(ctx, projectID, applicantID)
	if err != nil {
		return nil, err
	}
	if a.Status == model.ApplicantPending {
		return nil, errs.BadRequest("该申请已处于待处理状态")
	}
	if err := c.transit(ctx, a, model.ApplicantPending); err != nil {
		return nil, err
	}

	c.log.Info("申请已重置为待处理", "project_id", projectID, "applicant_id", applicantID)
	c.notifier.StatusChanged(project, a)
	return a, nil
}

func (c *Controller) transit(ctx context.Context, a *model.Applicant, to model.ApplicantStatus) error {
	ok, err := c.applicants.UpdateStatus(ctx, a.ID, a.Status, to)
	if err != nil {
		return err
	}
	if !ok {
		return errs.BadRequest("申请状态已变化，请刷新后重试")
	}
	a.Status = to
	return nil
}

// Stats 当前通过人数，用于项目详情展示
func (c *Controller) Stats(ctx context.Context, projectID uint) (*Stats, error) {
	byMajor, err := c.applicants.ApprovedMajorCounts(ctx, projectID)
	if err != nil {
		return nil, err
	}
	var total int64
	for _, n := range byMajor {
		total += n
	}
	return &Stats{
		Approved:        total,
		MaxApplicants:   c.limits.Total,
		ApprovedByMajor: byMajor,
		MaxPerMajor:     c.limits.PerMajor,
	}, nil
}
