package admission

import (
	"context"
	"strings"

	"team-recruit/internal/global/errs"
	"team-recruit/internal/model"
	"team-recruit/tools"
)

// List 项目下全部申请
func (c *Controller) List(ctx context.Context, projectID uint) ([]model.Applicant, error) {
	if _, err := c.projects.FindByID(ctx, projectID); err != nil {
		return nil, err
	}
	return c.applicants.ListByProject(ctx, projectID)
}

// ProfileInput 申请人修改自己的申请，空字段不修改
type ProfileInput struct {
	Name         *string
	Email        *string
	Major        *string
	Phone        *string
	Introduction *string
	NewPassword  *string
}

// authenticate 用申请人自己的密码校验，与项目密码无关
func (c *Controller) authenticate(ctx context.Context, projectID, applicantID uint, password string) (*model.Project, *model.Applicant, error) {
	project, a, err := c.load(ctx, projectID, applicantID)
	if err != nil {
		return nil, nil, err
	}
	if !tools.PasswordCompare(password, a.PasswordHash) {
		return nil, nil, errs.Unauthorized("申请密码错误")
	}
	return project, a, nil
}

// UpdateProfile 已有结果的申请不能修改专业，否则会绕过专业人数上限
func (c *Controller) UpdateProfile(ctx context.Context, projectID, applicantID uint, password string, in ProfileInput) (*model.Applicant, error) {
	_, a, err := c.authenticate(ctx, projectID, applicantID, password)
	if err != nil {
		return nil, err
	}

	if in.Major != nil {
		major := strings.TrimSpace(*in.Major)
		if major == "" {
			return nil, errs.BadRequest("专业不能为空")
		}
		if major != a.Major && a.Status != model.ApplicantPending {
			return nil, errs.BadRequest("申请已处理，不能修改专业")
		}
		a.Major = major
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, errs.BadRequest("姓名不能为空")
		}
		a.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		if strings.TrimSpace(*in.Email) == "" {
			return nil, errs.BadRequest("邮箱不能为空")
		}
		a.Email = strings.TrimSpace(*in.Email)
	}
	if in.Phone != nil {
		a.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Introduction != nil {
		a.Introduction = *in.Introduction
	}
	if in.NewPassword != nil && *in.NewPassword != "" {
		hash, err := tools.PasswordEncrypt(*in.NewPassword)
		if err != nil {
			return nil, err
		}
		a.PasswordHash = hash
	}

	if err := c.applicants.UpdateProfile(ctx, a); err != nil {
		return nil, err
	}
	c.log.Info("申请人修改申请", "project_id", projectID, "applicant_id", applicantID)
	return a, nil
}

// Withdraw 申请人撤回申请，已通过的名额随之释放
func (c *Controller) Withdraw(ctx context.Context, projectID, applicantID uint, password string) error {
	_, a, err := c.authenticate(ctx, projectID, applicantID, password)
	if err != nil {
		return err
	}
	if err := c.applicants.Delete(ctx, a.ID); err != nil {
		return err
	}
	c.log.Info("申请人撤回申请", "project_id", projectID, "applicant_id", applicantID, "status", a.Status)
	return nil
}
