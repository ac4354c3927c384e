package project

import (
	"strings"

	"team-recruit/internal/global/middleware"
	"team-recruit/internal/global/response"
	"team-recruit/internal/model"
	"team-recruit/internal/repository"
	"team-recruit/tools"

	"github.com/gin-gonic/gin"
)

const maxPageSize = 50

// ProjectCreateReq 创建项目，password 为之后管理项目的密码
type ProjectCreateReq struct {
	Name          string             `json:"name" binding:"required,max=100"`
	Summary       string             `json:"summary" binding:"max=255"`
	Content       string             `json:"content"`
	Keywords      []string           `json:"keywords"`
	Attachments   []string           `json:"attachments"`
	Password      string             `json:"password" binding:"required,min=4,max=72"`
	ProposerName  string             `json:"proposer_name" binding:"required,max=50"`
	ProposerType  model.ProposerType `json:"proposer_type" binding:"required"`
	ProposerMajor string             `json:"proposer_major"`
	ProposerEmail string             `json:"proposer_email" binding:"required,email"`
	ProposerPhone string             `json:"proposer_phone"`
}

// ProjectUpdateReq 指针字段支持部分更新
type ProjectUpdateReq struct {
	Name          *string              `json:"name" binding:"omitempty,max=100"`
	Summary       *string              `json:"summary" binding:"omitempty,max=255"`
	Content       *string              `json:"content"`
	Keywords      *[]string            `json:"keywords"`
	Attachments   *[]string            `json:"attachments"`
	NewPassword   *string              `json:"new_password" binding:"omitempty,max=72"` // 修改项目密码，已签发的会话随之失效
	ProposerName  *string              `json:"proposer_name" binding:"omitempty,max=50"`
	ProposerType  *model.ProposerType  `json:"proposer_type"`
	ProposerMajor *string              `json:"proposer_major" binding:"omitempty,max=50"`
	ProposerEmail *string              `json:"proposer_email" binding:"omitempty,email"`
	ProposerPhone *string              `json:"proposer_phone" binding:"omitempty,max=30"`
	Status        *model.ProjectStatus `json:"status"`
}

type ListProjectsReq struct {
	Status   model.ProjectStatus `form:"status"`
	Keyword  string              `form:"keyword"`
	Page     int                 `form:"page"`
	PageSize int                 `form:"page_size"`
}

type ListProjectsResp struct {
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
	Projects []model.Project `json:"projects"`
}

func cleanKeywords(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, k := range in {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// CreateProject 创建项目，成功后直接签发会话 Cookie
func (p *ModuleProject) CreateProject(c *gin.Context) {
	var req ProjectCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("绑定创建项目请求失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	if !req.ProposerType.Valid() {
		response.Fail(c, response.ErrInvalidRequest.WithTips("发起人类型错误"))
		return
	}

	hash, err := tools.PasswordEncrypt(req.Password)
	if err != nil {
		log.Warn("密码加密失败", "error", err)
		response.Fail(c, err)
		return
	}
	project := &model.Project{
		Name:          strings.TrimSpace(req.Name),
		Summary:       req.Summary,
		Content:       req.Content,
		Keywords:      cleanKeywords(req.Keywords),
		Attachments:   req.Attachments,
		PasswordHash:  hash,
		ProposerName:  req.ProposerName,
		ProposerType:  req.ProposerType,
		ProposerMajor: req.ProposerMajor,
		ProposerEmail: req.ProposerEmail,
		ProposerPhone: req.ProposerPhone,
		Status:        model.ProjectRecruiting,
	}
	if project.Attachments == nil {
		project.Attachments = []string{}
	}
	if err := p.Repos.Projects.Create(c.Request.Context(), project); err != nil {
		log.Error("创建项目失败", "error", err, "name", req.Name)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	if cookie, err := p.Authorizer.IssueSessionCredential(project.ID, req.Password); err == nil {
		setCookie(c, cookie)
	} else {
		log.Error("签发会话失败", "error", err, "project_id", project.ID)
	}

	log.Info("项目创建成功", "project_id", project.ID, "name", project.Name, "proposer", project.ProposerName)
	response.Success(c, project)
}

// ListProjects 公开的项目列表
func (p *ModuleProject) ListProjects(c *gin.Context) {
	var req ListProjectsReq
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	if req.Status != "" && !req.Status.Valid() {
		response.Fail(c, response.ErrInvalidRequest.WithTips("项目状态错误"))
		return
	}
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 10
	}
	if req.PageSize > maxPageSize {
		req.PageSize = maxPageSize
	}

	projects, total, err := p.Repos.Projects.List(c.Request.Context(), repository.ProjectFilter{
		Status:   req.Status,
		Keyword:  strings.TrimSpace(req.Keyword),
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		log.Error("查询项目列表失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, ListProjectsResp{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Projects: projects,
	})
}

type ProjectDetailResp struct {
	*model.Project
	Approved        int64            `json:"approved"`
	MaxApplicants   int64            `json:"max_applicants"`
	ApprovedByMajor map[string]int64 `json:"approved_by_major"`
	MaxPerMajor     int64            `json:"max_per_major"`
}

// GetProject 项目详情，附带当前通过人数
func (p *ModuleProject) GetProject(c *gin.Context) {
	id, ok := middleware.ProjectID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	project, err := p.Repos.Projects.FindByID(ctx, id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	if p.countView(c, id) {
		project.Views++
	}

	stats, err := p.Admission.Stats(ctx, id)
	if err != nil {
		log.Error("查询通过人数失败", "error", err, "project_id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, ProjectDetailResp{
		Project:         project,
		Approved:        stats.Approved,
		MaxApplicants:   stats.MaxApplicants,
		ApprovedByMajor: stats.ApprovedByMajor,
		MaxPerMajor:     stats.MaxPerMajor,
	})
}

// UpdateProject 需要项目管理权限
func (p *ModuleProject) UpdateProject(c *gin.Context) {
	id, _ := middleware.ProjectID(c)
	var req ProjectUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	ctx := c.Request.Context()

	project, err := p.Repos.Projects.FindByID(ctx, id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	if err := applyUpdate(project, &req); err != nil {
		response.Fail(c, err)
		return
	}
	if req.NewPassword != nil {
		hash, err := tools.PasswordEncrypt(*req.NewPassword)
		if err != nil {
			response.Fail(c, err)
			return
		}
		project.PasswordHash = hash
	}

	if err := p.Repos.Projects.Update(ctx, project); err != nil {
		log.Error("更新项目失败", "error", err, "project_id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	if req.NewPassword != nil {
		if cookie, err := p.Authorizer.IssueSessionCredential(id, *req.NewPassword); err == nil {
			setCookie(c, cookie)
		}
	}

	log.Info("项目更新成功", "project_id", id, "status", project.Status)
	response.Success(c, project)
}

func applyUpdate(project *model.Project, req *ProjectUpdateReq) error {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return response.ErrInvalidRequest.WithTips("项目名称不能为空")
		}
		project.Name = name
	}
	if req.Summary != nil {
		project.Summary = *req.Summary
	}
	if req.Content != nil {
		project.Content = *req.Content
	}
	if req.Keywords != nil {
		project.Keywords = cleanKeywords(*req.Keywords)
	}
	if req.Attachments != nil {
		project.Attachments = *req.Attachments
	}
	if req.NewPassword != nil && len(*req.NewPassword) < 4 {
		return response.ErrInvalidRequest.WithTips("密码至少 4 位")
	}
	if req.ProposerName != nil {
		project.ProposerName = *req.ProposerName
	}
	if req.ProposerType != nil {
		if !req.ProposerType.Valid() {
			return response.ErrInvalidRequest.WithTips("发起人类型错误")
		}
		project.ProposerType = *req.ProposerType
	}
	if req.ProposerMajor != nil {
		project.ProposerMajor = *req.ProposerMajor
	}
	if req.ProposerEmail != nil {
		if *req.ProposerEmail == "" {
			return response.ErrInvalidRequest.WithTips("邮箱不能为空")
		}
		project.ProposerEmail = *req.ProposerEmail
	}
	if req.ProposerPhone != nil {
		project.ProposerPhone = *req.ProposerPhone
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return response.ErrInvalidRequest.WithTips("项目状态错误")
		}
		project.Status = *req.Status
	}
	return nil
}

// DeleteProject 同时删除项目下的全部申请
func (p *ModuleProject) DeleteProject(c *gin.Context) {
	id, _ := middleware.ProjectID(c)
	if err := p.Repos.Projects.DeleteCascade(c.Request.Context(), id); err != nil {
		log.Error("删除项目失败", "error", err, "project_id", id)
		response.Fail(c, err)
		return
	}
	setCookie(c, p.Authorizer.RevokeSessionCredential(id))

	log.Info("项目已删除", "project_id", id)
	response.Success(c)
}
