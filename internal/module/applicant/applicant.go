package applicant

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"team-recruit/internal/admission"
	"team-recruit/internal/global/middleware"
	"team-recruit/internal/global/response"
	"team-recruit/internal/model"
	"team-recruit/tools"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// PasswordHeader 申请人密码，DELETE 请求不便带请求体时使用
const PasswordHeader = "X-Applicant-Password"

type ApplyReq struct {
	Name         string `json:"name" binding:"required,max=50"`
	Email        string `json:"email" binding:"required,email,max=100"`
	Major        string `json:"major" binding:"required,max=50"`
	Phone        string `json:"phone" binding:"max=30"`
	Introduction string `json:"introduction"`
	Password     string `json:"password" binding:"required,min=4,max=72"` // 之后修改或撤回申请时使用
}

type UpdateSelfReq struct {
	Password     string  `json:"password"`
	Name         *string `json:"name" binding:"omitempty,max=50"`
	Email        *string `json:"email" binding:"omitempty,email,max=100"`
	Major        *string `json:"major" binding:"omitempty,max=50"`
	Phone        *string `json:"phone" binding:"omitempty,max=30"`
	Introduction *string `json:"introduction"`
	NewPassword  *string `json:"new_password" binding:"omitempty,min=4,max=72"`
}

type DeleteSelfReq struct {
	Password string `json:"password"`
}

func applicantID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("aid"), 10, 64)
	if err != nil || id == 0 {
		response.Fail(c, response.ErrInvalidRequest.WithTips("申请编号错误"))
		return 0, false
	}
	return uint(id), true
}

func ids(c *gin.Context) (uint, uint, bool) {
	projectID, ok := middleware.ProjectID(c)
	if !ok {
		return 0, 0, false
	}
	aid, ok := applicantID(c)
	return projectID, aid, ok
}

// Apply 公开的申请入口
func (m *ModuleApplicant) Apply(c *gin.Context) {
	projectID, ok := middleware.ProjectID(c)
	if !ok {
		return
	}
	var req ApplyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("绑定申请请求失败", "error", err, "project_id", projectID)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	a, err := m.Admission.Apply(c.Request.Context(), projectID, admission.ApplyInput{
		Name:         req.Name,
		Email:        req.Email,
		Major:        req.Major,
		Phone:        req.Phone,
		Introduction: req.Introduction,
		Password:     req.Password,
	})
	if err != nil {
		log.Info("申请失败", "error", err, "project_id", projectID)
		response.Fail(c, err)
		return
	}
	response.Success(c, a)
}

type transition func(ctx context.Context, projectID, applicantID uint) (*model.Applicant, error)

func (m *ModuleApplicant) transit(c *gin.Context, action string, fn transition) {
	projectID, aid, ok := ids(c)
	if !ok {
		return
	}
	a, err := fn(c.Request.Context(), projectID, aid)
	if err != nil {
		log.Info("申请状态变更失败", "action", action, "error", err, "project_id", projectID, "applicant_id", aid)
		response.Fail(c, err)
		return
	}
	response.Success(c, a)
}

// Accept 通过申请
func (m *ModuleApplicant) Accept(c *gin.Context) {
	m.transit(c, "accept", m.Admission.Accept)
}

// Reject 拒绝申请
func (m *ModuleApplicant) Reject(c *gin.Context) {
	m.transit(c, "reject", m.Admission.Reject)
}

// Pending 撤销已做出的决定
func (m *ModuleApplicant) Pending(c *gin.Context) {
	m.transit(c, "pending", m.Admission.Pending)
}

// ListApplicants 有项目权限时返回完整信息，否则只返回公开字段
func (m *ModuleApplicant) ListApplicants(c *gin.Context) {
	projectID, ok := middleware.ProjectID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	list, err := m.Admission.List(ctx, projectID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	allowed, err := m.Authorizer.VerifyPermission(ctx, projectID, middleware.Credentials(c, projectID))
	if err != nil {
		response.Fail(c, err)
		return
	}
	if allowed {
		response.Success(c, list)
		return
	}

	public := make([]model.PublicApplicant, 0, len(list))
	for i := range list {
		public = append(public, list[i].Public())
	}
	response.Success(c, public)
}

// ExportApplicants 导出申请人表格
func (m *ModuleApplicant) ExportApplicants(c *gin.Context) {
	projectID, _ := middleware.ProjectID(c)

	list, err := m.Admission.List(c.Request.Context(), projectID)
	if err != nil {
		response.Fail(c, err)
		return
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.Warn("关闭表格失败", "error", err)
		}
	}()
	if err := tools.ExportToExcel(f, "申请人", list); err != nil {
		log.Error("导出申请人失败", "error", err, "project_id", projectID)
		response.Fail(c, response.ErrInternal.WithOrigin(err))
		return
	}
	if idx, err := f.GetSheetIndex("Sheet1"); err == nil && idx != -1 {
		_ = f.DeleteSheet("Sheet1")
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		log.Error("生成表格失败", "error", err, "project_id", projectID)
		response.Fail(c, response.ErrInternal.WithOrigin(err))
		return
	}

	name := fmt.Sprintf("project_%d_applicants_%s.xlsx", projectID, time.Now().Format("20060102"))
	tools.SendFileBytes(c, buf.Bytes(), name, tools.ExcelContentType)
}

func selfPassword(c *gin.Context, body string) string {
	if body != "" {
		return body
	}
	return c.GetHeader(PasswordHeader)
}

// UpdateSelf 申请人修改自己的申请
func (m *ModuleApplicant) UpdateSelf(c *gin.Context) {
	projectID, aid, ok := ids(c)
	if !ok {
		return
	}
	var req UpdateSelfReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	password := selfPassword(c, req.Password)
	if password == "" {
		response.Fail(c, response.ErrUnauthorized.WithTips("请输入申请密码"))
		return
	}

	a, err := m.Admission.UpdateProfile(c.Request.Context(), projectID, aid, password, admission.ProfileInput{
		Name:         req.Name,
		Email:        req.Email,
		Major:        req.Major,
		Phone:        req.Phone,
		Introduction: req.Introduction,
		NewPassword:  req.NewPassword,
	})
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, a)
}

// DeleteSelf 申请人撤回申请
func (m *ModuleApplicant) DeleteSelf(c *gin.Context) {
	projectID, aid, ok := ids(c)
	if !ok {
		return
	}
	var req DeleteSelfReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
			return
		}
	}
	password := selfPassword(c, req.Password)
	if password == "" {
		response.Fail(c, response.ErrUnauthorized.WithTips("请输入申请密码"))
		return
	}

	if err := m.Admission.Withdraw(c.Request.Context(), projectID, aid, password); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c)
}
