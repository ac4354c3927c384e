package project

import (
	"net/http"
	"path/filepath"
	"strings"

	"team-recruit/internal/global/middleware"
	"team-recruit/internal/global/response"
	"team-recruit/internal/global/storage"

	"github.com/gin-gonic/gin"
)

// maxAttachmentSize 经由后端上传的附件大小上限
const maxAttachmentSize = 20 << 20

var allowedExt = map[string]bool{
	".pdf": true, ".doc": true, ".docx": true, ".ppt": true, ".pptx": true,
	".xls": true, ".xlsx": true, ".zip": true, ".png": true, ".jpg": true,
	".jpeg": true, ".gif": true, ".webp": true, ".txt": true, ".md": true,
}

type PresignReq struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

func checkExt(filename string) bool {
	return allowedExt[strings.ToLower(filepath.Ext(filename))]
}

// PresignAttachment 前端拿到预签名地址后直传对象存储
func (p *ModuleProject) PresignAttachment(c *gin.Context) {
	if p.Storage == nil {
		response.Fail(c, response.ErrNotFound.WithTips("未启用附件存储"))
		return
	}
	id, _ := middleware.ProjectID(c)
	var req PresignReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	if !checkExt(req.Filename) {
		response.Fail(c, response.ErrInvalidRequest.WithTips("不支持的文件类型"))
		return
	}

	resp, err := p.Storage.Presign(c.Request.Context(), id, storage.PresignRequest{
		Filename:    req.Filename,
		ContentType: req.ContentType,
		ExpiresIn:   req.ExpiresIn,
	})
	if err != nil {
		log.Error("生成预签名地址失败", "error", err, "project_id", id)
		response.Fail(c, response.ErrInternal.WithOrigin(err))
		return
	}
	response.Success(c, resp)
}

// UploadAttachment 上传附件并追加到项目附件列表
func (p *ModuleProject) UploadAttachment(c *gin.Context) {
	if p.Storage == nil {
		response.Fail(c, response.ErrNotFound.WithTips("未启用附件存储"))
		return
	}
	id, _ := middleware.ProjectID(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxAttachmentSize+1<<20)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithTips("请选择文件").WithOrigin(err))
		return
	}
	if fileHeader.Size > maxAttachmentSize {
		response.Fail(c, response.ErrInvalidRequest.WithTips("文件不能超过 20MB"))
		return
	}
	if !checkExt(fileHeader.Filename) {
		response.Fail(c, response.ErrInvalidRequest.WithTips("不支持的文件类型"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	defer file.Close()

	ctx := c.Request.Context()
	if _, err := p.Repos.Projects.FindByID(ctx, id); err != nil {
		response.Fail(c, err)
		return
	}

	url, err := p.Storage.Upload(ctx, id, fileHeader.Filename, fileHeader.Header.Get("Content-Type"), file)
	if err != nil {
		log.Error("上传附件失败", "error", err, "project_id", id)
		response.Fail(c, response.ErrInternal.WithOrigin(err))
		return
	}

	attachments, err := p.Repos.Projects.AppendAttachment(ctx, id, url)
	if err != nil {
		log.Error("保存附件失败", "error", err, "project_id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	log.Info("附件上传成功", "project_id", id, "url", url)
	response.Success(c, gin.H{"url": url, "attachments": attachments})
}
