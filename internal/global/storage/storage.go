// Package storage 项目附件的对象存储
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"team-recruit/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	defaultExpires     = 15 * time.Minute
	maxExpires         = time.Hour
	defaultContentType = "application/octet-stream"
)

// Storage S3 兼容的对象存储
type Storage struct {
	cfg       config.S3
	client    *s3.Client
	uploader  *manager.Uploader
	presigner *s3.PresignClient
}

// New 未配置 bucket 时返回 nil，附件功能随之关闭
func New(ctx context.Context, cfg config.S3) (*Storage, error) {
	if cfg.Bucket == "" {
		return nil, nil
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "加载 S3 配置失败")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})
	return &Storage{
		cfg:       cfg,
		client:    client,
		uploader:  manager.NewUploader(client),
		presigner: s3.NewPresignClient(client),
	}, nil
}

// PresignRequest 预签名上传参数
type PresignRequest struct {
	Filename    string
	ContentType string
	ExpiresIn   int64 // 秒
}

// PresignResponse 前端据此直传
type PresignResponse struct {
	UploadURL string            `json:"upload_url"`
	FileKey   string            `json:"file_key"`
	FileURL   string            `json:"file_url"`
	ExpiresAt time.Time         `json:"expires_at"`
	Method    string            `json:"method"`
	Headers   map[string]string `json:"headers"`
}

// ObjectKey 形如 {prefix}/projects/{id}/{uuid}{ext}
func (s *Storage) ObjectKey(projectID uint, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	key := path.Join(strings.Trim(s.cfg.Prefix, "/"), "projects", fmt.Sprint(projectID), uuid.NewString()+ext)
	return strings.TrimLeft(key, "/")
}

// URL 对象的公开访问地址
func (s *Storage) URL(key string) string {
	base := strings.TrimRight(s.cfg.BaseURL, "/")
	if base == "" {
		base = strings.TrimRight(s.cfg.Endpoint, "/") + "/" + s.cfg.Bucket
	}
	return base + "/" + key
}

// Presign 生成 PUT 预签名地址
func (s *Storage) Presign(ctx context.Context, projectID uint, req PresignRequest) (*PresignResponse, error) {
	if req.Filename == "" {
		return nil, errors.New("文件名不能为空")
	}
	expires := time.Duration(req.ExpiresIn) * time.Second
	if expires <= 0 {
		expires = defaultExpires
	}
	if expires > maxExpires {
		expires = maxExpires
	}
	contentType := req.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}

	key := s.ObjectKey(projectID, req.Filename)
	presigned, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return nil, errors.Wrap(err, "生成预签名 URL 失败")
	}

	headers := map[string]string{"Content-Type": contentType}
	for k, v := range presigned.SignedHeader {
		if len(v) > 0 && !strings.EqualFold(k, "host") {
			headers[k] = v[0]
		}
	}
	return &PresignResponse{
		UploadURL: presigned.URL,
		FileKey:   key,
		FileURL:   s.URL(key),
		ExpiresAt: time.Now().Add(expires),
		Method:    presigned.Method,
		Headers:   headers,
	}, nil
}

// Upload 经由后端中转上传，返回访问地址
func (s *Storage) Upload(ctx context.Context, projectID uint, filename, contentType string, body io.Reader) (string, error) {
	if contentType == "" {
		contentType = defaultContentType
	}
	key := s.ObjectKey(projectID, filename)
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", errors.Wrap(err, "上传附件失败")
	}
	return s.URL(key), nil
}
