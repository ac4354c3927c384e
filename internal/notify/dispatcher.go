// Package notify 发送申请相关的邮件通知
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"team-recruit/config"
	"team-recruit/internal/global/metrics"
	"team-recruit/internal/model"

	"github.com/go-resty/resty/v2"
)

const defaultTimeout = 10 * time.Second

// Message 邮件服务接口的请求体
type Message struct {
	From    string `json:"from,omitempty"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

// Dispatcher 异步发送，失败只记日志
type Dispatcher struct {
	client  *resty.Client
	cfg     config.Mail
	log     *slog.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewDispatcher(client *resty.Client, cfg config.Mail, log *slog.Logger) *Dispatcher {
	return &Dispatcher{
		client:  client,
		cfg:     cfg,
		log:     log,
		timeout: defaultTimeout,
	}
}

// Applied 通知项目发起人有新申请
func (d *Dispatcher) Applied(project *model.Project, a *model.Applicant) {
	text := fmt.Sprintf("%s（%s）申请加入项目「%s」。\n邮箱：%s\n自我介绍：%s",
		a.Name, a.Major, project.Name, a.Email, a.Introduction)
	if link := d.projectLink(project); link != "" {
		text += "\n" + link
	}
	d.send("applied", Message{
		To:      project.ProposerEmail,
		Subject: fmt.Sprintf("「%s」收到新的申请", project.Name),
		Text:    text,
	})
}

// StatusChanged 通知申请人状态变化
func (d *Dispatcher) StatusChanged(project *model.Project, a *model.Applicant) {
	var verdict string
	switch a.Status {
	case model.ApplicantApproved:
		verdict = "已通过"
	case model.ApplicantRejected:
		verdict = "未通过"
	default:
		verdict = "已重新进入待处理"
	}
	text := fmt.Sprintf("%s，你对项目「%s」的申请%s。", a.Name, project.Name, verdict)
	if link := d.projectLink(project); link != "" {
		text += "\n" + link
	}
	d.send("status_changed", Message{
		To:      a.Email,
		Subject: fmt.Sprintf("「%s」申请结果：%s", project.Name, verdict),
		Text:    text,
	})
}

func (d *Dispatcher) projectLink(project *model.Project) string {
	if d.cfg.SiteURL == "" {
		return ""
	}
	return fmt.Sprintf("%s/projects/%d", strings.TrimRight(d.cfg.SiteURL, "/"), project.ID)
}

func (d *Dispatcher) send(kind string, msg Message) {
	if msg.To == "" {
		d.log.Warn("通知缺少收件人", "kind", kind)
		metrics.NotificationsSent.WithLabelValues(kind, "skipped").Inc()
		return
	}
	if d.cfg.Endpoint == "" {
		d.log.Info("未配置邮件服务，跳过发送", "kind", kind, "to", msg.To, "subject", msg.Subject)
		metrics.NotificationsSent.WithLabelValues(kind, "skipped").Inc()
		return
	}
	msg.From = d.cfg.From

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				d.log.Error("发送通知时发生panic", "kind", kind, "panic", r)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		req := d.client.R().SetContext(ctx).SetBody(msg)
		if d.cfg.APIKey != "" {
			req.SetAuthToken(d.cfg.APIKey)
		}
		resp, err := req.Post(d.cfg.Endpoint)
		if err != nil {
			d.log.Warn("发送通知失败", "kind", kind, "to", msg.To, "error", err)
			metrics.NotificationsSent.WithLabelValues(kind, "error").Inc()
			return
		}
		if resp.IsError() {
			d.log.Warn("邮件服务返回错误", "kind", kind, "to", msg.To, "status", resp.StatusCode(), "body", resp.String())
			metrics.NotificationsSent.WithLabelValues(kind, "error").Inc()
			return
		}
		d.log.Debug("通知已发送", "kind", kind, "to", msg.To)
		metrics.NotificationsSent.WithLabelValues(kind, "ok").Inc()
	}()
}

// Wait 等待已发出的通知结束，用于退出前
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
