package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AdmissionTransitions 申请状态操作结果，result 为 ok 或错误类别
	AdmissionTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "recruit",
		Name:      "admission_transitions_total",
		Help:      "Applicant admission operations by action and result.",
	}, []string{"action", "result"})

	// NotificationsSent 通知发送结果
	NotificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "recruit",
		Name:      "notifications_total",
		Help:      "Notification dispatch attempts by kind and result.",
	}, []string{"kind", "result"})

	// RequestDuration 按路由模板统计的请求耗时
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "recruit",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)
