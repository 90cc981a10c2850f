// Package metrics 提供基于Prometheus的指标收集
//
// # 指标类型
//
//   - Counter：只增不减的累计值（借阅总数、请求总数）
//   - Gauge：可增可减的瞬时值（正在处理的请求数、熔断器状态）
//   - Histogram：观测值分布（请求耗时）
//
// # 使用方式
//
// 所有指标在包初始化时创建但不注册，测试中可直接调用Inc/Observe。
// 服务启动时调用Register把指标挂到Registry上，再通过promhttp暴露/metrics：
//
//	metrics.Register(prometheus.DefaultRegisterer)
//	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var registerOnce sync.Once

var (
	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数
	// 标签：method、path（路由模板，如/api/books/:id）、status
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration HTTP请求耗时
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP请求耗时（秒）",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	// HTTPRequestsInProgress 正在处理的HTTP请求数
	HTTPRequestsInProgress = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		},
	)

	// 借阅业务指标

	// LendingOperationsTotal 借还/预约操作总数
	// 标签：operation（borrow/return/reserve/cancel/fulfill/expire）、result（success/failure）
	LendingOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "library_lending_operations_total",
			Help: "借阅、归还、预约操作总数",
		},
		[]string{"operation", "result"},
	)

	// CommentLikesTotal 点赞/取消点赞总数
	CommentLikesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "library_comment_likes_total",
			Help: "评论点赞操作总数",
		},
		[]string{"action"},
	)

	// 熔断器指标

	// CircuitBreakerState 熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）
	CircuitBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
		},
		[]string{"name"},
	)

	// CircuitBreakerRequests 熔断器请求总数
	// 标签：name、result（success/failure/rejected）
	CircuitBreakerRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "熔断器请求总数",
		},
		[]string{"name", "result"},
	)

	// Saga指标

	// SagaExecutionsTotal Saga执行总数
	// 标签：saga（borrow/return/like）、result（success/failure）
	SagaExecutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "saga_executions_total",
			Help: "Saga执行总数",
		},
		[]string{"saga", "result"},
	)

	// SagaCompensationsTotal Saga补偿执行总数
	// 标签：saga、result（success/failure）
	SagaCompensationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "saga_compensations_total",
			Help: "Saga补偿执行总数",
		},
		[]string{"saga", "result"},
	)

	// 消息队列指标

	// MessagesPublishedTotal 消息发布总数
	MessagesPublishedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_published_total",
			Help: "消息发布总数",
		},
		[]string{"exchange", "routing_key"},
	)

	// MessagesConsumedTotal 消息消费总数
	MessagesConsumedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_consumed_total",
			Help: "消息消费总数",
		},
		[]string{"queue", "result"},
	)
)

// Register 把所有指标注册到reg（只执行一次）
func Register(reg prometheus.Registerer) {
	registerOnce.Do(func() {
		reg.MustRegister(
			HTTPRequestsTotal,
			HTTPRequestDuration,
			HTTPRequestsInProgress,
			LendingOperationsTotal,
			CommentLikesTotal,
			CircuitBreakerState,
			CircuitBreakerRequests,
			SagaExecutionsTotal,
			SagaCompensationsTotal,
			MessagesPublishedTotal,
			MessagesConsumedTotal,
		)
	})
}

// Result 把error转换为result标签值
func Result(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}

// ObserveLending 记录一次借还/预约操作
func ObserveLending(operation string, err error) {
	LendingOperationsTotal.WithLabelValues(operation, Result(err)).Inc()
}
