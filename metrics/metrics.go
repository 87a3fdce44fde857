package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTPRequests 按路由和状态码统计的请求数
var HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "budget",
	Name:      "http_requests_total",
	Help:      "HTTP requests by method, route and status code.",
}, []string{"method", "route", "status"})

// HTTPLatency 请求耗时分布
var HTTPLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "budget",
	Name:      "http_request_duration_seconds",
	Help:      "HTTP request latency by method and route.",
	Buckets:   prometheus.DefBuckets,
}, []string{"method", "route"})

// BudgetsCreated 创建成功的预算数，carry_forward 标识是否沿用上月余额
var BudgetsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "budget",
	Name:      "budgets_created_total",
	Help:      "Budgets created, partitioned by carry-forward.",
}, []string{"carry_forward"})

// BudgetConflicts 创建预算被拒绝的次数
var BudgetConflicts = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "budget",
	Name:      "budget_conflicts_total",
	Help:      "Budget creations rejected by a business rule.",
}, []string{"reason"})

// StatisticsComputed 统计计算次数
var StatisticsComputed = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "budget",
	Name:      "statistics_computed_total",
	Help:      "Budget statistics aggregations.",
})

// 冲突原因标签
const (
	ReasonMonthTaken = "month_taken"
	ReasonNoPrevious = "no_previous"
)

// GinMiddleware 记录请求数和耗时，路由使用注册时的模板避免标签基数膨胀
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPLatency.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
