package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/amoylab/toolserver/internal/common/config"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry     *prometheus.Registry
	httpReqCnt   *prometheus.CounterVec
	httpDur      *prometheus.HistogramVec
	httpInfl     *prometheus.GaugeVec
	rpcReqCnt    *prometheus.CounterVec
	rpcReqDur    *prometheus.HistogramVec
	rpcReqInfl   *prometheus.GaugeVec
	rpcErrCnt    *prometheus.CounterVec
	toolExecCnt  *prometheus.CounterVec
	toolExecDur  *prometheus.HistogramVec
	toolExecInfl *prometheus.GaugeVec
}

func New(cfg config.MetricsConfig) *Metrics {
	ns := cfg.Namespace
	r := prometheus.NewRegistry()
	r.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	r.MustRegister(collectors.NewGoCollector())

	m := &Metrics{
		registry:     r,
		httpReqCnt:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "http_requests_total"}, []string{"method", "route", "status"}),
		httpDur:      prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: ns, Name: "http_request_duration_seconds", Buckets: cfg.Buckets}, []string{"method", "route", "status"}),
		httpInfl:     prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: ns, Name: "http_requests_inflight"}, []string{"route"}),
		rpcReqCnt:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "rpc_requests_total"}, []string{"method"}),
		rpcReqDur:    prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: ns, Name: "rpc_request_duration_seconds", Buckets: cfg.Buckets}, []string{"method"}),
		rpcReqInfl:   prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: ns, Name: "rpc_requests_inflight"}, []string{"method"}),
		rpcErrCnt:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "rpc_errors_total"}, []string{"code"}),
		toolExecCnt:  prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "tool_execution_total"}, []string{"tool_name", "status"}),
		toolExecDur:  prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: ns, Name: "tool_execution_duration_seconds", Buckets: cfg.Buckets}, []string{"tool_name", "status"}),
		toolExecInfl: prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: ns, Name: "tool_execution_inflight_requests"}, []string{"tool_name"}),
	}
	r.MustRegister(m.httpReqCnt, m.httpDur, m.httpInfl)
	r.MustRegister(m.rpcReqCnt, m.rpcReqDur, m.rpcReqInfl, m.rpcErrCnt)
	r.MustRegister(m.toolExecCnt, m.toolExecDur, m.toolExecInfl)
	return m
}

func (m *Metrics) RPCReqStart(method string) {
	m.rpcReqInfl.WithLabelValues(method).Inc()
}

func (m *Metrics) RPCReqDone(method string, since time.Time) {
	m.rpcReqCnt.WithLabelValues(method).Inc()
	m.rpcReqDur.WithLabelValues(method).Observe(time.Since(since).Seconds())
	m.rpcReqInfl.WithLabelValues(method).Dec()
}

// RPCError counts an error envelope by JSON-RPC code
func (m *Metrics) RPCError(code int) {
	m.rpcErrCnt.WithLabelValues(strconv.Itoa(code)).Inc()
}

func (m *Metrics) ToolExecStart(toolName string) {
	m.toolExecInfl.WithLabelValues(toolName).Inc()
}

// ToolExecDone reads status through the pointer so it can be deferred before
// the outcome is known.
func (m *Metrics) ToolExecDone(toolName string, since time.Time, status *string) {
	m.toolExecCnt.WithLabelValues(toolName, *status).Inc()
	m.toolExecDur.WithLabelValues(toolName, *status).Observe(time.Since(since).Seconds())
	m.toolExecInfl.WithLabelValues(toolName).Dec()
}

func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpInfl.WithLabelValues(route).Inc()
		start := time.Now()
		c.Next()
		status := strconv.Itoa(c.Writer.Status())
		m.httpReqCnt.WithLabelValues(c.Request.Method, route, status).Inc()
		m.httpDur.WithLabelValues(c.Request.Method, route, status).Observe(time.Since(start).Seconds())
		m.httpInfl.WithLabelValues(route).Dec()
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
