// Package metrics 定义进程内的 Prometheus 指标（serve 时由 /metrics 暴露）。
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "latekan_runs_total",
		Help: "Generation runs by outcome",
	}, []string{"outcome"}) // outcome=ok|error_code

	ideasGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "latekan_ideas_generated_total",
		Help: "Total number of listing ideas generated",
	})

	sheetReadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "latekan_sheet_reads_total",
		Help: "EPG sheet reads by format and result",
	}, []string{"format", "result"}) // result=success|failure

	runDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "latekan_run_duration_seconds",
		Help:    "Wall time of a generation run",
		Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	})
)

// RecordRun 记录一次生成的结果；outcome 为 "ok" 或 error_code。
func RecordRun(outcome string, ideas int, seconds float64) {
	if outcome == "" {
		outcome = "ok"
	}
	runsTotal.WithLabelValues(outcome).Inc()
	if ideas > 0 {
		ideasGenerated.Add(float64(ideas))
	}
	runDuration.Observe(seconds)
}

// RecordSheetRead 记录一次表格读取。format 为空时记为 unknown。
func RecordSheetRead(format string, ok bool) {
	if format == "" {
		format = "unknown"
	}
	result := "success"
	if !ok {
		result = "failure"
	}
	sheetReadsTotal.WithLabelValues(format, result).Inc()
}
