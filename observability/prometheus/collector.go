// Package prometheus exports pool statistics as Prometheus metrics.
package prometheus

import (
	"errors"
	"fmt"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/jzx17/taskpool/pkg/pool"
)

// StatsSource provides current pool stats snapshots.
type StatsSource interface {
	Stats() pool.Stats
}

// Collector adapts a pool's Stats() snapshot to Prometheus metrics. Every
// scrape reads a fresh snapshot, so no bridging state is kept between the
// pool's own counters and the exported values.
type Collector struct {
	source StatsSource

	submittedDesc *prom.Desc
	completedDesc *prom.Desc
	failedDesc    *prom.Desc
	pendingDesc   *prom.Desc
	workersDesc   *prom.Desc
	avgExecDesc   *prom.Desc
	uptimeDesc    *prom.Desc
}

var _ prom.Collector = (*Collector)(nil)

// NewCollector creates a collector over the given stats source.
func NewCollector(namespace string, source StatsSource) *Collector {
	if namespace == "" {
		namespace = "taskpool"
	}

	return &Collector{
		source: source,
		submittedDesc: prom.NewDesc(
			prom.BuildFQName(namespace, "", "tasks_submitted_total"),
			"Total number of accepted task submissions.", nil, nil),
		completedDesc: prom.NewDesc(
			prom.BuildFQName(namespace, "", "tasks_completed_total"),
			"Total number of tasks that finished without error.", nil, nil),
		failedDesc: prom.NewDesc(
			prom.BuildFQName(namespace, "", "tasks_failed_total"),
			"Total number of tasks that returned an error or panicked.", nil, nil),
		pendingDesc: prom.NewDesc(
			prom.BuildFQName(namespace, "", "tasks_pending"),
			"Number of tasks currently queued.", nil, nil),
		workersDesc: prom.NewDesc(
			prom.BuildFQName(namespace, "", "workers"),
			"Fixed worker count of the pool.", nil, nil),
		avgExecDesc: prom.NewDesc(
			prom.BuildFQName(namespace, "", "task_avg_execution_seconds"),
			"Mean execution time of completed tasks in seconds.", nil, nil),
		uptimeDesc: prom.NewDesc(
			prom.BuildFQName(namespace, "", "uptime_seconds"),
			"Wall-clock seconds since pool construction.", nil, nil),
	}
}

// Describe implements prom.Collector.
func (c *Collector) Describe(ch chan<- *prom.Desc) {
	ch <- c.submittedDesc
	ch <- c.completedDesc
	ch <- c.failedDesc
	ch <- c.pendingDesc
	ch <- c.workersDesc
	ch <- c.avgExecDesc
	ch <- c.uptimeDesc
}

// Collect implements prom.Collector.
func (c *Collector) Collect(ch chan<- prom.Metric) {
	stats := c.source.Stats()

	ch <- prom.MustNewConstMetric(c.submittedDesc, prom.CounterValue, float64(stats.Submitted))
	ch <- prom.MustNewConstMetric(c.completedDesc, prom.CounterValue, float64(stats.Completed))
	ch <- prom.MustNewConstMetric(c.failedDesc, prom.CounterValue, float64(stats.Failed))
	ch <- prom.MustNewConstMetric(c.pendingDesc, prom.GaugeValue, float64(stats.Pending))
	ch <- prom.MustNewConstMetric(c.workersDesc, prom.GaugeValue, float64(stats.Workers))
	ch <- prom.MustNewConstMetric(c.avgExecDesc, prom.GaugeValue, stats.AverageExecutionTime.Seconds())
	ch <- prom.MustNewConstMetric(c.uptimeDesc, prom.GaugeValue, stats.Uptime.Seconds())
}

// Register creates a collector for source and registers it with reg,
// reusing an existing collector when one with the same descriptors is
// already registered. A nil reg falls back to the default registerer.
func Register(reg prom.Registerer, namespace string, source StatsSource) (*Collector, error) {
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	return registerCollector(reg, NewCollector(namespace, source))
}

func registerCollector[T prom.Collector](reg prom.Registerer, collector T) (T, error) {
	err := reg.Register(collector)
	if err == nil {
		return collector, nil
	}

	var alreadyRegisteredErr prom.AlreadyRegisteredError
	if errors.As(err, &alreadyRegisteredErr) {
		existing, ok := alreadyRegisteredErr.ExistingCollector.(T)
		if !ok {
			return collector, fmt.Errorf("collector type mismatch for %T", collector)
		}
		return existing, nil
	}

	return collector, err
}
