package config

import (
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ConfigMetrics tracks configuration loads and fallbacks for one component.
//
// Metrics (prefixed by the component name):
//   - {component}_config_load_timestamp
//   - {component}_config_validation_errors_total{field}
//   - {component}_config_fallbacks_total{field}
//   - {component}_config_fallback_active
type ConfigMetrics struct {
	LoadTimestamp         prometheus.Gauge
	ValidationErrorsTotal *prometheus.CounterVec
	FallbacksTotal        *prometheus.CounterVec
	FallbackActive        prometheus.Gauge
}

// NewConfigMetrics registers the metric set with reg. A nil reg uses the
// default registerer. Registering the same component twice on one
// registry panics.
func NewConfigMetrics(componentName string, reg prometheus.Registerer) *ConfigMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &ConfigMetrics{
		LoadTimestamp: f.NewGauge(prometheus.GaugeOpts{
			Name: fmt.Sprintf("%s_config_load_timestamp", componentName),
			Help: fmt.Sprintf("Unix timestamp of last %s configuration load", componentName),
		}),
		ValidationErrorsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_config_validation_errors_total", componentName),
			Help: fmt.Sprintf("Total number of %s configuration validation errors", componentName),
		}, []string{"field"}),
		FallbacksTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_config_fallbacks_total", componentName),
			Help: fmt.Sprintf("Total number of %s configuration fallback operations", componentName),
		}, []string{"field"}),
		FallbackActive: f.NewGauge(prometheus.GaugeOpts{
			Name: fmt.Sprintf("%s_config_fallback_active", componentName),
			Help: fmt.Sprintf("1 if any %s configuration fallback is active, 0 otherwise", componentName),
		}),
	}
}

// Reporter logs loader warnings and feeds them into ConfigMetrics.
// Metrics may be nil.
type Reporter struct {
	Logger   *slog.Logger
	Metrics  *ConfigMetrics
	Warnings []string
}

// Track records a fallback for field if one was applied and returns the value.
func Track[T any](r *Reporter, field string, res Result[T]) T {
	if !res.FallbackApplied {
		return res.Value
	}
	r.Warnings = append(r.Warnings, res.Warning)
	if r.Logger != nil {
		r.Logger.Warn("configuration fallback applied",
			slog.String("field", field),
			slog.String("warning", res.Warning))
	}
	if r.Metrics != nil {
		r.Metrics.ValidationErrorsTotal.WithLabelValues(field).Inc()
		r.Metrics.FallbacksTotal.WithLabelValues(field).Inc()
	}
	return res.Value
}

// Done stamps the load time and the fallback-active gauge.
func (r *Reporter) Done() {
	if r.Metrics == nil {
		return
	}
	r.Metrics.LoadTimestamp.SetToCurrentTime()
	if len(r.Warnings) > 0 {
		r.Metrics.FallbackActive.Set(1)
	} else {
		r.Metrics.FallbackActive.Set(0)
	}
}
