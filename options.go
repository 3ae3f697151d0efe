package profilematch

import (
	"github.com/extrusionkit/profilematch/distance"
	"github.com/extrusionkit/profilematch/feature"
	"github.com/extrusionkit/profilematch/normalize"
	"github.com/extrusionkit/profilematch/resource"
)

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	normalizeOptions []func(*normalize.Options)
	featureOptions   []func(*feature.Options)
	metric           distance.Metric
	weights          distance.Weights
	resources        *resource.Controller
}

// Option configures engine construction.
type Option func(*options)

// WithLogger sets the logger used for warnings about skipped references and
// debug traces. If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector sets the metrics collector.
// If nil is passed, metrics are disabled.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithNormalizeOptions configures profile normalization (resample point
// count, corner threshold). The same configuration applies to every query
// and reference so their canonical forms stay comparable.
func WithNormalizeOptions(optFns ...func(*normalize.Options)) Option {
	return func(o *options) {
		o.normalizeOptions = append(o.normalizeOptions, optFns...)
	}
}

// WithFeatureOptions configures feature extraction (descriptor families,
// curvature window, corner detection). Changing the layout changes the
// vector layout of every profile processed by the engine.
func WithFeatureOptions(optFns ...func(*feature.Options)) Option {
	return func(o *options) {
		o.featureOptions = append(o.featureOptions, optFns...)
	}
}

// WithMetric sets the feature-vector distance metric.
func WithMetric(m distance.Metric) Option {
	return func(o *options) { o.metric = m }
}

// WithWeights sets the per-family descriptor weights.
func WithWeights(w distance.Weights) Option {
	return func(o *options) { o.weights = w }
}

// WithResourceController bounds the concurrency and rate of the alignment
// pass. A nil controller imposes no limits.
func WithResourceController(c *resource.Controller) Option {
	return func(o *options) { o.resources = c }
}
