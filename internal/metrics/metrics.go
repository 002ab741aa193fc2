// Package metrics records compilation statistics on a private Prometheus
// registry. Nothing is exported over HTTP; callers that want to expose the
// numbers gather them from Registry.
package metrics

import (
	"slices"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/broady/conjure/ir"
)

var (
	registry = prometheus.NewRegistry()

	pathTemplateVars = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "conjure",
		Name:      "path_template_vars",
		Help:      "Number of template variables per compiled endpoint path.",
		Buckets:   []float64{0, 1, 2, 3, 4, 6, 8},
	})

	httpMethods = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "conjure",
		Name:      "http_methods_total",
		Help:      "Endpoints compiled, by HTTP method.",
	}, []string{"method"})

	compilations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "conjure",
		Name:      "compilations_total",
		Help:      "Compilations by result: ok or the error code.",
	}, []string{"result"})
)

func init() {
	registry.MustRegister(pathTemplateVars, httpMethods, compilations)
}

// Registry returns the registry holding every collector in this package.
func Registry() *prometheus.Registry { return registry }

// ObservePathTemplateVars records the number of template variables in a path.
func ObservePathTemplateVars(n int) { pathTemplateVars.Observe(float64(n)) }

// CountHTTPMethod records one endpoint using method. Unsupported methods
// share the "other" label.
func CountHTTPMethod(method ir.HTTPMethod) {
	label := string(method)
	if !slices.Contains(ir.HTTPMethods, method) {
		label = "other"
	}
	httpMethods.WithLabelValues(label).Inc()
}

// CountCompilation records a compilation outcome.
func CountCompilation(result string) { compilations.WithLabelValues(result).Inc() }
