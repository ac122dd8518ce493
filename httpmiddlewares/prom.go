package httpmiddlewares

import (
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// PrometheusExporter records request counts and durations labelled by the matched route pattern,
// so path values such as claim ids do not end up in label values.
func PrometheusExporter(reg prometheus.Registerer, namespace string, excludePaths ...string) func(h http.Handler) http.Handler {
	pathRegexps := []*regexp.Regexp{}

	for _, path := range excludePaths {
		pathRegexps = append(pathRegexps, regexp.MustCompile(path))
	}
	factory := promauto.With(reg)
	requestsHist := factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "httpserver",
		Name:      "requests_duration",
		Buckets:   prometheus.DefBuckets,
	}, []string{"status", "method", "handler"})

	requestCount := factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "httpserver",
			Name:      "requests_total",
			Help:      "How many HTTP requests processed, partitioned by status code and HTTP method.",
		},
		[]string{"status", "method", "handler"},
	)
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			for _, path := range pathRegexps {
				if path.MatchString(req.URL.Path) {
					h.ServeHTTP(w, req)
					return
				}
			}
			start := time.Now()
			statusRecorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			h.ServeHTTP(statusRecorder, req)

			handler := req.Pattern
			if handler == "" {
				handler = "unmatched"
			}
			requestCount.WithLabelValues(fmt.Sprint(statusRecorder.status), req.Method, handler).
				Inc()

			requestsHist.WithLabelValues(fmt.Sprint(statusRecorder.status), req.Method, handler).
				Observe(time.Since(start).Seconds())
		})
	}
}
