package httpserver

import (
	"log/slog"
	"net/http"
	"time"
)

type ServeMux struct {
	*http.ServeMux
	middlewares []Middleware
}

func New() *ServeMux {
	return &ServeMux{ServeMux: http.NewServeMux()}
}

type Middleware func(http.HandlerFunc) http.HandlerFunc

// WithMiddlewares applies ms to every route registered afterwards.
func (s *ServeMux) WithMiddlewares(ms ...Middleware) {
	s.middlewares = append(s.middlewares, ms...)
}

func (s *ServeMux) HandleFunc(pattern string, handler http.HandlerFunc) {
	for i := len(s.middlewares) - 1; i >= 0; i-- {
		handler = s.middlewares[i](handler)
	}

	s.ServeMux.HandleFunc(pattern, handler)
}

func (s *ServeMux) GET(path string, handler http.HandlerFunc) {
	s.HandleFunc("GET "+path, handler)
}

func (s *ServeMux) PUT(path string, handler http.HandlerFunc) {
	s.HandleFunc("PUT "+path, handler)
}

func (s *ServeMux) DELETE(path string, handler http.HandlerFunc) {
	s.HandleFunc("DELETE "+path, handler)
}

// RequestLogger logs every request at debug level.
func RequestLogger(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next(w, r)
		slog.Debug("http request",
			"method", r.Method,
			"uri", r.URL.Path,
			"pattern", r.Pattern,
			"took", time.Since(start),
		)
	}
}
