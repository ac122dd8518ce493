package httpmiddlewares

import (
	"log/slog"
	"net/http"

	"github.com/getsentry/sentry-go"
)

func Chain(ms ...func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		for i := len(ms) - 1; i >= 0; i-- {
			h = ms[i](h)
		}

		return h
	}
}

// Recover turns a panicking handler into a 500 and reports the panic to sentry.
func Recover(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			sentry.CurrentHub().Recover(rec)
			if err, isErr := rec.(error); isErr {
				slog.Error(err.Error(), "panic", true, "uri", r.URL.Path)
			} else {
				slog.Error("unknown recover", "recover()", rec, "uri", r.URL.Path)
			}
			w.WriteHeader(http.StatusInternalServerError)
		}()
		h.ServeHTTP(w, r)
	})
}
