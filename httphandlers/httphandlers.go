package httphandlers

import (
	"log/slog"
	"net/http"

	"github.com/amirrezaask/claimcache/errors"
	json "github.com/json-iterator/go"
)

// Error carries the status a handler wants to answer with.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

func NewError(status int, message string, err error) *Error {
	return &Error{Status: status, Message: message, Err: err}
}

type errorBody struct {
	Message string `json:"message"`
}

func DecodeBody(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func MakeHTTPHandler(f func(w http.ResponseWriter, r *http.Request) (int, any, error)) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status, resp, err := f(w, r)
		w.Header().Set("Content-Type", "application/json")
		if err != nil {
			message := ""
			var herr *Error
			if errors.As(err, &herr) {
				status = herr.Status
				message = herr.Message
			}
			if status == 0 {
				status = http.StatusInternalServerError
			}
			if message == "" {
				message = http.StatusText(status)
			}
			if resp == nil {
				resp = errorBody{Message: message}
			}

			if status >= http.StatusInternalServerError {
				slog.Error("error in http handler",
					"uri", r.URL.Path,
					"query", r.URL.RawQuery,
					"err", err,
				)
			}
		} else if status == 0 {
			status = http.StatusOK
		}

		w.WriteHeader(status)
		if resp != nil && status != http.StatusNoContent {
			if err := json.NewEncoder(w).Encode(resp); err != nil {
				slog.Error("error in writing response to ResponseWriter", "err", err)
			}
		}
	})
}
