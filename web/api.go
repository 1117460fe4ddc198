package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/mtraver/gaelog"

	"github.com/Muhammad-Zunain/air-monitoring/measurement"
)

const requestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// requestID tags each request with an ID, taken from the X-Request-ID header when the
// client sent one, and echoes it back in the response.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}

		w.Header().Set(requestIDHeader, id)
		ctx := context.WithValue(r.Context(), requestIDKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func getRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// apiError is an error whose message is safe to show to the client.
type apiError struct {
	StatusCode int    `json:"-"`
	RequestID  string `json:"requestID,omitempty"`
	Message    string `json:"message"`
}

func (e *apiError) Error() string {
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}

func newError(statusCode int, format string, a ...any) *apiError {
	return &apiError{
		StatusCode: statusCode,
		Message:    fmt.Sprintf(format, a...),
	}
}

type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// errorHandler adapts a handlerFunc to http.Handler. An *apiError is sent to the
// client as is; any other error is logged and answered with a generic 500.
func errorHandler(fn handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := newContext(r)

		err := fn(w, r)
		if err == nil {
			return
		}

		var aerr *apiError
		if errors.As(err, &aerr) {
			aerr.RequestID = getRequestID(ctx)
			gaelog.Infof(ctx, "%s %s: %v", r.Method, r.URL.Path, aerr)
			respondJSON(w, r, aerr.StatusCode, aerr)
			return
		}

		gaelog.Errorf(ctx, "%s %s: %v", r.Method, r.URL.Path, err)
		respondJSON(w, r, http.StatusInternalServerError, &apiError{
			RequestID: getRequestID(ctx),
			Message:   "Internal Server Error",
		})
	}
}

func respondJSON(w http.ResponseWriter, r *http.Request, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if data == nil {
		return
	}

	// The status is already written, so all that's left to do with an error is log it.
	if err := json.NewEncoder(w).Encode(data); err != nil {
		gaelog.Errorf(newContext(r), "Failed to encode JSON response: %v", err)
	}
}

// parseType parses the named query parameter as a measurement type, falling back to
// def when it's absent.
func parseType(r *http.Request, name string, def measurement.Type) (measurement.Type, error) {
	s := r.FormValue(name)
	if s == "" {
		return def, nil
	}

	t, err := measurement.ParseType(s)
	if err != nil {
		return 0, newError(http.StatusBadRequest, "Bad %s: %q", name, s)
	}
	return t, nil
}

func parseYear(r *http.Request, name string, def int) (int, error) {
	s := r.FormValue(name)
	if s == "" {
		return def, nil
	}

	year, err := strconv.Atoi(s)
	if err != nil || year < 1970 || year > 9999 {
		return 0, newError(http.StatusBadRequest, "Bad %s: %q", name, s)
	}
	return year, nil
}

func parseDate(r *http.Request, name string) (string, error) {
	s := r.FormValue(name)
	if s == "" {
		return "", nil
	}

	if _, err := time.Parse(measurement.DateLayout, s); err != nil {
		return "", newError(http.StatusBadRequest, "Bad %s: %q", name, s)
	}
	return s, nil
}
