package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	roundservice "github.com/Black-And-White-Club/golf-bot/app/modules/round/application"
	rounddomain "github.com/Black-And-White-Club/golf-bot/app/modules/round/domain"
	scoredomain "github.com/Black-And-White-Club/golf-bot/app/modules/score/domain"
	"github.com/Black-And-White-Club/golf-bot/internal/observability/attr"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error    string   `json:"error"`
	Message  string   `json:"message"`
	Code     int      `json:"code"`
	Problems []string `json:"problems,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// respondError writes err with the status it maps to. Server faults are
// logged; their message is not echoed to the client.
func (h *Handlers) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	resp := ErrorResponse{
		Error:   http.StatusText(status),
		Message: err.Error(),
		Code:    status,
	}

	var verr *roundservice.ValidationError
	if errors.As(err, &verr) {
		resp.Problems = verr.Problems
	}

	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "Request failed",
			attr.String("method", r.Method),
			attr.String("path", r.URL.Path),
			attr.String("request_id", chimiddleware.GetReqID(r.Context())),
			attr.Error(err),
		)
		resp.Message = "internal error, please retry"
	}

	respondJSON(w, status, resp)
}

func badRequest(msg string) error {
	return &roundservice.ValidationError{Problems: []string{msg}}
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, roundservice.ErrRoundNotFound),
		errors.Is(err, roundservice.ErrScorecardNotFound):
		return http.StatusNotFound
	case errors.Is(err, rounddomain.ErrInvalidTransition),
		errors.Is(err, rounddomain.ErrRoundSubmitted),
		errors.Is(err, rounddomain.ErrRoundArchived):
		return http.StatusConflict
	case errors.Is(err, roundservice.ErrValidation),
		errors.Is(err, rounddomain.ErrInvalidJoinCode),
		errors.Is(err, rounddomain.ErrInvalidPrize),
		errors.Is(err, rounddomain.ErrPrizeNotOnHole),
		errors.Is(err, rounddomain.ErrMissingIdentity),
		errors.Is(err, scoredomain.ErrInvalidHole),
		errors.Is(err, scoredomain.ErrPuttsOnPickup):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return badRequest("invalid request body: " + err.Error())
	}
	return nil
}

func adminOverride(r *http.Request) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(r.Header.Get(AdminOverrideHeader)))
	return err == nil && v
}

func parseInt(raw, name string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badRequest(name + " must be a number")
	}
	return n, nil
}

// RequestLogger logs one line per request.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.DebugContext(r.Context(), "HTTP request",
				attr.String("method", r.Method),
				attr.String("path", r.URL.Path),
				attr.Int("status", ww.Status()),
				attr.Int("bytes", ww.BytesWritten()),
				slog.Duration("duration", time.Since(start)),
				attr.String("request_id", chimiddleware.GetReqID(r.Context())),
			)
		})
	}
}
