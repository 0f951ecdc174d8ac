package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shiftboard/shift-scheduler/backend/internal/access"
	"github.com/shiftboard/shift-scheduler/backend/internal/domain"
	"github.com/shiftboard/shift-scheduler/backend/internal/repository"
	"github.com/shiftboard/shift-scheduler/backend/internal/token"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
)

type ResponseWriter struct {
	http.ResponseWriter
	StatusCode int
}

func (rw *ResponseWriter) WriteHeader(statusCode int) {
	rw.StatusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (rw *ResponseWriter) Write(b []byte) (int, error) {
	if rw.StatusCode == 0 {
		rw.StatusCode = http.StatusOK
	}
	return rw.ResponseWriter.Write(b)
}

func (h *Handler) logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &ResponseWriter{ResponseWriter: w}
		next.ServeHTTP(rw, r)
		duration := time.Since(start)
		slog.Info("handled request",
			"status", rw.StatusCode,
			"ip", r.RemoteAddr,
			"method", r.Method,
			"path", r.URL.Path,
			"duration", duration,
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				if err == http.ErrAbortHandler {
					panic(err)
				}
				h.internalServerError(w, r, fmt.Errorf("panic: %v", err))
				fmt.Print(string(debug.Stack())) // multi-line stacks are unreadable through slog
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) rateLimit(next http.Handler) http.Handler {
	return stdlib.NewMiddleware(h.authLimit,
		stdlib.WithLimitReachedHandler(h.tooManyRequests),
		stdlib.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			h.internalServerError(w, r, err)
		}),
	).Handler(next)
}

// bearerToken extracts the token from "Authorization: Bearer <token>", scheme case-insensitive.
func bearerToken(r *http.Request) (string, bool) {
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, ok := bearerToken(r)
		if !ok {
			h.unauthenticated(w, r, "Authentication required.")
			return
		}

		claims, err := h.tokens.Verify(tokenString)
		if err != nil {
			switch {
			case errors.Is(err, jwt.ErrTokenExpired):
				h.unauthenticated(w, r, "Session expired, please sign in again.")
			case errors.Is(err, token.ErrInvalidToken):
				h.unauthenticated(w, r, "Invalid or expired token.")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsCtxKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func claimsFrom(r *http.Request) *token.Claims {
	claims, _ := r.Context().Value(ClaimsCtxKey).(*token.Claims)
	return claims
}

func (h *Handler) requireManager(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !access.IsManager(claimsFrom(r)) {
			h.errorResponse(w, r, http.StatusForbidden, "Manager access required.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// employeeInfo loads the {id} employee. Employees outside the session's reach are reported as missing.
func (h *Handler) employeeInfo(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if !access.CanAccess(claimsFrom(r), id) {
			h.notFound(w, r, "Employee not found.")
			return
		}

		employee, err := h.repository.GetEmployeeByID(id)
		if err != nil {
			switch {
			case errors.Is(err, repository.ErrNotFound):
				h.notFound(w, r, "Employee not found.")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		ctx := context.WithValue(r.Context(), EmployeeInfoCtxKey, employee)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) preventDeleteSelf(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		employee := r.Context().Value(EmployeeInfoCtxKey).(*domain.Employee)
		if employee.ID == claimsFrom(r).Subject {
			h.errorResponse(w, r, http.StatusBadRequest, "You cannot delete your own account.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) shiftInfo(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		shift, err := h.repository.GetShiftByID(chi.URLParam(r, "id"))
		if err != nil {
			switch {
			case errors.Is(err, repository.ErrNotFound):
				h.notFound(w, r, "Shift not found.")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		if !access.CanAccess(claimsFrom(r), shift.EmployeeID) {
			h.notFound(w, r, "Shift not found.")
			return
		}

		ctx := context.WithValue(r.Context(), ShiftCtxKey, shift)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) timeOffInfo(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		request, err := h.repository.GetTimeOffRequestByID(chi.URLParam(r, "id"))
		if err != nil {
			switch {
			case errors.Is(err, repository.ErrNotFound):
				h.notFound(w, r, "Time-off request not found.")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		if !access.CanAccess(claimsFrom(r), request.EmployeeID) {
			h.notFound(w, r, "Time-off request not found.")
			return
		}

		ctx := context.WithValue(r.Context(), TimeOffCtxKey, request)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
