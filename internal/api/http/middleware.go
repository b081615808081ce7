package http

import (
	"net/http"
	"strings"
	"time"

	"krishimitra-backend/internal/config"
	"krishimitra-backend/internal/domain"
	"krishimitra-backend/internal/logger"
	"krishimitra-backend/internal/security"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const requestIDHeader = "X-Request-ID"

// RequestLogger tags each request with a request id and logs its outcome.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)

		ctx := logger.WithContext(r.Context(), logger.Get().With("request_id", requestID))
		rec := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		logger.InfoContext(ctx, "HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds())
	})
}

type AuthMiddleware struct {
	tokenManager security.TokenManager
	cookieName   string
}

func NewAuthMiddleware(tm security.TokenManager, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{tokenManager: tm, cookieName: cookieName}
}

// Handler authenticates requests to routes that require an access token
// and stores the caller id on the request context.
func (a *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		level := a.securityLevel(r)
		if level == config.SecurityPublic {
			next.ServeHTTP(w, r)
			return
		}

		token := a.extractToken(r)
		if token == "" {
			writeUnauthorized(w, "Unauthorized: No token provided")
			return
		}

		claims, err := a.tokenManager.ValidateToken(token)
		if err != nil {
			logger.DebugContext(r.Context(), "Token rejected", "error", err)
			writeUnauthorized(w, "Unauthorized: Invalid or expired token")
			return
		}

		if level == config.SecurityAdmin && claims.Role != string(domain.UserRoleAdmin) {
			writeJSON(w, http.StatusForbidden, errorResponse{Message: "Forbidden: Admin access required", Code: string(domain.CodeForbidden)})
			return
		}

		ctx := WithUserID(r.Context(), claims.UserID)
		ctx = logger.WithContext(ctx, logger.FromContext(ctx).With("user_id", claims.UserID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *AuthMiddleware) securityLevel(r *http.Request) config.SecurityLevel {
	route := mux.CurrentRoute(r)
	if route == nil {
		return config.SecurityAccess
	}
	tpl, err := route.GetPathTemplate()
	if err != nil {
		return config.SecurityAccess
	}
	return config.GetSecurityLevel(tpl)
}

// extractToken reads a Bearer header, falling back to the session cookie.
func (a *AuthMiddleware) extractToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		// Remove Bearer prefix if present
		if len(header) > 7 && strings.ToUpper(header[0:7]) == "BEARER " {
			return strings.TrimSpace(header[7:])
		}
		return ""
	}
	if a.cookieName == "" {
		return ""
	}
	if c, err := r.Cookie(a.cookieName); err == nil {
		return c.Value
	}
	return ""
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
