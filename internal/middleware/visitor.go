// AngelaMos | 2026
// visitor.go

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/carterperez-dev/templates/course-gate/internal/core"
)

const VisitorIDKey contextKey = "visitor_id"

type VisitorTokens interface {
	Issue(visitorID string) (string, time.Time, error)
	Verify(ctx context.Context, token string) (string, error)
}

type VisitorCookie struct {
	Name   string
	Secure bool
	NewID  func() string
}

// Visitor resolves the browser's storage namespace from its signed cookie.
// A missing, expired or forged cookie starts a fresh namespace, the same as
// a browser with cleared local storage.
func Visitor(tokens VisitorTokens, cookie VisitorCookie) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			visitorID := ""

			if c, err := r.Cookie(cookie.Name); err == nil && c.Value != "" {
				id, verr := tokens.Verify(r.Context(), c.Value)
				switch {
				case verr == nil:
					visitorID = id
				case errors.Is(verr, core.ErrTokenExpired):
					slog.DebugContext(r.Context(), "visitor token expired")
				default:
					slog.DebugContext(r.Context(), "visitor token rejected",
						"error", verr,
					)
				}
			}

			if visitorID == "" {
				visitorID = cookie.NewID()

				token, expiresAt, err := tokens.Issue(visitorID)
				if err != nil {
					core.InternalServerError(w, err)
					return
				}

				http.SetCookie(w, &http.Cookie{
					Name:     cookie.Name,
					Value:    token,
					Path:     "/",
					Expires:  expiresAt,
					HttpOnly: true,
					Secure:   cookie.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), VisitorIDKey, visitorID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetVisitorID(ctx context.Context) string {
	if id, ok := ctx.Value(VisitorIDKey).(string); ok {
		return id
	}
	return ""
}

// WithVisitorID is used by tests and internal callers that already know the
// namespace.
func WithVisitorID(ctx context.Context, visitorID string) context.Context {
	return context.WithValue(ctx, VisitorIDKey, visitorID)
}
