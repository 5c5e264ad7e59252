package authmw

import (
	"context"
	"net/http"
	"strings"

	"github.com/dcastellanos/userboard/internal/auth/token"
	commonhttp "github.com/dcastellanos/userboard/internal/common/http"
	"github.com/dcastellanos/userboard/internal/common/logger"
	"github.com/dcastellanos/userboard/internal/observability/metrics"
)

type contextKey string

const claimsKey contextKey = "token_claims"

// Middleware guards a subtree with bearer-token authentication. An absent
// credential and a failed verification are distinct outcomes: 401 for the
// former, 403 for the latter. The token alone authenticates the request.
func Middleware(issuer *token.Issuer, log *logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID := commonhttp.TraceIDFromContext(r.Context())

			raw := r.Header.Get("Authorization")
			if raw == "" || !strings.HasPrefix(raw, "Bearer ") {
				metrics.TokenVerificationsTotal.WithLabelValues("missing").Inc()
				log.Warnf("auth failed path=%s: missing or invalid authorization header", r.URL.Path)
				commonhttp.WriteErrorEnvelope(w, http.StatusUnauthorized, commonhttp.CodeMissingAuthorization, "missing or invalid authorization", traceID)
				return
			}

			claims, outcome := issuer.Verify(strings.TrimPrefix(raw, "Bearer "))
			metrics.TokenVerificationsTotal.WithLabelValues(outcome.String()).Inc()
			if outcome != token.OutcomeValid {
				log.Warnf("auth failed path=%s: token %s", r.URL.Path, outcome)
				commonhttp.WriteErrorEnvelope(w, http.StatusForbidden, commonhttp.CodeInvalidToken, "invalid or expired token", traceID)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func FromContext(ctx context.Context) (token.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(token.Claims)
	return claims, ok
}
