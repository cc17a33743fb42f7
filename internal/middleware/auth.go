package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-engine/internal/config"
)

type CtxKey int

const (
	CtxRoundClaims CtxKey = iota
)

// bearerToken reads the token from the Authorization header, falling back to
// the token query parameter for websocket clients that cannot set headers.
func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return r.URL.Query().Get("token")
}

// Auth stores the claims of a valid round token in the request context.
// Requests without a valid token pass through unauthenticated.
func Auth(log *logrus.Logger, tokens *config.Tokens) Middleware {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				h.ServeHTTP(w, r)
				return
			}
			claims, err := tokens.Parse(token)
			if err != nil {
				log.WithError(err).Debug("rejected round token")
				h.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), CtxRoundClaims, claims)
			h.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func RoundClaims(ctx context.Context) (*config.RoundClaims, bool) {
	claims, ok := ctx.Value(CtxRoundClaims).(*config.RoundClaims)
	return claims, ok
}
