package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/vancomm/untangle-server/internal/config"
)

type CtxKey int

const (
	CtxPlayerClaims CtxKey = iota
	CtxRequestId
)

func PlayerClaims(ctx context.Context) (*config.PlayerClaims, bool) {
	claims, ok := ctx.Value(CtxPlayerClaims).(*config.PlayerClaims)
	return claims, ok
}

func WithPlayerClaims(ctx context.Context, claims *config.PlayerClaims) context.Context {
	return context.WithValue(ctx, CtxPlayerClaims, claims)
}

/*
Auth puts the claims of a valid auth cookie pair into the request
context. Requests without cookies pass through anonymously; stale or
forged cookies are cleared.
*/
func Auth(logger *slog.Logger, cookies *config.Cookies, jwt *config.JWT) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := cookies.Token(r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			claims, err := jwt.Parse(token)
			if err != nil {
				logger.Debug("rejecting auth cookies", slog.Any("error", err))
				cookies.Clear(w)
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPlayerClaims(r.Context(), claims)))
		})
	}
}
