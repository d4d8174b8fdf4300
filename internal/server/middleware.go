package server

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/api/idtoken"
)

// TokenVerifier — интерфейс проверки Bearer-токена входящего вебхука
type TokenVerifier interface {
	Verify(ctx context.Context, token string) error
}

// IDTokenVerifier проверяет Google-issued ID-токен, которым платформа
// подписывает вызовы вебхука. Audience — номер проекта бота.
type IDTokenVerifier struct {
	audience string
}

func NewIDTokenVerifier(audience string) *IDTokenVerifier {
	return &IDTokenVerifier{audience: audience}
}

func (v *IDTokenVerifier) Verify(ctx context.Context, token string) error {
	_, err := idtoken.Validate(ctx, token, v.audience)
	return err
}

// NewAuthMiddleware закрывает вебхук от вызовов не с платформы
func NewAuthMiddleware(v TokenVerifier, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
			if err := v.Verify(r.Context(), token); err != nil {
				logger.Warn("webhook auth failure", zap.Error(err))
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
