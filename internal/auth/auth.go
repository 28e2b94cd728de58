package auth

import (
	"context"
	"log"
	"net/http"
)

type ctxKey struct{}

// Middleware проверяет Authorization-заголовок и кладет id пользователя
// в контекст запроса
func (c *Client) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := c.VerifyToken(r.Context(), r.Header.Get("Authorization"))
		if err != nil {
			log.Printf("Authorization failed: %v", err)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), ctxKey{}, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserID возвращает id пользователя, положенный middleware
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}
