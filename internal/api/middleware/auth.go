package middleware

import (
	"context"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/dispatch"
)

type ctxKey string

const userIDKey ctxKey = "user_id"

// HeaderUserID заголовок с идентификатором аутентифицированного пользователя.
// Проверку сессии выполняет внешний шлюз, сервис доверяет заголовку.
const HeaderUserID = "X-User-ID"

// Auth требует наличия X-User-ID и кладет его в контекст запроса
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get(HeaderUserID)
		if userID == "" {
			dispatch.WriteJSON(w, http.StatusUnauthorized,
				dispatch.Fail(dispatch.KindValidation, "missing "+HeaderUserID+" header"))
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID возвращает идентификатор пользователя из контекста запроса
func GetUserID(ctx context.Context) string {
	if v, ok := ctx.Value(userIDKey).(string); ok {
		return v
	}
	return ""
}
