package middleware

import (
	"net/http"

	"github.com/hitoshi/homeinspect/internal/model"
)

// loginPath はゲートで弾かれたリクエストのリダイレクト先。
const loginPath = "/login"

// RequireUser はログイン済みのリクエストのみ通すミドルウェア。
// 匿名リクエストは /login へ302リダイレクトする。
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFromContext(r.Context()) == nil {
			http.Redirect(w, r, loginPath, http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole は指定ロールのユーザーのみ通すミドルウェアを返す。
// 匿名またはロール不一致の場合はメッセージなしで /login へ302リダイレクトする。
func RequireRole(role model.Role) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := UserFromContext(r.Context())
			if user == nil || user.Role != role {
				http.Redirect(w, r, loginPath, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
