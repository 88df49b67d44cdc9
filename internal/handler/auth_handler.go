package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/hitoshi/homeinspect/internal/auth"
	"github.com/hitoshi/homeinspect/internal/middleware"
	"github.com/hitoshi/homeinspect/internal/model"
	"github.com/hitoshi/homeinspect/internal/view"
)

// AuthHandler は登録・ログイン・ログアウトのHTTPハンドラー。
type AuthHandler struct {
	*pages
	service AuthServiceInterface
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface, renderer view.Renderer, now func() time.Time) *AuthHandler {
	if now == nil {
		now = time.Now
	}
	return &AuthHandler{
		pages:   &pages{renderer: renderer, now: now},
		service: service,
	}
}

// RegisterForm は登録フォームを表示する。
// GET /register
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, view.PageRegister, h.newPage(r, "Register"))
}

// Register は登録フォームを処理する。成功時は /login へリダイレクトする。
// 入力エラーやメールアドレス重複はフォームを再表示してメッセージを出す。
// POST /register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, view.PageRegister, "Register", model.NewValidationError("Please fill in all fields correctly."))
		return
	}

	_, err := h.service.Register(r.Context(), auth.RegisterInput{
		Name:     r.PostFormValue("name"),
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
		Role:     r.PostFormValue("role"),
	})
	if err != nil {
		var apiErr *model.APIError
		if errors.As(err, &apiErr) {
			h.renderError(w, r, view.PageRegister, "Register", apiErr)
			return
		}
		serverError(w, "failed to register user", err)
		return
	}

	redirect(w, r, "/login")
}

// LoginForm はログインフォームを表示する。
// GET /login
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, view.PageLogin, h.newPage(r, "Log in"))
}

// Login は認証を行い、セッションCookieを設定して /dashboard へリダイレクトする。
// POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, view.PageLogin, "Log in", model.NewInvalidCredentialsError())
		return
	}

	session, err := h.service.Login(r.Context(), r.PostFormValue("email"), r.PostFormValue("password"))
	if err != nil {
		var apiErr *model.APIError
		if errors.As(err, &apiErr) {
			h.renderError(w, r, view.PageLogin, "Log in", apiErr)
			return
		}
		serverError(w, "failed to log in", err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    session.ID,
		Path:     "/",
		HttpOnly: true,
	})
	redirect(w, r, "/dashboard")
}

// Logout はセッションを破棄し、期限切れのCookieを設定して / へリダイレクトする。
// GET /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		if err := h.service.Logout(r.Context(), cookie.Value); err != nil {
			serverError(w, "failed to logout", err)
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
	})
	redirect(w, r, "/")
}

// renderError はフォームをメッセージ付きで再表示する。ステータスは200のまま。
func (h *AuthHandler) renderError(w http.ResponseWriter, r *http.Request, name, title string, apiErr *model.APIError) {
	page := h.newPage(r, title)
	page.Error = apiErr.Message
	h.render(w, name, page)
}
