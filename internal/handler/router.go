package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/homeinspect/internal/metrics"
	"github.com/hitoshi/homeinspect/internal/middleware"
	"github.com/hitoshi/homeinspect/internal/model"
	"github.com/hitoshi/homeinspect/internal/view"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	AuthService      AuthServiceInterface
	BookingService   BookingServiceInterface
	DirectoryService DirectoryServiceInterface // nilの場合 /inspectors は登録しない
	Renderer         view.Renderer

	// 横断的関心事
	Logger         *slog.Logger
	Metrics        metrics.MetricsCollector
	MetricsHandler http.Handler // nilの場合 /metrics は登録しない
	Pinger         Pinger

	// Now はフッターの年表示に使う時刻源。nilの場合time.Now。
	Now func() time.Time
}

// NewRouter は全エンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → Logging → Metrics → Identity
//
// ロールによる制限はルート単位でRequireUser / RequireRoleを適用する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(logger))
	if deps.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.Metrics))
	}
	r.Use(middleware.NewIdentityMiddleware(deps.AuthService))

	notFound := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteNotFound(w)
	})
	r.NotFound(notFound)
	// 未対応メソッドも未知のパスと同じ扱いにする
	r.MethodNotAllowed(notFound)

	homeHandler := NewHomeHandler(deps.Renderer, deps.Pinger, deps.Now)
	authHandler := NewAuthHandler(deps.AuthService, deps.Renderer, deps.Now)
	bookingHandler := NewBookingHandler(deps.BookingService, deps.Renderer, deps.Now)

	// --- 認証不要のルート ---
	r.Get("/", homeHandler.Index)
	r.Get("/health", homeHandler.Health)
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}
	r.Handle("/static/*", view.NewStaticHandler("/static/", notFound))

	r.Get("/register", authHandler.RegisterForm)
	r.Post("/register", authHandler.Register)
	r.Get("/login", authHandler.LoginForm)
	r.Post("/login", authHandler.Login)
	r.Get("/logout", authHandler.Logout)

	if deps.DirectoryService != nil {
		directoryHandler := NewDirectoryHandler(deps.DirectoryService, deps.Renderer, deps.Now)
		r.Get("/inspectors", directoryHandler.List)
		r.Get("/inspectors/{id}", directoryHandler.Profile)
	}

	// --- ログインが必要なルート ---
	r.With(middleware.RequireUser).Get("/dashboard", bookingHandler.Dashboard)

	// 依頼者のみ
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(model.RoleRequester))
		r.Post("/book", bookingHandler.Book)
		r.Get("/book", bookingHandler.BookRedirect)
		r.Get("/bookings/{id}", bookingHandler.Detail)
	})

	// 点検員のみ
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(model.RoleProvider))
		r.Get("/accept/*", bookingHandler.Accept)
	})

	return r
}
