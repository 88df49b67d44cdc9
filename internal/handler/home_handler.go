package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/hitoshi/homeinspect/internal/middleware"
	"github.com/hitoshi/homeinspect/internal/view"
)

// Pinger はデータストアの疎通確認インターフェース。*sql.DBが実装する。
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HomeHandler はトップページとヘルスチェックのHTTPハンドラー。
type HomeHandler struct {
	*pages
	pinger Pinger
}

// NewHomeHandler はHomeHandlerを生成する。pingerがnilの場合ヘルスチェックは常に成功する。
func NewHomeHandler(renderer view.Renderer, pinger Pinger, now func() time.Time) *HomeHandler {
	if now == nil {
		now = time.Now
	}
	return &HomeHandler{
		pages:  &pages{renderer: renderer, now: now},
		pinger: pinger,
	}
}

// Index はログイン状態に応じたトップページを表示する。
// GET /
func (h *HomeHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.render(w, view.PageIndex, h.newPage(r, ""))
}

// Health はデータストアに疎通できれば200、できなければ503を返す。
// GET /health
func (h *HomeHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.pinger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.pinger.PingContext(ctx); err != nil {
			slog.Warn("health check failed", slog.String("error", err.Error()))
			middleware.WritePlainError(w, http.StatusServiceUnavailable, "unavailable")
			return
		}
	}
	middleware.WritePlainError(w, http.StatusOK, "ok")
}
