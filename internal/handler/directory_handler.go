package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/homeinspect/internal/middleware"
	"github.com/hitoshi/homeinspect/internal/model"
	"github.com/hitoshi/homeinspect/internal/view"
)

// DirectoryHandler は点検員ディレクトリのHTTPハンドラー。ログイン不要。
type DirectoryHandler struct {
	*pages
	service DirectoryServiceInterface
}

// NewDirectoryHandler はDirectoryHandlerを生成する。
func NewDirectoryHandler(service DirectoryServiceInterface, renderer view.Renderer, now func() time.Time) *DirectoryHandler {
	if now == nil {
		now = time.Now
	}
	return &DirectoryHandler{
		pages:   &pages{renderer: renderer, now: now},
		service: service,
	}
}

// List は登録済みの点検員一覧を表示する。
// GET /inspectors
func (h *DirectoryHandler) List(w http.ResponseWriter, r *http.Request) {
	providers, err := h.service.ListProviders(r.Context())
	if err != nil {
		serverError(w, "failed to list inspectors", err)
		return
	}

	page := h.newPage(r, "Inspectors")
	page.Providers = providers
	h.render(w, view.PageProviders, page)
}

// Profile は点検員のプロフィールを表示する。
// IDが不正な場合や点検員でない場合は404を返す。
// GET /inspectors/{id}
func (h *DirectoryHandler) Profile(w http.ResponseWriter, r *http.Request) {
	providerID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		middleware.WriteNotFound(w)
		return
	}

	profile, err := h.service.GetProvider(r.Context(), providerID)
	if err != nil {
		if model.HasCode(err, model.ErrCodeNotFound) {
			middleware.WriteNotFound(w)
			return
		}
		serverError(w, "failed to get inspector", err)
		return
	}

	page := h.newPage(r, profile.Name)
	page.Provider = profile
	h.render(w, view.PageProviderProfile, page)
}
