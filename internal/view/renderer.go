// Package view はHTMLページの描画と静的ファイルの配信を提供する。
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"strings"

	"github.com/hitoshi/homeinspect/internal/model"
	"github.com/hitoshi/homeinspect/internal/security"
)

// ページ名（テンプレートファイル名から拡張子を除いたもの）
const (
	PageIndex              = "index"
	PageRegister           = "register"
	PageLogin              = "login"
	PageDashboardRequester = "dashboard_client"
	PageDashboardProvider  = "dashboard_inspector"
	PageBookingDetail      = "booking_detail"
	PageProviders          = "inspectors"
	PageProviderProfile    = "inspector_profile"
)

//go:embed templates/*.html
var templatesFS embed.FS

const layoutFile = "layout.html"

// Renderer はページ名とデータからHTMLを書き出すインターフェース。
type Renderer interface {
	Render(w io.Writer, name string, data any) error
}

// Page は全ページ共通のテンプレートデータ。
type Page struct {
	Title string
	User  *model.User // 匿名の場合はnil
	Error string      // フォーム上部に表示するメッセージ
	Year  int

	Bookings []*model.Booking        // 依頼者ダッシュボード
	Pending  []*model.PendingBooking // 点検員ダッシュボード

	Booking   *model.BookingDetail     // 予約詳細
	Providers []*model.ProviderProfile // 点検員一覧
	Provider  *model.ProviderProfile   // 点検員プロフィール
}

// TemplateRenderer はhtml/templateによるRendererの実装。
// ページごとにlayoutと組み合わせたテンプレートを起動時に構築する。
type TemplateRenderer struct {
	pages map[string]*template.Template
}

// NewTemplateRenderer は埋め込みテンプレートからTemplateRendererを生成する。
func NewTemplateRenderer() (*TemplateRenderer, error) {
	return newTemplateRenderer(templatesFS, "templates")
}

// templateFuncs はテンプレートから呼び出せる関数を返す。
// multiline は複数行の自由記述を改行を保ったまま表示する。
func templateFuncs() template.FuncMap {
	formatter := security.NewTextFormatter()
	return template.FuncMap{
		"multiline": formatter.FormatMultiline,
	}
}

func newTemplateRenderer(fsys fs.FS, dir string) (*TemplateRenderer, error) {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open template dir: %w", err)
	}

	entries, err := fs.ReadDir(sub, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	funcs := templateFuncs()
	pages := make(map[string]*template.Template)
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == layoutFile || !strings.HasSuffix(name, ".html") {
			continue
		}
		t, err := template.New(layoutFile).Funcs(funcs).ParseFS(sub, layoutFile, name)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		pages[strings.TrimSuffix(name, ".html")] = t
	}
	return &TemplateRenderer{pages: pages}, nil
}

// Render は指定ページを描画する。
// 実行途中の失敗で壊れたHTMLを返さないよう、一度バッファに書き出してからコピーする。
func (r *TemplateRenderer) Render(w io.Writer, name string, data any) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// compile-time interface check
var _ Renderer = (*TemplateRenderer)(nil)
