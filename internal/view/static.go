package view

import (
	"embed"
	"io/fs"
	"net/http"
	"path"
	"strings"
)

//go:embed static
var staticFS embed.FS

// contentTypes は拡張子ごとのContent-Type。未登録はapplication/octet-stream。
var contentTypes = map[string]string{
	".css":  "text/css",
	".js":   "application/javascript",
	".png":  "image/png",
	".jpg":  "image/jpg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
}

// ContentTypeFor はファイル名の拡張子からContent-Typeを決める。
func ContentTypeFor(name string) string {
	if ct, ok := contentTypes[strings.ToLower(path.Ext(name))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// staticHandler は埋め込み静的ファイルを配信する。
type staticHandler struct {
	files    fs.FS
	prefix   string
	notFound http.Handler
}

// NewStaticHandler はprefix配下のパスを埋め込み静的ファイルにマッピングするハンドラーを返す。
// 存在しないファイルやディレクトリはnotFoundに委譲する。
func NewStaticHandler(prefix string, notFound http.Handler) http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// 埋め込みディレクトリが存在しないのはビルドの誤り
		panic(err)
	}
	return &staticHandler{files: sub, prefix: prefix, notFound: notFound}
}

func (h *staticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, h.prefix)
	name = strings.TrimPrefix(path.Clean("/"+name), "/")
	if name == "" || !fs.ValidPath(name) {
		h.notFound.ServeHTTP(w, r)
		return
	}

	data, err := fs.ReadFile(h.files, name)
	if err != nil {
		h.notFound.ServeHTTP(w, r)
		return
	}

	w.Header().Set("Content-Type", ContentTypeFor(name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
