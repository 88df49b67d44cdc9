package middleware

import (
	"net/http"
)

// WritePlainError はtext/plainのエラーレスポンスを書き込む。
// HTMLページを持たないエラー（404、500）で共通に使う。
func WritePlainError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(statusCode)
	_, _ = w.Write([]byte(message))
}

// WriteNotFound は404 "Not found" を書き込む。
func WriteNotFound(w http.ResponseWriter) {
	WritePlainError(w, http.StatusNotFound, "Not found")
}

// WriteInternalServerError は内部サーバーエラーのレスポンスを書き込む。
// 詳細はログのみに記録し、ユーザーには一般的なメッセージを返す。
func WriteInternalServerError(w http.ResponseWriter) {
	WritePlainError(w, http.StatusInternalServerError, "Internal server error")
}
