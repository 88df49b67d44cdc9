// Package security は利用者が入力した自由記述テキストを安全に表示する機能を提供する。
//
// 保存時には入力を加工しない。表示時に改行を保ったままHTMLへ変換し、
// 許可した要素（<br>）以外が混入しないことをbluemondayで保証する。
package security

import (
	"html"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// TextFormatter は保存済みテキストの表示用HTML変換のインターフェース。
type TextFormatter interface {
	// FormatMultiline はテキストをエスケープし、改行を<br>に置き換えたHTMLを返す。
	// 返り値から元のテキストを復元できる（可逆）。
	FormatMultiline(text string) template.HTML
}

// multilineFormatter はTextFormatterの実装。
// bluemondayのポリシーはスレッドセーフなので共有して使う。
type multilineFormatter struct {
	policy *bluemonday.Policy
}

// NewTextFormatter は<br>のみを許可するポリシーでTextFormatterを生成する。
func NewTextFormatter() TextFormatter {
	policy := bluemonday.NewPolicy()
	policy.AllowElements("br")
	return &multilineFormatter{policy: policy}
}

// FormatMultiline はテキストを改行区切りでエスケープし、<br>で連結する。
func (f *multilineFormatter) FormatMultiline(text string) template.HTML {
	if text == "" {
		return ""
	}
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i, line := range lines {
		lines[i] = html.EscapeString(line)
	}
	return template.HTML(f.policy.Sanitize(strings.Join(lines, "<br>")))
}
